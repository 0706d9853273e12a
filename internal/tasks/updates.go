package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCatalog Phase = iota
	CacheCatalog
	FetchFavorites
	CacheFavorites
	FetchProfile
	FetchSocial
	DownloadPosters
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch_catalog"
	case CacheCatalog:
		return "cache_catalog"
	case FetchFavorites:
		return "fetch_favorites"
	case CacheFavorites:
		return "cache_favorites"
	case FetchProfile:
		return "fetch_profile"
	case FetchSocial:
		return "fetch_social"
	case DownloadPosters:
		return "download_posters"
	default:
		return ""
	}
}

func fetchCatalogUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    step,
		Total:   total,
		Message: "Fetching movie catalog...",
	}
}

func cacheCatalogUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching %d movies...", count),
	}
}

func fetchFavoritesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFavorites,
		Step:    step,
		Total:   total,
		Message: "Fetching favorites...",
	}
}

func cacheFavoritesUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheFavorites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching %d favorites...", count),
	}
}

func fetchProfileUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Step:    step,
		Total:   total,
		Message: "Fetching profile...",
	}
}

func fetchSocialUpdate(step, total int, movieID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSocial,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching ratings and comments for %s...", step, total, movieID),
	}
}

func downloadingPosterUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading poster: %s...", step, total, title),
	}
}

func posterCompletedUpdate(step, total int, title, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, title, path),
	}
}

func posterFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}
