// package tasks implements long-running sync operations against the Cinema
// Platform backend.
//
// The core abstraction is SyncEngine, which orchestrates catalog refreshes,
// account dumps, and bulk poster downloads. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

// CatalogSource fetches the remote movie catalog.
// [services.MovieService] satisfies this interface.
type CatalogSource interface {
	Popular(ctx context.Context) ([]models.Movie, error)
}

// FavoritesSource fetches the viewer's favorites.
// [services.FavoriteService] satisfies this interface.
type FavoritesSource interface {
	List(ctx context.Context) ([]models.Favorite, error)
}

// ProfileSource fetches the viewer's account profile.
// [services.AuthService] satisfies this interface.
type ProfileSource interface {
	Profile(ctx context.Context) (*models.User, error)
}

// RatingSource fetches the viewer's rating for one movie.
// [services.RatingService] satisfies this interface.
type RatingSource interface {
	Mine(ctx context.Context, movieID string) (*models.Rating, error)
}

// CommentsSource fetches a movie's comment thread.
// [services.CommentService] satisfies this interface.
type CommentsSource interface {
	ForMovie(ctx context.Context, movieID string) ([]models.Comment, error)
}

// MovieCache persists catalog snapshots locally.
// [repositories.MovieCacheRepository] satisfies this interface.
type MovieCache interface {
	Replace(movies []models.Movie) error
}

// FavoriteCache persists favorites snapshots locally.
// [repositories.FavoriteCacheRepository] satisfies this interface.
type FavoriteCache interface {
	Replace(favorites []models.Favorite) error
}

// RefreshResult summarizes one cache refresh.
type RefreshResult struct {
	MovieCount    int  // Catalog entries cached
	FavoriteCount int  // Favorites cached
	Favorites     bool // Whether the favorites pass ran (requires auth)
}

// MovieDump bundles one favorite movie with the viewer's social state on it.
type MovieDump struct {
	Movie    *models.Movie    `json:"movie,omitempty"`
	MovieID  string           `json:"movieId"`
	Rating   *models.Rating   `json:"rating,omitempty"`
	Comments []models.Comment `json:"comments,omitempty"`
}

// EndpointResult records a failed fetch during a dump.
type EndpointResult struct {
	Endpoint string
	Error    error
}

// DumpResult contains the viewer's full account snapshot.
type DumpResult struct {
	Profile   *models.User     `json:"profile"`
	Favorites []MovieDump      `json:"favorites"`
	Errors    []EndpointResult `json:"-"`
}

// SyncEngine orchestrates refreshes and dumps over the platform services and
// the local sqlite cache.
type SyncEngine struct {
	catalog   CatalogSource
	favorites FavoritesSource
	profile   ProfileSource
	ratings   RatingSource
	comments  CommentsSource

	movieCache    MovieCache
	favoriteCache FavoriteCache
}

// NewSyncEngine creates a SyncEngine with the provided sources and caches.
// Caches may be nil; refresh then only reports counts.
func NewSyncEngine(catalog CatalogSource, favorites FavoritesSource, profile ProfileSource, ratings RatingSource, comments CommentsSource, movieCache MovieCache, favoriteCache FavoriteCache) *SyncEngine {
	return &SyncEngine{
		catalog:       catalog,
		favorites:     favorites,
		profile:       profile,
		ratings:       ratings,
		comments:      comments,
		movieCache:    movieCache,
		favoriteCache: favoriteCache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *SyncEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Refresh pulls the catalog (and, when authenticated, the favorites list)
// and rebuilds the local cache tables from the snapshots.
func (e *SyncEngine) Refresh(ctx context.Context, progress chan<- ProgressUpdate, includeFavorites bool) (*RefreshResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}

	result := &RefreshResult{}

	e.sendProgress(progress, fetchCatalogUpdate(1, 2))
	movies, err := e.catalog.Popular(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	result.MovieCount = len(movies)

	if e.movieCache != nil {
		e.sendProgress(progress, cacheCatalogUpdate(2, 2, len(movies)))
		if err := e.movieCache.Replace(movies); err != nil {
			return result, fmt.Errorf("failed to cache catalog: %w", err)
		}
	}

	if !includeFavorites || e.favorites == nil {
		return result, nil
	}

	e.sendProgress(progress, fetchFavoritesUpdate(1, 2))
	favorites, err := e.favorites.List(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	result.Favorites = true
	result.FavoriteCount = len(favorites)

	if e.favoriteCache != nil {
		e.sendProgress(progress, cacheFavoritesUpdate(2, 2, len(favorites)))
		if err := e.favoriteCache.Replace(favorites); err != nil {
			return result, fmt.Errorf("failed to cache favorites: %w", err)
		}
	}

	return result, nil
}

// Dump fetches the viewer's full account snapshot: profile, favorites, and
// per-favorite ratings and comment threads. Per-movie fetch failures are
// collected rather than aborting the dump.
func (e *SyncEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.profile == nil || e.favorites == nil {
		return nil, fmt.Errorf("%w: account services not initialized", shared.ErrMissingConfig)
	}

	result := &DumpResult{Errors: []EndpointResult{}}

	e.sendProgress(progress, fetchProfileUpdate(1, 2))
	profile, err := e.profile.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	result.Profile = profile

	e.sendProgress(progress, fetchFavoritesUpdate(2, 2))
	favorites, err := e.favorites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}

	total := len(favorites)
	for i, favorite := range favorites {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		dump := MovieDump{MovieID: favorite.MovieID, Movie: favorite.Movie}

		e.sendProgress(progress, fetchSocialUpdate(i+1, total, favorite.MovieID))

		if e.ratings != nil {
			rating, err := e.ratings.Mine(ctx, favorite.MovieID)
			if err != nil {
				result.Errors = append(result.Errors, EndpointResult{
					Endpoint: fmt.Sprintf("ratings/%s", favorite.MovieID),
					Error:    err,
				})
			} else {
				dump.Rating = rating
			}
		}

		if e.comments != nil {
			comments, err := e.comments.ForMovie(ctx, favorite.MovieID)
			if err != nil {
				result.Errors = append(result.Errors, EndpointResult{
					Endpoint: fmt.Sprintf("comments/%s", favorite.MovieID),
					Error:    err,
				})
			} else {
				dump.Comments = comments
			}
		}

		result.Favorites = append(result.Favorites, dump)
	}

	return result, nil
}
