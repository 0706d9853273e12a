// Movie catalog service for the Cinema Platform backend
package services

import (
	"context"
	"strings"

	"github.com/desertthunder/cinetx/internal/models"
)

const moviesPopularPath = "/api/movies/popular"

// MovieService retrieves the public catalog. No authentication required.
type MovieService struct {
	api *APIClient
}

// NewMovieService creates a MovieService bound to the given transport.
func NewMovieService(api *APIClient) *MovieService {
	return &MovieService{api: api}
}

// Popular retrieves the popular-movies catalog listing.
func (s *MovieService) Popular(ctx context.Context) ([]models.Movie, error) {
	envelope, err := s.api.Get(ctx, moviesPopularPath, false)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Movies []models.Movie `json:"movies"`
	}
	if err := envelope.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Movies, nil
}

// FilterMovies narrows a catalog slice by a case-insensitive query over
// title, description, and genres. An empty query returns the input as-is.
func FilterMovies(movies []models.Movie, query string) []models.Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return movies
	}

	var matched []models.Movie
	for _, movie := range movies {
		if strings.Contains(strings.ToLower(movie.Title), query) ||
			strings.Contains(strings.ToLower(movie.Description), query) {
			matched = append(matched, movie)
			continue
		}
		for _, genre := range movie.Genres {
			if strings.Contains(strings.ToLower(genre), query) {
				matched = append(matched, movie)
				break
			}
		}
	}
	return matched
}
