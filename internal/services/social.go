// Favorite, comment, and rating services for the Cinema Platform backend
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/session"
	"github.com/desertthunder/cinetx/internal/shared"
)

const (
	favoritesPath    = "/api/favorites"
	ratingsPath      = "/api/ratings"
	commentsPath     = "/api/comments"
	commentsByMovie  = "/api/comments/movie/%s"
	ratingByMovie    = "/api/ratings/movie/%s/user"
	favoriteByMovie  = "/api/favorites/%s"
	commentByID      = "/api/comments/%s"
	commentForCreate = "/api/comments/%s" // keyed by movie id on POST
)

// FavoriteService manages the viewer's favorites join-records.
type FavoriteService struct {
	api      *APIClient
	sessions *session.Store
}

// NewFavoriteService creates a FavoriteService bound to the given transport and session store.
func NewFavoriteService(api *APIClient, sessions *session.Store) *FavoriteService {
	return &FavoriteService{api: api, sessions: sessions}
}

// List retrieves all of the viewer's favorites.
func (s *FavoriteService) List(ctx context.Context) ([]models.Favorite, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Get(ctx, favoritesPath, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Favorites []models.Favorite `json:"favorites"`
	}
	if err := envelope.Decode(&payload); err != nil {
		// Some revisions return the list directly in data.
		var direct []models.Favorite
		if derr := envelope.Decode(&direct); derr != nil {
			return nil, err
		}
		return direct, nil
	}
	return payload.Favorites, nil
}

// Add creates a favorite join-record for the movie and returns it.
func (s *FavoriteService) Add(ctx context.Context, movieID string) (*models.Favorite, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	body := map[string]string{"movieId": movieID}
	envelope, err := s.api.Post(ctx, favoritesPath, body, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Favorite *models.Favorite `json:"favorite"`
	}
	if err := envelope.Decode(&payload); err == nil && payload.Favorite != nil {
		return payload.Favorite, nil
	}

	var favorite models.Favorite
	if err := envelope.Decode(&favorite); err != nil {
		return nil, err
	}
	return &favorite, nil
}

// Remove deletes the favorite join-record. The endpoint is keyed by movie id,
// not by the join-record id.
func (s *FavoriteService) Remove(ctx context.Context, movieID string) error {
	if err := s.sessions.RequireAuth(); err != nil {
		return err
	}
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	_, err := s.api.Delete(ctx, fmt.Sprintf(favoriteByMovie, movieID), nil, true)
	return err
}

// CommentService manages per-movie comment threads.
type CommentService struct {
	api      *APIClient
	sessions *session.Store
}

// NewCommentService creates a CommentService bound to the given transport and session store.
func NewCommentService(api *APIClient, sessions *session.Store) *CommentService {
	return &CommentService{api: api, sessions: sessions}
}

// ForMovie retrieves a movie's comments, newest first as the server orders
// them. No authentication required; anyone can read threads.
func (s *CommentService) ForMovie(ctx context.Context, movieID string) ([]models.Comment, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	envelope, err := s.api.Get(ctx, fmt.Sprintf(commentsByMovie, movieID), false)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Comments []models.Comment `json:"comments"`
	}
	if err := envelope.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Comments, nil
}

// Create posts a comment and returns the canonical server item, including
// the server-assigned id and the author identity.
func (s *CommentService) Create(ctx context.Context, movieID, content string) (*models.Comment, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	body := map[string]string{"content": content}
	envelope, err := s.api.Post(ctx, fmt.Sprintf(commentForCreate, movieID), body, true)
	if err != nil {
		return nil, err
	}

	return decodeComment(envelope)
}

// Update edits a comment's content and returns the patched item.
func (s *CommentService) Update(ctx context.Context, commentID, content string) (*models.Comment, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}
	if commentID == "" {
		return nil, fmt.Errorf("%w: comment id", shared.ErrMissingArgument)
	}

	body := map[string]string{"content": content}
	envelope, err := s.api.Put(ctx, fmt.Sprintf(commentByID, commentID), body, true)
	if err != nil {
		return nil, err
	}

	return decodeComment(envelope)
}

// Delete removes a comment by id.
func (s *CommentService) Delete(ctx context.Context, commentID string) error {
	if err := s.sessions.RequireAuth(); err != nil {
		return err
	}
	if commentID == "" {
		return fmt.Errorf("%w: comment id", shared.ErrMissingArgument)
	}

	_, err := s.api.Delete(ctx, fmt.Sprintf(commentByID, commentID), nil, true)
	return err
}

// decodeComment accepts both response shapes the backend has shipped:
// data.comment and the comment directly in data.
func decodeComment(envelope *Envelope) (*models.Comment, error) {
	var payload struct {
		Comment *models.Comment `json:"comment"`
	}
	if err := envelope.Decode(&payload); err == nil && payload.Comment != nil {
		return payload.Comment, nil
	}

	var comment models.Comment
	if err := envelope.Decode(&comment); err != nil {
		return nil, err
	}
	if comment.ID == "" {
		return nil, fmt.Errorf("%w: comment without id", shared.ErrMalformedResponse)
	}
	return &comment, nil
}

// RatingService manages the viewer's single rating per movie.
type RatingService struct {
	api      *APIClient
	sessions *session.Store
}

// NewRatingService creates a RatingService bound to the given transport and session store.
func NewRatingService(api *APIClient, sessions *session.Store) *RatingService {
	return &RatingService{api: api, sessions: sessions}
}

// Mine retrieves the viewer's existing rating for the movie. A not-found
// response is the valid "no rating yet" state and returns (nil, nil).
func (s *RatingService) Mine(ctx context.Context, movieID string) (*models.Rating, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	envelope, err := s.api.Get(ctx, fmt.Sprintf(ratingByMovie, movieID), true)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeRating(envelope)
}

// Submit creates or replaces the viewer's rating for the movie.
func (s *RatingService) Submit(ctx context.Context, movieID string, value int) (*models.Rating, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	if err := models.ValidateRatingValue(value); err != nil {
		return nil, err
	}

	body := map[string]any{"movieId": movieID, "rating": value}
	envelope, err := s.api.Post(ctx, ratingsPath, body, true)
	if err != nil {
		return nil, err
	}

	return decodeRating(envelope)
}

// decodeRating accepts both data.rating and the rating directly in data.
func decodeRating(envelope *Envelope) (*models.Rating, error) {
	var payload struct {
		Rating *models.Rating `json:"rating"`
	}
	if err := envelope.Decode(&payload); err == nil && payload.Rating != nil {
		return payload.Rating, nil
	}

	var rating models.Rating
	if err := envelope.Decode(&rating); err != nil {
		return nil, err
	}
	return &rating, nil
}
