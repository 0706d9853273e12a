package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/cinetx/internal/models"
)

// FavoriteCacheRepository persists the viewer's favorites snapshot in the
// cached_favorites table, keyed by movie id the same way the in-memory
// membership set is.
type FavoriteCacheRepository struct {
	db *sql.DB
}

// NewFavoriteCacheRepository creates a FavoriteCacheRepository with the given database connection
func NewFavoriteCacheRepository(db *sql.DB) *FavoriteCacheRepository {
	return &FavoriteCacheRepository{db: db}
}

// Put inserts or updates the cached row for one favorite
func (r *FavoriteCacheRepository) Put(favorite models.Favorite) error {
	if favorite.MovieID == "" {
		return fmt.Errorf("movie id is required")
	}

	title := ""
	if favorite.Movie != nil {
		title = favorite.Movie.Title
	}

	query := `
		INSERT INTO cached_favorites (movie_id, favorite_id, title, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(movie_id) DO UPDATE SET favorite_id = excluded.favorite_id, title = excluded.title, fetched_at = excluded.fetched_at
	`

	if _, err := r.db.Exec(query, favorite.MovieID, favorite.ID, title, time.Now()); err != nil {
		return fmt.Errorf("failed to cache favorite: %w", err)
	}
	return nil
}

// Remove drops the cached row for a movie. Removing an absent row is not an error.
func (r *FavoriteCacheRepository) Remove(movieID string) error {
	if _, err := r.db.Exec("DELETE FROM cached_favorites WHERE movie_id = ?", movieID); err != nil {
		return fmt.Errorf("failed to remove cached favorite: %w", err)
	}
	return nil
}

// List returns all cached favorites ordered by title
func (r *FavoriteCacheRepository) List() ([]models.Favorite, error) {
	rows, err := r.db.Query("SELECT movie_id, favorite_id, title FROM cached_favorites ORDER BY title ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query cached favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var (
			favorite models.Favorite
			title    string
		)
		if err := rows.Scan(&favorite.MovieID, &favorite.ID, &title); err != nil {
			return nil, fmt.Errorf("failed to scan cached favorite: %w", err)
		}
		if title != "" {
			favorite.Movie = &models.Movie{ID: favorite.MovieID, Title: title}
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// Replace clears the table and inserts the given snapshot
func (r *FavoriteCacheRepository) Replace(favorites []models.Favorite) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cached_favorites"); err != nil {
		return fmt.Errorf("failed to clear cached favorites: %w", err)
	}

	query := "INSERT INTO cached_favorites (movie_id, favorite_id, title, fetched_at) VALUES (?, ?, ?, ?)"
	now := time.Now()
	for _, favorite := range favorites {
		if favorite.MovieID == "" {
			continue
		}
		title := ""
		if favorite.Movie != nil {
			title = favorite.Movie.Title
		}
		if _, err := tx.Exec(query, favorite.MovieID, favorite.ID, title, now); err != nil {
			return fmt.Errorf("failed to insert cached favorite: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache rebuild: %w", err)
	}

	return nil
}

// Contains reports whether a movie has a cached favorite row
func (r *FavoriteCacheRepository) Contains(movieID string) (bool, error) {
	var one int
	err := r.db.QueryRow("SELECT 1 FROM cached_favorites WHERE movie_id = ?", movieID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query cached favorite: %w", err)
	}
	return true, nil
}
