package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/cinetx/internal/models"
)

// genreSeparator joins the genre list into a single column. Genre names on
// the platform never contain the pipe character.
const genreSeparator = "|"

// MovieCacheRepository persists catalog snapshots in the cached_movies table.
//
// Rows mirror the popular-movies response; a refresh clears and repopulates
// the table so stale entries never linger past a sync.
type MovieCacheRepository struct {
	db *sql.DB
}

// NewMovieCacheRepository creates a MovieCacheRepository with the given database connection
func NewMovieCacheRepository(db *sql.DB) *MovieCacheRepository {
	return &MovieCacheRepository{db: db}
}

// Create inserts a cached movie row with a generated sequence number
func (r *MovieCacheRepository) Create(movie *models.Movie) error {
	if movie.ID == "" {
		return fmt.Errorf("movie id is required")
	}

	sequence, err := NextSequence(r.db, "cached_movies")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO cached_movies (id, sequence, title, description, genres, duration, poster, video_url, average_rating, total_ratings, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		movie.ID,
		sequence,
		movie.Title,
		movie.Description,
		strings.Join(movie.Genres, genreSeparator),
		movie.Duration,
		movie.Poster,
		movie.VideoURL,
		movie.AverageRating,
		movie.TotalRatings,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cached movie: %w", err)
	}

	return nil
}

// Get retrieves a cached movie by id
func (r *MovieCacheRepository) Get(id string) (*models.Movie, error) {
	query := `
		SELECT id, title, description, genres, duration, poster, video_url, average_rating, total_ratings
		FROM cached_movies
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update replaces a cached movie's fields, keeping its sequence position
func (r *MovieCacheRepository) Update(movie *models.Movie) error {
	query := `
		UPDATE cached_movies
		SET title = ?, description = ?, genres = ?, duration = ?, poster = ?, video_url = ?, average_rating = ?, total_ratings = ?, fetched_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		movie.Title,
		movie.Description,
		strings.Join(movie.Genres, genreSeparator),
		movie.Duration,
		movie.Poster,
		movie.VideoURL,
		movie.AverageRating,
		movie.TotalRatings,
		time.Now(),
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cached movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("cached movie not found: %s", movie.ID)
	}

	return nil
}

// Delete removes a cached movie by id
func (r *MovieCacheRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM cached_movies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cached movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("cached movie not found: %s", id)
	}

	return nil
}

// List retrieves cached movies matching the given criteria in catalog order.
// Supported criteria: "title" (substring match), "genre" (exact genre).
func (r *MovieCacheRepository) List(criteria map[string]any) ([]*models.Movie, error) {
	query := `
		SELECT id, title, description, genres, duration, poster, video_url, average_rating, total_ratings
		FROM cached_movies
		WHERE 1 = 1
	`

	args := []any{}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+title+"%")
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND (genres = ? OR genres LIKE ? OR genres LIKE ? OR genres LIKE ?)"
		args = append(args,
			genre,
			genre+genreSeparator+"%",
			"%"+genreSeparator+genre+genreSeparator+"%",
			"%"+genreSeparator+genre,
		)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached movies: %w", err)
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		movie, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// Replace clears the table and inserts the given snapshot in order,
// restarting the sequence so catalog position survives the rebuild.
func (r *MovieCacheRepository) Replace(movies []models.Movie) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cached_movies"); err != nil {
		return fmt.Errorf("failed to clear cached movies: %w", err)
	}
	if _, err := tx.Exec("UPDATE cached_movies_sequence SET value = 0 WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to reset sequence: %w", err)
	}

	query := `
		INSERT INTO cached_movies (id, sequence, title, description, genres, duration, poster, video_url, average_rating, total_ratings, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	for i, movie := range movies {
		if movie.ID == "" {
			continue
		}
		_, err := tx.Exec(query,
			movie.ID,
			i+1,
			movie.Title,
			movie.Description,
			strings.Join(movie.Genres, genreSeparator),
			movie.Duration,
			movie.Poster,
			movie.VideoURL,
			movie.AverageRating,
			movie.TotalRatings,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cached movie: %w", err)
		}
	}

	if _, err := tx.Exec("UPDATE cached_movies_sequence SET value = ? WHERE id = 1", len(movies)); err != nil {
		return fmt.Errorf("failed to advance sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache rebuild: %w", err)
	}

	return nil
}

// Count returns the number of cached movies
func (r *MovieCacheRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM cached_movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached movies: %w", err)
	}
	return count, nil
}

func (r *MovieCacheRepository) scanOne(row *sql.Row) (*models.Movie, error) {
	var (
		movie  models.Movie
		genres string
	)

	err := row.Scan(&movie.ID, &movie.Title, &movie.Description, &genres, &movie.Duration, &movie.Poster, &movie.VideoURL, &movie.AverageRating, &movie.TotalRatings)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cached movie not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached movie: %w", err)
	}

	if genres != "" {
		movie.Genres = strings.Split(genres, genreSeparator)
	}
	return &movie, nil
}

func (r *MovieCacheRepository) scanRow(rows *sql.Rows) (*models.Movie, error) {
	var (
		movie  models.Movie
		genres string
	)

	err := rows.Scan(&movie.ID, &movie.Title, &movie.Description, &genres, &movie.Duration, &movie.Poster, &movie.VideoURL, &movie.AverageRating, &movie.TotalRatings)
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached movie: %w", err)
	}

	if genres != "" {
		movie.Genres = strings.Split(genres, genreSeparator)
	}
	return &movie, nil
}
