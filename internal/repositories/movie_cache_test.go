package repositories

import (
	"strings"
	"testing"

	"github.com/desertthunder/cinetx/internal/models"
)

func sampleMovie(id, title string, genres ...string) *models.Movie {
	return &models.Movie{
		ID:            id,
		Title:         title,
		Description:   "una película",
		Genres:        genres,
		Duration:      120,
		AverageRating: 4.2,
		TotalRatings:  50,
	}
}

func TestMovieCacheRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))

		if err := repo.Create(sampleMovie("m1", "Dune", "Sci-Fi", "Drama")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		movie, err := repo.Get("m1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if movie.Title != "Dune" {
			t.Errorf("expected title 'Dune', got %q", movie.Title)
		}
		if len(movie.Genres) != 2 || movie.Genres[0] != "Sci-Fi" || movie.Genres[1] != "Drama" {
			t.Errorf("expected genres round-tripped, got %v", movie.Genres)
		}
		if movie.AverageRating != 4.2 || movie.TotalRatings != 50 {
			t.Errorf("unexpected rating columns: %+v", movie)
		}
	})

	t.Run("Create Requires ID", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))

		if err := repo.Create(&models.Movie{Title: "Sin id"}); err == nil {
			t.Error("expected error for missing id")
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))

		if _, err := repo.Get("nope"); err == nil {
			t.Error("expected error for missing movie")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))
		repo.Create(sampleMovie("m1", "Dune"))

		updated := sampleMovie("m1", "Dune: Part Two", "Sci-Fi")
		if err := repo.Update(updated); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		movie, err := repo.Get("m1")
		if err != nil {
			t.Fatal(err)
		}
		if movie.Title != "Dune: Part Two" {
			t.Errorf("expected updated title, got %q", movie.Title)
		}
	})

	t.Run("Update Missing", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))

		err := repo.Update(sampleMovie("ghost", "Nada"))
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))
		repo.Create(sampleMovie("m1", "Dune"))

		if err := repo.Delete("m1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := repo.Get("m1"); err == nil {
			t.Error("expected movie gone after delete")
		}
		if err := repo.Delete("m1"); err == nil {
			t.Error("expected error deleting a missing row")
		}
	})

	t.Run("List", func(t *testing.T) {
		t.Run("Catalog Order", func(t *testing.T) {
			repo := NewMovieCacheRepository(testDB(t))
			repo.Create(sampleMovie("m1", "Zoolander"))
			repo.Create(sampleMovie("m2", "Alien"))

			movies, err := repo.List(nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(movies) != 2 || movies[0].ID != "m1" || movies[1].ID != "m2" {
				t.Errorf("expected insertion order preserved, got %+v", movies)
			}
		})

		t.Run("Title Substring", func(t *testing.T) {
			repo := NewMovieCacheRepository(testDB(t))
			repo.Create(sampleMovie("m1", "Dune"))
			repo.Create(sampleMovie("m2", "Heat"))

			movies, err := repo.List(map[string]any{"title": "un"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(movies) != 1 || movies[0].ID != "m1" {
				t.Errorf("expected only Dune, got %+v", movies)
			}
		})

		t.Run("Genre Match", func(t *testing.T) {
			repo := NewMovieCacheRepository(testDB(t))
			repo.Create(sampleMovie("m1", "Dune", "Sci-Fi", "Drama"))
			repo.Create(sampleMovie("m2", "Heat", "Crime"))
			repo.Create(sampleMovie("m3", "Arrival", "Drama", "Sci-Fi"))
			repo.Create(sampleMovie("m4", "Alien", "Sci-Fi"))

			movies, err := repo.List(map[string]any{"genre": "Sci-Fi"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(movies) != 3 {
				t.Fatalf("expected 3 Sci-Fi movies, got %d", len(movies))
			}
			for _, movie := range movies {
				if movie.ID == "m2" {
					t.Error("Crime-only movie must not match Sci-Fi")
				}
			}
		})
	})

	t.Run("Replace", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))
		repo.Create(sampleMovie("old", "Vieja"))

		snapshot := []models.Movie{
			*sampleMovie("m1", "Dune"),
			*sampleMovie("m2", "Heat"),
		}
		if err := repo.Replace(snapshot); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		movies, err := repo.List(nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(movies) != 2 || movies[0].ID != "m1" || movies[1].ID != "m2" {
			t.Errorf("expected snapshot in order, got %+v", movies)
		}

		// A create after a rebuild must continue the sequence, not collide.
		if err := repo.Create(sampleMovie("m3", "Arrival")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		movies, _ = repo.List(nil)
		if len(movies) != 3 || movies[2].ID != "m3" {
			t.Errorf("expected appended movie last, got %+v", movies)
		}
	})

	t.Run("Count", func(t *testing.T) {
		repo := NewMovieCacheRepository(testDB(t))
		repo.Create(sampleMovie("m1", "Dune"))
		repo.Create(sampleMovie("m2", "Heat"))

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if count != 2 {
			t.Errorf("expected count 2, got %d", count)
		}
	})
}
