package formatter

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/cinetx/internal/models"
	tu "github.com/desertthunder/cinetx/internal/testing"
)

func TestStars(t *testing.T) {
	cases := []struct {
		name   string
		rating float64
		want   string
	}{
		{"Zero", 0, "☆☆☆☆☆"},
		{"Full", 5, "★★★★★"},
		{"Rounds Half Up", 3.5, "★★★★☆"},
		{"Rounds Down", 3.4, "★★★☆☆"},
		{"Clamps Negative", -2, "☆☆☆☆☆"},
		{"Clamps Above Max", 9.7, "★★★★★"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Stars(tc.rating); got != tc.want {
				t.Errorf("Stars(%v) = %q, want %q", tc.rating, got, tc.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		name      string
		first     string
		last      string
		want      string
	}{
		{"Both Names", "ana", "garcía", "AG"},
		{"First Only", "Ana", "", "A"},
		{"Last Only", "", "García", "G"},
		{"Whitespace Only", "  ", " ", "?"},
		{"Empty", "", "", "?"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Initials(tc.first, tc.last); got != tc.want {
				t.Errorf("Initials(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
			}
		})
	}
}

func TestCommentInitials(t *testing.T) {
	t.Run("Live Author", func(t *testing.T) {
		author := models.AuthorRef{User: models.User{FirstName: "Ana", LastName: "García"}}
		if got := CommentInitials(author); got != "AG" {
			t.Errorf("expected 'AG', got %q", got)
		}
	})

	t.Run("Deleted Author", func(t *testing.T) {
		author := models.AuthorRef{Deleted: true}
		if got := CommentInitials(author); got != "?" {
			t.Errorf("expected placeholder '?', got %q", got)
		}
	})
}

func TestFormatTimestamp(t *testing.T) {
	t.Run("Valid RFC3339", func(t *testing.T) {
		got := FormatTimestamp("2026-08-15T10:30:00Z")
		if got == "" {
			t.Fatal("expected formatted timestamp, got empty string")
		}
		if !strings.Contains(got, "Aug 2026") {
			t.Errorf("expected short date format, got %q", got)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if got := FormatTimestamp("yesterday"); got != "" {
			t.Errorf("expected empty string for malformed input, got %q", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := FormatTimestamp(""); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestRelativeTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"Just Now", "2026-08-15T11:59:40Z", "hace un momento"},
		{"Minutes", "2026-08-15T11:45:00Z", "hace 15 min"},
		{"Hours", "2026-08-15T09:00:00Z", "hace 3 h"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RelativeTimestamp(tc.raw, now); got != tc.want {
				t.Errorf("RelativeTimestamp(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}

	t.Run("Older Falls Back To Date", func(t *testing.T) {
		got := RelativeTimestamp("2026-08-01T12:00:00Z", now)
		if !strings.Contains(got, "Aug 2026") {
			t.Errorf("expected absolute date for old timestamps, got %q", got)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if got := RelativeTimestamp("???", now); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func sampleExport() *models.FavoritesExport {
	return &models.FavoritesExport{
		Owner: models.User{ID: "u1", FirstName: "Ana", LastName: "García"},
		Movies: []models.Movie{
			{ID: "m1", Title: "Dune", Genres: []string{"Sci-Fi", "Drama"}, Duration: 155, AverageRating: 4.3, TotalRatings: 120},
			{ID: "m2", Title: "Heat", Duration: 170, AverageRating: 4.8, TotalRatings: 310},
		},
		ExportedAt: "2026-08-15T10:30:00Z",
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,Title,Genres,Duration,Rating,Ratings Count" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Sci-Fi; Drama") {
		t.Errorf("expected genres joined with '; ', got %q", lines[1])
	}
	if !strings.Contains(lines[1], "4.3") {
		t.Errorf("expected rating column, got %q", lines[1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "# Favoritos de Ana García") {
		t.Errorf("expected owner heading, got %q", text)
	}
	if !strings.Contains(text, "**Películas**: 2") {
		t.Errorf("expected movie count, got %q", text)
	}
	if !strings.Contains(text, "1. Dune (Sci-Fi, Drama)") {
		t.Errorf("expected numbered list entry, got %q", text)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Favoritos: Ana García") || !strings.Contains(text, "2. Heat") {
		t.Errorf("unexpected text export: %q", text)
	}
}

func TestWriteCSVExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ana")

	result, err := WriteCSVExport(sampleExport(), base)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, result.MoviesFile)
	tu.AssertFileExists(t, result.MetadataFile)

	if result.MoviesFile != base+"_favorites.csv" {
		t.Errorf("unexpected movies file path %q", result.MoviesFile)
	}
	metadata := tu.MustReadFile(t, result.MetadataFile)
	if !strings.Contains(metadata, "Ana") {
		t.Errorf("expected owner metadata, got %q", metadata)
	}
}

func TestWriteMarkdownExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")

	result, err := WriteMarkdownExport(sampleExport(), dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertDirExists(t, dir)
	if len(result.Files) != 1 {
		t.Fatalf("expected one file, got %d", len(result.Files))
	}
	readme := tu.MustReadFile(t, result.Files[0])
	if !strings.Contains(readme, "# Favoritos de Ana García") {
		t.Errorf("unexpected README content: %q", readme)
	}
}

func TestWriteTextExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favoritos.txt")

	written, err := WriteTextExport(sampleExport(), path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if written != path {
		t.Errorf("expected path echoed back, got %q", written)
	}
	tu.AssertFileExists(t, path)
}

func TestDownloadPoster(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		data, err := DownloadPoster(server.URL + "/poster.jpg")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("unexpected poster data %q", string(data))
		}
	})

	t.Run("Empty URL", func(t *testing.T) {
		if _, err := DownloadPoster(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Non-200 Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadPoster(server.URL); err == nil {
			t.Error("expected error for missing poster")
		}
	})
}
