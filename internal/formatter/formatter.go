// package formatter provides presentation helpers (star meters, author
// initials, localized timestamps) and functions to export favorites to
// various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

const (
	starFilled = "★"
	starEmpty  = "☆"
	starSlots  = 5
)

// Stars renders a five-slot star meter for a rating. The filled count is the
// rating rounded to the nearest integer, clamped to [0, 5], so 3.5 renders
// four filled stars and a malformed negative rating renders none.
func Stars(rating float64) string {
	filled := int(math.Round(rating))
	if filled < 0 {
		filled = 0
	}
	if filled > starSlots {
		filled = starSlots
	}

	var b strings.Builder
	for i := 0; i < starSlots; i++ {
		if i < filled {
			b.WriteString(starFilled)
		} else {
			b.WriteString(starEmpty)
		}
	}
	return b.String()
}

// Initials derives an avatar label from a first and last name: the upper-cased
// first rune of each. Missing parts degrade to a single initial, and a fully
// missing name yields "?".
func Initials(firstName, lastName string) string {
	var b strings.Builder
	for _, name := range []string{firstName, lastName} {
		for _, r := range strings.TrimSpace(name) {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// CommentInitials derives the avatar label for a comment author. Deleted
// authors get the placeholder rather than initials of the placeholder text.
func CommentInitials(author models.AuthorRef) string {
	if author.Deleted {
		return "?"
	}
	return Initials(author.User.FirstName, author.User.LastName)
}

// FormatTimestamp renders an RFC 3339 timestamp as a short local date
// ("02 Jan 2006, 15:04"). Malformed input renders as the empty string; a
// comment with a broken timestamp shows no date rather than an error.
func FormatTimestamp(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}
	return parsed.Local().Format("02 Jan 2006, 15:04")
}

// RelativeTimestamp renders how long ago a timestamp was, for comment rows.
func RelativeTimestamp(raw string, now time.Time) string {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}

	elapsed := now.Sub(parsed)
	switch {
	case elapsed < time.Minute:
		return "hace un momento"
	case elapsed < time.Hour:
		return fmt.Sprintf("hace %d min", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("hace %d h", int(elapsed.Hours()))
	default:
		return FormatTimestamp(raw)
	}
}

// ExportToCSV converts a FavoritesExport to CSV format with columns: ID, Title, Genres, Duration, Rating, Ratings Count
func ExportToCSV(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genres", "Duration", "Rating", "Ratings Count"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			movie.ID,
			movie.Title,
			strings.Join(movie.Genres, "; "),
			shared.FormatDuration(movie.Duration),
			strconv.FormatFloat(movie.AverageRating, 'f', 1, 64),
			strconv.Itoa(movie.TotalRatings),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FavoritesExport to Markdown format
func ExportToMarkdown(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Favoritos de %s\n\n", export.Owner.DisplayName()))
	buf.WriteString(fmt.Sprintf("**Películas**: %d\n", len(export.Movies)))
	if export.ExportedAt != "" {
		buf.WriteString(fmt.Sprintf("**Exportado**: %s\n", FormatTimestamp(export.ExportedAt)))
	}
	buf.WriteString("\n## Películas\n\n")

	for i, movie := range export.Movies {
		genrePart := ""
		if len(movie.Genres) > 0 {
			genrePart = fmt.Sprintf(" (%s)", strings.Join(movie.Genres, ", "))
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s — %s %s\n", i+1, movie.Title, genrePart, Stars(movie.AverageRating), shared.FormatDuration(movie.Duration)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FavoritesExport to plain text format
func ExportToText(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Favoritos: %s\n", export.Owner.DisplayName()))
	buf.WriteString(fmt.Sprintf("Películas: %d\n\n", len(export.Movies)))

	for i, movie := range export.Movies {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, movie.Title, Stars(movie.AverageRating)))
	}

	return buf.Bytes(), nil
}

// DownloadPoster downloads a movie poster from the given URL and returns the raw bytes
func DownloadPoster(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download poster: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read poster data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of the export owner
func ToMetadataJSON(owner models.User) ([]byte, error) {
	return shared.MarshalJSON(owner, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports favorites to CSV format with an accompanying metadata JSON file.
//
// Defaults to the owner's id as the base filename & creates {base}_favorites.csv and {base}_metadata.json
func WriteCSVExport(export *models.FavoritesExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Owner.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_favorites.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		MoviesFile:   moviesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports favorites to Markdown format in a dedicated directory.
//
// Directory name defaults to the owner's id. Creates {dir}/README.md.
func WriteMarkdownExport(export *models.FavoritesExport, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Owner.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports favorites to a plain text file at the given path.
func WriteTextExport(export *models.FavoritesExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = export.Owner.ID + "_favorites.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text export: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
