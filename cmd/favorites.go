package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/cinetx/internal/collections"
	"github.com/desertthunder/cinetx/internal/formatter"
	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/urfave/cli/v3"
)

// membership builds a loaded favorites set for mutation commands.
func (r *Runner) membership(ctx context.Context) (*collections.Membership, error) {
	set := collections.NewMembership(r.favorites, r.sessions)
	if err := set.Load(ctx); err != nil {
		return nil, err
	}
	return set, nil
}

// FavoritesList lists the viewer's favorite movies.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	set, err := r.membership(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		favorites := make([]models.Favorite, 0, set.Len())
		for _, movieID := range set.Keys() {
			recordID, _ := set.RecordID(movieID)
			favorites = append(favorites, models.Favorite{ID: recordID, MovieID: movieID, Movie: set.Movie(movieID)})
		}
		return r.writeJSON(favorites, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Favoritos (%d)", set.Len()))
	for i, movieID := range set.Keys() {
		if movie := set.Movie(movieID); movie != nil {
			r.writePlain("%d. %s %s\n", i+1, movie.Title, formatter.Stars(movie.AverageRating))
		} else {
			r.writePlain("%d. %s\n", i+1, movieID)
		}
	}
	return nil
}

// FavoritesAdd adds a movie to favorites.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd.StringArg("movie-id"), func(ctx context.Context, set *collections.Membership, movieID string) collections.Result[models.Favorite] {
		return set.Add(ctx, movieID)
	})
}

// FavoritesRemove removes a movie from favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd.StringArg("movie-id"), func(ctx context.Context, set *collections.Membership, movieID string) collections.Result[models.Favorite] {
		return set.Remove(ctx, movieID)
	})
}

// FavoritesToggle toggles a movie's favorite membership.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd.StringArg("movie-id"), func(ctx context.Context, set *collections.Membership, movieID string) collections.Result[models.Favorite] {
		return set.Toggle(ctx, movieID)
	})
}

func (r *Runner) mutateFavorite(ctx context.Context, movieID string, mutate func(context.Context, *collections.Membership, string) collections.Result[models.Favorite]) error {
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	r.restoreSession(ctx)

	set, err := r.membership(ctx)
	if err != nil {
		return err
	}

	before := set.Contains(movieID)
	result := mutate(ctx, set, movieID)
	if result.Kind != collections.Applied {
		return result.Reason
	}

	if set.Contains(movieID) && !before {
		return r.writePlain("✓ Agregada a favoritos\n")
	}
	return r.writePlain("✓ Eliminada de favoritos\n")
}

// FavoritesExport writes the favorites list to the requested format.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	profile, err := r.auth.Profile(ctx)
	if err != nil {
		return err
	}

	set, err := r.membership(ctx)
	if err != nil {
		return err
	}

	movies := make([]models.Movie, 0, set.Len())
	for _, movieID := range set.Keys() {
		if movie := set.Movie(movieID); movie != nil {
			movies = append(movies, *movie)
		} else {
			movies = append(movies, models.Movie{ID: movieID})
		}
	}

	export := &models.FavoritesExport{
		Owner:      *profile,
		Movies:     movies,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	output := cmd.String("output")

	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exportado: %s, %s\n", result.MoviesFile, result.MetadataFile)

	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exportado: %s\n", filepath.Join(result.Directory, "README.md"))

	case "txt", "text":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exportado: %s\n", path)

	case "json":
		if output == "" {
			output = profile.ID + "_favorites.json"
		}
		data, err := shared.MarshalJSON(export, true)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write JSON export: %w", err)
		}
		return r.writePlain("✓ Exportado: %s\n", output)

	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}
