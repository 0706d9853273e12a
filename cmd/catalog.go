package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinetx/internal/formatter"
	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/repositories"
	"github.com/desertthunder/cinetx/internal/services"
	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/desertthunder/cinetx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogList lists popular movies, optionally filtered client-side.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	query := cmd.String("search")

	var movies []models.Movie
	if cmd.Bool("cached") {
		cached, err := r.cachedMovies(cmd.String("config"))
		if err != nil {
			return err
		}
		movies = cached
	} else {
		fetched, err := r.movies.Popular(ctx)
		if err != nil {
			return err
		}
		movies = fetched
	}

	if query != "" {
		movies = services.FilterMovies(movies, query)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Películas populares (%d)", len(movies)))
	for i, movie := range movies {
		r.writePlain("%d. %s %s %s\n", i+1, movie.Title, formatter.Stars(movie.AverageRating), shared.FormatDuration(movie.Duration))
	}
	if query != "" {
		return r.writePlainln("%d resultados para %q", len(movies), query)
	}
	return nil
}

// CatalogRefresh syncs the catalog (and favorites, when a session exists)
// into the local sqlite cache.
func (r *Runner) CatalogRefresh(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	db, err := r.openDatabase(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	movieCache := repositories.NewMovieCacheRepository(db)
	favoriteCache := repositories.NewFavoriteCacheRepository(db)
	engine := tasks.NewSyncEngine(r.movies, r.favorites, r.auth, r.ratings, r.comments, movieCache, favoriteCache)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
		close(done)
	}()

	includeFavorites := r.sessions.Token() != ""
	result, err := engine.Refresh(ctx, progress, includeFavorites)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Catálogo sincronizado: %d películas\n", result.MovieCount)
	if result.Favorites {
		r.writePlain("✓ Favoritos sincronizados: %d\n", result.FavoriteCount)
	}
	return nil
}

// CatalogPosters downloads posters for the current catalog concurrently.
func (r *Runner) CatalogPosters(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.movies.Popular(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range progress {
			r.logger.Info(update.Message)
		}
		close(done)
	}()

	result, err := r.engine.DownloadPosters(ctx, progress, movies, tasks.PosterDownloadOpts{
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Pósters descargados: %d/%d en %s\n", result.Downloaded, result.Total, result.OutputDirectory)
	if result.Failed > 0 {
		r.writePlain("✗ Fallidos: %d\n", result.Failed)
	}
	return nil
}

// cachedMovies reads the catalog from the local cache.
func (r *Runner) cachedMovies(configPath string) ([]models.Movie, error) {
	db, err := r.openDatabase(configPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	cached, err := repositories.NewMovieCacheRepository(db).List(map[string]any{})
	if err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(cached))
	for _, movie := range cached {
		movies = append(movies, *movie)
	}
	return movies, nil
}
