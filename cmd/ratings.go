package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinetx/internal/collections"
	"github.com/desertthunder/cinetx/internal/formatter"
	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/urfave/cli/v3"
)

// RatingsGet shows the viewer's rating for a movie. An empty slot is a valid
// state, not an error.
func (r *Runner) RatingsGet(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.StringArg("movie-id")
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	r.restoreSession(ctx)

	slot := collections.NewRatingSlot(movieID, r.ratings, r.sessions)
	if err := slot.Load(ctx); err != nil {
		return err
	}

	stored := slot.Stored()
	if stored == nil {
		return r.writePlain("Sin calificación todavía\n")
	}

	return r.writePlain("Tu calificación: %s (%d)\n", formatter.Stars(float64(stored.Value)), stored.Value)
}

// RatingsSet creates or replaces the viewer's rating for a movie.
func (r *Runner) RatingsSet(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.StringArg("movie-id")
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	r.restoreSession(ctx)

	slot := collections.NewRatingSlot(movieID, r.ratings, r.sessions)
	if err := slot.Load(ctx); err != nil {
		return err
	}

	result := slot.Submit(ctx, int(cmd.Int("stars")))
	if result.Kind != collections.Applied {
		return result.Reason
	}

	return r.writePlain("✓ Calificación guardada: %s\n", formatter.Stars(float64(result.Item.Value)))
}
