package main

import (
	"context"
	"os"

	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/desertthunder/cinetx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AccountDump fetches the viewer's full account snapshot: profile, favorites,
// and per-favorite ratings and comment threads.
func (r *Runner) AccountDump(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
		close(done)
	}()

	result, err := r.engine.Dump(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	for _, failure := range result.Errors {
		r.logger.Warn("partial dump failure", "endpoint", failure.Endpoint, "error", failure.Error)
	}

	if cmd.Bool("save") {
		data, err := shared.MarshalJSON(result, true)
		if err != nil {
			return err
		}
		if err := os.WriteFile("account_dump.json", data, 0644); err != nil {
			return err
		}
		return r.writePlain("✓ Dump guardado en account_dump.json\n")
	}

	return r.writeJSON(result, cmd.Bool("pretty"))
}
