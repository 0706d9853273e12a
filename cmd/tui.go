package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cinetx/internal/collections"
	"github.com/desertthunder/cinetx/internal/notify"
	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/desertthunder/cinetx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/cinetx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var favorites *collections.Membership
	if r.sessions.Token() != "" {
		favorites = collections.NewMembership(r.favorites, r.sessions)
	}

	notices := notify.NewChannel(r.config.UI.NotificationDuration())

	model := ui.NewModel(
		ctx,
		r.movies,
		favorites,
		func(movieID string) *collections.Thread {
			return collections.NewThread(movieID, r.comments, r.sessions, r.sessions)
		},
		func(movieID string) *collections.RatingSlot {
			return collections.NewRatingSlot(movieID, r.ratings, r.sessions)
		},
		notices,
	)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
