package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinetx/internal/services"
	"github.com/desertthunder/cinetx/internal/session"
	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/desertthunder/cinetx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	api        *services.APIClient
	sessions   *session.Store
	auth       *services.AuthService
	movies     *services.MovieService
	favorites  *services.FavoriteService
	comments   *services.CommentService
	ratings    *services.RatingService
	engine     *tasks.SyncEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	API        *services.APIClient
	Sessions   *session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore(opts.Config.Session.ResolveTokenPath())
	}
	if opts.API == nil {
		opts.API = services.NewAPIClient(opts.Config.API.BaseURL, opts.Config.API.Timeout(), opts.HTTPClient, opts.Sessions)
	}

	r := &Runner{
		config:     opts.Config,
		api:        opts.API,
		sessions:   opts.Sessions,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	r.auth = services.NewAuthService(r.api, r.sessions)
	r.movies = services.NewMovieService(r.api)
	r.favorites = services.NewFavoriteService(r.api, r.sessions)
	r.comments = services.NewCommentService(r.api, r.sessions)
	r.ratings = services.NewRatingService(r.api, r.sessions)
	r.engine = tasks.NewSyncEngine(r.movies, r.favorites, r.auth, r.ratings, r.comments, nil, nil)

	r.sessions.Subscribe(r.observeSession)

	return r
}

// observeSession records identity transitions. The logger is read through the
// Runner so the observer follows a SetLogger swap.
func (r *Runner) observeSession(identity *session.Identity) {
	if identity == nil {
		r.logger.Debug("session cleared")
		return
	}
	r.logger.Debug("session changed", "viewer", identity.User.ID)
}

// SetLogger replaces the Runner's logger, used when the TUI owns stderr.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, catalogCommand, favoritesCommand, commentsCommand, ratingsCommand, accountCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// restoreSession loads a persisted token and re-fetches the profile so
// ownership checks have the viewer's id. A dead token is cleared silently.
func (r *Runner) restoreSession(ctx context.Context) {
	restored, err := r.sessions.Restore()
	if err != nil {
		r.logger.Warn("failed to restore session", "error", err)
		return
	}
	if !restored {
		return
	}

	profile, err := r.auth.Profile(ctx)
	if err != nil {
		r.logger.Debug("persisted token rejected, clearing session", "error", err)
		r.sessions.Clear()
		return
	}

	r.sessions.Set(session.Identity{Token: r.sessions.Token(), User: *profile})
}
