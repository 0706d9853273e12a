// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your Cinema Platform account",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "last-name", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
					&cli.IntFlag{Name: "age", Usage: "Age", Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Log in and persist the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Log out and delete the persisted token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
			{
				Name:  "profile",
				Usage: "Show the authenticated profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.AuthProfile,
			},
			{
				Name:  "update",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "New first name"},
					&cli.StringFlag{Name: "last-name", Usage: "New last name"},
					&cli.StringFlag{Name: "email", Usage: "New email address"},
					&cli.IntFlag{Name: "age", Usage: "New age"},
				},
				Action: r.AuthUpdate,
			},
			{
				Name:  "change-password",
				Usage: "Change the account password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "current", Usage: "Current password", Required: true},
					&cli.StringFlag{Name: "new", Usage: "New password", Required: true},
				},
				Action: r.AuthChangePassword,
			},
			{
				Name:  "forgot-password",
				Usage: "Request a password reset email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
				},
				Action: r.AuthForgotPassword,
			},
			{
				Name:  "reset-password",
				Usage: "Reset the password with an emailed token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "Reset token from the email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "New password", Required: true},
				},
				Action: r.AuthResetPassword,
			},
			{
				Name:  "delete-account",
				Usage: "Permanently delete the account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
					&cli.BoolFlag{Name: "yes", Usage: "Skip the confirmation prompt"},
				},
				Action: r.AuthDeleteAccount,
			},
		},
	}
}

// catalogCommand handles movie catalog operations
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"movies"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List popular movies",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Filter by title, description, or genre"},
					&cli.BoolFlag{Name: "cached", Usage: "Read from the local cache instead of the API"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to configuration file", Value: "config.toml"},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "refresh",
				Usage: "Sync the catalog (and favorites, when logged in) into the local cache",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to configuration file", Value: "config.toml"},
				},
				Action: r.CatalogRefresh,
			},
			{
				Name:  "posters",
				Usage: "Download movie posters concurrently",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent workers", Value: 5},
					&cli.FloatFlag{Name: "rate", Usage: "Requests per second", Value: 5},
				},
				Action: r.CatalogPosters,
			},
		},
	}
}

// favoritesCommand handles the viewer's favorites set
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage your favorites",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your favorite movies",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Add a movie to favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a movie from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "toggle",
				Usage: "Toggle a movie's favorite membership",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Action: r.FavoritesToggle,
			},
			{
				Name:  "export",
				Usage: "Export favorites to csv, markdown, txt, or json",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: json, csv, markdown, txt", Value: "json"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (base filename or directory)"},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// commentsCommand handles per-movie comment threads
func commentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "comments",
		Usage: "Read and write movie comments",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show a movie's comment thread (newest first)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.CommentsList,
			},
			{
				Name:  "add",
				Usage: "Post a comment on a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Aliases: []string{"m"}, Usage: "Comment text", Required: true},
				},
				Action: r.CommentsAdd,
			},
			{
				Name:  "edit",
				Usage: "Edit one of your comments",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "comment-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Aliases: []string{"m"}, Usage: "Replacement text", Required: true},
					&cli.StringFlag{Name: "movie", Usage: "Movie id of the thread", Required: true},
				},
				Action: r.CommentsEdit,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete one of your comments",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "comment-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "movie", Usage: "Movie id of the thread", Required: true},
					&cli.BoolFlag{Name: "yes", Usage: "Skip the confirmation prompt"},
				},
				Action: r.CommentsDelete,
			},
		},
	}
}

// ratingsCommand handles the viewer's per-movie rating slot
func ratingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ratings",
		Usage: "Rate movies",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show your rating for a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Action: r.RatingsGet,
			},
			{
				Name:  "set",
				Usage: "Create or replace your rating for a movie (1-5)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "stars", Usage: "Rating value, 1 to 5", Required: true},
				},
				Action: r.RatingsSet,
			},
		},
	}
}

// accountCommand handles full account data dumps
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Account data operations",
		Commands: []*cli.Command{
			{
				Name:  "dump",
				Usage: "Dump profile, favorites, ratings, and comment threads",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
					&cli.BoolFlag{Name: "save", Usage: "Save dump to account_dump.json"},
				},
				Action: r.AccountDump,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the local cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to configuration file", Value: "config.toml"},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}
