package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinetx/internal/collections"
	"github.com/desertthunder/cinetx/internal/formatter"
	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/urfave/cli/v3"
)

// thread builds a loaded comment thread for one movie.
func (r *Runner) thread(ctx context.Context, movieID string) (*collections.Thread, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	t := collections.NewThread(movieID, r.comments, r.sessions, r.sessions)
	if err := t.Load(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// CommentsList prints a movie's comment thread, newest first.
func (r *Runner) CommentsList(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	t, err := r.thread(ctx, cmd.StringArg("movie-id"))
	if err != nil {
		return err
	}

	comments := t.Items()

	if cmd.Bool("json") {
		return r.writeJSON(comments, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Comentarios (%d)", len(comments)))
	for _, comment := range comments {
		when := formatter.FormatTimestamp(comment.CreatedAt)
		edited := ""
		if comment.Edited {
			edited = " (editado)"
		}
		r.writePlain("[%s] %s%s\n", comment.Author.DisplayName(), when, edited)
		r.writePlain("  %s\n", comment.Content)
		r.writePlain("  id: %s\n", comment.ID)
	}
	return nil
}

// CommentsAdd posts a comment on a movie.
func (r *Runner) CommentsAdd(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	t, err := r.thread(ctx, cmd.StringArg("movie-id"))
	if err != nil {
		return err
	}

	result := t.Post(ctx, cmd.String("content"))
	if result.Kind != collections.Applied {
		return result.Reason
	}

	return r.writePlain("✓ Comentario publicado (id: %s)\n", result.Item.ID)
}

// CommentsEdit edits one of the viewer's comments.
func (r *Runner) CommentsEdit(ctx context.Context, cmd *cli.Command) error {
	commentID := cmd.StringArg("comment-id")
	if commentID == "" {
		return fmt.Errorf("%w: comment id", shared.ErrMissingArgument)
	}

	r.restoreSession(ctx)

	t, err := r.thread(ctx, cmd.String("movie"))
	if err != nil {
		return err
	}

	result := t.Edit(ctx, commentID, cmd.String("content"))
	if result.Kind != collections.Applied {
		return result.Reason
	}

	return r.writePlain("✓ Comentario actualizado\n")
}

// CommentsDelete removes one of the viewer's comments after confirmation.
func (r *Runner) CommentsDelete(ctx context.Context, cmd *cli.Command) error {
	commentID := cmd.StringArg("comment-id")
	if commentID == "" {
		return fmt.Errorf("%w: comment id", shared.ErrMissingArgument)
	}
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to confirm deletion", shared.ErrMissingArgument)
	}

	r.restoreSession(ctx)

	t, err := r.thread(ctx, cmd.String("movie"))
	if err != nil {
		return err
	}

	result := t.Remove(ctx, commentID)
	if result.Kind != collections.Applied {
		return result.Reason
	}

	return r.writePlain("✓ Comentario eliminado\n")
}
