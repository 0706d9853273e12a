package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/cinetx/internal/formatter"
	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = commentItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    movieEntry
	favorite bool
}

// movieEntry aliases the model so the wrapper stays small.
type movieEntry = models.Movie

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return "♥ " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	desc := fmt.Sprintf("%s %s", formatter.Stars(i.movie.AverageRating), shared.FormatDuration(i.movie.Duration))
	if len(i.movie.Genres) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(i.movie.Genres, ", "))
	}
	return desc
}

// commentItem wraps [models.Comment] to implement [list.Item].
type commentItem struct {
	comment models.Comment
	mine    bool
}

func (i commentItem) FilterValue() string { return i.comment.Content }
func (i commentItem) Title() string {
	title := fmt.Sprintf("%s %s", formatter.CommentInitials(i.comment.Author), i.comment.Author.DisplayName())
	if i.mine {
		title += " (tú)"
	}
	return title
}
func (i commentItem) Description() string {
	desc := i.comment.Content
	if when := formatter.FormatTimestamp(i.comment.CreatedAt); when != "" {
		desc = fmt.Sprintf("%s • %s", desc, when)
	}
	if i.comment.Edited {
		desc += " (editado)"
	}
	return desc
}
