package collections

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

// User-facing thread messages, matching the platform's Spanish copy.
const (
	MsgEmptyComment    = "El comentario no puede estar vacío."
	MsgLoginToComment  = "Debes iniciar sesión para publicar un comentario."
	MsgLoginToDelete   = "Debes iniciar sesión para eliminar comentarios."
	MsgNotCommentOwner = "Solo puedes modificar tus propios comentarios."
)

// ThreadSource is the remote side of an append-only comment feed.
// [services.CommentService] satisfies this interface.
type ThreadSource interface {
	ForMovie(ctx context.Context, movieID string) ([]models.Comment, error)
	Create(ctx context.Context, movieID, content string) (*models.Comment, error)
	Update(ctx context.Context, commentID, content string) (*models.Comment, error)
	Delete(ctx context.Context, commentID string) error
}

// ViewerSource reports the id of the acting viewer ("" when anonymous).
// Author checks here are a courtesy; the server remains the authority.
type ViewerSource interface {
	ViewerID() string
}

// Thread mirrors one movie's comment feed, newest first as the server
// returns it. The client never re-sorts; creates prepend, edits patch in
// place preserving position, deletes filter by id.
//
// Edits and deletes are fenced per comment id; posts are guarded by the
// session epoch only, since distinct creates are independent.
type Thread struct {
	mu      sync.Mutex
	source  ThreadSource
	viewer  ViewerSource
	epochs  EpochSource
	movieID string
	items   []models.Comment
	tickets map[string]uint64
	loaded  bool
}

// NewThread creates an empty thread for the movie backed by source.
func NewThread(movieID string, source ThreadSource, viewer ViewerSource, epochs EpochSource) *Thread {
	if epochs == nil {
		epochs = fixedEpoch{}
	}
	return &Thread{
		source:  source,
		viewer:  viewer,
		epochs:  epochs,
		movieID: movieID,
		tickets: make(map[string]uint64),
	}
}

// Load fetches the feed in server order.
func (t *Thread) Load(ctx context.Context) error {
	epoch := t.epochs.Epoch()

	comments, err := t.source.ForMovie(ctx, t.movieID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.epochs.Epoch() != epoch {
		return shared.ErrStaleResponse
	}

	t.items = comments
	t.loaded = true
	return nil
}

// Loaded reports whether an initial Load has completed.
func (t *Thread) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// Items returns a copy of the feed in display order.
func (t *Thread) Items() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Comment(nil), t.items...)
}

// Len returns the number of comments in the feed.
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// CanModify reports whether the acting viewer authored the comment.
func (t *Thread) CanModify(commentID string) bool {
	viewerID := t.viewerID()
	if viewerID == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].ID == commentID {
			return t.items[i].Author.User.ID == viewerID
		}
	}
	return false
}

// Post submits a new comment and prepends the canonical server item on
// confirmation. Validation failures never reach the network.
func (t *Thread) Post(ctx context.Context, content string) Result[models.Comment] {
	if strings.TrimSpace(content) == "" {
		return rejected[models.Comment](fmt.Errorf("%w: %s", shared.ErrValidation, MsgEmptyComment))
	}
	if t.viewerID() == "" {
		return rejected[models.Comment](fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, MsgLoginToComment))
	}

	epoch := t.epochs.Epoch()

	comment, err := t.source.Create(ctx, t.movieID, content)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.epochs.Epoch() != epoch {
		return reverted[models.Comment](fmt.Errorf("%w: session changed", shared.ErrStaleResponse))
	}
	if err != nil {
		return rejected[models.Comment](err)
	}

	t.items = append([]models.Comment{*comment}, t.items...)
	return applied(*comment)
}

// Edit patches a comment in place on confirmation. Position never changes;
// only content, the edited flag, and the updated timestamp move.
func (t *Thread) Edit(ctx context.Context, commentID, content string) Result[models.Comment] {
	if strings.TrimSpace(content) == "" {
		return rejected[models.Comment](fmt.Errorf("%w: %s", shared.ErrValidation, MsgEmptyComment))
	}
	if !t.CanModify(commentID) {
		return rejected[models.Comment](fmt.Errorf("%w: %s", shared.ErrValidation, MsgNotCommentOwner))
	}

	ticket, epoch := t.nextTicket(commentID)

	updated, err := t.source.Update(ctx, commentID, content)

	t.mu.Lock()
	defer t.mu.Unlock()

	if stale := t.staleLocked(commentID, ticket, epoch); stale != nil {
		return reverted[models.Comment](stale)
	}
	if err != nil {
		return rejected[models.Comment](err)
	}

	for i := range t.items {
		if t.items[i].ID != commentID {
			continue
		}
		t.items[i].Content = updated.Content
		t.items[i].Edited = true
		if updated.UpdatedAt != "" {
			t.items[i].UpdatedAt = updated.UpdatedAt
		}
		return applied(t.items[i])
	}
	return rejected[models.Comment](shared.ErrCommentNotFound)
}

// Remove deletes a comment by id on confirmation. The caller is responsible
// for the prior user confirmation dialog; nothing here changes until the
// server acknowledges.
func (t *Thread) Remove(ctx context.Context, commentID string) Result[models.Comment] {
	if t.viewerID() == "" {
		return rejected[models.Comment](fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, MsgLoginToDelete))
	}
	if !t.CanModify(commentID) {
		return rejected[models.Comment](fmt.Errorf("%w: %s", shared.ErrValidation, MsgNotCommentOwner))
	}

	ticket, epoch := t.nextTicket(commentID)

	err := t.source.Delete(ctx, commentID)

	t.mu.Lock()
	defer t.mu.Unlock()

	if stale := t.staleLocked(commentID, ticket, epoch); stale != nil {
		return reverted[models.Comment](stale)
	}
	if err != nil {
		return rejected[models.Comment](err)
	}

	kept := t.items[:0:0]
	var removed models.Comment
	for _, item := range t.items {
		if item.ID == commentID {
			removed = item
			continue
		}
		kept = append(kept, item)
	}
	t.items = kept
	return applied(removed)
}

func (t *Thread) viewerID() string {
	if t.viewer == nil {
		return ""
	}
	return t.viewer.ViewerID()
}

// nextTicket bumps the per-comment mutation ticket and snapshots the epoch.
func (t *Thread) nextTicket(commentID string) (uint64, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tickets[commentID]++
	return t.tickets[commentID], t.epochs.Epoch()
}

func (t *Thread) staleLocked(commentID string, ticket uint64, epoch uint64) error {
	if t.epochs.Epoch() != epoch {
		return fmt.Errorf("%w: session changed", shared.ErrStaleResponse)
	}
	if t.tickets[commentID] != ticket {
		return fmt.Errorf("%w: superseded by a newer mutation", shared.ErrStaleResponse)
	}
	return nil
}
