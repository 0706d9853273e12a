package collections

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

// SlotSource is the remote side of a single-value-per-viewer resource.
// [services.RatingService] satisfies this interface.
type SlotSource interface {
	Mine(ctx context.Context, movieID string) (*models.Rating, error)
	Submit(ctx context.Context, movieID string, value int) (*models.Rating, error)
}

// RatingSlot mirrors the viewer's rating for one movie. The slot holds at
// most one value; submitting creates or replaces it server-side and the
// stored value moves only on confirmation.
//
// Preview is the hover value: purely visual, never persisted, and never
// confused with the stored rating.
type RatingSlot struct {
	mu      sync.Mutex
	source  SlotSource
	epochs  EpochSource
	movieID string
	stored  *models.Rating
	preview int
	ticket  uint64
	loaded  bool
}

// NewRatingSlot creates an empty slot for the movie backed by source.
func NewRatingSlot(movieID string, source SlotSource, epochs EpochSource) *RatingSlot {
	if epochs == nil {
		epochs = fixedEpoch{}
	}
	return &RatingSlot{source: source, epochs: epochs, movieID: movieID}
}

// Load fetches the viewer's existing rating. An empty slot is a valid state,
// not an error: the source returns (nil, nil) when no rating exists yet.
func (r *RatingSlot) Load(ctx context.Context) error {
	epoch := r.epochs.Epoch()

	rating, err := r.source.Mine(ctx, r.movieID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.epochs.Epoch() != epoch {
		return shared.ErrStaleResponse
	}

	r.stored = rating
	r.loaded = true
	return nil
}

// Loaded reports whether an initial Load has completed.
func (r *RatingSlot) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Stored returns the confirmed rating, or nil when the slot is empty.
func (r *RatingSlot) Stored() *models.Rating {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored == nil {
		return nil
	}
	copied := *r.stored
	return &copied
}

// Value returns the confirmed rating value, 0 when the slot is empty.
func (r *RatingSlot) Value() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored == nil {
		return 0
	}
	return r.stored.Value
}

// Preview sets the visual hover value. Out-of-range values are ignored.
func (r *RatingSlot) Preview(value int) {
	if value < models.MinRating || value > models.MaxRating {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preview = value
}

// ClearPreview drops the hover value; display falls back to the stored rating.
func (r *RatingSlot) ClearPreview() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preview = 0
}

// Displayed returns the value the stars widget should render: the preview
// when one is active, otherwise the confirmed value, otherwise 0.
func (r *RatingSlot) Displayed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.preview != 0 {
		return r.preview
	}
	if r.stored != nil {
		return r.stored.Value
	}
	return 0
}

// Submit creates or replaces the viewer's rating. The stored value changes
// only on confirmation; a failed submit leaves the previously confirmed
// value in place. Submitting the current value again is a no-op replace and
// still resolves Applied.
func (r *RatingSlot) Submit(ctx context.Context, value int) Result[models.Rating] {
	if err := models.ValidateRatingValue(value); err != nil {
		return rejected[models.Rating](err)
	}

	r.mu.Lock()
	r.ticket++
	ticket := r.ticket
	epoch := r.epochs.Epoch()
	r.mu.Unlock()

	rating, err := r.source.Submit(ctx, r.movieID, value)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.epochs.Epoch() != epoch {
		return reverted[models.Rating](fmt.Errorf("%w: session changed", shared.ErrStaleResponse))
	}
	if r.ticket != ticket {
		return reverted[models.Rating](fmt.Errorf("%w: superseded by a newer rating", shared.ErrStaleResponse))
	}
	if err != nil {
		return rejected[models.Rating](err)
	}
	if rating == nil {
		// Some revisions confirm without echoing the record back.
		rating = &models.Rating{MovieID: r.movieID, Value: value}
	}

	r.stored = rating
	r.preview = 0
	return applied(*rating)
}
