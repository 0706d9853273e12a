package collections

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

// fakeSlotSource drives RatingSlot with function fields and counts calls.
type fakeSlotSource struct {
	mineFn   func(ctx context.Context, movieID string) (*models.Rating, error)
	submitFn func(ctx context.Context, movieID string, value int) (*models.Rating, error)
	calls    int
}

func (f *fakeSlotSource) Mine(ctx context.Context, movieID string) (*models.Rating, error) {
	f.calls++
	if f.mineFn == nil {
		return nil, nil
	}
	return f.mineFn(ctx, movieID)
}

func (f *fakeSlotSource) Submit(ctx context.Context, movieID string, value int) (*models.Rating, error) {
	f.calls++
	if f.submitFn == nil {
		return &models.Rating{ID: "r1", MovieID: movieID, Value: value}, nil
	}
	return f.submitFn(ctx, movieID, value)
}

func TestRatingSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		t.Run("Empty Slot Is Valid", func(t *testing.T) {
			source := &fakeSlotSource{}
			slot := NewRatingSlot("m1", source, nil)

			if err := slot.Load(ctx); err != nil {
				t.Fatalf("expected no error for empty slot, got %v", err)
			}
			if !slot.Loaded() {
				t.Error("expected loaded flag set")
			}
			if slot.Stored() != nil {
				t.Error("expected nil stored rating")
			}
			if slot.Value() != 0 {
				t.Errorf("expected value 0 for empty slot, got %d", slot.Value())
			}
		})

		t.Run("Existing Rating", func(t *testing.T) {
			source := &fakeSlotSource{
				mineFn: func(ctx context.Context, movieID string) (*models.Rating, error) {
					return &models.Rating{ID: "r1", MovieID: movieID, Value: 4}, nil
				},
			}
			slot := NewRatingSlot("m1", source, nil)

			if err := slot.Load(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if slot.Value() != 4 {
				t.Errorf("expected value 4, got %d", slot.Value())
			}
		})

		t.Run("Stored Returns A Copy", func(t *testing.T) {
			source := &fakeSlotSource{
				mineFn: func(ctx context.Context, movieID string) (*models.Rating, error) {
					return &models.Rating{ID: "r1", Value: 3}, nil
				},
			}
			slot := NewRatingSlot("m1", source, nil)
			slot.Load(ctx)

			stored := slot.Stored()
			stored.Value = 1
			if slot.Value() != 3 {
				t.Error("mutating the returned copy must not affect the slot")
			}
		})
	})

	t.Run("Preview", func(t *testing.T) {
		source := &fakeSlotSource{
			mineFn: func(ctx context.Context, movieID string) (*models.Rating, error) {
				return &models.Rating{ID: "r1", Value: 2}, nil
			},
		}
		slot := NewRatingSlot("m1", source, nil)
		slot.Load(ctx)

		t.Run("Takes Display Precedence", func(t *testing.T) {
			slot.Preview(5)
			if slot.Displayed() != 5 {
				t.Errorf("expected preview 5 displayed, got %d", slot.Displayed())
			}
			if slot.Value() != 2 {
				t.Error("preview must never touch the stored value")
			}
		})

		t.Run("Clear Falls Back To Stored", func(t *testing.T) {
			slot.ClearPreview()
			if slot.Displayed() != 2 {
				t.Errorf("expected stored value displayed, got %d", slot.Displayed())
			}
		})

		t.Run("Out Of Range Ignored", func(t *testing.T) {
			slot.Preview(9)
			if slot.Displayed() != 2 {
				t.Errorf("expected out-of-range preview ignored, got %d", slot.Displayed())
			}
		})
	})

	t.Run("Submit", func(t *testing.T) {
		t.Run("Applies On Confirmation", func(t *testing.T) {
			source := &fakeSlotSource{}
			slot := NewRatingSlot("m1", source, nil)
			slot.Load(ctx)

			result := slot.Submit(ctx, 5)
			if result.Kind != Applied {
				t.Fatalf("expected Applied, got %s (%v)", result.Kind, result.Reason)
			}
			if slot.Value() != 5 {
				t.Errorf("expected stored value 5, got %d", slot.Value())
			}
		})

		t.Run("Replaces Existing Value", func(t *testing.T) {
			source := &fakeSlotSource{
				mineFn: func(ctx context.Context, movieID string) (*models.Rating, error) {
					return &models.Rating{ID: "r1", Value: 2}, nil
				},
			}
			slot := NewRatingSlot("m1", source, nil)
			slot.Load(ctx)

			if result := slot.Submit(ctx, 4); result.Kind != Applied {
				t.Fatalf("expected Applied, got %s (%v)", result.Kind, result.Reason)
			}
			if slot.Value() != 4 {
				t.Errorf("expected replaced value 4, got %d", slot.Value())
			}
		})

		t.Run("Invalid Value Rejected Before Network", func(t *testing.T) {
			source := &fakeSlotSource{}
			slot := NewRatingSlot("m1", source, nil)

			result := slot.Submit(ctx, 0)
			if result.Kind != Rejected || !errors.Is(result.Reason, shared.ErrValidation) {
				t.Errorf("expected Rejected with ErrValidation, got %s (%v)", result.Kind, result.Reason)
			}
			if source.calls != 0 {
				t.Error("invalid value must not reach the network")
			}
		})

		t.Run("Failure Keeps Previous Value", func(t *testing.T) {
			source := &fakeSlotSource{
				mineFn: func(ctx context.Context, movieID string) (*models.Rating, error) {
					return &models.Rating{ID: "r1", Value: 3}, nil
				},
				submitFn: func(ctx context.Context, movieID string, value int) (*models.Rating, error) {
					return nil, shared.ErrNetwork
				},
			}
			slot := NewRatingSlot("m1", source, nil)
			slot.Load(ctx)

			result := slot.Submit(ctx, 5)
			if result.Kind != Rejected {
				t.Errorf("expected Rejected, got %s", result.Kind)
			}
			if slot.Value() != 3 {
				t.Errorf("failed submit must keep previous value 3, got %d", slot.Value())
			}
		})

		t.Run("Clears Preview On Apply", func(t *testing.T) {
			source := &fakeSlotSource{}
			slot := NewRatingSlot("m1", source, nil)
			slot.Load(ctx)

			slot.Preview(2)
			slot.Submit(ctx, 5)
			if slot.Displayed() != 5 {
				t.Errorf("expected preview cleared and confirmed value displayed, got %d", slot.Displayed())
			}
		})

		t.Run("Constructs Record When Server Echoes Nothing", func(t *testing.T) {
			source := &fakeSlotSource{
				submitFn: func(ctx context.Context, movieID string, value int) (*models.Rating, error) {
					return nil, nil
				},
			}
			slot := NewRatingSlot("m1", source, nil)

			result := slot.Submit(ctx, 3)
			if result.Kind != Applied {
				t.Fatalf("expected Applied, got %s (%v)", result.Kind, result.Reason)
			}
			if result.Item.MovieID != "m1" || result.Item.Value != 3 {
				t.Errorf("expected constructed record, got %+v", result.Item)
			}
		})

		t.Run("Reverted After Session Change", func(t *testing.T) {
			epochs := &bumpEpoch{}
			source := &fakeSlotSource{
				submitFn: func(ctx context.Context, movieID string, value int) (*models.Rating, error) {
					epochs.Bump()
					return &models.Rating{ID: "r1", Value: value}, nil
				},
			}
			slot := NewRatingSlot("m1", source, epochs)

			result := slot.Submit(ctx, 4)
			if result.Kind != Reverted || !errors.Is(result.Reason, shared.ErrStaleResponse) {
				t.Errorf("expected Reverted with ErrStaleResponse, got %s (%v)", result.Kind, result.Reason)
			}
			if slot.Value() != 0 {
				t.Error("reverted submit must not change the slot")
			}
		})
	})
}
