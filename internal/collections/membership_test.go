package collections

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

// bumpEpoch is an EpochSource whose value tests can advance mid-flight.
type bumpEpoch struct{ n atomic.Uint64 }

func (b *bumpEpoch) Epoch() uint64 { return b.n.Load() }
func (b *bumpEpoch) Bump()         { b.n.Add(1) }

// fakeMembershipSource drives Membership with function fields and counts calls.
type fakeMembershipSource struct {
	listFn   func(ctx context.Context) ([]models.Favorite, error)
	addFn    func(ctx context.Context, movieID string) (*models.Favorite, error)
	removeFn func(ctx context.Context, movieID string) error
	calls    int
}

func (f *fakeMembershipSource) List(ctx context.Context) ([]models.Favorite, error) {
	f.calls++
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeMembershipSource) Add(ctx context.Context, movieID string) (*models.Favorite, error) {
	f.calls++
	if f.addFn == nil {
		return &models.Favorite{ID: "fav-" + movieID, MovieID: movieID}, nil
	}
	return f.addFn(ctx, movieID)
}

func (f *fakeMembershipSource) Remove(ctx context.Context, movieID string) error {
	f.calls++
	if f.removeFn == nil {
		return nil
	}
	return f.removeFn(ctx, movieID)
}

func TestMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		t.Run("Keys By Movie ID", func(t *testing.T) {
			source := &fakeMembershipSource{
				listFn: func(ctx context.Context) ([]models.Favorite, error) {
					return []models.Favorite{
						{ID: "fav-1", MovieID: "m2", Movie: &models.Movie{ID: "m2", Title: "Dune"}},
						{ID: "fav-2", MovieID: "m1"},
					}, nil
				},
			}
			set := NewMembership(source, nil)

			if err := set.Load(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !set.Loaded() {
				t.Error("expected loaded flag set")
			}
			if set.Len() != 2 {
				t.Errorf("expected 2 members, got %d", set.Len())
			}
			if !set.Contains("m1") || !set.Contains("m2") {
				t.Error("expected m1 and m2 to be members")
			}

			recordID, ok := set.RecordID("m2")
			if !ok || recordID != "fav-1" {
				t.Errorf("expected join-record id 'fav-1' for m2, got %q", recordID)
			}
			if movie := set.Movie("m2"); movie == nil || movie.Title != "Dune" {
				t.Errorf("expected embedded movie cached for m2, got %+v", movie)
			}

			keys := set.Keys()
			if len(keys) != 2 || keys[0] != "m1" || keys[1] != "m2" {
				t.Errorf("expected sorted keys [m1 m2], got %v", keys)
			}
		})

		t.Run("Discarded After Session Change", func(t *testing.T) {
			epochs := &bumpEpoch{}
			source := &fakeMembershipSource{
				listFn: func(ctx context.Context) ([]models.Favorite, error) {
					epochs.Bump()
					return []models.Favorite{{ID: "fav-1", MovieID: "m1"}}, nil
				},
			}
			set := NewMembership(source, epochs)

			if err := set.Load(ctx); !errors.Is(err, shared.ErrStaleResponse) {
				t.Errorf("expected ErrStaleResponse, got %v", err)
			}
			if set.Contains("m1") {
				t.Error("stale load must not populate the set")
			}
		})
	})

	t.Run("Add", func(t *testing.T) {
		t.Run("Inserts On Confirmation", func(t *testing.T) {
			source := &fakeMembershipSource{}
			set := NewMembership(source, nil)

			result := set.Add(ctx, "m1")
			if result.Kind != Applied {
				t.Fatalf("expected Applied, got %s (%v)", result.Kind, result.Reason)
			}
			if result.Item.ID != "fav-m1" {
				t.Errorf("expected confirmed join-record id, got %q", result.Item.ID)
			}
			if !set.Contains("m1") {
				t.Error("expected m1 in set after confirmation")
			}
		})

		t.Run("Duplicate Rejected Without Network Call", func(t *testing.T) {
			source := &fakeMembershipSource{}
			set := NewMembership(source, nil)

			set.Add(ctx, "m1")
			calls := source.calls

			result := set.Add(ctx, "m1")
			if result.Kind != Rejected || !errors.Is(result.Reason, ErrAlreadyFavorite) {
				t.Errorf("expected Rejected with ErrAlreadyFavorite, got %s (%v)", result.Kind, result.Reason)
			}
			if source.calls != calls {
				t.Error("duplicate add must not reach the network")
			}
		})

		t.Run("Failure Leaves Set Unchanged", func(t *testing.T) {
			source := &fakeMembershipSource{
				addFn: func(ctx context.Context, movieID string) (*models.Favorite, error) {
					return nil, shared.ErrNetwork
				},
			}
			set := NewMembership(source, nil)

			result := set.Add(ctx, "m1")
			if result.Kind != Rejected || !errors.Is(result.Reason, shared.ErrNetwork) {
				t.Errorf("expected Rejected with ErrNetwork, got %s (%v)", result.Kind, result.Reason)
			}
			if set.Contains("m1") {
				t.Error("failed add must not change the set")
			}
		})

		t.Run("Missing Record ID Rejected", func(t *testing.T) {
			source := &fakeMembershipSource{
				addFn: func(ctx context.Context, movieID string) (*models.Favorite, error) {
					return &models.Favorite{MovieID: movieID}, nil
				},
			}
			set := NewMembership(source, nil)

			result := set.Add(ctx, "m1")
			if result.Kind != Rejected || !errors.Is(result.Reason, shared.ErrMalformedResponse) {
				t.Errorf("expected Rejected with ErrMalformedResponse, got %s (%v)", result.Kind, result.Reason)
			}
		})

		t.Run("Reverted After Session Change", func(t *testing.T) {
			epochs := &bumpEpoch{}
			source := &fakeMembershipSource{
				addFn: func(ctx context.Context, movieID string) (*models.Favorite, error) {
					epochs.Bump()
					return &models.Favorite{ID: "fav-1", MovieID: movieID}, nil
				},
			}
			set := NewMembership(source, epochs)

			result := set.Add(ctx, "m1")
			if result.Kind != Reverted || !errors.Is(result.Reason, shared.ErrStaleResponse) {
				t.Errorf("expected Reverted with ErrStaleResponse, got %s (%v)", result.Kind, result.Reason)
			}
			if set.Contains("m1") {
				t.Error("reverted add must not change the set")
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		t.Run("Drops On Confirmation", func(t *testing.T) {
			source := &fakeMembershipSource{}
			set := NewMembership(source, nil)
			set.Add(ctx, "m1")

			result := set.Remove(ctx, "m1")
			if result.Kind != Applied {
				t.Fatalf("expected Applied, got %s (%v)", result.Kind, result.Reason)
			}
			if set.Contains("m1") {
				t.Error("expected m1 removed after confirmation")
			}
		})

		t.Run("Non-Member Rejected", func(t *testing.T) {
			source := &fakeMembershipSource{}
			set := NewMembership(source, nil)

			result := set.Remove(ctx, "m9")
			if result.Kind != Rejected || !errors.Is(result.Reason, shared.ErrNotFavorite) {
				t.Errorf("expected Rejected with ErrNotFavorite, got %s (%v)", result.Kind, result.Reason)
			}
		})

		t.Run("Failure Keeps Entry", func(t *testing.T) {
			source := &fakeMembershipSource{
				removeFn: func(ctx context.Context, movieID string) error {
					return shared.ErrServer
				},
			}
			set := NewMembership(source, nil)
			set.Add(ctx, "m1")

			result := set.Remove(ctx, "m1")
			if result.Kind != Rejected {
				t.Errorf("expected Rejected, got %s", result.Kind)
			}
			if !set.Contains("m1") {
				t.Error("failed remove must keep the entry")
			}
		})
	})

	t.Run("Toggle", func(t *testing.T) {
		source := &fakeMembershipSource{}
		set := NewMembership(source, nil)

		if result := set.Toggle(ctx, "m1"); result.Kind != Applied || !set.Contains("m1") {
			t.Errorf("expected first toggle to add, got %s", result.Kind)
		}
		if result := set.Toggle(ctx, "m1"); result.Kind != Applied || set.Contains("m1") {
			t.Errorf("expected second toggle to remove, got %s", result.Kind)
		}
	})

	t.Run("Ticket Fence", func(t *testing.T) {
		t.Run("Superseded Resolution Discarded", func(t *testing.T) {
			source := &fakeMembershipSource{}
			set := NewMembership(source, nil)

			// A newer mutation on the same key advances the ticket; the slow
			// first response must resolve Reverted.
			source.addFn = func(ctx context.Context, movieID string) (*models.Favorite, error) {
				source.addFn = nil
				set.mu.Lock()
				set.nextTicketLocked(movieID)
				set.mu.Unlock()
				return &models.Favorite{ID: "fav-slow", MovieID: movieID}, nil
			}

			result := set.Add(ctx, "m1")
			if result.Kind != Reverted || !errors.Is(result.Reason, shared.ErrStaleResponse) {
				t.Errorf("expected Reverted with ErrStaleResponse, got %s (%v)", result.Kind, result.Reason)
			}
			if set.Contains("m1") {
				t.Error("superseded add must not apply")
			}
		})
	})
}
