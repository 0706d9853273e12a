package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

func TestStore(t *testing.T) {
	t.Run("Set", func(t *testing.T) {
		t.Run("Replaces Identity And Notifies", func(t *testing.T) {
			store := NewStore("")

			var seen []*Identity
			store.Subscribe(func(identity *Identity) {
				seen = append(seen, identity)
			})

			identity := Identity{Token: "tok-1", User: models.User{ID: "u1", FirstName: "Ana"}}
			if err := store.Set(identity); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if store.Token() != "tok-1" {
				t.Errorf("expected token 'tok-1', got %q", store.Token())
			}
			if store.ViewerID() != "u1" {
				t.Errorf("expected viewer id 'u1', got %q", store.ViewerID())
			}
			if len(seen) != 1 || seen[0] == nil || seen[0].Token != "tok-1" {
				t.Errorf("expected one observer call with new identity, got %v", seen)
			}
		})

		t.Run("Bumps Epoch", func(t *testing.T) {
			store := NewStore("")
			before := store.Epoch()

			store.Set(Identity{Token: "tok-1"})
			if store.Epoch() == before {
				t.Error("expected epoch to advance on Set")
			}
		})

		t.Run("Persists Token", func(t *testing.T) {
			tokenPath := filepath.Join(t.TempDir(), "state", "token")
			store := NewStore(tokenPath)

			if err := store.Set(Identity{Token: "tok-persist"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			data, err := os.ReadFile(tokenPath)
			if err != nil {
				t.Fatalf("expected token file, got %v", err)
			}
			if string(data) != "tok-persist" {
				t.Errorf("expected persisted token 'tok-persist', got %q", string(data))
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		t.Run("Drops Identity And Notifies Nil", func(t *testing.T) {
			store := NewStore("")
			store.Set(Identity{Token: "tok-1", User: models.User{ID: "u1"}})

			var seen []*Identity
			store.Subscribe(func(identity *Identity) {
				seen = append(seen, identity)
			})

			epochBefore := store.Epoch()
			if err := store.Clear(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if store.Current() != nil {
				t.Error("expected anonymous store after Clear")
			}
			if store.Token() != "" || store.ViewerID() != "" {
				t.Error("expected empty token and viewer id after Clear")
			}
			if store.Epoch() == epochBefore {
				t.Error("expected epoch to advance on Clear")
			}
			if len(seen) != 1 || seen[0] != nil {
				t.Errorf("expected one observer call with nil, got %v", seen)
			}
		})

		t.Run("Deletes Persisted Token", func(t *testing.T) {
			tokenPath := filepath.Join(t.TempDir(), "token")
			store := NewStore(tokenPath)
			store.Set(Identity{Token: "tok-1"})

			if err := store.Clear(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := os.Stat(tokenPath); !errors.Is(err, os.ErrNotExist) {
				t.Error("expected token file removed")
			}
		})

		t.Run("Idempotent Without Token File", func(t *testing.T) {
			store := NewStore(filepath.Join(t.TempDir(), "token"))
			if err := store.Clear(); err != nil {
				t.Errorf("expected no error clearing an empty store, got %v", err)
			}
		})
	})

	t.Run("Restore", func(t *testing.T) {
		t.Run("Loads Persisted Token", func(t *testing.T) {
			tokenPath := filepath.Join(t.TempDir(), "token")
			if err := os.WriteFile(tokenPath, []byte("tok-restored\n"), 0600); err != nil {
				t.Fatal(err)
			}

			store := NewStore(tokenPath)
			restored, err := store.Restore()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !restored {
				t.Fatal("expected restore to report a token")
			}
			if store.Token() != "tok-restored" {
				t.Errorf("expected trimmed token 'tok-restored', got %q", store.Token())
			}
			if store.ViewerID() != "" {
				t.Error("restore carries no profile; viewer id must stay empty")
			}
		})

		t.Run("Missing File Is Anonymous", func(t *testing.T) {
			store := NewStore(filepath.Join(t.TempDir(), "token"))
			restored, err := store.Restore()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if restored {
				t.Error("expected no token restored")
			}
		})

		t.Run("Blank File Is Anonymous", func(t *testing.T) {
			tokenPath := filepath.Join(t.TempDir(), "token")
			if err := os.WriteFile(tokenPath, []byte("  \n"), 0600); err != nil {
				t.Fatal(err)
			}

			store := NewStore(tokenPath)
			restored, err := store.Restore()
			if err != nil || restored {
				t.Errorf("expected blank token ignored, got restored=%v err=%v", restored, err)
			}
		})
	})

	t.Run("RequireAuth", func(t *testing.T) {
		store := NewStore("")

		if err := store.RequireAuth(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}

		store.Set(Identity{Token: "tok-1"})
		if err := store.RequireAuth(); err != nil {
			t.Errorf("expected no error once authenticated, got %v", err)
		}
	})
}
