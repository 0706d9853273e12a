package shared

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	t.Run("Apply", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected migrations to apply, got %v", err)
		}

		for _, table := range []string{"cached_movies", "cached_movies_sequence", "cached_favorites", "schema_migrations"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			if err != nil {
				t.Errorf("expected table %s to exist: %v", table, err)
			}
		}

		var value int
		if err := db.QueryRow("SELECT value FROM cached_movies_sequence WHERE id = 1").Scan(&value); err != nil {
			t.Fatalf("expected sequence row seeded, got %v", err)
		}
		if value != 0 {
			t.Errorf("expected sequence seeded at 0, got %d", value)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := RunMigrations(db); err != nil {
			t.Fatal(err)
		}
		if err := RunMigrations(db); err != nil {
			t.Errorf("expected second run to be a no-op, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("expected one recorded migration, got %d", count)
		}
	})

	t.Run("Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := RunMigrations(db); err != nil {
			t.Fatal(err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected rollback to succeed, got %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'cached_movies'").Scan(&name)
		if err == nil {
			t.Error("expected cached_movies dropped by rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error rolling back with nothing applied")
		}
	})
}
