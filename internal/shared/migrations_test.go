package shared

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&name)
		if err != nil {
			t.Fatalf("documents table should exist: %v", err)
		}

		t.Run("Is Idempotent", func(t *testing.T) {
			if err := RunMigrations(db); err != nil {
				t.Errorf("second run should be a no-op, got %v", err)
			}
		})
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&name)
		if err == nil {
			t.Error("documents table should be dropped after rollback")
		}

		t.Run("Nothing Left To Rollback", func(t *testing.T) {
			if err := RollbackMigration(db); err == nil {
				t.Error("expected error when no migrations are applied")
			}
		})
	})
}
