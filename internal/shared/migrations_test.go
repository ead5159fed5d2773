package shared

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T) *sql.DB {
		t.Helper()
		db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"), DatabaseOptions{})
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	}

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db := open(t)

		if err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"nodes", "edges"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(ctx, db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM nodes LIMIT 1"); err == nil {
			t.Error("nodes table should be gone after rollback")
		}

		if err := RollbackMigration(ctx, db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db := open(t)

		if err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}
		if err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		applied, err := AppliedMigrations(ctx, db)
		if err != nil {
			t.Fatalf("failed to read applied migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if len(applied) != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), len(applied))
		}
	})
}

func TestRemoveComments(t *testing.T) {
	got := removeComments("-- header; with semicolon\nCREATE TABLE x (a TEXT); -- trailing\n\n")
	want := "CREATE TABLE x (a TEXT);"
	if got != want {
		t.Errorf("removeComments() = %q, want %q", got, want)
	}
}
