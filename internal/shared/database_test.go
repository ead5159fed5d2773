package shared

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	tt := []struct {
		name    string
		dsn     string
		want    []string
		notWant []string
	}{
		{
			name:    "file read/write",
			dsn:     DSN("catalog.db", 0),
			want:    []string{"file:catalog.db?", "_txlock=immediate", "_journal_mode=WAL", "_busy_timeout=5000", "_foreign_keys=on"},
			notWant: []string{"_query_only"},
		},
		{
			name:    "memory read/write",
			dsn:     DSN(":memory:", 250),
			want:    []string{"_txlock=immediate", "_busy_timeout=250"},
			notWant: []string{"_journal_mode"},
		},
		{
			name:    "file read only",
			dsn:     ReadDSN("catalog.db", 0),
			want:    []string{"file:catalog.db?", "_txlock=deferred", "_query_only=true", "_foreign_keys=on"},
			notWant: []string{"immediate", "_journal_mode"},
		},
		{
			name: "existing query string",
			dsn:  ReadDSN("file:catalog.db?cache=shared", 0),
			want: []string{"file:catalog.db?cache=shared&"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			for _, s := range tc.want {
				if !strings.Contains(tc.dsn, s) {
					t.Errorf("expected %q in %q", s, tc.dsn)
				}
			}
			for _, s := range tc.notWant {
				if strings.Contains(tc.dsn, s) {
					t.Errorf("did not expect %q in %q", s, tc.dsn)
				}
			}
		})
	}
}

func TestNewReadDatabase(t *testing.T) {
	t.Run("rejects memory databases", func(t *testing.T) {
		if _, err := NewReadDatabase(":memory:", DatabaseOptions{}); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("refuses writes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.db")
		db, err := NewDatabase(path, DatabaseOptions{})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		if _, err := db.Exec("CREATE TABLE items (name TEXT)"); err != nil {
			t.Fatalf("failed to create table: %v", err)
		}

		reads, err := NewReadDatabase(path, DatabaseOptions{})
		if err != nil {
			t.Fatalf("failed to open read pool: %v", err)
		}
		defer reads.Close()

		var n int
		if err := reads.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
			t.Errorf("read failed: %v", err)
		}
		if _, err := reads.Exec("INSERT INTO items (name) VALUES ('x')"); err == nil {
			t.Error("expected insert through the read pool to fail")
		}
	})
}
