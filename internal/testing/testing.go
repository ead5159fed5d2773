// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/shared"
)

// OpenStore opens a migrated SQLite graph store in a fresh temp directory. The store is
// closed when the test finishes.
func OpenStore(t *testing.T) *graph.SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := graph.OpenSQLite(context.Background(), path, shared.DatabaseOptions{BusyTimeoutMS: 5000})
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// FaultyStore wraps a [graph.Store] and fails selected operations.
//
// Fail is keyed by [graph.Tx] method name ("CreateNode", "MergeEdge", ...) or by one of
// "ReadTx", "WriteTx" (fail before the transaction starts) and "Commit" (fail after fn
// succeeds, forcing a rollback).
type FaultyStore struct {
	graph.Store
	Fail map[string]error

	mu    sync.Mutex
	calls map[string]int
}

// NewFaultyStore wraps store with the given failures.
func NewFaultyStore(store graph.Store, fail map[string]error) *FaultyStore {
	return &FaultyStore{Store: store, Fail: fail, calls: map[string]int{}}
}

// Calls returns how many times op was attempted.
func (s *FaultyStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *FaultyStore) check(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[op]++
	return s.Fail[op]
}

func (s *FaultyStore) ReadTx(ctx context.Context, fn func(graph.Tx) error) error {
	if err := s.check("ReadTx"); err != nil {
		return err
	}
	return s.Store.ReadTx(ctx, func(tx graph.Tx) error {
		return fn(&faultyTx{Tx: tx, store: s})
	})
}

func (s *FaultyStore) WriteTx(ctx context.Context, fn func(graph.Tx) error) error {
	if err := s.check("WriteTx"); err != nil {
		return err
	}
	return s.Store.WriteTx(ctx, func(tx graph.Tx) error {
		if err := fn(&faultyTx{Tx: tx, store: s}); err != nil {
			return err
		}
		return s.check("Commit")
	})
}

type faultyTx struct {
	graph.Tx
	store *FaultyStore
}

func (t *faultyTx) FindNode(ctx context.Context, label, id string) (*graph.Node, error) {
	if err := t.store.check("FindNode"); err != nil {
		return nil, err
	}
	return t.Tx.FindNode(ctx, label, id)
}

func (t *faultyTx) HasNode(ctx context.Context, label, id string) (bool, error) {
	if err := t.store.check("HasNode"); err != nil {
		return false, err
	}
	return t.Tx.HasNode(ctx, label, id)
}

func (t *faultyTx) Nodes(ctx context.Context, label string) ([]*graph.Node, error) {
	if err := t.store.check("Nodes"); err != nil {
		return nil, err
	}
	return t.Tx.Nodes(ctx, label)
}

func (t *faultyTx) CreateNode(ctx context.Context, label, id string, props graph.Props) error {
	if err := t.store.check("CreateNode"); err != nil {
		return err
	}
	return t.Tx.CreateNode(ctx, label, id, props)
}

func (t *faultyTx) SetProps(ctx context.Context, label, id string, props graph.Props) (bool, error) {
	if err := t.store.check("SetProps"); err != nil {
		return false, err
	}
	return t.Tx.SetProps(ctx, label, id, props)
}

func (t *faultyTx) DetachDelete(ctx context.Context, label, id string) (bool, error) {
	if err := t.store.check("DetachDelete"); err != nil {
		return false, err
	}
	return t.Tx.DetachDelete(ctx, label, id)
}

func (t *faultyTx) MergeEdge(ctx context.Context, edgeType string, from, to graph.Ref) (bool, error) {
	if err := t.store.check("MergeEdge"); err != nil {
		return false, err
	}
	return t.Tx.MergeEdge(ctx, edgeType, from, to)
}

func (t *faultyTx) DeleteEdge(ctx context.Context, edgeType string, from, to graph.Ref) (bool, error) {
	if err := t.store.check("DeleteEdge"); err != nil {
		return false, err
	}
	return t.Tx.DeleteEdge(ctx, edgeType, from, to)
}

func (t *faultyTx) Outgoing(ctx context.Context, from graph.Ref, edgeType, toLabel string) ([]*graph.Node, error) {
	if err := t.store.check("Outgoing"); err != nil {
		return nil, err
	}
	return t.Tx.Outgoing(ctx, from, edgeType, toLabel)
}

func (t *faultyTx) Incoming(ctx context.Context, to graph.Ref, edgeType, fromLabel string) ([]*graph.Node, error) {
	if err := t.store.check("Incoming"); err != nil {
		return nil, err
	}
	return t.Tx.Incoming(ctx, to, edgeType, fromLabel)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// WriteFile writes content to name under a fresh temp directory and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
