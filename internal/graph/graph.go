package graph

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConflict is returned when a write would violate node id or edge uniqueness.
	ErrConflict = errors.New("graph: uniqueness conflict")
	// ErrNodeNotFound is returned when a node referenced by id does not exist.
	ErrNodeNotFound = errors.New("graph: node not found")
)

// Props is a node's property bag. Values are JSON scalars: strings, numbers, booleans.
// Timestamps are stored as RFC 3339 strings; see [Props.Time] and [FormatTime].
type Props map[string]any

// String returns the string property key, or "" when absent or not a string.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Time parses the timestamp property key and normalizes it to UTC. Absent or malformed
// values yield the zero time.
func (p Props) Time(key string) time.Time {
	s := p.String(key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// FormatTime renders t in the canonical stored form.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Ref addresses a node by label and public id.
type Ref struct {
	Label string
	ID    string
}

func (r Ref) String() string {
	return fmt.Sprintf("(%s %q)", r.Label, r.ID)
}

// Node is a stored node.
type Node struct {
	Key   string // opaque internal row key
	Label string
	ID    string
	Props Props
}

// Ref returns the node's address.
func (n *Node) Ref() Ref {
	return Ref{Label: n.Label, ID: n.ID}
}

// Tx is a single store transaction. Implementations are not safe for concurrent use.
type Tx interface {
	// FindNode returns the node with the given label and id, or [ErrNodeNotFound].
	FindNode(ctx context.Context, label, id string) (*Node, error)
	// HasNode reports whether a node with the given label and id exists.
	HasNode(ctx context.Context, label, id string) (bool, error)
	// Nodes returns every node with label in store order.
	Nodes(ctx context.Context, label string) ([]*Node, error)
	// CreateNode inserts a node. A taken id yields [ErrConflict].
	CreateNode(ctx context.Context, label, id string, props Props) error
	// SetProps merges props into an existing node; nil values remove keys. It reports whether
	// a node matched.
	SetProps(ctx context.Context, label, id string, props Props) (bool, error)
	// DetachDelete removes a node together with every edge touching it. It reports whether a
	// node was removed.
	DetachDelete(ctx context.Context, label, id string) (bool, error)
	// MergeEdge creates the edge unless it already exists and reports whether it was created.
	// Either endpoint missing yields [ErrNodeNotFound].
	MergeEdge(ctx context.Context, edgeType string, from, to Ref) (bool, error)
	// DeleteEdge removes the edge if present and reports whether it existed.
	DeleteEdge(ctx context.Context, edgeType string, from, to Ref) (bool, error)
	// Outgoing returns the targets of edges of edgeType leaving from, restricted to toLabel.
	Outgoing(ctx context.Context, from Ref, edgeType, toLabel string) ([]*Node, error)
	// Incoming returns the sources of edges of edgeType entering to, restricted to fromLabel.
	Incoming(ctx context.Context, to Ref, edgeType, fromLabel string) ([]*Node, error)
}

// Store hands out transactions. Each call acquires its own session; nothing is shared between
// concurrent callers except the underlying database.
type Store interface {
	ReadTx(ctx context.Context, fn func(Tx) error) error
	WriteTx(ctx context.Context, fn func(Tx) error) error
	Close() error
}
