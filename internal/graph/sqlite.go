package graph

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/raocow/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore implements [Store] on the nodes/edges schema created by [shared.RunMigrations].
type SQLiteStore struct {
	db    *sql.DB
	reads *sql.DB
}

// NewSQLiteStore wraps open databases. db should come from [shared.NewDatabase] so that write
// transactions begin immediately and foreign keys are enforced. reads, when not nil, should
// come from [shared.NewReadDatabase] and serves [SQLiteStore.ReadTx]; nil sends reads to db.
func NewSQLiteStore(db, reads *sql.DB) *SQLiteStore {
	if reads == nil {
		reads = db
	}
	return &SQLiteStore{db: db, reads: reads}
}

// OpenSQLite opens the database at path, applies pending migrations, and returns the store.
// File databases get a separate query-only pool for reads.
func OpenSQLite(ctx context.Context, path string, opts shared.DatabaseOptions) (*SQLiteStore, error) {
	db, err := shared.NewDatabase(path, opts)
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if shared.IsMemory(path) {
		return NewSQLiteStore(db, nil), nil
	}

	reads, err := shared.NewReadDatabase(path, opts)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	return NewSQLiteStore(db, reads), nil
}

// DB exposes the read/write connection pool.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the underlying databases.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	var err error
	if s.reads != s.db {
		err = s.reads.Close()
	}
	return errors.Join(s.db.Close(), err)
}

// ReadTx runs fn in a deferred transaction on the read pool and always rolls it back. The
// transaction holds a shared snapshot from its first query, never the write lock, so reads do
// not wait on each other and a writer may commit while they are open. Over an in-memory
// database reads share the single read/write connection and therefore run one at a time.
func (s *SQLiteStore) ReadTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.reads.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&sqliteTx{tx: tx})
}

// WriteTx runs fn in a write transaction, committing when fn returns nil.
func (s *SQLiteStore) WriteTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) FindNode(ctx context.Context, label, id string) (*Node, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT key, label, id, properties
		FROM nodes
		WHERE label = ? AND id = ?
	`, label, id)

	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, Ref{Label: label, ID: id})
	}
	return node, err
}

func (t *sqliteTx) HasNode(ctx context.Context, label, id string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM nodes WHERE label = ? AND id = ?)", label, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe node: %w", err)
	}
	return exists, nil
}

func (t *sqliteTx) Nodes(ctx context.Context, label string) ([]*Node, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT key, label, id, properties
		FROM nodes
		WHERE label = ?
		ORDER BY rowid ASC
	`, label)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	return collectNodes(rows)
}

func (t *sqliteTx) CreateNode(ctx context.Context, label, id string, props Props) error {
	encoded, err := encodeProps(props)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(ctx,
		"INSERT INTO nodes (key, label, id, properties) VALUES (?, ?, ?, ?)",
		shared.GenerateID(), label, id, encoded,
	)
	if isConstraint(err) {
		return fmt.Errorf("%w: %s already exists", ErrConflict, Ref{Label: label, ID: id})
	}
	if err != nil {
		return fmt.Errorf("failed to insert node: %w", err)
	}
	return nil
}

func (t *sqliteTx) SetProps(ctx context.Context, label, id string, props Props) (bool, error) {
	node, err := t.FindNode(ctx, label, id)
	if errors.Is(err, ErrNodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for k, v := range props {
		if v == nil {
			delete(node.Props, k)
			continue
		}
		node.Props[k] = v
	}

	encoded, err := encodeProps(node.Props)
	if err != nil {
		return false, err
	}

	if _, err := t.tx.ExecContext(ctx, "UPDATE nodes SET properties = ? WHERE key = ?", encoded, node.Key); err != nil {
		return false, fmt.Errorf("failed to update node: %w", err)
	}
	return true, nil
}

func (t *sqliteTx) DetachDelete(ctx context.Context, label, id string) (bool, error) {
	// Edges go with the node through ON DELETE CASCADE.
	result, err := t.tx.ExecContext(ctx, "DELETE FROM nodes WHERE label = ? AND id = ?", label, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete node: %w", err)
	}
	return affected(result)
}

func (t *sqliteTx) MergeEdge(ctx context.Context, edgeType string, from, to Ref) (bool, error) {
	fromKey, toKey, err := t.endpoints(ctx, from, to)
	if err != nil {
		return false, err
	}

	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO edges (type, from_key, to_key)
		VALUES (?, ?, ?)
		ON CONFLICT (type, from_key, to_key) DO NOTHING
	`, edgeType, fromKey, toKey)
	if isConstraint(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to merge edge: %w", err)
	}
	return affected(result)
}

func (t *sqliteTx) DeleteEdge(ctx context.Context, edgeType string, from, to Ref) (bool, error) {
	result, err := t.tx.ExecContext(ctx, `
		DELETE FROM edges
		WHERE type = ?
		  AND from_key = (SELECT key FROM nodes WHERE label = ? AND id = ?)
		  AND to_key = (SELECT key FROM nodes WHERE label = ? AND id = ?)
	`, edgeType, from.Label, from.ID, to.Label, to.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete edge: %w", err)
	}
	return affected(result)
}

func (t *sqliteTx) Outgoing(ctx context.Context, from Ref, edgeType, toLabel string) ([]*Node, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT n.key, n.label, n.id, n.properties
		FROM edges e
		JOIN nodes src ON src.key = e.from_key
		JOIN nodes n ON n.key = e.to_key
		WHERE e.type = ? AND src.label = ? AND src.id = ? AND n.label = ?
		ORDER BY e.rowid ASC
	`, edgeType, from.Label, from.ID, toLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to query outgoing edges: %w", err)
	}
	return collectNodes(rows)
}

func (t *sqliteTx) Incoming(ctx context.Context, to Ref, edgeType, fromLabel string) ([]*Node, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT n.key, n.label, n.id, n.properties
		FROM edges e
		JOIN nodes dst ON dst.key = e.to_key
		JOIN nodes n ON n.key = e.from_key
		WHERE e.type = ? AND dst.label = ? AND dst.id = ? AND n.label = ?
		ORDER BY e.rowid ASC
	`, edgeType, to.Label, to.ID, fromLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to query incoming edges: %w", err)
	}
	return collectNodes(rows)
}

// endpoints resolves the row keys of both ends of an edge.
func (t *sqliteTx) endpoints(ctx context.Context, from, to Ref) (string, string, error) {
	fromNode, err := t.FindNode(ctx, from.Label, from.ID)
	if err != nil {
		return "", "", err
	}
	toNode, err := t.FindNode(ctx, to.Label, to.ID)
	if err != nil {
		return "", "", err
	}
	return fromNode.Key, toNode.Key, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*Node, error) {
	var (
		node       Node
		properties string
	)

	if err := row.Scan(&node.Key, &node.Label, &node.ID, &properties); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan node: %w", err)
	}

	node.Props = Props{}
	if properties != "" {
		if err := json.Unmarshal([]byte(properties), &node.Props); err != nil {
			return nil, fmt.Errorf("failed to decode properties of %s: %w", node.Ref(), err)
		}
	}

	return &node, nil
}

func collectNodes(rows *sql.Rows) ([]*Node, error) {
	defer rows.Close()

	var nodes []*Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return nodes, nil
}

func encodeProps(props Props) (string, error) {
	if props == nil {
		return "{}", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("failed to encode properties: %w", err)
	}
	return string(data), nil
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// isConstraint reports whether err is a UNIQUE or PRIMARY KEY violation.
func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
