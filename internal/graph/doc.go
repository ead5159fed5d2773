// Package graph provides a small labeled-property graph store.
//
// Nodes carry a label (e.g. "Channel"), a public id that is unique per label, and a bag of
// string-keyed properties. Edges are directed, typed, carry no properties, and are unique per
// (type, from, to) pair.
//
// All access goes through transactions obtained from a [Store]:
//
//	err := store.WriteTx(ctx, func(tx graph.Tx) error {
//		if err := tx.CreateNode(ctx, "Video", "intro", graph.Props{"title": "Intro"}); err != nil {
//			return err
//		}
//		_, err := tx.MergeEdge(ctx, "CONTAINS", graph.Ref{Label: "Series", ID: "smw"}, graph.Ref{Label: "Video", ID: "intro"})
//		return err
//	})
//
// The function's error decides the outcome: nil commits, anything else rolls back. The
// transaction is released on every path. [SQLiteStore] takes the database write lock when a
// write transaction begins, so reads followed by writes inside one WriteTx are serializable
// with respect to other writers. ReadTx uses a separate query-only pool with deferred
// transactions and does not block writers or other readers.
package graph
