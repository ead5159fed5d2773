package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
)

const propUpdated = "updated"

// codec maps an entity kind to and from node properties. The id is never a property.
type codec[T models.Model] struct {
	kind   models.Kind
	encode func(T) graph.Props
	decode func(*graph.Node) T
	// touch records the write time on the handle; nil for kinds without an updated field.
	touch func(T, time.Time)
}

// entityRepository is the CRUD core shared by the per-kind repositories.
type entityRepository[T models.Model] struct {
	store  graph.Store
	ids    *IDAllocator
	codec  codec[T]
	now    func() time.Time
	logger *log.Logger
}

func newEntityRepository[T models.Model](store graph.Store, ids *IDAllocator, c codec[T], opts Options) *entityRepository[T] {
	opts = opts.withDefaults()
	return &entityRepository[T]{
		store:  store,
		ids:    ids,
		codec:  c,
		now:    opts.Clock,
		logger: shared.WithLogger(opts.Logger, "kind", c.kind),
	}
}

// List returns every entity of the kind in store order.
func (r *entityRepository[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := r.store.ReadTx(ctx, func(tx graph.Tx) error {
		nodes, err := tx.Nodes(ctx, r.codec.kind.String())
		if err != nil {
			return err
		}
		items = make([]T, 0, len(nodes))
		for _, n := range nodes {
			items = append(items, r.codec.decode(n))
		}
		return nil
	})
	if err != nil {
		return nil, r.fail("list", err)
	}
	return items, nil
}

// Get returns the entity with the given id, or [shared.ErrNotFound].
func (r *entityRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	if id == "" {
		return item, shared.ErrMissingID
	}

	err := r.store.ReadTx(ctx, func(tx graph.Tx) error {
		n, err := tx.FindNode(ctx, r.codec.kind.String(), id)
		if err != nil {
			return err
		}
		item = r.codec.decode(n)
		return nil
	})
	if err != nil {
		var zero T
		return zero, r.fail("get", err)
	}
	return item, nil
}

// Create validates e, allocates an id from its display name, and writes the node. The handle
// receives its id only once the transaction has committed.
func (r *entityRepository[T]) Create(ctx context.Context, e T) error {
	if err := models.CheckCreate(e); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	now := r.now().UTC()
	props := r.props(e, now)

	var id string
	err := r.store.WriteTx(ctx, func(tx graph.Tx) error {
		var err error
		id, err = r.ids.Claim(ctx, tx, r.codec.kind, e.IDSource(), props)
		return err
	})
	if err != nil {
		return r.fail("create", err)
	}

	e.SetID(id)
	if r.codec.touch != nil {
		r.codec.touch(e, now)
	}
	r.logger.Debug("created", "id", id)
	return nil
}

// Update overwrites the stored attributes of the entity addressed by e's id. The id itself is
// never rewritten, even when the display name changed.
func (r *entityRepository[T]) Update(ctx context.Context, e T) error {
	id := e.ID()
	if id == "" {
		return shared.ErrMissingID
	}
	if err := e.Validate(); err != nil {
		return err
	}

	now := r.now().UTC()
	props := r.props(e, now)

	err := r.store.WriteTx(ctx, func(tx graph.Tx) error {
		ok, err := tx.SetProps(ctx, r.codec.kind.String(), id, props)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s %q", shared.ErrNotFound, r.codec.kind, id)
		}
		return nil
	})
	if err != nil {
		return r.fail("update", err)
	}

	if r.codec.touch != nil {
		r.codec.touch(e, now)
	}
	return nil
}

// Save creates e when it has no id and updates it otherwise.
func (r *entityRepository[T]) Save(ctx context.Context, e T) error {
	if e.ID() == "" {
		return r.Create(ctx, e)
	}
	return r.Update(ctx, e)
}

// Delete removes the entity and every edge touching it, then clears the handle's id.
func (r *entityRepository[T]) Delete(ctx context.Context, e T) error {
	if err := r.DeleteID(ctx, e.ID()); err != nil {
		return err
	}
	e.SetID("")
	return nil
}

// DeleteID removes the node with the given id together with its edges.
func (r *entityRepository[T]) DeleteID(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrMissingID
	}

	err := r.store.WriteTx(ctx, func(tx graph.Tx) error {
		ok, err := tx.DetachDelete(ctx, r.codec.kind.String(), id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s %q", shared.ErrNotFound, r.codec.kind, id)
		}
		return nil
	})
	if err != nil {
		return r.fail("delete", err)
	}

	r.logger.Debug("deleted", "id", id)
	return nil
}

func (r *entityRepository[T]) props(e T, now time.Time) graph.Props {
	props := r.codec.encode(e)
	if r.codec.touch != nil {
		props[propUpdated] = graph.FormatTime(now)
	}
	return props
}

func (r *entityRepository[T]) fail(op string, err error) error {
	return storeError(r.logger, op, err)
}

// storeError passes expected outcomes through and wraps anything else as [shared.ErrStore].
func storeError(logger *log.Logger, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case shared.IsExpected(err), errors.Is(err, shared.ErrAllocationExhausted), errors.Is(err, shared.ErrStore):
		return err
	case errors.Is(err, graph.ErrNodeNotFound):
		return fmt.Errorf("%w: %w", shared.ErrNotFound, err)
	}

	logger.Warn("store failure", "op", op, "err", err)
	return fmt.Errorf("%w: %s: %w", shared.ErrStore, op, err)
}
