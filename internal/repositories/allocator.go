package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
	"github.com/desertthunder/raocow/internal/slug"
)

// DefaultMaxIDAttempts bounds the suffix search when no limit is configured.
const DefaultMaxIDAttempts = 10000

// IDAllocator assigns ids of the form slug, slug1, slug2, ... within a kind's namespace.
type IDAllocator struct {
	maxAttempts int
	logger      *log.Logger
}

// NewIDAllocator creates an allocator that gives up after maxAttempts candidates.
func NewIDAllocator(maxAttempts int, logger *log.Logger) *IDAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxIDAttempts
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &IDAllocator{maxAttempts: maxAttempts, logger: logger}
}

// Candidate returns the id tried for source with the given numeric suffix (0 means none).
// The slug is shortened as needed so the suffixed id stays within [slug.MaxLength].
func Candidate(source string, suffix int) string {
	if suffix == 0 {
		return slug.Make(source, slug.MaxLength)
	}
	n := strconv.Itoa(suffix)
	return slug.Make(source, slug.MaxLength-len(n)) + n
}

// Claim picks the first free candidate for source and creates the node under it, both inside
// tx. A candidate taken by a concurrent writer between probe and insert surfaces as
// [graph.ErrConflict] and the search moves on to the next suffix.
func (a *IDAllocator) Claim(ctx context.Context, tx graph.Tx, kind models.Kind, source string, props graph.Props) (string, error) {
	suffix := 0
	if Candidate(source, 0) == "" {
		suffix = 1 // "" means unsaved on a handle
	}

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		id := Candidate(source, suffix)
		suffix++

		taken, err := tx.HasNode(ctx, kind.String(), id)
		if err != nil {
			return "", err
		}
		if taken {
			a.logger.Debug("id taken", "kind", kind, "id", id)
			continue
		}

		err = tx.CreateNode(ctx, kind.String(), id, props)
		if errors.Is(err, graph.ErrConflict) {
			a.logger.Debug("id claimed concurrently", "kind", kind, "id", id)
			continue
		}
		if err != nil {
			return "", err
		}

		a.logger.Debug("id allocated", "kind", kind, "id", id, "attempts", attempt+1)
		return id, nil
	}

	a.logger.Warn("id allocation exhausted", "kind", kind, "source", source, "attempts", a.maxAttempts)
	return "", fmt.Errorf("%w: no free %s id for %q after %d attempts",
		shared.ErrAllocationExhausted, kind, source, a.maxAttempts)
}
