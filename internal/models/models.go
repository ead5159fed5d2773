// package models defines the data model for the video catalog
package models

import (
	"fmt"

	"github.com/desertthunder/raocow/internal/shared"
)

// Kind names an entity kind. It doubles as the node label in the graph store.
type Kind string

const (
	KindChannel Kind = "Channel"
	KindSeries  Kind = "Series"
	KindVideo   Kind = "Video"
)

// Contains is the edge type from a container to a Video.
const Contains = "CONTAINS"

func (k Kind) String() string { return string(k) }

// IsContainer reports whether entities of this kind may own CONTAINS edges.
func (k Kind) IsContainer() bool {
	return k == KindChannel || k == KindSeries
}

// Model defines the base interface for all persistent catalog entities.
type Model interface {
	ID() string       // ID returns the slug id, or "" before the first save
	SetID(id string)  // SetID is used by repositories after a commit
	Kind() Kind       // Kind returns the node label
	IDSource() string // IDSource returns the display text the id is derived from
	Validate() error  // Validate checks required attributes
}

// CheckPathID rejects an update whose body carries an id different from the addressed one.
// An empty bodyID is accepted.
func CheckPathID(pathID, bodyID string) error {
	if pathID == "" {
		return shared.ErrMissingID
	}
	if bodyID != "" && bodyID != pathID {
		return fmt.Errorf("%w: id %q does not match %q", shared.ErrValidation, bodyID, pathID)
	}
	return nil
}

// CheckCreate rejects a create request for a handle that already carries an id.
func CheckCreate(m Model) error {
	if m.ID() != "" {
		return fmt.Errorf("%w: new %s must not carry an id (got %q)", shared.ErrValidation, m.Kind(), m.ID())
	}
	return nil
}

func required(kind Kind, field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s %s is required", shared.ErrValidation, kind, field)
	}
	return nil
}
