package models

import (
	"encoding/json"
	"time"
)

// Series is a named group of videos, independent of the channel that uploaded them.
type Series struct {
	id      string
	Name    string
	Updated time.Time
}

// NewSeries returns an unsaved series.
func NewSeries(name string) *Series {
	return &Series{Name: name}
}

func (s *Series) ID() string       { return s.id }
func (s *Series) SetID(id string)  { s.id = id }
func (s *Series) Kind() Kind       { return KindSeries }
func (s *Series) IDSource() string { return s.Name }

// Validate requires name.
func (s *Series) Validate() error {
	return required(KindSeries, "name", s.Name)
}

// SeriesPatch holds the attributes of a partial update.
type SeriesPatch struct {
	Name string
}

// Apply copies the provided fields of p onto s.
func (s *Series) Apply(p SeriesPatch) {
	if p.Name != "" {
		s.Name = p.Name
	}
}

type seriesJSON struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Updated *time.Time `json:"updated,omitempty"`
}

func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(seriesJSON{ID: s.id, Name: s.Name, Updated: timePtr(s.Updated)})
}
