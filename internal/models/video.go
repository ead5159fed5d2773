package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/raocow/internal/shared"
)

// Video is a single upload. Videos have no updated timestamp; published is supplied by the
// caller.
type Video struct {
	id        string
	YoutubeID string
	Title     string
	Published time.Time
}

// NewVideo returns an unsaved video.
func NewVideo(youtubeID, title string, published time.Time) *Video {
	return &Video{YoutubeID: youtubeID, Title: title, Published: published}
}

func (v *Video) ID() string       { return v.id }
func (v *Video) SetID(id string)  { v.id = id }
func (v *Video) Kind() Kind       { return KindVideo }
func (v *Video) IDSource() string { return v.Title }

// Validate requires title, published and youtubeId.
func (v *Video) Validate() error {
	var published error
	if v.Published.IsZero() {
		published = fmt.Errorf("%w: %s published is required", shared.ErrValidation, KindVideo)
	}
	return errors.Join(
		required(KindVideo, "title", v.Title),
		published,
		required(KindVideo, "youtubeId", v.YoutubeID),
	)
}

// VideoPatch holds the attributes of a partial update.
type VideoPatch struct {
	YoutubeID string
	Title     string
	Published time.Time
}

// Apply copies the provided fields of p onto v.
func (v *Video) Apply(p VideoPatch) {
	if p.YoutubeID != "" {
		v.YoutubeID = p.YoutubeID
	}
	if p.Title != "" {
		v.Title = p.Title
	}
	if !p.Published.IsZero() {
		v.Published = p.Published.UTC()
	}
}

type videoJSON struct {
	ID        string     `json:"id"`
	YoutubeID string     `json:"youtubeId"`
	Title     string     `json:"title"`
	Published *time.Time `json:"published,omitempty"`
}

func (v *Video) MarshalJSON() ([]byte, error) {
	return json.Marshal(videoJSON{ID: v.id, YoutubeID: v.YoutubeID, Title: v.Title, Published: timePtr(v.Published)})
}
