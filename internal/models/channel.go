package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Channel is a YouTube channel in the catalog.
type Channel struct {
	id        string
	YoutubeID string
	Name      string
	Updated   time.Time
}

// NewChannel returns an unsaved channel.
func NewChannel(youtubeID, name string) *Channel {
	return &Channel{YoutubeID: youtubeID, Name: name}
}

func (c *Channel) ID() string       { return c.id }
func (c *Channel) SetID(id string)  { c.id = id }
func (c *Channel) Kind() Kind       { return KindChannel }
func (c *Channel) IDSource() string { return c.Name }

// Validate requires youtubeId and name.
func (c *Channel) Validate() error {
	return errors.Join(
		required(KindChannel, "youtubeId", c.YoutubeID),
		required(KindChannel, "name", c.Name),
	)
}

// ChannelPatch holds the attributes of a partial update; empty fields are left untouched.
type ChannelPatch struct {
	YoutubeID string
	Name      string
}

// Apply copies the provided fields of p onto c. The id is never changed.
func (c *Channel) Apply(p ChannelPatch) {
	if p.YoutubeID != "" {
		c.YoutubeID = p.YoutubeID
	}
	if p.Name != "" {
		c.Name = p.Name
	}
}

type channelJSON struct {
	ID        string     `json:"id"`
	YoutubeID string     `json:"youtubeId"`
	Name      string     `json:"name"`
	Updated   *time.Time `json:"updated,omitempty"`
}

func (c *Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(channelJSON{ID: c.id, YoutubeID: c.YoutubeID, Name: c.Name, Updated: timePtr(c.Updated)})
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
