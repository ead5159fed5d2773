package tasks

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
)

// Manifest describes a batch of catalog entries to import.
//
//	[[channels]]
//	name = "raocow"
//	youtube_id = "UCjM-Wd2651MWgo0s5yNQRJA"
//
//	[[series]]
//	name = "Super Marisa World"
//
//	[[videos]]
//	title = "Super Marisa World 01"
//	youtube_id = "dQw4w9WgXcQ"
//	published = 2012-05-01T00:00:00Z
//	channels = ["raocow"]
//	series = ["Super Marisa World"]
type Manifest struct {
	Channels []ChannelEntry `toml:"channels"`
	Series   []SeriesEntry  `toml:"series"`
	Videos   []VideoEntry   `toml:"videos"`
}

type ChannelEntry struct {
	Name      string `toml:"name"`
	YoutubeID string `toml:"youtube_id"`
}

type SeriesEntry struct {
	Name string `toml:"name"`
}

// VideoEntry references its containers by the names used in the same manifest.
type VideoEntry struct {
	Title     string    `toml:"title"`
	YoutubeID string    `toml:"youtube_id"`
	Published time.Time `toml:"published"`
	Channels  []string  `toml:"channels"`
	Series    []string  `toml:"series"`
}

func (e ChannelEntry) model() *models.Channel { return models.NewChannel(e.YoutubeID, e.Name) }
func (e SeriesEntry) model() *models.Series   { return models.NewSeries(e.Name) }
func (e VideoEntry) model() *models.Video     { return models.NewVideo(e.YoutubeID, e.Title, e.Published) }

// LoadManifest reads and checks the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: manifest %s does not exist", shared.ErrInvalidArgument, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes a TOML manifest and checks it with [Manifest.Validate].
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse manifest: %w", shared.ErrInvalidInput, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown manifest key %q", shared.ErrInvalidInput, undecoded[0].String())
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate rejects duplicate container names and references to containers the manifest does
// not define. Field-level validation is left to the repositories so that one bad entry does
// not reject the whole batch.
func (m *Manifest) Validate() error {
	channels, err := nameSet("channel", len(m.Channels), func(i int) string { return m.Channels[i].Name })
	if err != nil {
		return err
	}
	series, err := nameSet("series", len(m.Series), func(i int) string { return m.Series[i].Name })
	if err != nil {
		return err
	}

	var errs []error
	for i, v := range m.Videos {
		for _, name := range v.Channels {
			if !channels[name] {
				errs = append(errs, fmt.Errorf("%w: video %d (%s) references unknown channel %q", shared.ErrInvalidInput, i, v.Title, name))
			}
		}
		for _, name := range v.Series {
			if !series[name] {
				errs = append(errs, fmt.Errorf("%w: video %d (%s) references unknown series %q", shared.ErrInvalidInput, i, v.Title, name))
			}
		}
	}
	return errors.Join(errs...)
}

// Links counts the container references across all videos.
func (m *Manifest) Links() int {
	n := 0
	for _, v := range m.Videos {
		n += len(v.Channels) + len(v.Series)
	}
	return n
}

func nameSet(kind string, n int, name func(int) string) (map[string]bool, error) {
	set := make(map[string]bool, n)
	for i := range n {
		if set[name(i)] {
			return nil, fmt.Errorf("%w: duplicate %s name %q", shared.ErrInvalidInput, kind, name(i))
		}
		set[name(i)] = true
	}
	return set, nil
}
