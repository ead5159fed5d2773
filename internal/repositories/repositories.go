package repositories

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
)

// Options configures repositories and relationship managers.
type Options struct {
	Logger *log.Logger
	// MaxIDAttempts bounds the allocator's suffix search. Zero means [DefaultMaxIDAttempts].
	MaxIDAttempts int
	// Clock supplies write timestamps. Defaults to [time.Now].
	Clock func() time.Time
}

// OptionsFromConfig builds [Options] from the [ids] section of cfg.
func OptionsFromConfig(cfg *shared.Config, logger *log.Logger) Options {
	return Options{Logger: logger, MaxIDAttempts: cfg.IDs.MaxAttempts}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = shared.DiscardLogger()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Set bundles every repository and relationship manager over one store.
type Set struct {
	Channels      *ChannelRepository
	Series        *SeriesRepository
	Videos        *VideoRepository
	ChannelVideos *Relationships
	SeriesVideos  *Relationships
}

// New wires a [Set] over store. The allocator is shared by all kinds.
func New(store graph.Store, opts Options) *Set {
	opts = opts.withDefaults()
	opts.Logger = shared.WithLogger(opts.Logger, "component", "repositories")
	ids := NewIDAllocator(opts.MaxIDAttempts, opts.Logger)

	return &Set{
		Channels:      NewChannelRepository(store, ids, opts),
		Series:        NewSeriesRepository(store, ids, opts),
		Videos:        NewVideoRepository(store, ids, opts),
		ChannelVideos: mustRelationships(store, models.KindChannel, opts),
		SeriesVideos:  mustRelationships(store, models.KindSeries, opts),
	}
}

// Relationships returns the manager for a container kind, or nil for videos.
func (s *Set) Relationships(kind models.Kind) *Relationships {
	switch kind {
	case models.KindChannel:
		return s.ChannelVideos
	case models.KindSeries:
		return s.SeriesVideos
	default:
		return nil
	}
}

func mustRelationships(store graph.Store, kind models.Kind, opts Options) *Relationships {
	m, err := NewRelationships(store, kind, opts)
	if err != nil {
		panic(err)
	}
	return m
}
