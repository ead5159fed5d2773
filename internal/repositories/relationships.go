package repositories

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
)

// Relationships manages CONTAINS edges from one container kind to videos.
type Relationships struct {
	container models.Kind
	store     graph.Store
	logger    *log.Logger
}

// NewRelationships creates a manager for container, which must be a container kind.
func NewRelationships(store graph.Store, container models.Kind, opts Options) (*Relationships, error) {
	if !container.IsContainer() {
		return nil, fmt.Errorf("%w: %s cannot contain videos", shared.ErrInvalidArgument, container)
	}
	opts = opts.withDefaults()
	return &Relationships{
		container: container,
		store:     store,
		logger:    shared.WithLogger(opts.Logger, "container", container),
	}, nil
}

// Container returns the managed container kind.
func (m *Relationships) Container() models.Kind {
	return m.container
}

func (m *Relationships) refs(containerID, videoID string) (graph.Ref, graph.Ref) {
	return graph.Ref{Label: m.container.String(), ID: containerID},
		graph.Ref{Label: models.KindVideo.String(), ID: videoID}
}

// AddVideo links the container to the video. Adding an existing edge succeeds without creating
// a second one; either node missing yields [shared.ErrNotFound].
func (m *Relationships) AddVideo(ctx context.Context, containerID, videoID string) error {
	if containerID == "" || videoID == "" {
		return shared.ErrMissingID
	}

	from, to := m.refs(containerID, videoID)
	var created bool
	err := m.store.WriteTx(ctx, func(tx graph.Tx) error {
		var err error
		created, err = tx.MergeEdge(ctx, models.Contains, from, to)
		return err
	})
	if err != nil {
		return storeError(m.logger, "add video", err)
	}

	m.logger.Debug("video linked", "from", containerID, "video", videoID, "created", created)
	return nil
}

// RemoveVideo unlinks the container from the video. A missing edge is not an error.
func (m *Relationships) RemoveVideo(ctx context.Context, containerID, videoID string) error {
	if containerID == "" || videoID == "" {
		return shared.ErrMissingID
	}

	from, to := m.refs(containerID, videoID)
	var removed bool
	err := m.store.WriteTx(ctx, func(tx graph.Tx) error {
		var err error
		removed, err = tx.DeleteEdge(ctx, models.Contains, from, to)
		return err
	})
	if err != nil {
		return storeError(m.logger, "remove video", err)
	}

	m.logger.Debug("video unlinked", "from", containerID, "video", videoID, "removed", removed)
	return nil
}

// ListVideos returns the videos the container holds, in store order.
func (m *Relationships) ListVideos(ctx context.Context, containerID string) ([]*models.Video, error) {
	if containerID == "" {
		return nil, shared.ErrMissingID
	}

	from := graph.Ref{Label: m.container.String(), ID: containerID}
	var videos []*models.Video
	err := m.store.ReadTx(ctx, func(tx graph.Tx) error {
		if _, err := tx.FindNode(ctx, from.Label, from.ID); err != nil {
			return err
		}
		nodes, err := tx.Outgoing(ctx, from, models.Contains, models.KindVideo.String())
		if err != nil {
			return err
		}
		videos = make([]*models.Video, 0, len(nodes))
		for _, n := range nodes {
			videos = append(videos, videoCodec.decode(n))
		}
		return nil
	})
	if err != nil {
		return nil, storeError(m.logger, "list videos", err)
	}
	return videos, nil
}

// ListContainers returns the ids of the containers of this kind that hold the video.
func (m *Relationships) ListContainers(ctx context.Context, videoID string) ([]string, error) {
	if videoID == "" {
		return nil, shared.ErrMissingID
	}

	to := graph.Ref{Label: models.KindVideo.String(), ID: videoID}
	var ids []string
	err := m.store.ReadTx(ctx, func(tx graph.Tx) error {
		if _, err := tx.FindNode(ctx, to.Label, to.ID); err != nil {
			return err
		}
		nodes, err := tx.Incoming(ctx, to, models.Contains, m.container.String())
		if err != nil {
			return err
		}
		ids = make([]string, 0, len(nodes))
		for _, n := range nodes {
			ids = append(ids, n.ID)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(m.logger, "list containers", err)
	}
	return ids, nil
}
