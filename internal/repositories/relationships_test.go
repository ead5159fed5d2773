package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
	tu "github.com/desertthunder/raocow/internal/testing"
)

func seed(t *testing.T, set *Set) (*models.Channel, *models.Series, *models.Video) {
	t.Helper()
	ctx := context.Background()

	c := models.NewChannel("UCabc", "raocow")
	s := models.NewSeries("super marisa world")
	v := models.NewVideo("yt1", "Super marisa world 1", published(1))

	for _, err := range []error{set.Channels.Save(ctx, c), set.Series.Save(ctx, s), set.Videos.Save(ctx, v)} {
		if err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}
	return c, s, v
}

func TestRelationships(t *testing.T) {
	ctx := context.Background()

	t.Run("AddVideoTwice", func(t *testing.T) {
		set, store := setupTestSet(t)
		c, _, v := seed(t, set)

		for i := range 2 {
			if err := set.ChannelVideos.AddVideo(ctx, c.ID(), v.ID()); err != nil {
				t.Fatalf("add %d failed: %v", i, err)
			}
		}
		if n := countEdges(t, store); n != 1 {
			t.Errorf("expected exactly 1 edge, got %d", n)
		}
	})

	t.Run("AddVideoMissingNode", func(t *testing.T) {
		set, store := setupTestSet(t)
		c, _, v := seed(t, set)

		tt := []struct {
			name      string
			container string
			video     string
		}{
			{name: "missing container", container: "nobody", video: v.ID()},
			{name: "missing video", container: c.ID(), video: "nothing"},
		}
		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if err := set.ChannelVideos.AddVideo(ctx, tc.container, tc.video); !errors.Is(err, shared.ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
			})
		}
		if n := countEdges(t, store); n != 0 {
			t.Errorf("expected no edges, got %d", n)
		}
	})

	t.Run("AddVideoWrongKind", func(t *testing.T) {
		set, _ := setupTestSet(t)
		c, _, v := seed(t, set)

		if err := set.SeriesVideos.AddVideo(ctx, c.ID(), v.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("a channel id is not a series id, got %v", err)
		}
	})

	t.Run("MissingIDs", func(t *testing.T) {
		set, _ := setupTestSet(t)

		if err := set.ChannelVideos.AddVideo(ctx, "", "v"); !errors.Is(err, shared.ErrMissingID) {
			t.Errorf("expected ErrMissingID, got %v", err)
		}
		if err := set.ChannelVideos.RemoveVideo(ctx, "", "v"); !errors.Is(err, shared.ErrMissingID) {
			t.Errorf("expected ErrMissingID, got %v", err)
		}
		if _, err := set.ChannelVideos.ListVideos(ctx, ""); !errors.Is(err, shared.ErrMissingID) {
			t.Errorf("expected ErrMissingID, got %v", err)
		}
	})

	t.Run("RemoveVideo", func(t *testing.T) {
		set, store := setupTestSet(t)
		_, s, v := seed(t, set)

		if err := set.SeriesVideos.AddVideo(ctx, s.ID(), v.ID()); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := set.SeriesVideos.RemoveVideo(ctx, s.ID(), v.ID()); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if n := countEdges(t, store); n != 0 {
			t.Errorf("expected no edges, got %d", n)
		}

		if err := set.SeriesVideos.RemoveVideo(ctx, s.ID(), v.ID()); err != nil {
			t.Errorf("removing an absent edge should succeed, got %v", err)
		}
		if n := countNodes(t, store, models.KindVideo); n != 1 {
			t.Errorf("remove must leave nodes alone, got %d videos", n)
		}
	})

	t.Run("ListVideosUnknownContainer", func(t *testing.T) {
		set, _ := setupTestSet(t)
		if _, err := set.ChannelVideos.ListVideos(ctx, "nobody"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListContainers", func(t *testing.T) {
		set, _ := setupTestSet(t)
		c, s, v := seed(t, set)
		other := models.NewChannel("UCdef", "Talking Time")
		if err := set.Channels.Save(ctx, other); err != nil {
			t.Fatalf("failed to save channel: %v", err)
		}

		for _, id := range []string{c.ID(), other.ID()} {
			if err := set.ChannelVideos.AddVideo(ctx, id, v.ID()); err != nil {
				t.Fatalf("add failed: %v", err)
			}
		}
		if err := set.SeriesVideos.AddVideo(ctx, s.ID(), v.ID()); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		channels, err := set.ChannelVideos.ListContainers(ctx, v.ID())
		if err != nil {
			t.Fatalf("list containers failed: %v", err)
		}
		if len(channels) != 2 || channels[0] != "raocow" || channels[1] != "talking-time" {
			t.Errorf("unexpected channels: %v", channels)
		}

		series, err := set.SeriesVideos.ListContainers(ctx, v.ID())
		if err != nil {
			t.Fatalf("list containers failed: %v", err)
		}
		if len(series) != 1 || series[0] != s.ID() {
			t.Errorf("unexpected series: %v", series)
		}
	})

	t.Run("DeleteChannelCascades", func(t *testing.T) {
		set, store := setupTestSet(t)
		c, s, v := seed(t, set)
		channelID := c.ID()

		if err := set.ChannelVideos.AddVideo(ctx, channelID, v.ID()); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := set.SeriesVideos.AddVideo(ctx, s.ID(), v.ID()); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		if err := set.Channels.Delete(ctx, c); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		if _, err := set.Channels.Get(ctx, channelID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		containers, err := set.ChannelVideos.ListContainers(ctx, v.ID())
		if err != nil {
			t.Fatalf("list containers failed: %v", err)
		}
		if len(containers) != 0 {
			t.Errorf("deleted channel still contains the video: %v", containers)
		}
		if n := countEdges(t, store); n != 1 {
			t.Errorf("expected the series edge to survive, got %d edges", n)
		}
		videos, err := set.SeriesVideos.ListVideos(ctx, s.ID())
		if err != nil || len(videos) != 1 {
			t.Errorf("series membership should be untouched: %v, %v", videos, err)
		}
	})

	t.Run("DeleteVideoCascades", func(t *testing.T) {
		set, store := setupTestSet(t)
		c, _, v := seed(t, set)

		if err := set.ChannelVideos.AddVideo(ctx, c.ID(), v.ID()); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := set.Videos.Delete(ctx, v); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		videos, err := set.ChannelVideos.ListVideos(ctx, c.ID())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(videos) != 0 || countEdges(t, store) != 0 {
			t.Errorf("expected no remaining membership, got %d videos", len(videos))
		}
	})
}

func TestNewRelationships(t *testing.T) {
	if _, err := NewRelationships(tu.OpenStore(t), models.KindVideo, Options{}); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for a video container, got %v", err)
	}

	set := New(tu.OpenStore(t), Options{})
	if set.Relationships(models.KindChannel) != set.ChannelVideos || set.Relationships(models.KindVideo) != nil {
		t.Error("unexpected relationship lookup")
	}
}
