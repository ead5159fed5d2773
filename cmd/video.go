package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/raocow/internal/formatter"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
	"github.com/urfave/cli/v3"
)

// VideoList prints every video.
func (r *Runner) VideoList(ctx context.Context, cmd *cli.Command) error {
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	videos, err := repos.Videos.List(ctx)
	if err != nil {
		return err
	}
	return r.render(cmd, formatter.VideoTable(videos), videos)
}

// VideoGet prints one video.
func (r *Runner) VideoGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	v, err := repos.Videos.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.render(cmd, formatter.VideoTable([]*models.Video{v}), v)
}

// VideoCreate saves a new video.
func (r *Runner) VideoCreate(ctx context.Context, cmd *cli.Command) error {
	published, err := parsePublished(cmd.String("published"))
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	v := models.NewVideo(cmd.String("youtube-id"), cmd.String("title"), published)
	if err := repos.Videos.Create(ctx, v); err != nil {
		return err
	}

	r.logger.Info("video created", "id", v.ID())
	return r.render(cmd, formatter.VideoTable([]*models.Video{v}), v)
}

type videoBody struct {
	ID        string `json:"id"`
	YoutubeID string `json:"youtubeId"`
	Title     string `json:"title"`
	Published string `json:"published"`
}

// VideoUpdate applies the provided fields to an existing video.
func (r *Runner) VideoUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	var body videoBody
	if err := decodeBody(cmd, &body); err != nil {
		return err
	}
	if err := models.CheckPathID(id, body.ID); err != nil {
		return err
	}

	var published time.Time
	if s := firstNonEmpty(cmd.String("published"), body.Published); s != "" {
		if published, err = parsePublished(s); err != nil {
			return err
		}
	}

	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}
	v, err := repos.Videos.Get(ctx, id)
	if err != nil {
		return err
	}

	v.Apply(models.VideoPatch{
		YoutubeID: firstNonEmpty(cmd.String("youtube-id"), body.YoutubeID),
		Title:     firstNonEmpty(cmd.String("title"), body.Title),
		Published: published,
	})
	if err := repos.Videos.Update(ctx, v); err != nil {
		return err
	}
	return r.render(cmd, formatter.VideoTable([]*models.Video{v}), v)
}

// VideoDelete removes a video and detaches it from every container.
func (r *Runner) VideoDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	if err := repos.Videos.DeleteID(ctx, id); err != nil {
		return err
	}
	return r.writeSuccess("deleted video %s", id)
}

type videoContainers struct {
	Channels []string `json:"channels"`
	Series   []string `json:"series"`
}

// VideoContainers lists the channels and series holding a video.
func (r *Runner) VideoContainers(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	var result videoContainers
	if result.Channels, err = repos.ChannelVideos.ListContainers(ctx, id); err != nil {
		return err
	}
	if result.Series, err = repos.SeriesVideos.ListContainers(ctx, id); err != nil {
		return err
	}

	table := formatter.Table{Headers: []string{"Kind", "ID"}}
	for _, c := range result.Channels {
		table.Rows = append(table.Rows, []string{models.KindChannel.String(), c})
	}
	for _, s := range result.Series {
		table.Rows = append(table.Rows, []string{models.KindSeries.String(), s})
	}
	return r.render(cmd, table, result)
}

// parsePublished accepts RFC 3339 timestamps and bare dates (midnight UTC).
func parsePublished(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: published %q is not RFC 3339 or YYYY-MM-DD", shared.ErrInvalidArgument, s)
}
