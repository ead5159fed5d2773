package main

import (
	"context"

	"github.com/desertthunder/raocow/internal/formatter"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/urfave/cli/v3"
)

// ContainerVideos lists the videos of a channel or series.
func (r *Runner) ContainerVideos(kind models.Kind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		id, err := requireArg(cmd, "id")
		if err != nil {
			return err
		}
		repos, err := r.repositories(ctx)
		if err != nil {
			return err
		}

		videos, err := repos.Relationships(kind).ListVideos(ctx, id)
		if err != nil {
			return err
		}
		return r.render(cmd, formatter.VideoTable(videos), videos)
	}
}

// ContainerAddVideo links a video to a channel or series.
func (r *Runner) ContainerAddVideo(kind models.Kind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		id, videoID, err := membership(cmd)
		if err != nil {
			return err
		}
		repos, err := r.repositories(ctx)
		if err != nil {
			return err
		}

		if err := repos.Relationships(kind).AddVideo(ctx, id, videoID); err != nil {
			return err
		}
		return r.writeSuccess("%s %s contains video %s", kind, id, videoID)
	}
}

// ContainerRemoveVideo unlinks a video from a channel or series.
func (r *Runner) ContainerRemoveVideo(kind models.Kind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		id, videoID, err := membership(cmd)
		if err != nil {
			return err
		}
		repos, err := r.repositories(ctx)
		if err != nil {
			return err
		}

		if err := repos.Relationships(kind).RemoveVideo(ctx, id, videoID); err != nil {
			return err
		}
		return r.writeSuccess("%s %s does not contain video %s", kind, id, videoID)
	}
}

func membership(cmd *cli.Command) (string, string, error) {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return "", "", err
	}
	videoID, err := requireArg(cmd, "video-id")
	if err != nil {
		return "", "", err
	}
	return id, videoID, nil
}
