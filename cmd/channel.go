package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/raocow/internal/formatter"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
	"github.com/urfave/cli/v3"
)

// ChannelList prints every channel.
func (r *Runner) ChannelList(ctx context.Context, cmd *cli.Command) error {
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	channels, err := repos.Channels.List(ctx)
	if err != nil {
		return err
	}
	return r.render(cmd, formatter.ChannelTable(channels), channels)
}

// ChannelGet prints one channel.
func (r *Runner) ChannelGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	c, err := repos.Channels.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.render(cmd, formatter.ChannelTable([]*models.Channel{c}), c)
}

// ChannelCreate saves a new channel and prints it with its allocated id.
func (r *Runner) ChannelCreate(ctx context.Context, cmd *cli.Command) error {
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	c := models.NewChannel(cmd.String("youtube-id"), cmd.String("name"))
	if err := repos.Channels.Create(ctx, c); err != nil {
		return err
	}

	r.logger.Info("channel created", "id", c.ID())
	return r.render(cmd, formatter.ChannelTable([]*models.Channel{c}), c)
}

type channelBody struct {
	ID        string `json:"id"`
	YoutubeID string `json:"youtubeId"`
	Name      string `json:"name"`
}

// ChannelUpdate applies the provided fields to an existing channel. The id never changes.
func (r *Runner) ChannelUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	var body channelBody
	if err := decodeBody(cmd, &body); err != nil {
		return err
	}
	if err := models.CheckPathID(id, body.ID); err != nil {
		return err
	}
	patch := models.ChannelPatch{
		YoutubeID: firstNonEmpty(cmd.String("youtube-id"), body.YoutubeID),
		Name:      firstNonEmpty(cmd.String("name"), body.Name),
	}

	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}
	c, err := repos.Channels.Get(ctx, id)
	if err != nil {
		return err
	}

	c.Apply(patch)
	if err := repos.Channels.Update(ctx, c); err != nil {
		return err
	}
	return r.render(cmd, formatter.ChannelTable([]*models.Channel{c}), c)
}

// ChannelDelete removes a channel and every membership edge it owns.
func (r *Runner) ChannelDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	if err := repos.Channels.DeleteID(ctx, id); err != nil {
		return err
	}
	return r.writeSuccess("deleted channel %s", id)
}

// decodeBody decodes the --data JSON body into v. An absent flag leaves v untouched.
func decodeBody(cmd *cli.Command, v any) error {
	data := cmd.String("data")
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("%w: --data is not valid JSON: %w", shared.ErrInvalidInput, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
