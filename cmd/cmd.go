// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/raocow/internal/models"
	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, csv or json",
		Value:   "text",
	}
}

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

func membershipArgs() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}, &cli.StringArg{Name: "video-id"}}
}

func dataFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "JSON body with the fields to change (an \"id\" must match the argument)",
	}
}

// containerCommands are the membership subcommands shared by channels and series.
func containerCommands(r *Runner, kind models.Kind) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "videos",
			Usage:     "List the videos in a " + kind.String(),
			Arguments: idArg(),
			Flags:     []cli.Flag{formatFlag()},
			Action:    r.ContainerVideos(kind),
		},
		{
			Name:      "add-video",
			Usage:     "Add a video to a " + kind.String() + " (no-op when already present)",
			Arguments: membershipArgs(),
			Action:    r.ContainerAddVideo(kind),
		},
		{
			Name:      "remove-video",
			Usage:     "Remove a video from a " + kind.String() + " (no-op when absent)",
			Arguments: membershipArgs(),
			Action:    r.ContainerRemoveVideo(kind),
		},
	}
}

// channelCommand handles channel CRUD and membership
func channelCommand(r *Runner) *cli.Command {
	commands := []*cli.Command{
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "List channels",
			Flags:   []cli.Flag{formatFlag()},
			Action:  r.ChannelList,
		},
		{
			Name:      "get",
			Usage:     "Show a channel",
			Arguments: idArg(),
			Flags:     []cli.Flag{formatFlag()},
			Action:    r.ChannelGet,
		},
		{
			Name:  "create",
			Usage: "Create a channel; its id is derived from the name",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "Channel name", Required: true},
				&cli.StringFlag{Name: "youtube-id", Usage: "YouTube channel ID", Required: true},
				formatFlag(),
			},
			Action: r.ChannelCreate,
		},
		{
			Name:      "update",
			Usage:     "Update a channel's name or YouTube ID",
			Arguments: idArg(),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "New channel name"},
				&cli.StringFlag{Name: "youtube-id", Usage: "New YouTube channel ID"},
				dataFlag(),
				formatFlag(),
			},
			Action: r.ChannelUpdate,
		},
		{
			Name:      "delete",
			Aliases:   []string{"rm"},
			Usage:     "Delete a channel and its memberships",
			Arguments: idArg(),
			Action:    r.ChannelDelete,
		},
	}

	return &cli.Command{
		Name:     "channel",
		Aliases:  []string{"channels", "ch"},
		Usage:    "Channel operations",
		Commands: append(commands, containerCommands(r, models.KindChannel)...),
	}
}

// seriesCommand handles series CRUD and membership
func seriesCommand(r *Runner) *cli.Command {
	commands := []*cli.Command{
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "List series",
			Flags:   []cli.Flag{formatFlag()},
			Action:  r.SeriesList,
		},
		{
			Name:      "get",
			Usage:     "Show a series",
			Arguments: idArg(),
			Flags:     []cli.Flag{formatFlag()},
			Action:    r.SeriesGet,
		},
		{
			Name:  "create",
			Usage: "Create a series; its id is derived from the name",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "Series name", Required: true},
				formatFlag(),
			},
			Action: r.SeriesCreate,
		},
		{
			Name:      "update",
			Usage:     "Rename a series",
			Arguments: idArg(),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "New series name"},
				dataFlag(),
				formatFlag(),
			},
			Action: r.SeriesUpdate,
		},
		{
			Name:      "delete",
			Aliases:   []string{"rm"},
			Usage:     "Delete a series and its memberships",
			Arguments: idArg(),
			Action:    r.SeriesDelete,
		},
	}

	return &cli.Command{
		Name:     "series",
		Aliases:  []string{"se"},
		Usage:    "Series operations",
		Commands: append(commands, containerCommands(r, models.KindSeries)...),
	}
}

// videoCommand handles video CRUD
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"videos", "v"},
		Usage:   "Video operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List videos",
				Flags:   []cli.Flag{formatFlag()},
				Action:  r.VideoList,
			},
			{
				Name:      "get",
				Usage:     "Show a video",
				Arguments: idArg(),
				Flags:     []cli.Flag{formatFlag()},
				Action:    r.VideoGet,
			},
			{
				Name:  "create",
				Usage: "Create a video; its id is derived from the title",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Video title", Required: true},
					&cli.StringFlag{Name: "youtube-id", Usage: "YouTube video ID", Required: true},
					&cli.StringFlag{Name: "published", Usage: "Publish time (RFC 3339 or YYYY-MM-DD)", Required: true},
					formatFlag(),
				},
				Action: r.VideoCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a video's title, YouTube ID or publish time",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "youtube-id", Usage: "New YouTube video ID"},
					&cli.StringFlag{Name: "published", Usage: "New publish time (RFC 3339 or YYYY-MM-DD)"},
					dataFlag(),
					formatFlag(),
				},
				Action: r.VideoUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a video and its memberships",
				Arguments: idArg(),
				Action:    r.VideoDelete,
			},
			{
				Name:      "containers",
				Usage:     "List the channels and series that contain a video",
				Arguments: idArg(),
				Flags:     []cli.Flag{formatFlag()},
				Action:    r.VideoContainers,
			},
		},
	}
}

// importCommand loads a TOML manifest
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import channels, series and videos from a TOML manifest",
		Arguments: []cli.Argument{&cli.StringArg{Name: "manifest"}},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Usage: "Concurrent workers (default from config)"},
			&cli.FloatFlag{Name: "rate", Usage: "Writes per second (default from config)"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: r.Import,
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}
