package main

import (
	"context"

	"github.com/desertthunder/raocow/internal/formatter"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/urfave/cli/v3"
)

// SeriesList prints every series.
func (r *Runner) SeriesList(ctx context.Context, cmd *cli.Command) error {
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	series, err := repos.Series.List(ctx)
	if err != nil {
		return err
	}
	return r.render(cmd, formatter.SeriesTable(series), series)
}

// SeriesGet prints one series.
func (r *Runner) SeriesGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	s, err := repos.Series.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.render(cmd, formatter.SeriesTable([]*models.Series{s}), s)
}

// SeriesCreate saves a new series.
func (r *Runner) SeriesCreate(ctx context.Context, cmd *cli.Command) error {
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	s := models.NewSeries(cmd.String("name"))
	if err := repos.Series.Create(ctx, s); err != nil {
		return err
	}

	r.logger.Info("series created", "id", s.ID())
	return r.render(cmd, formatter.SeriesTable([]*models.Series{s}), s)
}

type seriesBody struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SeriesUpdate renames a series without touching its id.
func (r *Runner) SeriesUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	var body seriesBody
	if err := decodeBody(cmd, &body); err != nil {
		return err
	}
	if err := models.CheckPathID(id, body.ID); err != nil {
		return err
	}

	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}
	s, err := repos.Series.Get(ctx, id)
	if err != nil {
		return err
	}

	s.Apply(models.SeriesPatch{Name: firstNonEmpty(cmd.String("name"), body.Name)})
	if err := repos.Series.Update(ctx, s); err != nil {
		return err
	}
	return r.render(cmd, formatter.SeriesTable([]*models.Series{s}), s)
}

// SeriesDelete removes a series and its memberships.
func (r *Runner) SeriesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	if err := repos.Series.DeleteID(ctx, id); err != nil {
		return err
	}
	return r.writeSuccess("deleted series %s", id)
}
