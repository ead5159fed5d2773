package main

import (
	"context"

	"github.com/desertthunder/raocow/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import loads a manifest, printing progress as items are written.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "manifest")
	if err != nil {
		return err
	}

	manifest, err := tasks.LoadManifest(path)
	if err != nil {
		return err
	}

	repos, err := r.repositories(ctx)
	if err != nil {
		return err
	}

	opts := tasks.ImportOptsFromConfig(r.config.Import)
	if cmd.IsSet("workers") {
		opts.NumWorkers = cmd.Int("workers")
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}

	r.logger.Info("importing manifest", "path", path,
		"channels", len(manifest.Channels), "series", len(manifest.Series), "videos", len(manifest.Videos))

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Debug(u.Message, "phase", u.Phase)
		}
	}()

	result, err := tasks.NewImporter(repos, r.logger).Import(ctx, progress, manifest, opts)
	close(progress)
	<-done
	if err != nil && result == nil {
		return err
	}

	if cmd.Bool("json") {
		if jerr := r.writeJSON(importSummary(result), true); jerr != nil {
			return jerr
		}
		return err
	}

	r.writePlain("%s\n", r.palette.Title("Import "+path))
	r.writePlain("%s\n", r.palette.Success("%d channels, %d series, %d videos created",
		len(result.Channels), len(result.Series), len(result.Videos)))
	r.writePlain("%s\n", r.palette.Success("%d memberships linked", result.LinksCreated))
	for _, f := range result.Failures {
		r.writePlain("%s\n", r.palette.Failure("%s %q: %v", f.Kind, f.Name, f.Err))
	}
	if n := len(result.Failures); n > 0 {
		r.writePlain("%s\n", r.palette.Warning("%d items failed", n))
	}
	return err
}

type importItem struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
	Err  string `json:"error,omitempty"`
}

type importJSON struct {
	Created      []importItem `json:"created"`
	Failures     []importItem `json:"failures"`
	LinksCreated int          `json:"linksCreated"`
	LinksFailed  int          `json:"linksFailed"`
}

func importSummary(result *tasks.ImportResult) importJSON {
	out := importJSON{
		Created:      []importItem{},
		Failures:     []importItem{},
		LinksCreated: result.LinksCreated,
		LinksFailed:  result.LinksFailed,
	}
	for _, group := range [][]tasks.Item{result.Channels, result.Series, result.Videos} {
		for _, it := range group {
			out.Created = append(out.Created, importItem{Kind: it.Kind.String(), Name: it.Name, ID: it.ID})
		}
	}
	for _, f := range result.Failures {
		out.Failures = append(out.Failures, importItem{Kind: f.Kind.String(), Name: f.Name, Err: f.Err.Error()})
	}
	return out
}
