package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/repositories"
	"github.com/desertthunder/raocow/internal/shared"
	"golang.org/x/time/rate"
)

// ImportOpts contains configuration for bulk imports.
type ImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Store writes per second (default: 50)
}

// ImportOptsFromConfig reads the [import] section of the config.
func ImportOptsFromConfig(cfg shared.ImportConfig) ImportOpts {
	return ImportOpts{NumWorkers: cfg.Workers, RateLimit: cfg.RateLimit}
}

func (o ImportOpts) withDefaults() ImportOpts {
	if o.NumWorkers <= 0 {
		o.NumWorkers = 4
	}
	if o.NumWorkers > 32 {
		o.NumWorkers = 32
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 50
	}
	return o
}

// Item is an entity created by an import.
type Item struct {
	Kind models.Kind
	Name string // display name or title from the manifest
	ID   string
}

// Failure records a manifest entry or link that could not be written.
type Failure struct {
	Kind models.Kind
	Name string
	Err  error
}

// ImportResult summarizes a bulk import. Created items keep manifest order.
type ImportResult struct {
	Channels     []Item
	Series       []Item
	Videos       []Item
	Failures     []Failure
	LinksCreated int
	LinksFailed  int
}

// Created returns the number of entities written.
func (r *ImportResult) Created() int {
	return len(r.Channels) + len(r.Series) + len(r.Videos)
}

// Importer loads manifests into the catalog through the repositories.
type Importer struct {
	repos  *repositories.Set
	logger *log.Logger
}

// NewImporter creates an [Importer]. A nil logger discards output.
func NewImporter(repos *repositories.Set, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Importer{repos: repos, logger: shared.WithLogger(logger, "component", "import")}
}

type job struct {
	index int
	kind  models.Kind
	name  string
	run   func(context.Context) (string, error)
}

type jobResult struct {
	job
	id  string
	err error
}

// Import creates every entry in m and links videos to their containers.
//
// Writes go through a worker pool of opts.NumWorkers goroutines sharing one rate limiter. Per
// item failures are collected in the result. When ctx is canceled the partial result is
// returned together with the context error.
func (i *Importer) Import(ctx context.Context, prog chan<- ProgressUpdate, m *Manifest, opts ImportOpts) (*ImportResult, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: manifest is required", shared.ErrMissingArgument)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	result := &ImportResult{}

	channelIDs := map[string]string{}
	seriesIDs := map[string]string{}

	containers := make([]job, 0, len(m.Channels)+len(m.Series))
	for _, e := range m.Channels {
		c := e.model()
		containers = append(containers, job{kind: models.KindChannel, name: e.Name, run: func(ctx context.Context) (string, error) {
			err := i.repos.Channels.Create(ctx, c)
			return c.ID(), err
		}})
	}
	for _, e := range m.Series {
		s := e.model()
		containers = append(containers, job{kind: models.KindSeries, name: e.Name, run: func(ctx context.Context) (string, error) {
			err := i.repos.Series.Create(ctx, s)
			return s.ID(), err
		}})
	}

	for _, res := range i.runPhase(ctx, prog, CreateContainers, limiter, opts.NumWorkers, containers) {
		if res.err != nil {
			result.Failures = append(result.Failures, Failure{Kind: res.kind, Name: res.name, Err: res.err})
			continue
		}
		item := Item{Kind: res.kind, Name: res.name, ID: res.id}
		if res.kind == models.KindChannel {
			channelIDs[res.name] = res.id
			result.Channels = append(result.Channels, item)
		} else {
			seriesIDs[res.name] = res.id
			result.Series = append(result.Series, item)
		}
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	videos := make([]job, 0, len(m.Videos))
	for _, e := range m.Videos {
		v := e.model()
		videos = append(videos, job{kind: models.KindVideo, name: e.Title, run: func(ctx context.Context) (string, error) {
			err := i.repos.Videos.Create(ctx, v)
			return v.ID(), err
		}})
	}

	videoIDs := make([]string, len(m.Videos))
	for _, res := range i.runPhase(ctx, prog, CreateVideos, limiter, opts.NumWorkers, videos) {
		if res.err != nil {
			result.Failures = append(result.Failures, Failure{Kind: res.kind, Name: res.name, Err: res.err})
			continue
		}
		videoIDs[res.index] = res.id
		result.Videos = append(result.Videos, Item{Kind: res.kind, Name: res.name, ID: res.id})
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	var links []job
	for idx, e := range m.Videos {
		videoID := videoIDs[idx]
		if videoID == "" {
			continue
		}
		for _, ref := range i.references(e, channelIDs, seriesIDs) {
			name := fmt.Sprintf("%s -> %s", ref.name, e.Title)
			if ref.id == "" {
				result.LinksFailed++
				result.Failures = append(result.Failures, Failure{
					Kind: ref.rel.Container(),
					Name: name,
					Err:  fmt.Errorf("%w: %s %q was not created", shared.ErrNotFound, ref.rel.Container(), ref.name),
				})
				continue
			}
			rel, containerID := ref.rel, ref.id
			links = append(links, job{kind: rel.Container(), name: name, run: func(ctx context.Context) (string, error) {
				return containerID, rel.AddVideo(ctx, containerID, videoID)
			}})
		}
	}

	for _, res := range i.runPhase(ctx, prog, LinkVideos, limiter, opts.NumWorkers, links) {
		if res.err != nil {
			result.LinksFailed++
			result.Failures = append(result.Failures, Failure{Kind: res.kind, Name: res.name, Err: res.err})
			continue
		}
		result.LinksCreated++
	}

	i.logger.Info("import finished",
		"channels", len(result.Channels),
		"series", len(result.Series),
		"videos", len(result.Videos),
		"links", result.LinksCreated,
		"failures", len(result.Failures),
	)
	return result, ctx.Err()
}

type containerRef struct {
	rel  *repositories.Relationships
	name string
	id   string
}

func (i *Importer) references(e VideoEntry, channelIDs, seriesIDs map[string]string) []containerRef {
	refs := make([]containerRef, 0, len(e.Channels)+len(e.Series))
	for _, name := range e.Channels {
		refs = append(refs, containerRef{rel: i.repos.ChannelVideos, name: name, id: channelIDs[name]})
	}
	for _, name := range e.Series {
		refs = append(refs, containerRef{rel: i.repos.SeriesVideos, name: name, id: seriesIDs[name]})
	}
	return refs
}

// runPhase runs jobs on a pool of workers and returns the results of the jobs that were
// dispatched, in job order.
func (i *Importer) runPhase(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	phase Phase,
	limiter *rate.Limiter,
	workers int,
	jobs []job,
) []jobResult {
	if len(jobs) == 0 {
		return nil
	}
	sendProgress(prog, phaseStartedUpdate(phase, len(jobs)))

	queue := make(chan job, len(jobs))
	results := make(chan jobResult, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(jobs)); w++ {
		wg.Add(1)
		go i.worker(ctx, &wg, queue, results)
	}

	go func() {
		defer close(queue)
		for idx, j := range jobs {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			j.index = idx
			queue <- j
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*jobResult, len(jobs))
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			i.logger.Debug("import item failed", "phase", phase, "name", res.name, "err", res.err)
			sendProgress(prog, itemFailedUpdate(phase, completed, len(jobs), Failure{Kind: res.kind, Name: res.name, Err: res.err}))
		} else if phase == LinkVideos {
			sendProgress(prog, linkUpdate(completed, len(jobs), res.kind, res.name))
		} else {
			sendProgress(prog, itemCreatedUpdate(phase, completed, len(jobs), Item{Kind: res.kind, Name: res.name, ID: res.id}))
		}
		ordered[res.index] = &res
	}

	out := make([]jobResult, 0, completed)
	for _, res := range ordered {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out
}

// worker is a worker goroutine that runs jobs from the queue.
func (i *Importer) worker(ctx context.Context, wg *sync.WaitGroup, queue <-chan job, results chan<- jobResult) {
	defer wg.Done()

	for j := range queue {
		if err := ctx.Err(); err != nil {
			results <- jobResult{job: j, err: err}
			continue
		}
		id, err := j.run(ctx)
		results <- jobResult{job: j, id: id, err: err}
	}
}
