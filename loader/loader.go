// Package loader fetches and decodes every configured dataset concurrently and
// feeds the results into the registry from a single goroutine.
package loader

import (
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/bgraf/trackmap/bounds"
	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/data/normalize"
	"github.com/bgraf/trackmap/fetch"
	"github.com/bgraf/trackmap/geotrack"
	"github.com/bgraf/trackmap/registry"
	"github.com/bgraf/trackmap/render"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	StatusLoading = "Loading…"
	StatusLoaded  = "Loaded."
)

func StatusFailed(name string) string {
	return fmt.Sprintf("Error loading %s.", name)
}

// Scene receives status lines, viewport requests and dataset descriptions.
type Scene interface {
	Status(msg string)
	FitBounds(region bounds.Region, padding float64)
	SetDescription(datasetID string, description template.HTML)
}

type Options struct {
	FitPadding  float64
	SettleDelay time.Duration
	FitOnLoad   bool
	// Parallelism bounds concurrent fetches, zero means unbounded.
	Parallelism int
}

func OptionsFromConfig() Options {
	return Options{
		FitPadding:  config.MapFitPadding(),
		SettleDelay: config.MapSettleDelay(),
		FitOnLoad:   config.MapFitOnLoad(),
	}
}

// Result is the outcome of loading one dataset: Err is nil for a loaded
// dataset and holds the failure reason otherwise.
type Result struct {
	DatasetID string
	Dataset   config.Dataset
	Tracks    []geotrack.Track
	Report    geotrack.Report
	Err       error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

type Loader struct {
	fetcher  fetch.Fetcher
	registry *registry.Registry
	scene    Scene
	palette  *render.Palette
	options  Options

	mu     sync.Mutex
	settle *time.Timer
}

func New(fetcher fetch.Fetcher, reg *registry.Registry, scene Scene, palette *render.Palette, options Options) *Loader {
	if palette == nil {
		palette = render.NewPalette()
	}

	return &Loader{
		fetcher:  fetcher,
		registry: reg,
		scene:    scene,
		palette:  palette,
		options:  options,
	}
}

// Register adds every dataset as pending and returns their ids in order.
func (l *Loader) Register(datasets []config.Dataset) []string {
	ids := make([]string, len(datasets))

	for i, ds := range datasets {
		color := l.palette.HexColor(ds.Name, ds.Color)
		ids[i] = l.registry.RegisterDataset(ds.Name, ds.URL, color)

		description, err := render.Description(ds.Description)
		if err != nil {
			log.Warn("skipping dataset description", "dataset", ds.Name, "err", err)
			continue
		}
		if description != "" {
			l.scene.SetDescription(ids[i], description)
		}
	}

	return ids
}

// Load fetches and decodes one dataset. It does not touch the registry.
func (l *Loader) Load(ctx context.Context, ds config.Dataset) Result {
	result := Result{
		DatasetID: registry.DatasetID(ds.Name, ds.URL),
		Dataset:   ds,
	}

	format, err := normalize.ResolveFormat(ds.Format, ds.URL)
	if err != nil {
		result.Err = fmt.Errorf("dataset '%s': %w", ds.Name, err)
		return result
	}

	data, err := l.fetcher.Fetch(ctx, ds.URL)
	if err != nil {
		result.Err = err
		return result
	}

	tracks, report, err := normalize.Decode(format, normalize.LabelFromURL(ds.URL), data)
	result.Report = report
	if err != nil {
		result.Err = err
		return result
	}

	for _, skipped := range report.Skipped {
		log.Debug("skipped record", "dataset", ds.Name, "record", skipped.Index, "field", skipped.Field, "reason", skipped.Reason)
	}

	result.Tracks = tracks
	return result
}

// Run registers the datasets, loads them in parallel and applies every result
// as it arrives. It returns once each dataset is either loaded or failed; the
// results are in arrival order.
func (l *Loader) Run(ctx context.Context, datasets []config.Dataset) []Result {
	l.Register(datasets)
	l.scene.Status(StatusLoading)
	l.scheduleSettleFit()

	results := make(chan Result, len(datasets))

	var g errgroup.Group
	if l.options.Parallelism > 0 {
		g.SetLimit(l.options.Parallelism)
	}

	go func() {
		for _, ds := range datasets {
			ds := ds
			g.Go(func() error {
				results <- l.Load(ctx, ds)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	var applied []Result
	for result := range results {
		l.Apply(result)
		applied = append(applied, result)
	}

	return applied
}

// Apply moves a dataset into its final state.
func (l *Loader) Apply(result Result) {
	name := result.Dataset.Name

	if result.Failed() {
		log.Error("could not load dataset", "dataset", name, "err", result.Err)
		if err := l.registry.MarkFailed(result.DatasetID, result.Err); err != nil {
			log.Error("could not mark dataset failed", "err", err)
		}
		l.scene.Status(StatusFailed(name))
		return
	}

	if err := l.registry.Ingest(result.DatasetID, result.Tracks); err != nil {
		log.Error("could not ingest dataset", "err", err)
		return
	}

	log.Info("loaded dataset",
		"dataset", name,
		"tracks", len(result.Tracks),
		"records", result.Report.Records,
		"skipped", len(result.Report.Skipped),
	)
	l.scene.Status(StatusLoaded)

	if l.options.FitOnLoad {
		l.Fit()
	}
}

// Fit asks the scene to show everything loaded so far. It reports false while
// no geometry exists.
func (l *Loader) Fit() bool {
	region := l.registry.Bounds()
	if region.IsNone() {
		return false
	}

	l.scene.FitBounds(region.Get(), l.options.FitPadding)
	return true
}

func (l *Loader) scheduleSettleFit() {
	if l.options.SettleDelay <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.settle != nil {
		l.settle.Stop()
	}
	l.settle = time.AfterFunc(l.options.SettleDelay, func() {
		l.Fit()
	})
}

// Close stops a pending settle fit.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.settle != nil {
		l.settle.Stop()
		l.settle = nil
	}
}
