// Package registry owns the dataset hierarchy and the visibility state of every
// track. It is the single mutation point for visibility; sinks only observe it.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bgraf/trackmap/bounds"
	"github.com/bgraf/trackmap/geotrack"
	"github.com/bgraf/trackmap/option"
	"github.com/google/uuid"
)

var ErrUnknownDataset = errors.New("unknown dataset")

type Options struct {
	Weight  float64
	Opacity float64
}

func DefaultOptions() *Options {
	return &Options{Weight: 3, Opacity: 0.9}
}

// Registry serializes all mutations behind one lock, so no caller ever sees a
// half-applied ingest or toggle. Sinks are invoked while the lock is held and must
// not call back into the registry.
type Registry struct {
	mu       sync.Mutex
	datasets []*dataset
	byID     map[string]*dataset
	visible  map[geotrack.TrackKey]bool
	bounds   *bounds.Aggregator
	geometry GeometrySink
	ui       UISink
	options  *Options
}

func New(agg *bounds.Aggregator, geometry GeometrySink, ui UISink, options *Options) *Registry {
	if agg == nil {
		agg = bounds.New()
	}
	if geometry == nil {
		geometry = nopGeometry{}
	}
	if ui == nil {
		ui = nopUI{}
	}
	if options == nil {
		options = DefaultOptions()
	}

	return &Registry{
		byID:     make(map[string]*dataset),
		visible:  make(map[geotrack.TrackKey]bool),
		bounds:   agg,
		geometry: geometry,
		ui:       ui,
		options:  options,
	}
}

// DatasetID derives the stable id of a dataset from its name and source.
func DatasetID(name, url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name+"\n"+url)).String()
}

// RegisterDataset adds a pending dataset. Registering the same name and url again
// returns the existing id and leaves its state untouched.
func (r *Registry) RegisterDataset(name, url, color string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := DatasetID(name, url)
	if _, ok := r.byID[id]; ok {
		return id
	}

	ds := &dataset{
		id:   id,
		name: name,
		url:  url,
		style: geotrack.Style{
			Color:   color,
			Weight:  r.options.Weight,
			Opacity: r.options.Opacity,
		},
		state:  Pending,
		shown:  true,
		tracks: make(map[string]geotrack.Track),
	}

	r.datasets = append(r.datasets, ds)
	r.byID[id] = ds

	r.ui.DatasetChanged(r.view(ds))

	return id
}

// Ingest replaces the track set of a dataset and marks it loaded. Tracks keep
// their source order and start out shown. Labels that repeat get a numbered id
// instead of overwriting an earlier track.
func (r *Registry) Ingest(datasetID string, tracks []geotrack.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.byID[datasetID]
	if !ok {
		return fmt.Errorf("ingest %s: %w", datasetID, ErrUnknownDataset)
	}

	r.clearTracks(ds)

	ds.state = Loaded
	ds.reason = nil
	ds.shown = true
	r.ui.DatasetChanged(r.view(ds))

	for _, t := range tracks {
		t.ID = uniqueID(ds.tracks, t.Label)
		t.DatasetID = ds.id
		t.Style = ds.style

		ds.order = append(ds.order, t.ID)
		ds.tracks[t.ID] = t

		key := t.Key()
		r.visible[key] = true
		r.bounds.Extend(t.Geometry)

		r.geometry.Draw(key, t.Geometry, t.Style)
		r.ui.AddEntry(ds.id, t.Info(ds.name), true)
	}

	return nil
}

// MarkFailed records the failure reason. A failed dataset holds no tracks.
func (r *Registry) MarkFailed(datasetID string, reason error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.byID[datasetID]
	if !ok {
		return fmt.Errorf("mark failed %s: %w", datasetID, ErrUnknownDataset)
	}

	r.clearTracks(ds)

	ds.state = Failed
	ds.reason = reason
	r.ui.DatasetChanged(r.view(ds))

	return nil
}

// SetTrackVisible shows or hides one track. Unknown keys are ignored.
func (r *Registry) SetTrackVisible(key geotrack.TrackKey, shown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.setTrackVisible(key, shown)
}

// SetDatasetVisible sets every track of a dataset to the same state. Unknown ids
// are ignored.
func (r *Registry) SetDatasetVisible(datasetID string, shown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ds, ok := r.byID[datasetID]; ok {
		r.setDatasetVisible(ds, shown)
	}
}

// ShowAll shows every track of every dataset, whatever its load state.
func (r *Registry) ShowAll() {
	r.setAll(true)
}

// ClearAll hides every track of every dataset, whatever its load state.
func (r *Registry) ClearAll() {
	r.setAll(false)
}

func (r *Registry) setAll(shown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ds := range r.datasets {
		r.setDatasetVisible(ds, shown)
	}
}

func (r *Registry) IsVisible(key geotrack.TrackKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.visible[key]
}

// Track looks up a track by its key.
func (r *Registry) Track(key geotrack.TrackKey) (geotrack.Track, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.byID[key.DatasetID()]
	if !ok {
		return geotrack.Track{}, false
	}

	t, ok := ds.tracks[key.TrackID()]
	return t, ok
}

// Dataset returns a snapshot of one dataset.
func (r *Registry) Dataset(datasetID string) (DatasetView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.byID[datasetID]
	if !ok {
		return DatasetView{}, false
	}
	return r.view(ds), true
}

// Datasets returns snapshots in registration order.
func (r *Registry) Datasets() []DatasetView {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]DatasetView, 0, len(r.datasets))
	for _, ds := range r.datasets {
		views = append(views, r.view(ds))
	}
	return views
}

// Bounds returns the region covering everything ever ingested.
func (r *Registry) Bounds() option.Option[bounds.Region] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.bounds.Current()
}

func (r *Registry) setTrackVisible(key geotrack.TrackKey, shown bool) {
	ds, ok := r.byID[key.DatasetID()]
	if !ok {
		return
	}

	current, ok := r.visible[key]
	if !ok {
		return
	}

	if current != shown {
		r.visible[key] = shown

		if shown {
			t := ds.tracks[key.TrackID()]
			r.geometry.Draw(key, t.Geometry, t.Style)
		} else {
			r.geometry.Erase(key)
		}
	}

	r.ui.SetChecked(key, shown)
}

func (r *Registry) setDatasetVisible(ds *dataset, shown bool) {
	ds.shown = shown
	for _, id := range ds.order {
		r.setTrackVisible(ds.key(id), shown)
	}
}

func (r *Registry) clearTracks(ds *dataset) {
	if len(ds.order) == 0 {
		return
	}

	for _, id := range ds.order {
		key := ds.key(id)
		if r.visible[key] {
			r.geometry.Erase(key)
		}
		delete(r.visible, key)
	}

	ds.order = nil
	ds.tracks = make(map[string]geotrack.Track)
	r.ui.RemoveEntries(ds.id)
}

func (r *Registry) view(ds *dataset) DatasetView {
	view := DatasetView{
		ID:        ds.id,
		Name:      ds.name,
		SourceURL: ds.url,
		Style:     ds.style,
		State:     ds.state,
		Shown:     ds.shown,
		Tracks:    make([]TrackView, 0, len(ds.order)),
	}

	if ds.reason != nil {
		view.Reason = ds.reason.Error()
	}

	for _, id := range ds.order {
		t := ds.tracks[id]
		view.Tracks = append(view.Tracks, TrackView{
			Track:   t,
			Info:    t.Info(ds.name),
			Visible: r.visible[t.Key()],
		})
	}

	return view
}

func uniqueID(existing map[string]geotrack.Track, label string) string {
	if _, taken := existing[label]; !taken {
		return label
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", label, n)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
