package render

import (
	"html/template"
	"sync"

	"github.com/bgraf/trackmap/bounds"
	"github.com/bgraf/trackmap/geotrack"
	"github.com/bgraf/trackmap/registry"
)

// Layer is a drawn polyline.
type Layer struct {
	Key      geotrack.TrackKey `json:"key"`
	Geometry []geotrack.Point  `json:"geometry"`
	Style    geotrack.Style    `json:"style"`
	Popup    template.HTML     `json:"popup"`
}

// Entry is one checkbox row of a dataset section.
type Entry struct {
	Info    geotrack.TrackInfo `json:"info"`
	Checked bool               `json:"checked"`
}

type Section struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Color  string             `json:"color"`
	State  registry.LoadState `json:"state"`
	Reason string             `json:"reason,omitempty"`
	// Shown is true while every entry of the section is checked, and for a
	// section without entries. It is derived here and not copied from the
	// registry's last bulk request.
	Shown       bool          `json:"shown"`
	Description template.HTML `json:"description,omitempty"`
	Entries     []Entry       `json:"entries"`
}

// Viewport is a request to fit the map to Region, already padded.
type Viewport struct {
	Region bounds.Region `json:"region"`
	Serial uint64        `json:"serial"`
}

type Snapshot struct {
	Version  uint64    `json:"version"`
	Status   string    `json:"status"`
	Layers   []Layer   `json:"layers"`
	Sections []Section `json:"sections"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Scene is the in-process map and widget state driven by the registry. Browsers
// and exported pages render from its snapshots.
type Scene struct {
	mu           sync.Mutex
	version      uint64
	status       string
	layerOrder   []geotrack.TrackKey
	layers       map[geotrack.TrackKey]Layer
	popups       map[geotrack.TrackKey]template.HTML
	sections     []*Section
	sectionByID  map[string]*Section
	descriptions map[string]template.HTML
	viewport     *Viewport
}

func NewScene() *Scene {
	return &Scene{
		layers:       make(map[geotrack.TrackKey]Layer),
		popups:       make(map[geotrack.TrackKey]template.HTML),
		sectionByID:  make(map[string]*Section),
		descriptions: make(map[string]template.HTML),
	}
}

func (s *Scene) Draw(key geotrack.TrackKey, geometry []geotrack.Point, style geotrack.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.layers[key]; !known {
		s.layerOrder = appendUnique(s.layerOrder, key)
	}
	s.layers[key] = Layer{Key: key, Geometry: geometry, Style: style}
	s.version++
}

func (s *Scene) Erase(key geotrack.TrackKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.layers, key)
	s.version++
}

func (s *Scene) DatasetChanged(view registry.DatasetView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sectionByID[view.ID]
	if !ok {
		sec = &Section{ID: view.ID, Shown: true}
		s.sections = append(s.sections, sec)
		s.sectionByID[view.ID] = sec
	}

	sec.Name = view.Name
	sec.Color = view.Style.Color
	sec.State = view.State
	sec.Reason = view.Reason
	sec.Description = s.descriptions[view.ID]
	s.version++
}

func (s *Scene) AddEntry(datasetID string, info geotrack.TrackInfo, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sectionByID[datasetID]
	if !ok {
		return
	}

	sec.Entries = append(sec.Entries, Entry{Info: info, Checked: checked})
	sec.updateShown()
	s.popups[info.Key] = PopupHTML(info)
	s.version++
}

func (s *Scene) RemoveEntries(datasetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sectionByID[datasetID]
	if !ok {
		return
	}

	for _, e := range sec.Entries {
		delete(s.popups, e.Info.Key)
	}
	sec.Entries = nil
	sec.updateShown()
	s.version++
}

func (s *Scene) SetChecked(key geotrack.TrackKey, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sectionByID[key.DatasetID()]
	if !ok {
		return
	}

	for i := range sec.Entries {
		if sec.Entries[i].Info.Key == key {
			sec.Entries[i].Checked = checked
		}
	}

	sec.updateShown()
	s.version++
}

// Status records a short human readable state string.
func (s *Scene) Status(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = msg
	s.version++
}

// FitBounds asks viewers to show region grown by padding.
func (s *Scene) FitBounds(region bounds.Region, padding float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	serial := uint64(1)
	if s.viewport != nil {
		serial = s.viewport.Serial + 1
	}

	s.viewport = &Viewport{Region: region.Pad(padding), Serial: serial}
	s.version++
}

// SetDescription attaches rendered markdown to a dataset section.
func (s *Scene) SetDescription(datasetID string, description template.HTML) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.descriptions[datasetID] = description
	if sec, ok := s.sectionByID[datasetID]; ok {
		sec.Description = description
	}
	s.version++
}

// Snapshot copies the current state. Layers keep the order they were first drawn in.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Version:  s.version,
		Status:   s.status,
		Layers:   make([]Layer, 0, len(s.layers)),
		Sections: make([]Section, 0, len(s.sections)),
	}

	for _, key := range s.layerOrder {
		if layer, ok := s.layers[key]; ok {
			layer.Popup = s.popups[key]
			snap.Layers = append(snap.Layers, layer)
		}
	}

	for _, sec := range s.sections {
		c := *sec
		c.Entries = append([]Entry(nil), sec.Entries...)
		snap.Sections = append(snap.Sections, c)
	}

	if s.viewport != nil {
		vp := *s.viewport
		snap.Viewport = &vp
	}

	return snap
}

func (sec *Section) updateShown() {
	sec.Shown = true
	for _, e := range sec.Entries {
		sec.Shown = sec.Shown && e.Checked
	}
}

func appendUnique(keys []geotrack.TrackKey, key geotrack.TrackKey) []geotrack.TrackKey {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}
