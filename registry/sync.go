package registry

import "github.com/bgraf/trackmap/geotrack"

// GeometrySink is the map rendering side of the layer sync. It draws a track
// while it is shown and erases it once hidden.
type GeometrySink interface {
	Draw(key geotrack.TrackKey, geometry []geotrack.Point, style geotrack.Style)
	Erase(key geotrack.TrackKey)
}

// UISink is the widget side of the layer sync. Checkbox changes travel back as
// calls to Registry.SetTrackVisible, never by mutating the sink directly.
type UISink interface {
	DatasetChanged(view DatasetView)
	AddEntry(datasetID string, info geotrack.TrackInfo, checked bool)
	RemoveEntries(datasetID string)
	SetChecked(key geotrack.TrackKey, checked bool)
}

type nopGeometry struct{}

func (nopGeometry) Draw(geotrack.TrackKey, []geotrack.Point, geotrack.Style) {}
func (nopGeometry) Erase(geotrack.TrackKey)                                  {}

type nopUI struct{}

func (nopUI) DatasetChanged(DatasetView)                {}
func (nopUI) AddEntry(string, geotrack.TrackInfo, bool) {}
func (nopUI) RemoveEntries(string)                      {}
func (nopUI) SetChecked(geotrack.TrackKey, bool)        {}
