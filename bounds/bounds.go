// Package bounds accumulates the bounding rectangle of all registered geometry.
package bounds

import (
	"math"

	"github.com/bgraf/trackmap/geotrack"
	"github.com/bgraf/trackmap/option"
)

// Region is a rectangle in latitude/longitude space.
type Region struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

func (r Region) Contains(p geotrack.Point) bool {
	return p.Lat >= r.MinLat && p.Lat <= r.MaxLat &&
		p.Lon >= r.MinLon && p.Lon <= r.MaxLon
}

// Pad grows every side by fraction of the region's extent, like Leaflet's
// LatLngBounds.pad.
func (r Region) Pad(fraction float64) Region {
	dLat := (r.MaxLat - r.MinLat) * fraction
	dLon := (r.MaxLon - r.MinLon) * fraction

	return Region{
		MinLat: r.MinLat - dLat,
		MinLon: r.MinLon - dLon,
		MaxLat: r.MaxLat + dLat,
		MaxLon: r.MaxLon + dLon,
	}
}

// Corners returns the south-west and north-east corners.
func (r Region) Corners() [2]geotrack.Point {
	return [2]geotrack.Point{
		{Lat: r.MinLat, Lon: r.MinLon},
		{Lat: r.MaxLat, Lon: r.MaxLon},
	}
}

// Aggregator only grows until Reset is called.
type Aggregator struct {
	region Region
	empty  bool
}

func New() *Aggregator {
	return &Aggregator{empty: true}
}

// Extend grows the region to cover points. Non-finite points are ignored.
func (a *Aggregator) Extend(points []geotrack.Point) {
	for _, p := range points {
		if !p.IsFinite() {
			continue
		}

		if a.empty {
			a.region = Region{MinLat: p.Lat, MinLon: p.Lon, MaxLat: p.Lat, MaxLon: p.Lon}
			a.empty = false
			continue
		}

		a.region.MinLat = math.Min(a.region.MinLat, p.Lat)
		a.region.MinLon = math.Min(a.region.MinLon, p.Lon)
		a.region.MaxLat = math.Max(a.region.MaxLat, p.Lat)
		a.region.MaxLon = math.Max(a.region.MaxLon, p.Lon)
	}
}

// Current returns None while nothing has been registered.
func (a *Aggregator) Current() option.Option[Region] {
	if a.empty {
		return option.None[Region]()
	}
	return option.Some(a.region)
}

func (a *Aggregator) Reset() {
	a.region = Region{}
	a.empty = true
}
