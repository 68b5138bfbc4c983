package geotrack

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Point struct {
	Lat, Lon float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{p.Lat, p.Lon})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [lat, lon], got %d values", len(pair))
	}

	p.Lat, p.Lon = pair[0], pair[1]
	return nil
}

// IsFinite reports whether both components are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// Style is shared by all tracks of a dataset.
type Style struct {
	Color   string  `json:"color"`
	Weight  float64 `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// TrackKey identifies a track across all datasets.
type TrackKey string

const keySeparator = "|"

func MakeTrackKey(datasetID, trackID string) TrackKey {
	return TrackKey(datasetID + keySeparator + trackID)
}

// DatasetID returns the dataset part of the key.
func (k TrackKey) DatasetID() string {
	datasetID, _, _ := strings.Cut(string(k), keySeparator)
	return datasetID
}

// TrackID returns the part after the first separator. Dataset ids never contain
// the separator, track ids may.
func (k TrackKey) TrackID() string {
	_, trackID, _ := strings.Cut(string(k), keySeparator)
	return trackID
}

// Track is one renderable path or leg. StartTime and EndTime are empty when the
// source carries no timestamps.
type Track struct {
	ID        string  `json:"id"`
	DatasetID string  `json:"datasetId"`
	Label     string  `json:"label"`
	Geometry  []Point `json:"geometry"`
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	Style     Style   `json:"style"`
}

// NewTrack validates the geometry and returns a track without id and dataset.
func NewTrack(label string, geometry []Point) (Track, error) {
	if len(geometry) < 2 {
		return Track{}, ErrTooFewPoints
	}

	for _, p := range geometry {
		if !p.IsFinite() {
			return Track{}, ErrInvalidCoordinate
		}
	}

	return Track{
		Label:    label,
		Geometry: geometry,
	}, nil
}

func (t Track) Key() TrackKey {
	return MakeTrackKey(t.DatasetID, t.ID)
}

func (t Track) First() Point {
	return t.Geometry[0]
}

func (t Track) Last() Point {
	return t.Geometry[len(t.Geometry)-1]
}
