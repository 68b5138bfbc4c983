package geotrack

import "github.com/umahmood/haversine"

// TrackInfo is the popup and tooltip payload of a track.
type TrackInfo struct {
	Key            TrackKey `json:"key"`
	Label          string   `json:"label"`
	SourceName     string   `json:"sourceName"`
	StartTime      string   `json:"startTime"`
	StartCoordText string   `json:"startCoordText"`
	EndTime        string   `json:"endTime"`
	EndCoordText   string   `json:"endCoordText"`
	LengthKm       float64  `json:"lengthKm"`
}

func (t Track) Info(sourceName string) TrackInfo {
	return TrackInfo{
		Key:            t.Key(),
		Label:          t.Label,
		SourceName:     sourceName,
		StartTime:      t.StartTime,
		StartCoordText: FormatPoint(t.First()),
		EndTime:        t.EndTime,
		EndCoordText:   FormatPoint(t.Last()),
		LengthKm:       t.LengthKm(),
	}
}

// LengthKm sums the great-circle distances between consecutive points.
func (t Track) LengthKm() float64 {
	total := 0.0
	for i := 1; i < len(t.Geometry); i++ {
		a, b := t.Geometry[i-1], t.Geometry[i]
		_, km := haversine.Distance(
			haversine.Coord{Lat: a.Lat, Lon: a.Lon},
			haversine.Coord{Lat: b.Lat, Lon: b.Lon},
		)
		total += km
	}

	return total
}
