// Package normalize turns parsed GPX documents and CSV tables into canonical tracks.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/bgraf/trackmap/data/gpx"
	"github.com/bgraf/trackmap/data/tabular"
	"github.com/bgraf/trackmap/geotrack"
)

// Columns of leg tables, after header normalization.
const (
	ColumnFilename         = "filename"
	ColumnName             = "name"
	ColumnStartCoordinates = "start_coordinates"
	ColumnEndCoordinates   = "end_coordinates"
	ColumnStartDate        = "start_date"
	ColumnStartTime        = "start_time"
	ColumnFinishDate       = "finish_date"
	ColumnEndDate          = "end_date"
	ColumnEndTime          = "end_time"
	ColumnFinishTime       = "finish_time"
)

// FromGPX builds one track from a document, using every finite point in document
// order. A document with fewer than two usable points yields no track.
func FromGPX(label string, doc *gpx.Document) ([]geotrack.Track, geotrack.Report) {
	report := geotrack.Report{Records: len(doc.Points)}

	var (
		points []geotrack.Point
		first  gpx.TrackPoint
		last   gpx.TrackPoint
	)

	for i, p := range doc.Points {
		if !p.IsFinite() {
			report.Skip(i+1, "trkpt", geotrack.ErrInvalidCoordinate)
			continue
		}

		if len(points) == 0 {
			first = p
		}
		last = p
		points = append(points, p.Point)
	}

	track, err := geotrack.NewTrack(label, points)
	if err != nil {
		report.Skip(0, "", err)
		return nil, report
	}

	track.StartTime = formatTime(first)
	track.EndTime = formatTime(last)

	return []geotrack.Track{track}, report
}

// FromTable builds one two-point leg per row. Rows whose start or end coordinate
// is not "<number>, <number>" are skipped and recorded in the report.
func FromTable(table *tabular.Table) ([]geotrack.Track, geotrack.Report) {
	var (
		tracks []geotrack.Track
		report geotrack.Report
	)

	for _, row := range table.Rows {
		report.Records++

		start, ok := geotrack.ParseCoordinatePair(row.Get(ColumnStartCoordinates))
		if !ok {
			report.Skip(row.Index, ColumnStartCoordinates, geotrack.ErrInvalidCoordinate)
			continue
		}

		end, ok := geotrack.ParseCoordinatePair(row.Get(ColumnEndCoordinates))
		if !ok {
			report.Skip(row.Index, ColumnEndCoordinates, geotrack.ErrInvalidCoordinate)
			continue
		}

		track, err := geotrack.NewTrack(legLabel(row), []geotrack.Point{start, end})
		if err != nil {
			report.Skip(row.Index, "", err)
			continue
		}

		track.StartTime = joinNonEmpty(row.Get(ColumnStartDate), row.Get(ColumnStartTime))
		track.EndTime = joinNonEmpty(
			firstNonEmpty(row.Get(ColumnFinishDate), row.Get(ColumnEndDate)),
			firstNonEmpty(row.Get(ColumnEndTime), row.Get(ColumnFinishTime)),
		)

		tracks = append(tracks, track)
	}

	return tracks, report
}

func legLabel(row tabular.Row) string {
	if name := firstNonEmpty(row.Get(ColumnFilename), row.Get(ColumnName)); name != "" {
		return name
	}

	return fmt.Sprintf("Leg %d", row.Index)
}

func formatTime(p gpx.TrackPoint) string {
	if !p.HasTime() {
		return ""
	}
	return p.Time.UTC().Format(time.RFC3339Nano)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
