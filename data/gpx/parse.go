// Package gpx decodes GPX documents into their ordered trackpoints.
package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bgraf/trackmap/geotrack"
	"github.com/tkrajina/gpxgo/gpx"
)

// TrackPoint is a position in document order. Time is zero when the point has no
// <time> element.
type TrackPoint struct {
	geotrack.Point
	Time time.Time
}

func (p TrackPoint) HasTime() bool {
	return !p.Time.IsZero()
}

type Document struct {
	Name   string
	Points []TrackPoint
}

// Parse extracts every trackpoint of every track and segment in document order.
func Parse(data []byte) (*Document, error) {
	gpxData, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, &geotrack.FormatError{Reason: geotrack.ErrMalformedDocument, Detail: err.Error()}
	}

	doc := &Document{Name: gpxData.Name}

	for _, track := range gpxData.Tracks {
		if doc.Name == "" {
			doc.Name = track.Name
		}

		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				doc.Points = append(doc.Points, TrackPoint{
					Point: geotrack.Point{Lat: p.Latitude, Lon: p.Longitude},
					Time:  p.Timestamp,
				})
			}
		}
	}

	if len(doc.Points) == 0 {
		return nil, &geotrack.FormatError{Reason: geotrack.ErrNoTrackPoints}
	}

	times, err := readTimes(data)
	if err == nil && len(times) == len(doc.Points) {
		for i := range doc.Points {
			doc.Points[i].Time = times[i]
		}
	}

	return doc, nil
}

// Endpoints returns the first and the last trackpoint.
func (d *Document) Endpoints() (first, last TrackPoint) {
	return d.Points[0], d.Points[len(d.Points)-1]
}

// ReadEndpoints scans a GPX stream and keeps only the first and the last trackpoint.
func ReadEndpoints(r io.Reader) (first, last TrackPoint, err error) {
	seen := 0
	count, err := scanTrackPoints(r, func(p TrackPoint) {
		if seen == 0 {
			first = p
		}
		last = p
		seen++
	})
	if err != nil {
		return first, last, err
	}

	if count == 0 {
		return first, last, &geotrack.FormatError{Reason: geotrack.ErrNoTrackPoints}
	}

	return first, last, nil
}

// readTimes returns the <time> of every trackpoint in document order. gpxgo
// drops the UTC offset and fractional seconds, this keeps both.
func readTimes(data []byte) ([]time.Time, error) {
	var times []time.Time
	_, err := scanTrackPoints(bytes.NewReader(data), func(p TrackPoint) {
		times = append(times, p.Time)
	})
	return times, err
}

func scanTrackPoints(r io.Reader, visit func(TrackPoint)) (int, error) {
	decoder := xml.NewDecoder(r)

	var (
		count   int
		current TrackPoint
		inPoint bool
		inTime  bool
		timeBuf strings.Builder
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, &geotrack.FormatError{Reason: geotrack.ErrMalformedDocument, Detail: err.Error()}
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "trkpt":
				current = TrackPoint{Point: readLatLon(t.Attr)}
				inPoint = true
			case inPoint && t.Name.Local == "time":
				inTime = true
				timeBuf.Reset()
			}

		case xml.CharData:
			if inTime {
				timeBuf.Write(t)
			}

		case xml.EndElement:
			switch {
			case inTime && t.Name.Local == "time":
				inTime = false
				if ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(timeBuf.String())); err == nil {
					current.Time = ts
				}
			case t.Name.Local == "trkpt":
				inPoint = false
				visit(current)
				count++
			}
		}
	}

	return count, nil
}

// readLatLon leaves a missing or unparseable component as NaN.
func readLatLon(attrs []xml.Attr) geotrack.Point {
	p := geotrack.Point{Lat: math.NaN(), Lon: math.NaN()}

	for _, a := range attrs {
		v, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
		if err != nil {
			continue
		}

		switch a.Name.Local {
		case "lat":
			p.Lat = v
		case "lon":
			p.Lon = v
		}
	}

	return p
}
