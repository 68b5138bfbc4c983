package normalize

import (
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/data/gpx"
	"github.com/bgraf/trackmap/data/tabular"
	"github.com/bgraf/trackmap/geotrack"
)

type Format string

const (
	FormatGPX Format = "gpx"
	FormatCSV Format = "csv"
)

// ParseFormat accepts "gpx" and "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatGPX:
		return FormatGPX, nil
	case FormatCSV:
		return FormatCSV, nil
	}

	return "", fmt.Errorf("unknown format '%s'", s)
}

// FormatFromURL selects the format by the extension of the URL path.
func FormatFromURL(rawURL string) (Format, error) {
	ext := strings.ToLower(path.Ext(fileName(rawURL)))
	if slices.Contains(config.GPXExtensions(), ext) {
		return FormatGPX, nil
	} else if slices.Contains(config.CSVExtensions(), ext) {
		return FormatCSV, nil
	}

	return "", fmt.Errorf("unknown track extension '%s'", ext)
}

// ResolveFormat prefers an explicitly configured format over the URL extension.
func ResolveFormat(configured, rawURL string) (Format, error) {
	if strings.TrimSpace(configured) != "" {
		return ParseFormat(configured)
	}
	return FormatFromURL(rawURL)
}

// LabelFromURL returns the unescaped last path segment, e.g. "Morze Emocji 2025 track (2).gpx".
func LabelFromURL(rawURL string) string {
	return fileName(rawURL)
}

func fileName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.EscapedPath()
	}

	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}

	return path.Base(p)
}

// Decode parses data in the given format and normalizes it. Only dataset level
// failures are returned as error; skipped records end up in the report.
func Decode(format Format, label string, data []byte) ([]geotrack.Track, geotrack.Report, error) {
	switch format {
	case FormatGPX:
		doc, err := gpx.Parse(data)
		if err != nil {
			return nil, geotrack.Report{}, err
		}

		if !slices.ContainsFunc(doc.Points, func(p gpx.TrackPoint) bool { return p.IsFinite() }) {
			return nil, geotrack.Report{}, &geotrack.FormatError{Reason: geotrack.ErrNoTrackPoints, Detail: "no valid trackpoints"}
		}

		tracks, report := FromGPX(label, doc)
		return tracks, report, nil

	case FormatCSV:
		table, parseReport, err := tabular.Parse(data)
		if err != nil {
			return nil, parseReport, err
		}

		tracks, report := FromTable(table)
		report.Records += len(parseReport.Skipped)
		report.Skipped = append(parseReport.Skipped, report.Skipped...)
		return tracks, report, nil
	}

	return nil, geotrack.Report{}, fmt.Errorf("unknown format '%s'", format)
}
