package normalize

import (
	"errors"
	"math"
	"testing"

	"github.com/bgraf/trackmap/data/gpx"
	"github.com/bgraf/trackmap/geotrack"
)

const legsCSV = `Filename,Start Coordinates,End Coordinates,Start Date,Start Time,Finish Date,End Time
Leg A,"54.5,18.6","54.6,18.7",2025-07-01,08:00,2025-07-01,10:30
Leg B,"not,a,coord","54.6,18.7",,,,
,"-54.5, -18.6","+54.6 ,18.7",,,,
Leg A,"55,19","55.1,19.2",,,2025-07-02,
`

func TestDecodeCSV(t *testing.T) {
	tracks, report, err := Decode(FormatCSV, "legs.csv", []byte(legsCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}

	first := tracks[0]
	if first.Label != "Leg A" {
		t.Errorf("label = %q", first.Label)
	}
	want := []geotrack.Point{{Lat: 54.5, Lon: 18.6}, {Lat: 54.6, Lon: 18.7}}
	if len(first.Geometry) != 2 || first.Geometry[0] != want[0] || first.Geometry[1] != want[1] {
		t.Errorf("geometry = %v, want %v", first.Geometry, want)
	}
	if first.StartTime != "2025-07-01 08:00" || first.EndTime != "2025-07-01 10:30" {
		t.Errorf("times = %q / %q", first.StartTime, first.EndTime)
	}

	if tracks[1].Label != "Leg 3" {
		t.Errorf("fallback label = %q, want Leg 3", tracks[1].Label)
	}
	if tracks[1].Geometry[0] != (geotrack.Point{Lat: -54.5, Lon: -18.6}) {
		t.Errorf("signed coordinates = %v", tracks[1].Geometry[0])
	}

	if tracks[2].StartTime != "" || tracks[2].EndTime != "2025-07-02" {
		t.Errorf("partial times = %q / %q", tracks[2].StartTime, tracks[2].EndTime)
	}

	if report.Records != 4 {
		t.Errorf("records = %d, want 4", report.Records)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("skipped = %v", report.Skipped)
	}
	skipped := report.Skipped[0]
	if skipped.Index != 2 || skipped.Field != ColumnStartCoordinates || !errors.Is(skipped.Reason, geotrack.ErrInvalidCoordinate) {
		t.Errorf("unexpected skip %v", skipped)
	}
}

func TestDecodeCSVHTML(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>404 Not Found</title></head><body></body></html>`

	_, _, err := Decode(FormatCSV, "x.csv", []byte(page))
	if !errors.Is(err, geotrack.ErrNotTabularData) {
		t.Fatalf("expected ErrNotTabularData, got %v", err)
	}
}

func TestDecodeGPX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
<trk><trkseg>
<trkpt lat="54.5" lon="18.6"><time>2025-07-01T06:00:00Z</time></trkpt>
<trkpt lat="54.55" lon="18.65"></trkpt>
<trkpt lat="54.6" lon="18.7"><time>2025-07-01T10:30:00Z</time></trkpt>
</trkseg></trk>
</gpx>`

	tracks, report, err := Decode(FormatGPX, "swim.gpx", []byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tracks) != 1 {
		t.Fatalf("expected one track, got %d", len(tracks))
	}

	track := tracks[0]
	if track.Label != "swim.gpx" || len(track.Geometry) != 3 {
		t.Errorf("unexpected track %+v", track)
	}
	if track.StartTime != "2025-07-01T06:00:00Z" {
		t.Errorf("start = %q", track.StartTime)
	}
	if track.EndTime != "2025-07-01T10:30:00Z" {
		t.Errorf("end = %q", track.EndTime)
	}
	if report.Records != 3 || len(report.Skipped) != 0 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestDecodeGPXOffsetTime(t *testing.T) {
	doc := `<?xml version="1.0"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
<trk><trkseg>
<trkpt lat="54.5" lon="18.6"><time>2025-07-01T08:00:00.500+02:00</time></trkpt>
<trkpt lat="54.6" lon="18.7"><time>2025-07-01T12:30:00+02:00</time></trkpt>
</trkseg></trk>
</gpx>`

	tracks, _, err := Decode(FormatGPX, "swim.gpx", []byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tracks[0].StartTime; got != "2025-07-01T06:00:00.5Z" {
		t.Errorf("start = %q", got)
	}
	if got := tracks[0].EndTime; got != "2025-07-01T10:30:00Z" {
		t.Errorf("end = %q", got)
	}
}

func TestDecodeGPXWithoutPoints(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx version="1.1" creator="test"><trk><trkseg></trkseg></trk></gpx>`

	_, _, err := Decode(FormatGPX, "empty.gpx", []byte(doc))

	var formatErr *geotrack.FormatError
	if !errors.As(err, &formatErr) || !errors.Is(err, geotrack.ErrNoTrackPoints) {
		t.Fatalf("expected FormatError(no track points), got %v", err)
	}
}

func TestFromGPXDropsInvalidPoints(t *testing.T) {
	doc := &gpx.Document{Points: []gpx.TrackPoint{
		{Point: geotrack.Point{Lat: 1, Lon: 2}},
		{Point: geotrack.Point{Lat: math.NaN(), Lon: 2}},
		{Point: geotrack.Point{Lat: 3, Lon: 4}},
	}}

	tracks, report := FromGPX("t", doc)
	if len(tracks) != 1 || len(tracks[0].Geometry) != 2 {
		t.Fatalf("unexpected tracks %+v", tracks)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Index != 2 {
		t.Errorf("unexpected report %+v", report)
	}

	single := &gpx.Document{Points: []gpx.TrackPoint{{Point: geotrack.Point{Lat: 1, Lon: 2}}}}
	tracks, report = FromGPX("t", single)
	if len(tracks) != 0 {
		t.Errorf("single point must not yield a track")
	}
	if len(report.Skipped) != 1 || !errors.Is(report.Skipped[0].Reason, geotrack.ErrTooFewPoints) {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestLabelFromURL(t *testing.T) {
	tests := map[string]string{
		"https://example.org/tracks/Morze%20Emocji%202025%20track%20(2).gpx": "Morze Emocji 2025 track (2).gpx",
		"https://example.org/a/b.csv?x=1":                                    "b.csv",
		"plain.gpx":                                                          "plain.gpx",
		"https://example.org/100%25%20done.csv":                              "100% done.csv",
		"https://example.org/a%252Fb.gpx":                                    "a%2Fb.gpx",
	}

	for in, want := range tests {
		if got := LabelFromURL(in); got != want {
			t.Errorf("LabelFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		configured string
		url        string
		want       Format
		wantErr    bool
	}{
		{"", "https://example.org/x.gpx", FormatGPX, false},
		{"", "https://example.org/x.CSV", FormatCSV, false},
		{"", "https://example.org/x.txt", FormatCSV, false},
		{"GPX", "https://example.org/export?id=3", FormatGPX, false},
		{"csv", "https://example.org/x.gpx", FormatCSV, false},
		{"", "https://example.org/x.kml", "", true},
		{"kml", "https://example.org/x.gpx", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveFormat(tt.configured, tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveFormat(%q, %q) error = %v", tt.configured, tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveFormat(%q, %q) = %q, want %q", tt.configured, tt.url, got, tt.want)
		}
	}
}
