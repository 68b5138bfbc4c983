package geotrack

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseCoordinatePair(t *testing.T) {
	tests := []struct {
		input string
		want  Point
		ok    bool
	}{
		{"54.5,18.6", Point{54.5, 18.6}, true},
		{" 54.5 , 18.6 ", Point{54.5, 18.6}, true},
		{"-33.9, +151.2", Point{-33.9, 151.2}, true},
		{"54, 18", Point{54, 18}, true},
		{"not,a,coord", Point{}, false},
		{"54.5;18.6", Point{}, false},
		{"54.5,", Point{}, false},
		{"", Point{}, false},
		{"1e3, 2", Point{}, false},
		{"54.,18.6", Point{}, false},
		{"NaN, 1", Point{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseCoordinatePair(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseCoordinatePair(%q): ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseCoordinatePair(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatPoint(t *testing.T) {
	got := FormatPoint(Point{Lat: 54.5, Lon: -18.123456789})
	want := "54.500000, -18.123457"
	if got != want {
		t.Errorf("FormatPoint = %q, want %q", got, want)
	}
}

func TestNewTrackValidation(t *testing.T) {
	if _, err := NewTrack("a", []Point{{1, 2}}); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("expected ErrTooFewPoints, got %v", err)
	}

	if _, err := NewTrack("a", []Point{{1, 2}, {math.Inf(1), 2}}); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}

	tr, err := NewTrack("a", []Point{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.First() != (Point{1, 2}) || tr.Last() != (Point{5, 6}) {
		t.Errorf("unexpected endpoints %v %v", tr.First(), tr.Last())
	}
}

func TestTrackKey(t *testing.T) {
	key := MakeTrackKey("ds-1", "Leg 3")
	if key != "ds-1|Leg 3" {
		t.Errorf("unexpected key %q", key)
	}
	if key.DatasetID() != "ds-1" {
		t.Errorf("unexpected dataset id %q", key.DatasetID())
	}
}

func TestPointJSON(t *testing.T) {
	data, err := json.Marshal(Point{54.5, 18.6})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[54.5,18.6]" {
		t.Errorf("unexpected JSON %s", data)
	}

	var p Point
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p != (Point{54.5, 18.6}) {
		t.Errorf("unexpected point %v", p)
	}

	if err := json.Unmarshal([]byte("[1]"), &p); err == nil {
		t.Errorf("expected error for short pair")
	}
}

func TestFormatErrorUnwrap(t *testing.T) {
	err := error(&FormatError{Reason: ErrNotTabularData, Detail: "404 Not Found"})
	if !errors.Is(err, ErrNotTabularData) {
		t.Errorf("expected errors.Is to match reason")
	}
	if err.Error() != "format error: not tabular data: 404 Not Found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestTrackInfo(t *testing.T) {
	tr := Track{
		ID:        "Leg A",
		DatasetID: "ds",
		Label:     "Leg A",
		Geometry:  []Point{{54.5, 18.6}, {54.6, 18.7}},
		StartTime: "2025-07-01 08:00",
	}

	info := tr.Info("Morze Emocji 2025")
	if info.Key != "ds|Leg A" {
		t.Errorf("unexpected key %q", info.Key)
	}
	if info.StartCoordText != "54.500000, 18.600000" || info.EndCoordText != "54.600000, 18.700000" {
		t.Errorf("unexpected coord text %q %q", info.StartCoordText, info.EndCoordText)
	}
	if info.EndTime != "" {
		t.Errorf("expected empty end time, got %q", info.EndTime)
	}
	// roughly 13 km between the two points
	if info.LengthKm < 12 || info.LengthKm > 15 {
		t.Errorf("unexpected length %f", info.LengthKm)
	}
}
