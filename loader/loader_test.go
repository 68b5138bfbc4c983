package loader

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bgraf/trackmap/bounds"
	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/fetch"
	"github.com/bgraf/trackmap/geotrack"
	"github.com/bgraf/trackmap/registry"
)

type fakeFetcher struct {
	bodies map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok := f.bodies[url]
	if !ok {
		return nil, &fetch.NetworkError{URL: url, StatusCode: 404, Status: "404 Not Found"}
	}
	return []byte(body), nil
}

type fakeScene struct {
	mu           sync.Mutex
	statuses     []string
	fits         []bounds.Region
	descriptions map[string]template.HTML
}

func newFakeScene() *fakeScene {
	return &fakeScene{descriptions: make(map[string]template.HTML)}
}

func (s *fakeScene) Status(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, msg)
}

func (s *fakeScene) FitBounds(region bounds.Region, padding float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fits = append(s.fits, region.Pad(padding))
}

func (s *fakeScene) SetDescription(datasetID string, description template.HTML) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptions[datasetID] = description
}

func (s *fakeScene) fitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fits)
}

const (
	trackURL = "https://example.org/swim.gpx"
	legsURL  = "https://example.org/legs.csv"
	brokeURL = "https://example.org/broken.csv"
	goneURL  = "https://example.org/gone.gpx"
)

const swimGPX = `<?xml version="1.0"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
<trk><trkseg>
<trkpt lat="54.5" lon="18.6"></trkpt>
<trkpt lat="54.6" lon="18.7"></trkpt>
</trkseg></trk>
</gpx>`

const legsCSV = `filename,start_coordinates,end_coordinates
Leg A,"54.5,18.6","54.6,18.7"
Leg B,"not,a,coord","54.6,18.7"
Leg C,"55,19","55.5,19.5"
`

const errorPage = `<!DOCTYPE html><html><head><title>Rate limited</title></head><body>slow down</body></html>`

func testDatasets() []config.Dataset {
	return []config.Dataset{
		{Name: "Swim", URL: trackURL, Color: "blue", Description: "The *whole* route"},
		{Name: "Legs", URL: legsURL, Color: "red"},
		{Name: "Broken", URL: brokeURL},
		{Name: "Gone", URL: goneURL},
	}
}

func newTestLoader(options Options) (*Loader, *registry.Registry, *fakeScene) {
	fetcher := &fakeFetcher{bodies: map[string]string{
		trackURL: swimGPX,
		legsURL:  legsCSV,
		brokeURL: errorPage,
	}}

	scene := newFakeScene()
	reg := registry.New(nil, nil, nil, nil)
	return New(fetcher, reg, scene, nil, options), reg, scene
}

func TestRun(t *testing.T) {
	l, reg, scene := newTestLoader(Options{FitOnLoad: true, FitPadding: 0.1})
	defer l.Close()

	results := l.Run(context.Background(), testDatasets())
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	views := reg.Datasets()
	if len(views) != 4 {
		t.Fatalf("expected 4 datasets, got %d", len(views))
	}

	byName := make(map[string]registry.DatasetView)
	for _, v := range views {
		byName[v.Name] = v
	}

	if got := byName["Swim"]; got.State != registry.Loaded || len(got.Tracks) != 1 {
		t.Errorf("swim: state %s, %d tracks", got.State, len(got.Tracks))
	}
	if got := byName["Legs"]; got.State != registry.Loaded || len(got.Tracks) != 2 {
		t.Errorf("legs: state %s, %d tracks", got.State, len(got.Tracks))
	}

	broken := byName["Broken"]
	if broken.State != registry.Failed || !strings.Contains(broken.Reason, geotrack.ErrNotTabularData.Error()) {
		t.Errorf("broken: state %s, reason %q", broken.State, broken.Reason)
	}
	if gone := byName["Gone"]; gone.State != registry.Failed || !strings.Contains(gone.Reason, "404") {
		t.Errorf("gone: state %s, reason %q", gone.State, gone.Reason)
	}

	if byName["Swim"].Style.Color != "#0000ff" {
		t.Errorf("swim color = %s", byName["Swim"].Style.Color)
	}
	if byName["Broken"].Style.Color == "" {
		t.Errorf("expected generated color")
	}

	if desc := scene.descriptions[byName["Swim"].ID]; !strings.Contains(string(desc), "<em>whole</em>") {
		t.Errorf("description = %q", desc)
	}

	if scene.statuses[0] != StatusLoading {
		t.Errorf("first status = %q", scene.statuses[0])
	}
	var failedStatus bool
	for _, s := range scene.statuses {
		failedStatus = failedStatus || s == StatusFailed("Broken")
	}
	if !failedStatus {
		t.Errorf("missing failure status in %v", scene.statuses)
	}

	if scene.fitCount() != 2 {
		t.Fatalf("expected a fit per loaded dataset, got %d", scene.fitCount())
	}
	last := scene.fits[len(scene.fits)-1]
	for _, p := range []geotrack.Point{{Lat: 54.5, Lon: 18.6}, {Lat: 55.5, Lon: 19.5}} {
		if !last.Contains(p) {
			t.Errorf("final fit %+v misses %v", last, p)
		}
	}
}

func TestLoadFormatErrors(t *testing.T) {
	l, reg, _ := newTestLoader(Options{})

	result := l.Load(context.Background(), config.Dataset{Name: "Broken", URL: brokeURL})
	if !result.Failed() || !errors.Is(result.Err, geotrack.ErrNotTabularData) {
		t.Fatalf("expected ErrNotTabularData, got %v", result.Err)
	}

	var formatErr *geotrack.FormatError
	if !errors.As(result.Err, &formatErr) || !strings.Contains(formatErr.Detail, "Rate limited") {
		t.Errorf("expected page title in detail, got %v", result.Err)
	}

	result = l.Load(context.Background(), config.Dataset{Name: "KML", URL: "https://example.org/x.kml"})
	if !result.Failed() {
		t.Errorf("expected unknown extension to fail")
	}

	if len(reg.Datasets()) != 0 {
		t.Errorf("Load must not register datasets")
	}
}

func TestLoadReportsSkippedRows(t *testing.T) {
	l, _, _ := newTestLoader(Options{})

	result := l.Load(context.Background(), config.Dataset{Name: "Legs", URL: legsURL})
	if result.Failed() {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Tracks) != 2 || len(result.Report.Skipped) != 1 {
		t.Errorf("tracks %d, skipped %v", len(result.Tracks), result.Report.Skipped)
	}
}

func TestSettleFit(t *testing.T) {
	l, _, scene := newTestLoader(Options{SettleDelay: 100 * time.Millisecond})
	defer l.Close()

	l.Run(context.Background(), testDatasets()[:2])

	deadline := time.Now().Add(2 * time.Second)
	for scene.fitCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if scene.fitCount() != 1 {
		t.Errorf("expected one settle fit, got %d", scene.fitCount())
	}
}

func TestFitWithoutData(t *testing.T) {
	l, _, scene := newTestLoader(Options{})

	if l.Fit() {
		t.Errorf("Fit must report false without data")
	}
	if scene.fitCount() != 0 {
		t.Errorf("unexpected fit")
	}
}
