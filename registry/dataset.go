package registry

import (
	"encoding/json"
	"fmt"

	"github.com/bgraf/trackmap/geotrack"
)

type LoadState int

const (
	Pending LoadState = iota
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

func (s LoadState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LoadState) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch name {
	case "pending":
		*s = Pending
	case "loaded":
		*s = Loaded
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("unknown load state '%s'", name)
	}

	return nil
}

type dataset struct {
	id     string
	name   string
	url    string
	style  geotrack.Style
	state  LoadState
	reason error
	shown  bool
	order  []string
	tracks map[string]geotrack.Track
}

func (ds *dataset) key(trackID string) geotrack.TrackKey {
	return geotrack.MakeTrackKey(ds.id, trackID)
}

// DatasetView is a read-only snapshot of a dataset and its tracks in display order.
type DatasetView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	SourceURL string         `json:"sourceUrl"`
	Style     geotrack.Style `json:"style"`
	State     LoadState      `json:"state"`
	Reason    string         `json:"reason,omitempty"`
	Shown     bool           `json:"shown"`
	Tracks    []TrackView    `json:"tracks"`
}

type TrackView struct {
	Track   geotrack.Track     `json:"track"`
	Info    geotrack.TrackInfo `json:"info"`
	Visible bool               `json:"visible"`
}
