package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/res"
	"github.com/goodsign/monday"
)

// MapOptions configures the browser side of a map page.
type MapOptions struct {
	Center       [2]float64 `json:"center"`
	Zoom         int        `json:"zoom"`
	TileURL      string     `json:"tileUrl"`
	Attribution  string     `json:"attribution"`
	Live         bool       `json:"live"`
	APIBase      string     `json:"apiBase"`
	PollInterval int        `json:"pollInterval"`
}

// MapOptionsFromConfig fills the tile and initial view settings from the config.
func MapOptionsFromConfig(live bool) MapOptions {
	return MapOptions{
		Center:       config.MapCenter(),
		Zoom:         config.MapZoom(),
		TileURL:      config.MapTileURL(),
		Attribution:  config.MapAttribution(),
		Live:         live,
		APIBase:      "/api",
		PollInterval: 2000,
	}
}

// Page is the data of map.html. Snapshot is nil for live pages, which fetch it.
type Page struct {
	Title       string
	StaticBase  string
	Options     MapOptions
	Snapshot    *Snapshot
	GeneratedAt time.Time
}

func makeTemplateFuncmap() template.FuncMap {
	locale := monday.Locale(config.DisplayLocale())

	return template.FuncMap{
		"generatedOn": func(t time.Time) string {
			return "Generated on " + monday.Format(t, "Monday, 2 January 2006 15:04", locale)
		},
	}
}

func ReadTemplates() (*template.Template, error) {
	templates, err := template.New("").Funcs(makeTemplateFuncmap()).ParseFS(res.Templates, "templates/*")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return templates, nil
}

// WritePage renders the map page to w.
func WritePage(w io.Writer, templates *template.Template, page Page) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "map.html", page); err != nil {
		return fmt.Errorf("could not execute template: %w", err)
	}

	_, err := buf.WriteTo(w)
	return err
}
