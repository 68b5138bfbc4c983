package render

import (
	"bytes"
	"html/template"

	"github.com/bgraf/trackmap/geotrack"
)

var popupTemplate = template.Must(template.New("popup").Parse(
	`<div class="popup-small">` +
		`<strong>{{.Label}}</strong><br>` +
		`<b>Source:</b> {{.SourceName}}<br>` +
		`<b>Start:</b> {{.StartTime}}{{if .StartCoordText}} | {{.StartCoordText}}{{end}}<br>` +
		`<b>End:</b> {{.EndTime}}{{if .EndCoordText}} | {{.EndCoordText}}{{end}}<br>` +
		`<b>Length:</b> {{printf "%.2f" .LengthKm}} km` +
		`</div>`,
))

// PopupHTML renders the popup of a track with every value escaped.
func PopupHTML(info geotrack.TrackInfo) template.HTML {
	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, info); err != nil {
		return template.HTML(template.HTMLEscapeString(info.Label))
	}

	return template.HTML(buf.String())
}
