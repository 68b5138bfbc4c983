package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
)

// Description renders the markdown description of a dataset. Raw HTML in the
// source is dropped by goldmark's default renderer.
func Description(source string) (template.HTML, error) {
	if source == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}

	return template.HTML(buf.String()), nil
}
