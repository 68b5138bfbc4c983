// Package tabular decodes CSV text with a header row into row mappings.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bgraf/trackmap/geotrack"
)

const byteOrderMark = "\ufeff"

var (
	doctypePattern  = regexp.MustCompile(`(?i)^\s*<!doctype html`)
	htmlRootPattern = regexp.MustCompile(`(?i)<html[\s>]`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// Row maps normalized column names to raw cell values. Index is the 1-based
// position among the non-empty data rows.
type Row struct {
	Index  int
	Fields map[string]string
}

// Get returns the trimmed value of a column or "" if the row lacks it.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

type Table struct {
	Header []string
	Rows   []Row
}

// NormalizeHeader strips a byte order mark, trims, lowercases and collapses
// internal whitespace into a single underscore.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, byteOrderMark)
	h = strings.ToLower(strings.TrimSpace(h))
	return whitespace.ReplaceAllString(h, "_")
}

// LooksLikeHTML reports whether data is an HTML document rather than tabular text.
func LooksLikeHTML(data []byte) bool {
	return doctypePattern.Match(data) || htmlRootPattern.Match(data)
}

// Parse decodes data into a Table. HTML input fails with ErrNotTabularData before
// any row is read. Rows that the CSV reader rejects are recorded in the report and
// skipped, blank rows are dropped silently.
func Parse(data []byte) (*Table, geotrack.Report, error) {
	var report geotrack.Report

	if LooksLikeHTML(data) {
		return nil, report, &geotrack.FormatError{
			Reason: geotrack.ErrNotTabularData,
			Detail: htmlSummary(data),
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, report, nil
	}
	if err != nil {
		return nil, report, &geotrack.FormatError{Reason: geotrack.ErrMalformedDocument, Detail: err.Error()}
	}

	table := &Table{Header: make([]string, len(header))}
	for i, h := range header {
		table.Header[i] = NormalizeHeader(h)
	}

	index := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			index++
			report.Records++
			report.Skip(index, "", err)
			continue
		}
		if err != nil {
			return nil, report, fmt.Errorf("read csv: %w", err)
		}

		if isBlank(record) {
			continue
		}

		index++
		report.Records++

		row := Row{Index: index, Fields: make(map[string]string, len(table.Header))}
		for i, column := range table.Header {
			if i < len(record) {
				row.Fields[column] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, report, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// htmlSummary names the page that was returned instead of data.
func htmlSummary(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "got HTML instead of CSV"
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "got HTML instead of CSV"
	}

	return fmt.Sprintf("got HTML instead of CSV (%s)", title)
}
