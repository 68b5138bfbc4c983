package geotrack

import (
	"errors"
	"fmt"
)

var (
	ErrNoTrackPoints     = errors.New("no track points")
	ErrNotTabularData    = errors.New("not tabular data")
	ErrMalformedDocument = errors.New("malformed document")

	ErrTooFewPoints      = errors.New("fewer than two valid points")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// FormatError fails a whole dataset. Reason is one of the Err* sentinels above.
type FormatError struct {
	Reason error
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("format error: %s", e.Reason)
	}
	return fmt.Sprintf("format error: %s: %s", e.Reason, e.Detail)
}

func (e *FormatError) Unwrap() error {
	return e.Reason
}

// RecordError describes a single skipped row or point. It never fails a dataset.
type RecordError struct {
	Index  int
	Field  string
	Reason error
}

func (e RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("record %d: %s: %s", e.Index, e.Field, e.Reason)
}

// Report collects what happened to the records of one source.
type Report struct {
	Records int
	Skipped []RecordError
}

func (r *Report) Skip(index int, field string, reason error) {
	r.Skipped = append(r.Skipped, RecordError{Index: index, Field: field, Reason: reason})
}
