package models

import (
	"errors"
	"fmt"
)

// Input validation errors
var (
	ErrEmptyArea       = errors.New("please enter an area")
	ErrNoFile          = errors.New("select a file first")
	ErrUnsupportedFile = errors.New("only .xlsx and .xls files can be uploaded")
)

// Session related errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Board related errors
var (
	ErrChartNotFound   = errors.New("chart not found")
	ErrNothingToExport = errors.New("nothing to export yet")
)

// BackendError is returned when the analysis backend answers with a
// non-2xx status and a body that is not JSON.
type BackendError struct {
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}
