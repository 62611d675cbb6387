package models

import (
	"encoding/json"
	"fmt"
)

// AnalysisResult and CompareResult are opaque JSON documents from the
// backend. They are decoded into generic values and displayed verbatim.
type (
	AnalysisResult = any
	CompareResult  = any
)

// UploadOutcome is the body the backend answers /upload with.
type UploadOutcome struct {
	OK    bool   `json:"ok"`
	Rows  int    `json:"rows,omitempty"`
	Error string `json:"error,omitempty"`
}

// Message renders the user-facing upload message.
func (o UploadOutcome) Message() string {
	if o.OK {
		return fmt.Sprintf("Uploaded OK: %d rows.", o.Rows)
	}
	return fmt.Sprintf("Upload failed: %s", o.Error)
}

// UploadErrorMessage renders a transport or parse failure during upload.
func UploadErrorMessage(err error) string {
	return "Upload error: " + err.Error()
}

// ErrorResult converts a failed query into the structured object stored in
// the result slot in place of a backend response.
func ErrorResult(err error) map[string]any {
	msg := "request failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return map[string]any{
		"ok":    false,
		"error": msg,
	}
}

// PrettyJSON formats v with two-space indentation.
func PrettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// ChartPoint is one bar of a ChartDataset.
type ChartPoint struct {
	Label string
	Value float64
}

// ChartDataset is recomputed on every placeholder analysis.
type ChartDataset struct {
	Label  string
	Points []ChartPoint
}

// Labels returns the category labels in order.
func (d ChartDataset) Labels() []string {
	labels := make([]string, len(d.Points))
	for i, p := range d.Points {
		labels[i] = p.Label
	}
	return labels
}

// MetricRow is one row of the placeholder table.
type MetricRow struct {
	Category string
	Value    any
}

// Display returns the cell text for the value column.
func (r MetricRow) Display() string {
	return fmt.Sprint(r.Value)
}

// BoardResult is what one placeholder analysis produces.
type BoardResult struct {
	Area    string
	Summary string
	Headers []string
	Rows    []MetricRow
	Dataset ChartDataset
}
