package model

import "fmt"

// Report request defaults and bounds.
const (
	DefaultReportTitle        = "Image Classification Report"
	DefaultSamplesPerCategory = 3
	MaxSamplesPerCategory     = 25
)

// ReportRequest describes one report-generation request after the HTTP layer
// has applied defaults. SamplesPerCategory of 0 means "no sample images".
type ReportRequest struct {
	Title              string `json:"title"`
	SamplesPerCategory int    `json:"samples_per_category"`
}

// Validate checks the request bounds. The HTTP layer rejects invalid
// requests before the report pipeline runs.
func (r ReportRequest) Validate() error {
	if r.SamplesPerCategory < 0 || r.SamplesPerCategory > MaxSamplesPerCategory {
		return fmt.Errorf("samples per category must be between 0 and %d", MaxSamplesPerCategory)
	}
	return nil
}
