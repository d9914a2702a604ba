// Package report implements the report-generation pipeline: aggregation of
// classification data, LaTeX rendering, managed compilation to PDF, and
// artifact delivery.
package report

import (
	"time"

	"github.com/labelforge/labelforge/internal/model"
)

// Data is the aggregate summary a report is rendered from. It is built fresh
// per request and never mutated afterwards.
type Data struct {
	ReportDate         time.Time
	Title              string
	SamplesPerCategory int
	TotalImages        int
	ClassifiedImages   int
	UnclassifiedImages int
	CategoryStats      []CategoryStat
}

// CategoryStat summarizes one category.
type CategoryStat struct {
	CategoryName           string
	Count                  int
	Percentage             float64
	SampleImageIdentifiers []string
}

// PrepareData joins categories, classifications, and the uploaded-file
// inventory into a Data summary. Pure function over its inputs.
//
// The per-category sample list is always computed with a cap of at least 1,
// while Data.SamplesPerCategory keeps the request's literal value: when the
// request asked for 0 samples, the renderer suppresses the whole section
// even though the lists are populated.
func PrepareData(req model.ReportRequest, categories []model.Category, classifications []model.Classification, uploaded []string) Data {
	totalImages := len(uploaded)

	classified := make(map[string]struct{}, len(classifications))
	for _, c := range classifications {
		classified[c.ImageIdentifier] = struct{}{}
	}

	// UnclassifiedImages can go negative when the classification store still
	// references files no longer on disk. Accepted data skew, not an error.
	sampleCap := clamp(req.SamplesPerCategory, 1, model.MaxSamplesPerCategory)

	stats := make([]CategoryStat, 0, len(categories))
	for _, category := range categories {
		var count int
		seen := make(map[string]struct{})
		var samples []string
		for _, c := range classifications {
			if c.CategoryID != category.ID {
				continue
			}
			count++
			if _, dup := seen[c.ImageIdentifier]; dup {
				continue
			}
			seen[c.ImageIdentifier] = struct{}{}
			if len(samples) < sampleCap {
				samples = append(samples, c.ImageIdentifier)
			}
		}

		var percentage float64
		if totalImages > 0 {
			percentage = float64(count) / float64(totalImages) * 100
		}
		stats = append(stats, CategoryStat{
			CategoryName:           category.Name,
			Count:                  count,
			Percentage:             percentage,
			SampleImageIdentifiers: samples,
		})
	}

	return Data{
		ReportDate:         time.Now().UTC(),
		Title:              req.Title,
		SamplesPerCategory: req.SamplesPerCategory,
		TotalImages:        totalImages,
		ClassifiedImages:   len(classified),
		UnclassifiedImages: totalImages - len(classified),
		CategoryStats:      stats,
	}
}

// RequiredAssets returns the de-duplicated union of all sample image
// identifiers, in report order. Empty when sample rendering is disabled.
func (d Data) RequiredAssets() []string {
	if d.SamplesPerCategory <= 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var names []string
	for _, cs := range d.CategoryStats {
		for _, id := range cs.SampleImageIdentifiers {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			names = append(names, id)
		}
	}
	return names
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
