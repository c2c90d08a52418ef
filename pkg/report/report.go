package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"aurelion/pkg/classify"
	"aurelion/pkg/engine"
)

// MonthRevenue is one point of the monthly revenue roll-up consumed by
// external visualization.
type MonthRevenue struct {
	Month   string  `json:"month"` // "2006-01"
	Revenue float64 `json:"revenue"`
}

// RunReport is the per-run quality report returned alongside the primary
// outputs. Warnings from every stage are merged here; the report is a
// derived artifact with no identity across runs beyond its RunID.
type RunReport struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`

	Unify engine.UnifyStats `json:"unify"`

	CategoryCounts map[string]int `json:"categoryCounts"`
	FallbackCount  int            `json:"fallbackCount"`
	SuspectCount   int            `json:"suspectCount"`

	// Segmentation diagnostics; zero-valued when segmentation failed with
	// InsufficientDataError (the unified output is still reported).
	LowThreshold  float64                      `json:"lowThreshold"`
	HighThreshold float64                      `json:"highThreshold"`
	LabelCounts   map[string]int               `json:"labelCounts"`
	LabelRanges   map[string]engine.LabelRange `json:"labelRanges"`

	MonthlyRevenue []MonthRevenue `json:"monthlyRevenue"`

	Warnings []engine.QualityWarning `json:"warnings"`
}

// Build merges the stage outputs into one report. audit and seg may be nil
// when their stages did not run.
func Build(unify *engine.UnifyResult, audit *classify.AuditResult, seg *engine.SegmentResult) *RunReport {
	r := &RunReport{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		Unify:          unify.Stats,
		CategoryCounts: make(map[string]int),
	}

	r.Warnings = append(r.Warnings, unify.Warnings...)

	months := make(map[string]float64)
	for i := range unify.Records {
		rec := &unify.Records[i]
		if rec.AssignedCategory != "" {
			r.CategoryCounts[rec.AssignedCategory]++
		}
		if rec.Header != nil && !rec.Header.SaleDate.IsZero() {
			months[rec.Header.SaleDate.Format("2006-01")] += rec.TotalAmount
		}
	}
	for month, revenue := range months {
		r.MonthlyRevenue = append(r.MonthlyRevenue, MonthRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(r.MonthlyRevenue, func(i, j int) bool {
		return r.MonthlyRevenue[i].Month < r.MonthlyRevenue[j].Month
	})

	if audit != nil {
		r.FallbackCount = len(audit.Fallback)
		r.SuspectCount = len(audit.Suspect)
		for i := range audit.Suspect {
			rec := &audit.Suspect[i]
			r.Warnings = append(r.Warnings, engine.QualityWarning{
				Kind:      engine.WarnSuspectFallback,
				SaleID:    rec.Line.SaleID,
				ProductID: rec.Line.ProductID,
				Message:   fmt.Sprintf("product %q fell back to %q without matching any of its keywords", rec.ProductName(), rec.AssignedCategory),
			})
		}
	}

	if seg != nil {
		r.LowThreshold = seg.LowThreshold
		r.HighThreshold = seg.HighThreshold
		r.LabelCounts = seg.LabelCounts
		r.LabelRanges = seg.LabelRanges
	}

	return r
}

// Summary renders a short human-readable digest for log output.
func (r *RunReport) Summary() string {
	return fmt.Sprintf(
		"run %s: %d unified records, %d warnings, %d fallback (%d suspect), thresholds %.2f/%.2f",
		r.RunID, r.Unify.TotalRecords, len(r.Warnings),
		r.FallbackCount, r.SuspectCount,
		r.LowThreshold, r.HighThreshold,
	)
}
