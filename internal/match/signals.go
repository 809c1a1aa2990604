// Package match scores extracted layout signals against every catalog
// template and selects the best one.
//
// A template's score is a weighted sum of independent signals (side alignment,
// box-count fit, text-block fit, spacing regularity, element ratios and a
// type-specific adjustment). New signals are added as new terms of the sum.
package match

import (
	"section-matcher/internal/layout"
)

// Signals are the per-request inputs to scoring.
type Signals struct {
	BoxCount       int
	TextBlockCount int
	VerticalGaps   []float64
	HorizontalGaps []float64
	ElementRatios  []float64
}

// FromFeatures derives signals from extracted features.
func FromFeatures(f *layout.Features) Signals {
	if f == nil {
		return Signals{}
	}
	return Signals{
		BoxCount:       f.BoxCount(),
		TextBlockCount: f.TextBlockCount,
		VerticalGaps:   f.Spacing.Vertical,
		HorizontalGaps: f.Spacing.Horizontal,
		ElementRatios:  f.ElementRatios,
	}
}

// Counts builds signals from summary counts alone. Spacing and ratio
// signals contribute nothing.
func Counts(boxes, textBlocks int) Signals {
	return Signals{BoxCount: boxes, TextBlockCount: textBlocks}
}
