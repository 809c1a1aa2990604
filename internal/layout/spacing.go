package layout

import (
	"sort"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// MinBoxesForSpacing is the number of boxes needed before spacing is measured.
	MinBoxesForSpacing = 3
	// GapTolerance is how far, in pixels, a gap may drift from the first gap.
	GapTolerance = 10.0
)

// ComputeSpacing sorts box centers on each axis independently and records the
// consecutive gaps. Fewer than MinBoxesForSpacing boxes yields empty patterns.
func ComputeSpacing(boxes []BoundingBox) SpacingPatterns {
	sp := SpacingPatterns{
		Horizontal: []float64{},
		Vertical:   []float64{},
	}
	if len(boxes) < MinBoxesForSpacing {
		return sp
	}

	xs := make([]float64, len(boxes))
	ys := make([]float64, len(boxes))
	for i, b := range boxes {
		c := b.Center()
		xs[i] = c.X
		ys[i] = c.Y
	}

	sp.Horizontal = consecutiveGaps(xs)
	sp.Vertical = consecutiveGaps(ys)
	sp.HorizontalConsistent = GapsConsistent(sp.Horizontal)
	sp.VerticalConsistent = GapsConsistent(sp.Vertical)
	return sp
}

func consecutiveGaps(vals []float64) []float64 {
	sort.Float64s(vals)
	gaps := make([]float64, 0, len(vals)-1)
	for i := 1; i < len(vals); i++ {
		gaps = append(gaps, vals[i]-vals[i-1])
	}
	return gaps
}

// GapsConsistent reports whether there are at least two gaps and every gap is
// within GapTolerance of the first.
func GapsConsistent(gaps []float64) bool {
	if len(gaps) < 2 {
		return false
	}
	for _, g := range gaps[1:] {
		if !scalar.EqualWithinAbs(g, gaps[0], GapTolerance) {
			return false
		}
	}
	return true
}
