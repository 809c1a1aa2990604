package match

import (
	"math"

	"section-matcher/internal/component"
	"section-matcher/internal/layout"

	"gonum.org/v1/gonum/stat"
)

// Signal weights and bonuses.
const (
	SideWeight        = 2.5
	SideExactBonus    = 0.5
	BoxFitWeight      = 2.0
	TextFitWeight     = 2.0
	MidpointBonus     = 0.5
	HeroBoxBonus      = 0.5
	HeroMinBoxes      = 8
	HeroTextBonus     = 0.5
	HeroMinTextBlocks = 2
	CTATextBonus      = 0.25
	CTAMaxTextBlocks  = 2
	GridAxisWeight    = 0.75
	GridTypeBonus     = 0.5
	GridTypeMinScore  = 1.0
	HeroRatioWeight   = 1.5
	CTARatioWeight    = 1.0
	GridRatioWeight   = 1.5
	HeroCenterPenalty = -1.0
	HeroSideBonus     = 0.5
	CTASmallBonus     = 0.25
	CTAMaxBoxes       = 5
	CTASidePenalty    = -0.5
	GridSpacingBonus  = 0.5
	GridBoxesBonus    = 0.5
	GridMinBoxes      = 3
)

// Kind is the template family inferred from its layout type.
type Kind int

const (
	KindOther Kind = iota
	KindHero
	KindCTA
	KindGrid
)

// KindOf classifies a template by layout type. Hero takes precedence over
// CTA, CTA over grid.
func KindOf(t *component.Template) Kind {
	switch {
	case t.TypeIs("hero"):
		return KindHero
	case t.TypeIs("cta"):
		return KindCTA
	case t.TypeIs("grid"):
		return KindGrid
	default:
		return KindOther
	}
}

// Breakdown holds each signal's contribution to a template's score.
type Breakdown struct {
	Side  float64 `json:"side"`
	Boxes float64 `json:"boxes"`
	Text  float64 `json:"text"`
	Grid  float64 `json:"grid"`
	Ratio float64 `json:"ratio"`
	Type  float64 `json:"type"`
}

// Total is the sum of all contributions.
func (b Breakdown) Total() float64 {
	return b.Side + b.Boxes + b.Text + b.Grid + b.Ratio + b.Type
}

// Score computes every signal for one template.
func Score(sig Signals, guess layout.Side, t *component.Template) Breakdown {
	kind := KindOf(t)
	grid := GridScore(sig, kind)
	return Breakdown{
		Side:  SideScore(guess, t.DominantSide),
		Boxes: BoxScore(sig.BoxCount, t, kind),
		Text:  TextScore(sig.TextBlockCount, t, kind),
		Grid:  grid,
		Ratio: RatioScore(sig.ElementRatios, kind),
		Type:  TypeScore(sig.BoxCount, guess, grid, t, kind),
	}
}

// SideScore rewards a guessed side that matches the template's side. A
// balanced guess matches center and balanced templates. An unknown side never matches.
func SideScore(guess, tmpl layout.Side) float64 {
	score := 0.0
	if guess == layout.SideBalanced && (tmpl == layout.SideCenter || tmpl == layout.SideBalanced) {
		score += SideWeight
	} else if guess == tmpl && tmpl != layout.SideUnknown {
		score += SideWeight
	}
	if guess.Directional() && guess == tmpl {
		score += SideExactBonus
	}
	return score
}

// BoxScore rewards a box count inside the template's range.
func BoxScore(n int, t *component.Template, kind Kind) float64 {
	if !inRange(n, t.MinBoxes, t.MaxBoxes) {
		return 0
	}
	score := BoxFitWeight
	if nearMidpoint(n, t.MinBoxes, t.MaxBoxes) {
		score += MidpointBonus
	}
	if kind == KindHero && n >= HeroMinBoxes {
		score += HeroBoxBonus
	}
	return score
}

// TextScore rewards a text-block count inside the template's range.
func TextScore(n int, t *component.Template, kind Kind) float64 {
	if !inRange(n, t.MinTextBlocks, t.MaxTextBlocks) {
		return 0
	}
	score := TextFitWeight
	if nearMidpoint(n, t.MinTextBlocks, t.MaxTextBlocks) {
		score += MidpointBonus
	}
	switch {
	case kind == KindHero && n >= HeroMinTextBlocks:
		score += HeroTextBonus
	case kind == KindCTA && n <= CTAMaxTextBlocks:
		score += CTATextBonus
	}
	return score
}

// GridScore rewards regular spacing on each axis; grid templates get a bonus
// once both axes agree.
func GridScore(sig Signals, kind Kind) float64 {
	score := 0.0
	if layout.GapsConsistent(sig.VerticalGaps) {
		score += GridAxisWeight
	}
	if layout.GapsConsistent(sig.HorizontalGaps) {
		score += GridAxisWeight
	}
	if kind == KindGrid && score > GridTypeMinScore {
		score += GridTypeBonus
	}
	return score
}

// RatioScore compares the mean element aspect ratio with the band typical of
// the template family. No ratios, no contribution.
func RatioScore(ratios []float64, kind Kind) float64 {
	if len(ratios) == 0 {
		return 0
	}
	mean := stat.Mean(ratios, nil)
	switch kind {
	case KindHero:
		if within(mean, 0.5, 2.0) {
			return HeroRatioWeight
		}
	case KindCTA:
		if within(mean, 1.0, 3.0) {
			return CTARatioWeight
		}
	case KindGrid:
		if within(mean, 0.8, 1.2) {
			return GridRatioWeight
		}
	}
	return 0
}

// TypeScore applies family-specific adjustments.
func TypeScore(boxes int, guess layout.Side, grid float64, t *component.Template, kind Kind) float64 {
	score := 0.0
	switch kind {
	case KindHero:
		if t.DominantSide == layout.SideCenter && guess.Directional() {
			score += HeroCenterPenalty
		} else if t.DominantSide == guess {
			score += HeroSideBonus
		}
	case KindCTA:
		if boxes <= CTAMaxBoxes {
			score += CTASmallBonus
		}
		if guess.Directional() {
			score += CTASidePenalty
		}
	case KindGrid:
		if grid > 0 {
			score += GridSpacingBonus
		}
		if boxes >= GridMinBoxes {
			score += GridBoxesBonus
		}
	}
	return score
}

func inRange(n, lo, hi int) bool {
	return lo <= n && n <= hi
}

// nearMidpoint reports whether n lies within a quarter of the range's
// half-width from its midpoint.
func nearMidpoint(n, lo, hi int) bool {
	mid := float64(lo+hi) / 2
	half := float64(hi-lo) / 2
	return math.Abs(float64(n)-mid) <= half/4
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
