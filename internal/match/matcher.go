package match

import (
	"log/slog"
	"math"

	"section-matcher/internal/component"
	"section-matcher/internal/layout"
)

// DefaultThreshold is the lowest best score accepted as a match.
const DefaultThreshold = 5.0

// Result is the selected template and its score.
type Result struct {
	Template *component.Template
	Score    float64
}

// Scored is one template's score, as reported by Rank.
type Scored struct {
	Template  *component.Template
	Breakdown Breakdown
	Score     float64
}

// Matcher selects the best template from an immutable catalog. It holds no
// per-request state and is safe for concurrent use.
type Matcher struct {
	catalog   *component.Catalog
	threshold float64
	logger    *slog.Logger
}

// NewMatcher creates a matcher over the catalog. A nil logger discards output.
func NewMatcher(cat *component.Catalog, threshold float64, logger *slog.Logger) *Matcher {
	if cat == nil {
		cat = component.Empty()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Matcher{catalog: cat, threshold: threshold, logger: logger}
}

// Catalog returns the catalog the matcher scores against.
func (m *Matcher) Catalog() *component.Catalog {
	return m.catalog
}

// Threshold returns the acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Rank scores every template, in catalog order.
func (m *Matcher) Rank(sig Signals, guess layout.Side) []Scored {
	out := make([]Scored, 0, m.catalog.Len())
	for i := 0; i < m.catalog.Len(); i++ {
		t := m.catalog.At(i)
		b := Score(sig, guess, t)
		out = append(out, Scored{Template: t, Breakdown: b, Score: b.Total()})
	}
	return out
}

// Match returns the best template, or nil when the catalog is empty or the
// best score is below the threshold. Templates tied at the best score are
// resolved by the box-range midpoint closest to the box count; the earlier
// template wins an equal distance.
func (m *Matcher) Match(sig Signals, guess layout.Side) *Result {
	best := math.Inf(-1)
	var tied []*component.Template

	for _, s := range m.Rank(sig, guess) {
		m.logger.Debug("scored template",
			"id", s.Template.ID,
			"side", s.Template.DominantSide,
			"boxes", s.Template.MinBoxes, "max_boxes", s.Template.MaxBoxes,
			"breakdown", s.Breakdown,
			"score", s.Score)

		switch {
		case s.Score > best:
			best = s.Score
			tied = append(tied[:0], s.Template)
		case s.Score == best:
			tied = append(tied, s.Template)
		}
	}

	if len(tied) == 0 || best < m.threshold {
		m.logger.Info("no suitable match", "best_score", best, "threshold", m.threshold)
		return nil
	}

	winner := tieBreak(tied, sig.BoxCount)
	m.logger.Info("best match", "id", winner.ID, "name", winner.Name, "score", best, "tied", len(tied))
	return &Result{Template: winner, Score: best}
}

func tieBreak(tied []*component.Template, boxes int) *component.Template {
	winner := tied[0]
	bestDist := math.Abs(winner.BoxMidpoint() - float64(boxes))
	for _, t := range tied[1:] {
		if d := math.Abs(t.BoxMidpoint() - float64(boxes)); d < bestDist {
			winner, bestDist = t, d
		}
	}
	return winner
}
