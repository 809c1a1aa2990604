// Package app wires decoding, feature extraction and matching into the
// analysis service, and tracks process-wide state around it.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"section-matcher/internal/layout"
	"section-matcher/internal/match"
)

// NoMatchName and NoMatchLink identify the sentinel reported when no template
// clears the threshold.
const (
	NoMatchName = "No suitable match found"
	NoMatchLink = "#"
)

// Decoder turns uploaded bytes into an image.
type Decoder interface {
	Decode(data []byte) (image.Image, string, error)
}

// Extractor derives layout features from an image.
type Extractor interface {
	Extract(ctx context.Context, img image.Image) (*layout.Features, error)
}

// LayoutFeatures is the reported feature set: the extracted features plus the
// side and shape signals derived from them.
type LayoutFeatures struct {
	layout.SideCounts
	layout.Shapes
	GuessedSide layout.Side `json:"guessed_dominant_side"`
	*layout.Features
}

// Analysis is the outcome of classifying one screenshot.
type Analysis struct {
	SignificantBoxCount int            `json:"significant_box_count"`
	Layout              LayoutFeatures `json:"layout_features"`
	ComponentName       string         `json:"componentName"`
	ComponentLink       string         `json:"componentLink"`
	ComponentID         string         `json:"componentId,omitempty"`
	MatchScore          *float64       `json:"matchScore,omitempty"`
}

// Matched reports whether a template was selected.
func (a *Analysis) Matched() bool {
	return a.ComponentID != ""
}

// Classify derives side and shape signals from f and matches them against
// the matcher's catalog.
func Classify(f *layout.Features, m *match.Matcher) *Analysis {
	if f == nil {
		f = &layout.Features{}
	}
	counts := layout.CountSides(f.Boxes, f.Size.MidlineX())
	guess := layout.GuessSide(counts)

	a := &Analysis{
		SignificantBoxCount: f.BoxCount(),
		Layout: LayoutFeatures{
			SideCounts:  counts,
			Shapes:      layout.DominantShapes(f.Boxes),
			GuessedSide: guess,
			Features:    f,
		},
		ComponentName: NoMatchName,
		ComponentLink: NoMatchLink,
	}

	if res := m.Match(match.FromFeatures(f), guess); res != nil {
		score := res.Score
		a.ComponentName = res.Template.Name
		a.ComponentLink = res.Template.Link
		a.ComponentID = res.Template.ID
		a.MatchScore = &score
	}
	return a
}

// Analyzer runs the full pipeline for uploaded images.
type Analyzer struct {
	decoder   Decoder
	extractor Extractor
	matcher   *match.Matcher
	state     *State
	log       *slog.Logger
}

// NewAnalyzer creates an analyzer. state and logger may be nil.
func NewAnalyzer(dec Decoder, ext Extractor, m *match.Matcher, state *State, logger *slog.Logger) *Analyzer {
	if state == nil {
		state = NewState()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{decoder: dec, extractor: ext, matcher: m, state: state, log: logger}
}

// State returns the state the analyzer reports to.
func (a *Analyzer) State() *State {
	return a.state
}

// CatalogSize returns the number of templates being matched against.
func (a *Analyzer) CatalogSize() int {
	return a.matcher.Catalog().Len()
}

// AnalyzeBytes decodes data and analyzes the resulting image. Decode failures
// are returned unwrapped from the decoder so callers can test for them.
func (a *Analyzer) AnalyzeBytes(ctx context.Context, data []byte) (*Analysis, error) {
	img, format, err := a.decoder.Decode(data)
	if err != nil {
		a.state.Emit(EventAnalysisFailed, err)
		return nil, err
	}
	a.log.Debug("decoded upload", "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return a.Analyze(ctx, img)
}

// Analyze extracts features from img and classifies them.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image) (*Analysis, error) {
	start := time.Now()
	f, err := a.extractor.Extract(ctx, img)
	if err != nil {
		err = fmt.Errorf("extract features: %w", err)
		a.state.Emit(EventAnalysisFailed, err)
		return nil, err
	}
	if f == nil {
		err := errors.New("extract features: no features returned")
		a.state.Emit(EventAnalysisFailed, err)
		return nil, err
	}

	res := Classify(f, a.matcher)
	a.log.Info("analysis complete",
		"boxes", res.SignificantBoxCount,
		"text_blocks", f.TextBlockCount,
		"side", res.Layout.GuessedSide,
		"component", res.ComponentName,
		"elapsed", time.Since(start))

	if res.Matched() {
		a.state.Emit(EventMatched, res)
	} else {
		a.state.Emit(EventNoMatch, res)
	}
	return res, nil
}
