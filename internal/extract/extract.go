// Package extract turns a decoded section image into layout features by
// running element detection and text recognition side by side.
package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"section-matcher/internal/layout"
	"section-matcher/pkg/geometry"
)

// ErrNoImage is returned when Extract is given a nil or zero-sized image.
var ErrNoImage = errors.New("no image to extract features from")

// DefaultOCRTimeout caps text recognition wall time.
const DefaultOCRTimeout = 15 * time.Second

// Detector finds significant element boxes.
type Detector interface {
	Detect(img image.Image) ([]layout.BoundingBox, error)
}

// Recognizer reports recognised words.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]layout.Fragment, error)
}

// Extractor produces layout.Features. A nil Recognizer yields zero text blocks.
type Extractor struct {
	detector   Detector
	recognizer Recognizer
	ocrTimeout time.Duration
	log        *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOCRTimeout sets the text recognition cap. Zero or negative disables it.
func WithOCRTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.ocrTimeout = d }
}

// WithLogger sets the logger used for fail-open warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Extractor.
func New(d Detector, r Recognizer, opts ...Option) *Extractor {
	e := &Extractor{
		detector:   d,
		recognizer: r,
		ocrTimeout: DefaultOCRTimeout,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract detects boxes and recognises text concurrently. A detection error
// aborts the extraction; a recognition error or timeout is logged and the
// features carry no text blocks.
func (e *Extractor) Extract(ctx context.Context, img image.Image) (*layout.Features, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoImage
	}
	if e.detector == nil {
		return nil, errors.New("extractor has no detector")
	}

	var (
		boxes []layout.BoundingBox
		frags []layout.Fragment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := e.detector.Detect(img)
		if err != nil {
			return fmt.Errorf("detect elements: %w", err)
		}
		boxes = b
		return nil
	})
	g.Go(func() error {
		frags = e.recognize(gctx, img)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return layout.Build(geometry.SizeOf(img), boxes, frags), nil
}

type recognized struct {
	frags []layout.Fragment
	err   error
}

// recognize runs the recognizer under the OCR timeout. The recognizer may not
// honour cancellation, so its result is abandoned once the deadline passes.
func (e *Extractor) recognize(ctx context.Context, img image.Image) []layout.Fragment {
	if e.recognizer == nil {
		return nil
	}
	if e.ocrTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.ocrTimeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan recognized, 1)
	go func() {
		f, err := e.recognizer.Recognize(ctx, img)
		done <- recognized{frags: f, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			e.log.Warn("text recognition failed, continuing without text",
				"error", r.err, "elapsed", time.Since(start))
			return nil
		}
		return r.frags
	case <-ctx.Done():
		e.log.Warn("text recognition abandoned, continuing without text",
			"error", ctx.Err(), "timeout", e.ocrTimeout)
		return nil
	}
}
