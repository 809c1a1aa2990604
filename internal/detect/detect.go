// Package detect finds rectangular UI elements in a section screenshot.
package detect

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"section-matcher/internal/layout"
)

// ErrUnknownVariant is returned by NewDetector for an unregistered variant name.
var ErrUnknownVariant = errors.New("unknown detector variant")

// Detector returns the bounding boxes of significant elements in an image.
type Detector interface {
	Detect(img image.Image) ([]layout.BoundingBox, error)
	Name() string
}

// Options tunes the contour pipeline.
type Options struct {
	MinArea       int // boxes with contour area at or below this are dropped
	BlurKernel    int // odd Gaussian kernel size
	CannyLow      float32
	CannyHigh     float32
	AdaptiveBlock int // odd neighbourhood size
	AdaptiveC     float32
}

// DefaultOptions matches the reference edge pipeline.
func DefaultOptions() Options {
	return Options{
		MinArea:       500,
		BlurKernel:    5,
		CannyLow:      50,
		CannyHigh:     150,
		AdaptiveBlock: 11,
		AdaptiveC:     2,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MinArea < 0 {
		o.MinArea = 0
	}
	if o.BlurKernel <= 0 {
		o.BlurKernel = d.BlurKernel
	}
	if o.BlurKernel%2 == 0 {
		o.BlurKernel++
	}
	if o.CannyHigh <= 0 {
		o.CannyLow, o.CannyHigh = d.CannyLow, d.CannyHigh
	}
	if o.AdaptiveBlock < 3 {
		o.AdaptiveBlock = d.AdaptiveBlock
	}
	if o.AdaptiveBlock%2 == 0 {
		o.AdaptiveBlock++
	}
	return o
}

type factory func(Options) Detector

var registry = map[string]factory{
	"canny":    func(o Options) Detector { return &contourDetector{name: "canny", opts: o, mode: modeCanny} },
	"adaptive": func(o Options) Detector { return &contourDetector{name: "adaptive", opts: o, mode: modeAdaptive} },
}

// Variants lists the registered detector names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewDetector builds the named detector variant.
func NewDetector(variant string, opts Options) (Detector, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(variant))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownVariant, variant, strings.Join(Variants(), ", "))
	}
	return f(opts.normalized()), nil
}
