// Package layout holds the layout feature model extracted from a page-section
// screenshot and the pure derivations over it: side dominance, dominant shapes,
// spacing regularity and text-block grouping.
package layout

import (
	"strings"

	"section-matcher/pkg/geometry"
)

// Side is the horizontal placement of the visual mass of a section.
type Side string

const (
	SideLeft     Side = "left"
	SideRight    Side = "right"
	SideCenter   Side = "center"
	SideBalanced Side = "balanced"
	SideUnknown  Side = "unknown"
)

// ParseSide normalises a side name. Anything unrecognised is SideUnknown.
func ParseSide(s string) Side {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideLeft:
		return SideLeft
	case SideRight:
		return SideRight
	case SideCenter:
		return SideCenter
	case SideBalanced:
		return SideBalanced
	default:
		return SideUnknown
	}
}

// Directional reports whether the side is left or right.
func (s Side) Directional() bool {
	return s == SideLeft || s == SideRight
}

func (s Side) String() string {
	return string(s)
}

// BoundingBox is a significant contour region reported as an axis-aligned rectangle.
// Area is the enclosed contour area, not W*H.
type BoundingBox struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	W    int `json:"w"`
	H    int `json:"h"`
	Area int `json:"area"`
}

// Rect returns the box as a geometry rectangle.
func (b BoundingBox) Rect() geometry.RectInt {
	return geometry.RectInt{X: b.X, Y: b.Y, Width: b.W, Height: b.H}
}

// Center returns the box center.
func (b BoundingBox) Center() geometry.Point2D {
	return b.Rect().Center()
}

// AspectRatio returns w/h, 0 when h is 0.
func (b BoundingBox) AspectRatio() float64 {
	return b.Rect().AspectRatio()
}

// Fragment is a single recognised word as reported by the text recognizer,
// before any filtering.
type Fragment struct {
	Text       string
	Confidence float64
	BlockID    int
	Bounds     geometry.RectInt
}

// TextBlock is a kept text fragment: confident and non-empty.
type TextBlock struct {
	Text       string           `json:"text"`
	Confidence int              `json:"confidence"`
	BlockID    int              `json:"block_num"`
	Position   geometry.RectInt `json:"position"`
}

// SpacingPatterns holds the consecutive gaps between sorted box centers on each axis.
// Horizontal gaps come from x centers, vertical gaps from y centers.
type SpacingPatterns struct {
	Horizontal           []float64 `json:"horizontal"`
	Vertical             []float64 `json:"vertical"`
	HorizontalConsistent bool      `json:"horizontal_consistent"`
	VerticalConsistent   bool      `json:"vertical_consistent"`
}

// Features is everything the matcher may consume for one screenshot.
type Features struct {
	Size           geometry.Size   `json:"image_size"`
	Boxes          []BoundingBox   `json:"bounding_boxes"`
	TextBlocks     []TextBlock     `json:"text_blocks"`
	TextBlockCount int             `json:"text_block_count"`
	Spacing        SpacingPatterns `json:"spacing_patterns"`
	ElementRatios  []float64       `json:"element_ratios"`
}

// BoxCount returns the number of significant boxes.
func (f *Features) BoxCount() int {
	if f == nil {
		return 0
	}
	return len(f.Boxes)
}
