package layout

import "testing"

func TestDominantShapes(t *testing.T) {
	boxes := []BoundingBox{
		{X: 0, Y: 0, W: 100, H: 40, Area: 4000},
		{X: 0, Y: 0, W: 30, H: 90, Area: 2700},
		{X: 0, Y: 0, W: 100, H: 10, Area: 1000}, // same width, later: not the widest
	}

	s := DominantShapes(boxes)
	if s.Widest == nil || s.Widest.H != 40 {
		t.Fatalf("Widest = %+v, want the first 100px box", s.Widest)
	}
	if s.Tallest == nil || s.Tallest.H != 90 {
		t.Fatalf("Tallest = %+v, want the 90px box", s.Tallest)
	}
	if !s.WideDominant {
		t.Error("100/40 = 2.5 should be wide dominant")
	}
	if !s.TallDominant {
		t.Error("90/30 = 3 should be tall dominant")
	}
}

func TestDominantShapesThresholdIsStrict(t *testing.T) {
	s := DominantShapes([]BoundingBox{{W: 30, H: 20, Area: 600}})
	if s.WideDominant {
		t.Error("ratio of exactly 1.5 must not be wide dominant")
	}
	if s.TallDominant {
		t.Error("20/30 must not be tall dominant")
	}
}

func TestDominantShapesEmpty(t *testing.T) {
	s := DominantShapes(nil)
	if s.Widest != nil || s.Tallest != nil || s.TallDominant || s.WideDominant {
		t.Errorf("DominantShapes(nil) = %+v, want zero value", s)
	}
}
