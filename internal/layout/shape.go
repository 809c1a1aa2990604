package layout

// DominantAspectRatio is the strict threshold for the tall/wide dominance flags.
const DominantAspectRatio = 1.5

// Shapes reports the widest and tallest boxes and whether either is elongated.
// These are auxiliary signals and are not consumed by scoring.
type Shapes struct {
	Widest       *BoundingBox `json:"widest_box_details"`
	Tallest      *BoundingBox `json:"tallest_box_details"`
	TallDominant bool         `json:"is_tall_dominant"`
	WideDominant bool         `json:"is_wide_dominant"`
}

// DominantShapes finds the widest box by raw width and the tallest by raw height.
// The first box encountered wins ties.
func DominantShapes(boxes []BoundingBox) Shapes {
	var s Shapes
	maxW, maxH := 0, 0
	for i := range boxes {
		b := boxes[i]
		if b.W > maxW {
			maxW = b.W
			s.Widest = &b
		}
		if b.H > maxH {
			maxH = b.H
			s.Tallest = &b
		}
	}

	if s.Tallest != nil && s.Tallest.Rect().InverseAspectRatio() > DominantAspectRatio {
		s.TallDominant = true
	}
	if s.Widest != nil && s.Widest.AspectRatio() > DominantAspectRatio {
		s.WideDominant = true
	}
	return s
}
