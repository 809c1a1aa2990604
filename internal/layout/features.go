package layout

import (
	"sort"

	"section-matcher/pkg/geometry"
)

// Build assembles Features from detected boxes and recognised fragments.
// Boxes are sorted by area, largest first; the input slice is not modified.
func Build(size geometry.Size, boxes []BoundingBox, frags []Fragment) *Features {
	sorted := make([]BoundingBox, len(boxes))
	copy(sorted, boxes)
	SortByArea(sorted)

	ratios := make([]float64, len(sorted))
	for i, b := range sorted {
		ratios[i] = b.AspectRatio()
	}

	text, count := CollectText(frags)

	return &Features{
		Size:           size,
		Boxes:          sorted,
		TextBlocks:     text,
		TextBlockCount: count,
		Spacing:        ComputeSpacing(sorted),
		ElementRatios:  ratios,
	}
}

// SortByArea orders boxes by descending area, keeping detection order on ties.
func SortByArea(boxes []BoundingBox) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].Area > boxes[j].Area
	})
}
