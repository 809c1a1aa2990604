package layout

import (
	"math"
	"strings"
)

// MinTextConfidence is the lowest recognizer confidence (0-100) that is kept.
const MinTextConfidence = 50

// CollectText keeps fragments that are confident and non-empty after trimming,
// and counts the distinct block ids among them.
func CollectText(frags []Fragment) ([]TextBlock, int) {
	blocks := make([]TextBlock, 0, len(frags))
	seen := make(map[int]struct{})
	for _, f := range frags {
		conf := int(math.Round(f.Confidence))
		if conf < MinTextConfidence {
			continue
		}
		text := strings.TrimSpace(f.Text)
		if text == "" {
			continue
		}
		blocks = append(blocks, TextBlock{
			Text:       text,
			Confidence: conf,
			BlockID:    f.BlockID,
			Position:   f.Bounds,
		})
		seen[f.BlockID] = struct{}{}
	}
	return blocks, len(seen)
}
