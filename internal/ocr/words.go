package ocr

import (
	"image"
	"strings"

	"golang.org/x/text/unicode/norm"

	"section-matcher/internal/layout"
	"section-matcher/pkg/geometry"
)

// word is one entry of Tesseract's word-level output.
type word struct {
	text       string
	confidence float64
	block      int
	box        image.Rectangle
}

// fragments converts raw words to layout fragments with NFKC-normalised,
// whitespace-collapsed text.
func fragments(words []word) []layout.Fragment {
	out := make([]layout.Fragment, 0, len(words))
	for _, w := range words {
		out = append(out, layout.Fragment{
			Text:       normalizeWord(w.text),
			Confidence: w.confidence,
			BlockID:    w.block,
			Bounds:     geometry.FromImageRect(w.box),
		})
	}
	return out
}

func normalizeWord(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
