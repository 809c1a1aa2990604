package layout

import "testing"

func TestCollectText(t *testing.T) {
	frags := []Fragment{
		{Text: "Build", Confidence: 91, BlockID: 1},
		{Text: "faster", Confidence: 88, BlockID: 1},
		{Text: "  ", Confidence: 95, BlockID: 2},
		{Text: "noise", Confidence: 49.4, BlockID: 3},
		{Text: " Get started ", Confidence: 50, BlockID: 4},
	}

	blocks, count := CollectText(frags)
	if count != 2 {
		t.Errorf("block count = %d, want 2 (ids 1 and 4)", count)
	}
	if len(blocks) != 3 {
		t.Fatalf("kept %d fragments, want 3", len(blocks))
	}
	if blocks[2].Text != "Get started" {
		t.Errorf("text not trimmed: %q", blocks[2].Text)
	}
	if blocks[2].Confidence != 50 {
		t.Errorf("confidence = %d, want 50", blocks[2].Confidence)
	}
}

func TestCollectTextEmpty(t *testing.T) {
	blocks, count := CollectText(nil)
	if count != 0 || len(blocks) != 0 {
		t.Errorf("CollectText(nil) = %v, %d", blocks, count)
	}
}
