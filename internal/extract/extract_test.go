package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"
	"time"

	"section-matcher/internal/layout"
	"section-matcher/pkg/geometry"
)

type fakeDetector struct {
	boxes []layout.BoundingBox
	err   error
}

func (f fakeDetector) Detect(image.Image) ([]layout.BoundingBox, error) {
	return f.boxes, f.err
}

type fakeRecognizer struct {
	frags []layout.Fragment
	err   error
	delay time.Duration
}

func (f fakeRecognizer) Recognize(ctx context.Context, _ image.Image) ([]layout.Fragment, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.frags, f.err
}

var (
	testImage = image.NewRGBA(image.Rect(0, 0, 400, 200))

	testBoxes = []layout.BoundingBox{
		{X: 10, Y: 10, W: 50, H: 50, Area: 2500},
		{X: 250, Y: 10, W: 100, H: 150, Area: 15000},
		{X: 80, Y: 100, W: 40, H: 20, Area: 800},
	}

	testFrags = []layout.Fragment{
		{Text: "Build", Confidence: 92, BlockID: 1, Bounds: geometry.RectInt{X: 20, Y: 20, Width: 40, Height: 12}},
		{Text: "faster", Confidence: 88, BlockID: 1},
		{Text: "noise", Confidence: 31, BlockID: 2},
		{Text: "Sign up", Confidence: 77, BlockID: 3},
	}
)

func TestExtract(t *testing.T) {
	e := New(fakeDetector{boxes: testBoxes}, fakeRecognizer{frags: testFrags})
	f, err := e.Extract(context.Background(), testImage)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if f.Size.Width != 400 || f.Size.Height != 200 {
		t.Errorf("size = %+v", f.Size)
	}
	if f.BoxCount() != 3 {
		t.Fatalf("box count = %d, want 3", f.BoxCount())
	}
	if f.Boxes[0].Area != 15000 {
		t.Errorf("boxes not sorted by area: %+v", f.Boxes)
	}
	if f.TextBlockCount != 2 {
		t.Errorf("text block count = %d, want 2", f.TextBlockCount)
	}
	if len(f.TextBlocks) != 3 {
		t.Errorf("kept %d fragments, want 3", len(f.TextBlocks))
	}
	if len(f.ElementRatios) != 3 {
		t.Errorf("ratios = %v", f.ElementRatios)
	}
}

func TestExtractRejectsMissingImage(t *testing.T) {
	e := New(fakeDetector{}, nil)
	for _, img := range []image.Image{nil, image.NewRGBA(image.Rect(0, 0, 0, 10))} {
		if _, err := e.Extract(context.Background(), img); !errors.Is(err, ErrNoImage) {
			t.Errorf("Extract(%v) error = %v, want ErrNoImage", img, err)
		}
	}
}

func TestExtractDetectionErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	e := New(fakeDetector{err: boom}, fakeRecognizer{frags: testFrags})
	if _, err := e.Extract(context.Background(), testImage); !errors.Is(err, boom) {
		t.Fatalf("Extract error = %v, want wrapped boom", err)
	}
}

func TestExtractRecognitionFailsOpen(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tests := []struct {
		name    string
		rec     Recognizer
		timeout time.Duration
		logged  string
	}{
		{"error", fakeRecognizer{err: errors.New("tesseract crashed")}, time.Second, "text recognition failed"},
		{"timeout", fakeRecognizer{frags: testFrags, delay: 200 * time.Millisecond}, 10 * time.Millisecond, "text recognition abandoned"},
		{"no recognizer", nil, time.Second, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			e := New(fakeDetector{boxes: testBoxes}, tt.rec, WithOCRTimeout(tt.timeout), WithLogger(logger))
			f, err := e.Extract(context.Background(), testImage)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if f.TextBlockCount != 0 || len(f.TextBlocks) != 0 {
				t.Errorf("text = %d blocks / %d fragments, want none", f.TextBlockCount, len(f.TextBlocks))
			}
			if f.BoxCount() != 3 {
				t.Errorf("box count = %d, want 3", f.BoxCount())
			}
			if tt.logged != "" && !strings.Contains(buf.String(), tt.logged) {
				t.Errorf("log %q does not mention %q", buf.String(), tt.logged)
			}
		})
	}
}

func TestExtractNoTimeout(t *testing.T) {
	e := New(fakeDetector{}, fakeRecognizer{frags: testFrags, delay: 20 * time.Millisecond}, WithOCRTimeout(0))
	f, err := e.Extract(context.Background(), testImage)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if f.TextBlockCount != 2 {
		t.Errorf("text block count = %d, want 2", f.TextBlockCount)
	}
	if f.BoxCount() != 0 {
		t.Errorf("box count = %d, want 0", f.BoxCount())
	}
}
