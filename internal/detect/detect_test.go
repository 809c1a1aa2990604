package detect

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func sectionImage(rects ...image.Rectangle) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	for _, r := range rects {
		draw.Draw(img, r, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	}
	return img
}

func TestNewDetectorUnknownVariant(t *testing.T) {
	_, err := NewDetector("sobel", DefaultOptions())
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("NewDetector(sobel) error = %v, want ErrUnknownVariant", err)
	}
}

func TestNewDetectorVariantNames(t *testing.T) {
	for _, name := range []string{"canny", "Adaptive", " canny "} {
		d, err := NewDetector(name, DefaultOptions())
		if err != nil {
			t.Fatalf("NewDetector(%q): %v", name, err)
		}
		if d.Name() == "" {
			t.Errorf("NewDetector(%q).Name() is empty", name)
		}
	}
	if got := Variants(); len(got) != 2 || got[0] != "adaptive" || got[1] != "canny" {
		t.Errorf("Variants() = %v", got)
	}
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{MinArea: -3, BlurKernel: 4, AdaptiveBlock: 8}.normalized()
	if o.MinArea != 0 {
		t.Errorf("MinArea = %d, want 0", o.MinArea)
	}
	if o.BlurKernel != 5 {
		t.Errorf("BlurKernel = %d, want 5", o.BlurKernel)
	}
	if o.AdaptiveBlock != 9 {
		t.Errorf("AdaptiveBlock = %d, want 9", o.AdaptiveBlock)
	}
	if o.CannyLow != 50 || o.CannyHigh != 150 {
		t.Errorf("Canny thresholds = %v/%v, want 50/150", o.CannyLow, o.CannyHigh)
	}
}

func TestDetectFindsSeparatedBlocks(t *testing.T) {
	img := sectionImage(
		image.Rect(20, 40, 120, 140),
		image.Rect(150, 40, 250, 140),
		image.Rect(280, 40, 380, 140),
	)
	for _, variant := range Variants() {
		t.Run(variant, func(t *testing.T) {
			d, err := NewDetector(variant, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			boxes, err := d.Detect(img)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if len(boxes) != 3 {
				t.Fatalf("got %d boxes, want 3: %+v", len(boxes), boxes)
			}
			for _, b := range boxes {
				if b.Area <= 500 {
					t.Errorf("box %+v has area at or below the minimum", b)
				}
				if b.W < 90 || b.H < 90 {
					t.Errorf("box %+v is smaller than the drawn block", b)
				}
			}
		})
	}
}

func TestDetectDropsSmallElements(t *testing.T) {
	img := sectionImage(
		image.Rect(20, 40, 120, 140),
		image.Rect(300, 20, 310, 30),
	)
	d, err := NewDetector("canny", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	boxes, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes, want 1: %+v", len(boxes), boxes)
	}
}

func TestDetectBlankImage(t *testing.T) {
	d, err := NewDetector("canny", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	boxes, err := d.Detect(sectionImage())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(boxes) != 0 {
		t.Errorf("blank image produced %d boxes", len(boxes))
	}
	if boxes, err := d.Detect(nil); err != nil || boxes != nil {
		t.Errorf("Detect(nil) = %v, %v", boxes, err)
	}
}
