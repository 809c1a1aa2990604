package detect

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"

	"section-matcher/internal/layout"
)

type mode int

const (
	modeCanny mode = iota
	modeAdaptive
)

type contourDetector struct {
	name string
	opts Options
	mode mode
}

func (d *contourDetector) Name() string { return d.name }

// Detect runs grayscale, blur, binarize and external contour extraction,
// keeping the bounding rectangle of every contour larger than MinArea.
func (d *contourDetector) Detect(img image.Image) ([]layout.BoundingBox, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, nil
	}

	src, err := imageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := d.opts.BlurKernel
	gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	binary := gocv.NewMat()
	defer binary.Close()
	switch d.mode {
	case modeAdaptive:
		gocv.AdaptiveThreshold(blurred, &binary, 255, gocv.AdaptiveThresholdGaussian,
			gocv.ThresholdBinaryInv, d.opts.AdaptiveBlock, d.opts.AdaptiveC)
	default:
		gocv.Canny(blurred, &binary, d.opts.CannyLow, d.opts.CannyHigh)
	}

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var boxes []layout.BoundingBox
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		if area <= float64(d.opts.MinArea) {
			continue
		}
		r := gocv.BoundingRect(c)
		boxes = append(boxes, layout.BoundingBox{
			X:    r.Min.X,
			Y:    r.Min.Y,
			W:    r.Dx(),
			H:    r.Dy(),
			Area: int(area),
		})
	}
	return boxes, nil
}

// imageToMat converts an image to a BGR Mat.
func imageToMat(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}
