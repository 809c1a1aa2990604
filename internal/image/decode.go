// Package image decodes uploaded screenshots into rasters.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned for uploads that cannot be turned into an image.
var ErrDecode = errors.New("unreadable image")

var pdfMagic = []byte("%PDF-")

// Rasterizer renders the first page of a PDF document.
type Rasterizer interface {
	Rasterize(data []byte) (image.Image, error)
}

// Decoder turns upload bytes into an image. PDF uploads need a Rasterizer;
// without one they are rejected as unreadable.
type Decoder struct {
	PDF Rasterizer
}

// Decode returns the image and its format name (png, jpeg, gif, bmp, tiff,
// webp or pdf). Every failure wraps ErrDecode.
func (d *Decoder) Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", ErrDecode)
	}

	var img image.Image
	format := "pdf"
	if bytes.HasPrefix(data, pdfMagic) {
		if d == nil || d.PDF == nil {
			return nil, "", fmt.Errorf("%w: pdf uploads are not supported", ErrDecode)
		}
		var err error
		img, err = d.PDF.Rasterize(data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: rasterize pdf: %v", ErrDecode, err)
		}
	} else {
		var err error
		img, format, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, "", fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	return img, format, nil
}
