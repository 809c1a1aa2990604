// Package pdfpage rasterizes the first page of PDF uploads with MuPDF.
package pdfpage

import (
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// Rasterizer renders page 0 at a fixed DPI.
type Rasterizer struct {
	DPI float64
}

// Rasterize renders the first page of the document.
func (r Rasterizer) Rasterize(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, errors.New("pdf has no pages")
	}
	img, err := doc.ImageDPI(0, r.DPI)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return img, nil
}
