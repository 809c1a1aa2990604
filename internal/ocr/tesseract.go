// Package ocr recognises words in a section screenshot using Tesseract.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"section-matcher/internal/layout"
)

// ErrUnavailable is returned when the Tesseract engine cannot be initialised,
// typically because the language data is missing.
var ErrUnavailable = errors.New("text recognizer unavailable")

// Options configures the engine.
type Options struct {
	Language string
	PageMode gosseract.PageSegMode
}

// DefaultOptions uses English with automatic page segmentation.
func DefaultOptions() Options {
	return Options{Language: "eng", PageMode: gosseract.PSM_AUTO}
}

// Engine recognises words. A fresh Tesseract client is created per call, so
// one Engine may be shared between concurrent requests.
type Engine struct {
	opts Options
}

// NewEngine checks that Tesseract can be initialised with the requested
// language and returns an engine bound to it. The client only loads its
// language data on first recognition, so a blank page is recognised here.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Language == "" {
		opts.Language = DefaultOptions().Language
	}
	e := &Engine{opts: opts}
	if err := e.probe(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) probe() error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		return fmt.Errorf("failed to encode probe image: %w", err)
	}

	client, err := e.client()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: set image: %v", ErrUnavailable, err)
	}
	if _, err := client.Text(); err != nil {
		return fmt.Errorf("%w: initialise %q: %v", ErrUnavailable, e.opts.Language, err)
	}
	return nil
}

// Language reports the configured Tesseract language.
func (e *Engine) Language() string { return e.opts.Language }

func (e *Engine) client() (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(e.opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: set language %q: %v", ErrUnavailable, e.opts.Language, err)
	}
	if err := client.SetPageSegMode(e.opts.PageMode); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: set page mode: %v", ErrUnavailable, err)
	}
	return client, nil
}

// Recognize returns every word Tesseract reports for img, unfiltered.
// Confidence filtering happens when the fragments are collected into
// text blocks.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]layout.Fragment, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client, err := e.client()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	words := make([]word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, word{
			text:       b.Word,
			confidence: b.Confidence,
			block:      b.BlockNum,
			box:        b.Box,
		})
	}
	return fragments(words), nil
}
