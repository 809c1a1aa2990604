// Package pipeline assembles the production analyzer from configuration:
// the image decoder with PDF support, the OpenCV detector, the Tesseract
// recognizer and the catalog matcher.
package pipeline

import (
	"log/slog"

	"section-matcher/internal/app"
	"section-matcher/internal/component"
	"section-matcher/internal/config"
	"section-matcher/internal/detect"
	"section-matcher/internal/extract"
	imgdecode "section-matcher/internal/image"
	"section-matcher/internal/image/pdfpage"
	"section-matcher/internal/match"
	"section-matcher/internal/ocr"
)

// New builds an analyzer. A missing catalog or an unusable Tesseract install
// degrade the analyzer instead of failing; only an unknown detector is fatal.
func New(cfg *config.Config, logger *slog.Logger) (*app.Analyzer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := detect.DefaultOptions()
	opts.MinArea = int(cfg.MinBoxArea)
	det, err := detect.NewDetector(cfg.Detector, opts)
	if err != nil {
		return nil, err
	}

	var rec extract.Recognizer
	engine, err := ocr.NewEngine(ocr.Options{Language: cfg.OCRLanguage, PageMode: ocr.DefaultOptions().PageMode})
	if err != nil {
		logger.Warn("text recognition disabled", "error", err)
	} else {
		rec = engine
	}

	ext := extract.New(det, rec,
		extract.WithOCRTimeout(cfg.OCRTimeout),
		extract.WithLogger(logger.With("component", "extract")))

	cat := component.LoadOrEmpty(cfg.CatalogPath, logger.With("component", "catalog"))
	matcher := match.NewMatcher(cat, cfg.Threshold, logger.With("component", "match"))

	dec := &imgdecode.Decoder{PDF: pdfpage.Rasterizer{DPI: cfg.PDFDPI}}

	logger.Info("pipeline ready",
		"detector", det.Name(),
		"ocr", rec != nil,
		"templates", cat.Len(),
		"threshold", cfg.Threshold)

	return app.NewAnalyzer(dec, ext, matcher, app.NewState(), logger.With("component", "analyzer")), nil
}
