// Package component loads the catalog of page-section templates that
// screenshots are matched against.
package component

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"section-matcher/internal/layout"

	"gopkg.in/yaml.v3"
)

// Defaults for optional template fields.
const (
	DefaultMinBoxes      = 0
	DefaultMaxBoxes      = 1000
	DefaultMinTextBlocks = 0
	DefaultMaxTextBlocks = 100
)

// Template describes the expected signal ranges and side alignment of one
// reusable page-section layout.
type Template struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Link          string      `json:"link" yaml:"link"`
	LayoutType    string      `json:"layout_type" yaml:"layout_type"`
	DominantSide  layout.Side `json:"dominant_side" yaml:"dominant_side"`
	MinBoxes      int         `json:"min_boxes" yaml:"min_boxes"`
	MaxBoxes      int         `json:"max_boxes" yaml:"max_boxes"`
	MinTextBlocks int         `json:"min_text_blocks" yaml:"min_text_blocks"`
	MaxTextBlocks int         `json:"max_text_blocks" yaml:"max_text_blocks"`
}

// BoxMidpoint returns (MinBoxes+MaxBoxes)/2.
func (t *Template) BoxMidpoint() float64 {
	return float64(t.MinBoxes+t.MaxBoxes) / 2
}

// TypeIs reports whether the lower-cased layout type contains kind.
func (t *Template) TypeIs(kind string) bool {
	return strings.Contains(strings.ToLower(t.LayoutType), kind)
}

// Catalog is an immutable, ordered set of templates. It is safe for
// concurrent use because nothing mutates it after construction.
type Catalog struct {
	templates []Template
}

// NewCatalog copies the given templates into a new catalog.
func NewCatalog(templates []Template) *Catalog {
	ts := make([]Template, len(templates))
	copy(ts, templates)
	return &Catalog{templates: ts}
}

// Empty returns a catalog with no templates.
func Empty() *Catalog {
	return &Catalog{}
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.templates)
}

// At returns a pointer to the i-th template. Callers must not modify it.
func (c *Catalog) At(i int) *Template {
	return &c.templates[i]
}

// Templates returns a copy of the templates in catalog order.
func (c *Catalog) Templates() []Template {
	if c == nil {
		return nil
	}
	ts := make([]Template, len(c.templates))
	copy(ts, c.templates)
	return ts
}

// ByID returns the template with the given id, or nil if not found.
func (c *Catalog) ByID(id string) *Template {
	for i := 0; i < c.Len(); i++ {
		if c.templates[i].ID == id {
			return &c.templates[i]
		}
	}
	return nil
}

// Load reads a catalog file. Files ending in .yaml or .yml are parsed as YAML,
// everything else as JSON. The file must hold a list of template records.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return Parse(data, format)
}

// LoadOrEmpty loads a catalog and degrades to an empty catalog on any error,
// logging a warning. It never fails.
func LoadOrEmpty(path string, logger *slog.Logger) *Catalog {
	cat, err := Load(path)
	if err != nil {
		logger.Warn("catalog unavailable, every request will report no match",
			"path", path, "error", err)
		return Empty()
	}
	logger.Info("catalog loaded", "path", path, "templates", cat.Len())
	for _, t := range cat.templates {
		if t.MinBoxes > t.MaxBoxes || t.MinTextBlocks > t.MaxTextBlocks {
			logger.Warn("template has an inverted range",
				"id", t.ID,
				"boxes", fmt.Sprintf("%d-%d", t.MinBoxes, t.MaxBoxes),
				"text_blocks", fmt.Sprintf("%d-%d", t.MinTextBlocks, t.MaxTextBlocks))
		}
	}
	return cat
}

// Format selects the catalog encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Parse decodes a list of template records, applying defaults to missing or
// malformed optional fields.
func Parse(data []byte, format Format) (*Catalog, error) {
	var recs []record
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &recs)
	default:
		err = json.Unmarshal(data, &recs)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	ts := make([]Template, 0, len(recs))
	for _, r := range recs {
		ts = append(ts, r.template())
	}
	return &Catalog{templates: ts}, nil
}
