package component

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"section-matcher/internal/layout"
)

func TestLoadJSON(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "components.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 5 {
		t.Fatalf("Len = %d, want 5", cat.Len())
	}

	hero := cat.ByID("hero-TL-IR-1")
	if hero == nil {
		t.Fatal("hero-TL-IR-1 not found")
	}
	if hero.DominantSide != layout.SideLeft {
		t.Errorf("DominantSide = %s, want left", hero.DominantSide)
	}
	if hero.MinBoxes != 8 || hero.MaxBoxes != 30 || hero.MinTextBlocks != 2 || hero.MaxTextBlocks != 3 {
		t.Errorf("ranges = %+v", hero)
	}
	if cat.At(4).ID != "cta-centered-1" {
		t.Errorf("catalog order not preserved: last is %s", cat.At(4).ID)
	}
}

func TestLoadYAMLWithDefaults(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "components.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}

	if got := cat.At(0).DominantSide; got != layout.SideCenter {
		t.Errorf("side should be normalised to center, got %s", got)
	}

	strip := cat.ByID("logo-strip-1")
	if strip == nil {
		t.Fatal("logo-strip-1 not found")
	}
	want := Template{
		ID:            "logo-strip-1",
		Name:          "Logo Strip",
		Link:          "#",
		LayoutType:    "Logo_Strip",
		DominantSide:  layout.SideUnknown,
		MinBoxes:      0,
		MaxBoxes:      1000,
		MinTextBlocks: 0,
		MaxTextBlocks: 100,
	}
	if *strip != want {
		t.Errorf("defaults = %+v, want %+v", *strip, want)
	}
}

func TestParseMalformedFields(t *testing.T) {
	data := []byte(`[
		{"id": "a", "min_boxes": "4", "max_boxes": 12.0, "min_text_blocks": "lots", "max_text_blocks": null, "dominant_side": 7},
		{"id": "b", "dominant_side": "sideways", "max_boxes": true}
	]`)

	cat, err := Parse(data, FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	a := cat.ByID("a")
	if a.MinBoxes != 4 || a.MaxBoxes != 12 {
		t.Errorf("numeric coercion failed: %+v", a)
	}
	if a.MinTextBlocks != DefaultMinTextBlocks || a.MaxTextBlocks != DefaultMaxTextBlocks {
		t.Errorf("malformed text range should default: %+v", a)
	}
	if a.DominantSide != layout.SideUnknown {
		t.Errorf("non-string side should default to unknown, got %s", a.DominantSide)
	}

	b := cat.ByID("b")
	if b.DominantSide != layout.SideUnknown || b.MaxBoxes != DefaultMaxBoxes {
		t.Errorf("b = %+v", b)
	}
}

func TestParseMalformedTextFieldsKeepCatalog(t *testing.T) {
	data := []byte(`[
		{"id": "good", "name": "Hero", "link": "https://example.com/hero", "layout_type": "Hero_Centered_Text"},
		{"id": "bad", "name": 42, "layout_type": 5, "link": ["x"]},
		{"id": 7, "name": "Numeric id"}
	]`)

	cat, err := Parse(data, FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("kept %d templates, want 3", cat.Len())
	}

	if good := cat.ByID("good"); good == nil || good.Name != "Hero" || good.Link != "https://example.com/hero" {
		t.Errorf("good = %+v", good)
	}
	bad := cat.ByID("bad")
	if bad == nil {
		t.Fatal("template with malformed text fields was dropped")
	}
	if bad.Name != "" || bad.LayoutType != "" || bad.Link != "#" {
		t.Errorf("malformed text fields should default: %+v", bad)
	}
	if third := cat.At(2); third.ID != "" || third.Name != "Numeric id" {
		t.Errorf("non-string id should default to empty: %+v", third)
	}
}

func TestParseOutOfRangeNumbersDefault(t *testing.T) {
	data := []byte(`[
		{"id": "huge", "min_boxes": 1e20, "max_boxes": "99999999999", "min_text_blocks": -1e12, "max_text_blocks": 2147483647}
	]`)
	cat, err := Parse(data, FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h := cat.ByID("huge")
	if h.MinBoxes != DefaultMinBoxes || h.MaxBoxes != DefaultMaxBoxes || h.MinTextBlocks != DefaultMinTextBlocks {
		t.Errorf("out-of-range numbers should default: %+v", h)
	}
	if h.MaxTextBlocks != 2147483647 {
		t.Errorf("MaxTextBlocks = %d, want int32 max kept", h.MaxTextBlocks)
	}
}

func TestParseRejectsNonList(t *testing.T) {
	if _, err := Parse([]byte(`{"id": "x"}`), FormatJSON); err == nil {
		t.Error("expected an error for a non-list catalog")
	}
}

func TestLoadOrEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cat := LoadOrEmpty(filepath.Join(t.TempDir(), "missing.json"), logger)
	if cat == nil || cat.Len() != 0 {
		t.Fatalf("expected empty catalog, got %v", cat)
	}
	if !bytes.Contains(buf.Bytes(), []byte("level=WARN")) {
		t.Errorf("expected a warning, log was %q", buf.String())
	}
}

func TestLoadOrEmptyWarnsOnInvertedRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inverted.json")
	if err := os.WriteFile(path, []byte(`[{"id":"bad","min_boxes":9,"max_boxes":2}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cat := LoadOrEmpty(path, logger)

	if cat.Len() != 1 {
		t.Fatalf("inverted entries are kept, got %d templates", cat.Len())
	}
	if !bytes.Contains(buf.Bytes(), []byte("inverted range")) {
		t.Errorf("expected inverted range warning, log was %q", buf.String())
	}
}

func TestCatalogIsolation(t *testing.T) {
	src := []Template{{ID: "one"}}
	cat := NewCatalog(src)
	src[0].ID = "changed"

	if cat.At(0).ID != "one" {
		t.Error("NewCatalog must copy its input")
	}
	ts := cat.Templates()
	ts[0].ID = "changed"
	if cat.At(0).ID != "one" {
		t.Error("Templates must return a copy")
	}
}

func TestTemplateHelpers(t *testing.T) {
	tmpl := Template{LayoutType: "Feature_Grid_3_Col", MinBoxes: 2, MaxBoxes: 15}
	if !tmpl.TypeIs("grid") {
		t.Error("TypeIs should be case-insensitive")
	}
	if tmpl.TypeIs("hero") {
		t.Error("grid template is not a hero")
	}
	if got := tmpl.BoxMidpoint(); got != 8.5 {
		t.Errorf("BoxMidpoint = %v, want 8.5", got)
	}
}
