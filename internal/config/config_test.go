package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("test", nil, env(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if *cfg != want {
		t.Errorf("Load() = %+v, want defaults %+v", *cfg, want)
	}
	if cfg.OCRTimeout != 15*time.Second {
		t.Errorf("OCRTimeout = %s, want 15s", cfg.OCRTimeout)
	}
	if cfg.MaxUploadBytes() != 16<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matcher.yaml")
	data := "addr: \":7000\"\ncatalog: file.json\nocr_timeout: 5s\nthreshold: 4.5\ndetector: adaptive\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("test",
		[]string{"-config", path, "-catalog", "flag.json", "-watch-catalog"},
		env(map[string]string{
			"MATCHER_CATALOG":     "env.json",
			"MATCHER_OCR_TIMEOUT": "7s",
		}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want file value", cfg.Addr)
	}
	if cfg.Threshold != 4.5 || cfg.Detector != "adaptive" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.OCRTimeout != 7*time.Second {
		t.Errorf("OCRTimeout = %s, env should beat file", cfg.OCRTimeout)
	}
	if cfg.CatalogPath != "flag.json" {
		t.Errorf("CatalogPath = %q, flag should beat env", cfg.CatalogPath)
	}
	if !cfg.WatchCatalog {
		t.Error("-watch-catalog should enable watching")
	}
}

func TestLoadPortEnv(t *testing.T) {
	cfg, err := Load("test", nil, env(map[string]string{"PORT": "8080"}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"bad flag int", []string{"-max-conns", "many"}, nil, "not an integer"},
		{"bad env duration", nil, map[string]string{"MATCHER_OCR_TIMEOUT": "soon"}, "MATCHER_OCR_TIMEOUT"},
		{"unknown detector", []string{"-detector", "sobel"}, nil, "detector must be one of"},
		{"zero timeout", []string{"-ocr-timeout", "0s"}, nil, "ocr_timeout"},
		{"missing file", []string{"-config", "/nonexistent/matcher.yaml"}, nil, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("test", tt.args, env(tt.env))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.MaxUploadMB = 0
	cfg.MaxConns = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if !strings.Contains(err.Error(), "max_upload_mb") || !strings.Contains(err.Error(), "max_conns") {
		t.Errorf("error should list both problems: %v", err)
	}
}
