// Package config assembles the service configuration from defaults, an
// optional YAML file, environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service settings.
type Config struct {
	Addr          string        `yaml:"addr"`
	CatalogPath   string        `yaml:"catalog"`
	UploadDir     string        `yaml:"upload_dir"`
	MaxUploadMB   int           `yaml:"max_upload_mb"`
	MaxConns      int           `yaml:"max_conns"`
	OCRTimeout    time.Duration `yaml:"ocr_timeout"`
	OCRLanguage   string        `yaml:"ocr_language"`
	Detector      string        `yaml:"detector"`
	MinBoxArea    float64       `yaml:"min_box_area"`
	Threshold     float64       `yaml:"threshold"`
	LogLevel      string        `yaml:"log_level"`
	LogFormat     string        `yaml:"log_format"`
	WatchCatalog  bool          `yaml:"watch_catalog"`
	WatchInterval time.Duration `yaml:"watch_interval"`
	PDFDPI        float64       `yaml:"pdf_dpi"`
}

// Detectors lists the accepted contour detector variants.
var Detectors = []string{"canny", "adaptive"}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:          ":5000",
		CatalogPath:   "relume_data.json",
		UploadDir:     "uploads",
		MaxUploadMB:   16,
		MaxConns:      64,
		OCRTimeout:    15 * time.Second,
		OCRLanguage:   "eng",
		Detector:      "canny",
		MinBoxArea:    500,
		Threshold:     5.0,
		LogLevel:      "info",
		LogFormat:     "text",
		WatchInterval: 2 * time.Second,
		PDFDPI:        96,
	}
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB))
	}
	if c.MaxConns <= 0 {
		errs = append(errs, fmt.Errorf("max_conns must be positive, got %d", c.MaxConns))
	}
	if c.OCRTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ocr_timeout must be positive, got %s", c.OCRTimeout))
	}
	if c.WatchCatalog && c.WatchInterval <= 0 {
		errs = append(errs, fmt.Errorf("watch_interval must be positive, got %s", c.WatchInterval))
	}
	if c.MinBoxArea < 0 {
		errs = append(errs, fmt.Errorf("min_box_area must not be negative, got %v", c.MinBoxArea))
	}
	if c.PDFDPI <= 0 {
		errs = append(errs, fmt.Errorf("pdf_dpi must be positive, got %v", c.PDFDPI))
	}
	known := false
	for _, d := range Detectors {
		if c.Detector == d {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("detector must be one of %s, got %q", strings.Join(Detectors, ", "), c.Detector))
	}
	return errors.Join(errs...)
}

// LoadFile overlays settings from a YAML file onto c. Keys absent from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type binding struct {
	flag  string
	env   string
	usage string
	apply func(c *Config, v string) error
}

var bindings = []binding{
	{"addr", "MATCHER_ADDR", "listen address", func(c *Config, v string) error { c.Addr = v; return nil }},
	{"catalog", "MATCHER_CATALOG", "component catalog file (.json, .yaml)", func(c *Config, v string) error { c.CatalogPath = v; return nil }},
	{"upload-dir", "MATCHER_UPLOAD_DIR", "directory uploads are saved to; empty disables saving", func(c *Config, v string) error { c.UploadDir = v; return nil }},
	{"max-upload-mb", "MATCHER_MAX_UPLOAD_MB", "upload size cap in MiB", intSetter(func(c *Config, n int) { c.MaxUploadMB = n })},
	{"max-conns", "MATCHER_MAX_CONNS", "concurrent connection cap", intSetter(func(c *Config, n int) { c.MaxConns = n })},
	{"ocr-timeout", "MATCHER_OCR_TIMEOUT", "text recognition wall-time cap", durationSetter(func(c *Config, d time.Duration) { c.OCRTimeout = d })},
	{"ocr-lang", "MATCHER_OCR_LANG", "tesseract language(s), e.g. eng or eng+fra", func(c *Config, v string) error { c.OCRLanguage = v; return nil }},
	{"detector", "MATCHER_DETECTOR", "contour detector: canny or adaptive", func(c *Config, v string) error { c.Detector = strings.ToLower(v); return nil }},
	{"min-box-area", "MATCHER_MIN_BOX_AREA", "minimum contour area in px²", floatSetter(func(c *Config, f float64) { c.MinBoxArea = f })},
	{"threshold", "MATCHER_THRESHOLD", "minimum best score accepted as a match", floatSetter(func(c *Config, f float64) { c.Threshold = f })},
	{"log-level", "MATCHER_LOG_LEVEL", "debug, info, warn or error", func(c *Config, v string) error { c.LogLevel = v; return nil }},
	{"log-format", "MATCHER_LOG_FORMAT", "text or json", func(c *Config, v string) error { c.LogFormat = v; return nil }},
	{"watch-catalog", "MATCHER_WATCH_CATALOG", "restart when the catalog file changes", boolSetter(func(c *Config, b bool) { c.WatchCatalog = b })},
	{"watch-interval", "MATCHER_WATCH_INTERVAL", "catalog poll interval", durationSetter(func(c *Config, d time.Duration) { c.WatchInterval = d })},
	{"pdf-dpi", "MATCHER_PDF_DPI", "rasterisation DPI for PDF uploads", floatSetter(func(c *Config, f float64) { c.PDFDPI = f })},
}

// Load builds the configuration for the given command-line arguments
// (without the program name). getenv is usually os.Getenv.
func Load(name string, args []string, getenv func(string) string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", getenv("MATCHER_CONFIG"), "YAML config file")

	def := Default()
	flagVals := map[string]string{}
	for _, b := range bindings {
		usage := fmt.Sprintf("%s (env %s)", b.usage, b.env)
		if b.flag == "watch-catalog" {
			fs.BoolFunc(b.flag, usage, func(v string) error { flagVals[b.flag] = v; return nil })
			continue
		}
		fs.Func(b.flag, usage+defaultHint(&def, b.flag), func(v string) error { flagVals[b.flag] = v; return nil })
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := def
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}

	if port := getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	for _, b := range bindings {
		if v := getenv(b.env); v != "" {
			if err := b.apply(&cfg, v); err != nil {
				return nil, fmt.Errorf("env %s: %w", b.env, err)
			}
		}
	}
	for _, b := range bindings {
		if v, ok := flagVals[b.flag]; ok {
			if err := b.apply(&cfg, v); err != nil {
				return nil, fmt.Errorf("flag -%s: %w", b.flag, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func defaultHint(c *Config, name string) string {
	switch name {
	case "addr":
		return fmt.Sprintf(" (default %q)", c.Addr)
	case "catalog":
		return fmt.Sprintf(" (default %q)", c.CatalogPath)
	case "ocr-timeout":
		return fmt.Sprintf(" (default %s)", c.OCRTimeout)
	case "detector":
		return fmt.Sprintf(" (default %q)", c.Detector)
	case "threshold":
		return fmt.Sprintf(" (default %v)", c.Threshold)
	}
	return ""
}

func intSetter(set func(*Config, int)) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not an integer: %q", v)
		}
		set(c, n)
		return nil
	}
}

func floatSetter(set func(*Config, float64)) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		set(c, f)
		return nil
	}
}

func durationSetter(set func(*Config, time.Duration)) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not a duration: %q", v)
		}
		set(c, d)
		return nil
	}
}

func boolSetter(set func(*Config, bool)) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not a boolean: %q", v)
		}
		set(c, b)
		return nil
	}
}
