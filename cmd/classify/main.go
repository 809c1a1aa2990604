// Command classify runs the full analysis on one or more screenshots and
// prints the matched component for each.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"section-matcher/internal/app"
	"section-matcher/internal/config"
	"section-matcher/internal/logging"
	"section-matcher/internal/pipeline"
)

type result struct {
	Path     string        `json:"path"`
	Analysis *app.Analysis `json:"analysis,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func main() {
	cfg := config.Default()
	flag.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "component catalog file (.json, .yaml)")
	flag.StringVar(&cfg.Detector, "detector", cfg.Detector, "contour detector: canny or adaptive")
	flag.StringVar(&cfg.OCRLanguage, "ocr-lang", cfg.OCRLanguage, "tesseract language(s)")
	flag.DurationVar(&cfg.OCRTimeout, "ocr-timeout", cfg.OCRTimeout, "text recognition wall-time cap")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "minimum best score accepted as a match")
	flag.StringVar(&cfg.LogLevel, "log-level", "warn", "debug, info, warn or error")
	jobs := flag.Int("j", runtime.NumCPU(), "images analyzed in parallel")
	asJSON := flag.Bool("json", false, "print one JSON object per image")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Println("Usage: classify [-catalog relume_data.json] [-j N] [-json] <image|dir>...")
		os.Exit(1)
	}
	paths, err := expand(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list inputs: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, "text", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.SetLogger(logger)

	analyzer, err := pipeline.New(&cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build pipeline: %v\n", err)
		os.Exit(1)
	}

	results := make([]result, len(paths))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(1, *jobs))
	for i, p := range paths {
		g.Go(func() error {
			results[i] = classify(ctx, analyzer, p)
			return nil
		})
	}
	g.Wait()

	failed := 0
	enc := json.NewEncoder(os.Stdout)
	if !*asJSON {
		fmt.Printf("%-40s %6s %6s %-9s %7s  %s\n", "IMAGE", "BOXES", "TEXT", "SIDE", "SCORE", "COMPONENT")
	}
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if *asJSON {
			enc.Encode(r)
			continue
		}
		if r.Error != "" {
			fmt.Printf("%-40s error: %s\n", filepath.Base(r.Path), r.Error)
			continue
		}
		a := r.Analysis
		score := "-"
		if a.MatchScore != nil {
			score = fmt.Sprintf("%.2f", *a.MatchScore)
		}
		fmt.Printf("%-40s %6d %6d %-9s %7s  %s\n",
			filepath.Base(r.Path), a.SignificantBoxCount, a.Layout.TextBlockCount,
			a.Layout.GuessedSide, score, a.ComponentName)
	}

	if !*asJSON {
		fmt.Printf("\nTotal: %d images, %d failed\n", len(results), failed)
	}
	if failed > 0 {
		os.Exit(2)
	}
}

func classify(ctx context.Context, analyzer *app.Analyzer, path string) result {
	data, err := os.ReadFile(path)
	if err != nil {
		return result{Path: path, Error: err.Error()}
	}
	a, err := analyzer.AnalyzeBytes(ctx, data)
	if err != nil {
		return result{Path: path, Error: err.Error()}
	}
	return result{Path: path, Analysis: a}
}

// expand replaces directories with the files directly inside them.
func expand(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, a)
			continue
		}
		entries, err := os.ReadDir(a)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, filepath.Join(a, e.Name()))
			}
		}
		sort.Strings(names)
		out = append(out, names...)
	}
	return out, nil
}
