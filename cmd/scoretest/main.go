// Command scoretest scores summary counts against a catalog and prints the
// per-template breakdown, for tuning catalogs without images.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"section-matcher/internal/component"
	"section-matcher/internal/layout"
	"section-matcher/internal/logging"
	"section-matcher/internal/match"
)

func main() {
	catalogPath := flag.String("catalog", "relume_data.json", "component catalog file (.json, .yaml)")
	boxes := flag.Int("boxes", 0, "significant box count")
	texts := flag.Int("texts", 0, "text block count")
	side := flag.String("side", "balanced", "guessed dominant side: left, right or balanced")
	threshold := flag.Float64("threshold", match.DefaultThreshold, "minimum best score accepted as a match")
	flag.Parse()

	guess, err := parseGuess(*side)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *boxes < 0 || *texts < 0 {
		fmt.Fprintln(os.Stderr, "-boxes and -texts must not be negative")
		os.Exit(1)
	}

	logger, err := logging.New("warn", "text", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cat, err := component.Load(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	sig := match.Counts(*boxes, *texts)
	m := match.NewMatcher(cat, *threshold, logger)

	fmt.Printf("Signals: boxes=%d text_blocks=%d side=%s threshold=%.2f\n\n",
		sig.BoxCount, sig.TextBlockCount, guess, m.Threshold())
	fmt.Printf("%-24s %6s %6s %6s %6s %6s %6s %7s\n",
		"TEMPLATE", "SIDE", "BOXES", "TEXT", "GRID", "RATIO", "TYPE", "TOTAL")
	fmt.Println(strings.Repeat("-", 74))

	for _, s := range m.Rank(sig, guess) {
		b := s.Breakdown
		fmt.Printf("%-24s %6.2f %6.2f %6.2f %6.2f %6.2f %6.2f %7.2f\n",
			s.Template.ID, b.Side, b.Boxes, b.Text, b.Grid, b.Ratio, b.Type, s.Score)
	}

	fmt.Println()
	if res := m.Match(sig, guess); res != nil {
		fmt.Printf("Best: %s (%s) score %.2f\n", res.Template.ID, res.Template.Name, res.Score)
	} else {
		fmt.Println("Best: no suitable match")
	}
}

// parseGuess accepts the sides the extractor can report.
func parseGuess(s string) (layout.Side, error) {
	switch side := layout.ParseSide(s); side {
	case layout.SideLeft, layout.SideRight, layout.SideBalanced:
		return side, nil
	}
	return layout.SideUnknown, fmt.Errorf("unknown -side %q: want left, right or balanced", s)
}
