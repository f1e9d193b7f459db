// Package layout models positioned page text and the geometry heuristics
// used to split a two-column handbook page into gutter and body regions.
package layout

import "strings"

// Token is a single positioned word of page text as supplied by the PDF
// layout engine. Coordinates are in points with the origin at the top
// left of the page; DocTop is the document-relative vertical offset so
// tokens order correctly across pages.
type Token struct {
	Text     string
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	DocTop   float64
	FontName string
	FontSize float64
	Page     int
}

// Page holds one page's tokens and dimensions.
type Page struct {
	Index  int
	Width  float64
	Height float64
	Tokens []Token
}

// Line is an ordered group of tokens sharing a vertical band. Derived
// fields are computed once at grouping time; lines are read-only
// afterwards.
type Line struct {
	Tokens []Token
	Text   string
	X0     float64
	X1     float64
	DocTop float64
	Fonts  []string
	Sizes  []float64
}

// Bold reports whether any token in the line uses a bold font.
func (l Line) Bold() bool {
	for _, f := range l.Fonts {
		if strings.Contains(f, "Bold") {
			return true
		}
	}
	return false
}

// MaxSize returns the largest font size in the line, or 0 for an empty line.
func (l Line) MaxSize() float64 {
	var max float64
	for _, s := range l.Sizes {
		if s > max {
			max = s
		}
	}
	return max
}

// MedianSize returns the median font size in the line, or 0 for an
// empty line.
func (l Line) MedianSize() float64 {
	return median(l.Sizes)
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
