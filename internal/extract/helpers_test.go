package extract

import (
	"strings"

	"github.com/cassmap/cassmap/internal/layout"
)

// Shared synthetic page construction for the pipeline tests. Geometry
// mimics the handbook layout: US Letter pages, identifiers around
// x=70 in the gutter, body prose from x=250.

const (
	testPageWidth  = 612.0
	testPageHeight = 792.0
)

func tok(text string, x0, top float64, page int) layout.Token {
	return layout.Token{
		Text:     text,
		X0:       x0,
		X1:       x0 + float64(len(text))*5,
		DocTop:   float64(page)*testPageHeight + top,
		FontName: "Times",
		FontSize: 10,
		Page:     page,
	}
}

// words lays out a sentence as word tokens starting at x0.
func words(text string, x0, top float64, page int) []layout.Token {
	var toks []layout.Token
	x := x0
	for _, w := range strings.Fields(text) {
		toks = append(toks, tok(w, x, top, page))
		x += float64(len(w))*5 + 5
	}
	return toks
}

// makePage assembles a page from token groups.
func makePage(index int, groups ...[]layout.Token) layout.Page {
	p := layout.Page{Index: index, Width: testPageWidth, Height: testPageHeight}
	for _, g := range groups {
		p.Tokens = append(p.Tokens, g...)
	}
	return p
}

// makeLayouts runs line grouping and column estimation over pages with
// the default thresholds.
func makeLayouts(pages ...layout.Page) []PageLayout {
	return BuildLayout(pages, DefaultConfig())
}
