package layout

import (
	"sort"
	"strings"
)

// GroupLines groups a page's tokens into visual lines by vertical
// proximity. Tokens are sorted by (DocTop, X0) and accumulated into the
// current line while a token's top is within yTol of the running
// minimum top of the line. Comparing against the running minimum rather
// than the previous token keeps sub-pixel kerning differences from
// drifting a long line apart.
func GroupLines(tokens []Token, yTol float64) []Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DocTop != sorted[j].DocTop {
			return sorted[i].DocTop < sorted[j].DocTop
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines []Line
	var cur []Token
	curTop := sorted[0].DocTop

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, buildLine(cur))
			cur = nil
		}
	}

	for _, tok := range sorted {
		if len(cur) == 0 {
			cur = append(cur, tok)
			curTop = tok.DocTop
			continue
		}
		if tok.DocTop-curTop <= yTol {
			cur = append(cur, tok)
			if tok.DocTop < curTop {
				curTop = tok.DocTop
			}
			continue
		}
		flush()
		cur = append(cur, tok)
		curTop = tok.DocTop
	}
	flush()

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].DocTop != lines[j].DocTop {
			return lines[i].DocTop < lines[j].DocTop
		}
		return lines[i].X0 < lines[j].X0
	})
	return lines
}

// buildLine computes a line's derived fields from its tokens.
func buildLine(tokens []Token) Line {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].X0 < tokens[j].X0
	})

	line := Line{
		Tokens: tokens,
		X0:     tokens[0].X0,
		X1:     tokens[0].X1,
		DocTop: tokens[0].DocTop,
	}

	parts := make([]string, 0, len(tokens))
	seenFonts := map[string]bool{}
	for _, tok := range tokens {
		if tok.X0 < line.X0 {
			line.X0 = tok.X0
		}
		if tok.X1 > line.X1 {
			line.X1 = tok.X1
		}
		if tok.DocTop < line.DocTop {
			line.DocTop = tok.DocTop
		}
		if t := strings.TrimSpace(tok.Text); t != "" {
			parts = append(parts, t)
		}
		if !seenFonts[tok.FontName] {
			seenFonts[tok.FontName] = true
			line.Fonts = append(line.Fonts, tok.FontName)
		}
		line.Sizes = append(line.Sizes, tok.FontSize)
	}
	line.Text = strings.Join(parts, " ")
	return line
}
