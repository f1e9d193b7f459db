package extract

import (
	"math"
	"strings"

	"github.com/cassmap/cassmap/internal/layout"
)

// PageLayout is the per-page value object the harvester works from:
// grouped lines plus the estimated body column start. Building it once
// up front keeps the pipeline free of positional page-array coupling.
type PageLayout struct {
	Page      layout.Page
	Lines     []layout.Line
	BodyStart float64
}

// BuildLayout groups every page's tokens into lines and estimates its
// body column start.
func BuildLayout(pages []layout.Page, cfg Config) []PageLayout {
	cols := layout.ColumnModel{
		MinRatio:   cfg.RightMinRatio,
		GapMin:     cfg.ColumnGapMin,
		LargestGap: cfg.LargestGapColumns,
	}

	out := make([]PageLayout, 0, len(pages))
	for _, p := range pages {
		lines := layout.GroupLines(p.Tokens, cfg.YTolerance)
		out = append(out, PageLayout{
			Page:      p,
			Lines:     lines,
			BodyStart: cols.BodyStart(lines, p.Width),
		})
	}
	return out
}

// bodyLine is a harvested line with its text after gutter trimming.
type bodyLine struct {
	line layout.Line
	text string
}

// Harvester collects the body lines belonging to each anchor.
type Harvester struct {
	cfg Config
}

// NewHarvester returns a Harvester using the given thresholds.
func NewHarvester(cfg Config) *Harvester {
	return &Harvester{cfg: cfg}
}

// Harvest gathers and reflows the body text for anchor a, bounded by
// the next anchor (or document end when next is nil). The returned
// title is the clause title skimmed off the leading heading block, if
// any.
func (h *Harvester) Harvest(pages []PageLayout, a Anchor, next *Anchor) (string, *string) {
	endPage := len(pages) - 1
	endTop := math.Inf(1)
	if next != nil {
		endPage = next.Page
		endTop = next.DocTop
	}

	start := h.startPageLines(pages[a.Page], a, endPage, endTop)

	skip, title := h.leadingHeadingSkip(start)
	collected := start[skip:]

	for p := a.Page + 1; p < endPage; p++ {
		collected = append(collected, h.spillPageLines(pages[p], math.Inf(1))...)
	}
	if endPage > a.Page && endPage < len(pages) {
		collected = append(collected, h.spillPageLines(pages[endPage], endTop)...)
	}

	texts := make([]string, 0, len(collected))
	for _, bl := range collected {
		texts = append(texts, bl.text)
	}
	return Reflow(texts), title
}

// startPageLines collects candidate body lines on the anchor's own
// page. Text is rebuilt from the tokens strictly right of the anchor's
// extent so the identifier cluster and type marker are never re-ingested.
func (h *Harvester) startPageLines(pl PageLayout, a Anchor, endPage int, endTop float64) []bodyLine {
	startCut := a.DocTop - h.cfg.YTolerance/2
	col := pl.BodyStart
	sameLastPage := endPage == pl.Page.Index

	var out []bodyLine
	for _, ln := range pl.Lines {
		if ln.DocTop < startCut {
			continue
		}
		if sameLastPage && ln.DocTop >= endTop {
			break
		}
		// The next clause's identifier fused with its first body words
		// can sit fractionally above the boundary; stop rather than
		// leak it in.
		if sameLastPage && math.Abs(ln.DocTop-endTop) <= h.cfg.YTolerance*1.25 && HasAnchorPrefix(ln.Text) {
			break
		}
		if ln.X0 < col-h.cfg.BodyStartMargin && ln.X1 < col+2 {
			continue // entirely in the gutter
		}
		if IsFurniture(ln.Text) || sectionBanner.MatchString(ln.Text) {
			continue
		}

		text := h.rightOfAnchor(ln, a.X1)
		if text == "" {
			continue
		}
		out = append(out, bodyLine{line: ln, text: text})
	}
	return out
}

// rightOfAnchor rebuilds a line's text from the tokens strictly past
// the anchor's right extent.
func (h *Harvester) rightOfAnchor(ln layout.Line, anchorX1 float64) string {
	var parts []string
	for _, tok := range ln.Tokens {
		if tok.X0 <= anchorX1 {
			continue
		}
		if t := strings.TrimSpace(tok.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return StripAnchorPrefix(strings.Join(parts, " "))
}

// spillPageLines collects body lines from a continuation page, up to
// endTop. These pages carry no anchor to reset heading suppression, so
// heading-like lines are dropped throughout.
func (h *Harvester) spillPageLines(pl PageLayout, endTop float64) []bodyLine {
	col := pl.BodyStart

	var candidates []layout.Line
	for _, ln := range pl.Lines {
		if ln.DocTop >= endTop {
			break
		}
		if math.Abs(ln.DocTop-endTop) <= h.cfg.YTolerance*1.25 && HasAnchorPrefix(ln.Text) {
			break
		}
		if ln.X0 < col-2 && ln.X1 < col+2 {
			continue
		}
		if IsFurniture(ln.Text) || sectionBanner.MatchString(ln.Text) {
			continue
		}
		candidates = append(candidates, ln)
	}

	guess := bodySizeGuess(candidates)
	var out []bodyLine
	for _, ln := range candidates {
		if IsHeading(ln, guess, h.cfg.HeadingSizeMin) && !IsSentenceLike(ln.Text) {
			continue
		}
		text := StripAnchorPrefix(ln.Text)
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, bodyLine{line: ln, text: text})
	}
	return out
}

// leadingHeadingSkip decides how many leading lines of a harvested body
// are title or furniture rather than prose. The first sentence-like
// line always survives, even when it also looks heading-like.
func (h *Harvester) leadingHeadingSkip(lines []bodyLine) (int, *string) {
	if len(lines) == 0 {
		return 0, nil
	}

	sample := make([]layout.Line, 0, 12)
	for _, bl := range lines {
		sample = append(sample, bl.line)
		if len(sample) == 12 {
			break
		}
	}
	guess := bodySizeGuess(sample)

	var title *string
	i, skipped := 0, 0
	for i < len(lines) && skipped < h.cfg.MaxLeadingHeadings {
		t := lines[i].text
		if strings.TrimSpace(t) == "" || IsFurniture(t) {
			i++
			skipped++
			continue
		}
		if IsSentenceLike(t) {
			break
		}
		if IsHeading(lines[i].line, guess, h.cfg.HeadingSizeMin) {
			if title == nil {
				title = headingTitle(t)
			}
			i++
			skipped++
			continue
		}
		break
	}
	if i >= len(lines) {
		i = len(lines) - 1
	}
	return i, title
}

// headingTitle turns a skipped heading line into a clause title,
// dropping a leading type letter from title stubs.
func headingTitle(text string) *string {
	t := strings.TrimSpace(text)
	if IsTitleStub(t) {
		if _, rest, ok := strings.Cut(t, " "); ok {
			t = rest
		}
	}
	t = strings.TrimSuffix(t, ":")
	if t == "" {
		return nil
	}
	return &t
}

// bodySizeGuess estimates the body font size as the median of the
// lines' median sizes.
func bodySizeGuess(lines []layout.Line) float64 {
	if len(lines) == 0 {
		return 10.0
	}
	meds := make([]float64, 0, len(lines))
	for _, ln := range lines {
		m := ln.MedianSize()
		if m == 0 {
			m = 10.0
		}
		meds = append(meds, m)
	}
	return medianOf(meds)
}

func medianOf(vals []float64) float64 {
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
