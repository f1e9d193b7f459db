package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cassmap/cassmap/internal/layout"
	"github.com/cassmap/cassmap/internal/model"
)

// Anchor is one detected clause-identifier occurrence in the left
// gutter, or a section boundary banner. Section anchors participate in
// ordering as hard stops but never yield records.
type Anchor struct {
	ID      string
	Type    model.ClauseType
	Page    int
	DocTop  float64
	X1      float64
	Section bool
}

// Identifier grammar: chapter (digits, optional trailing letter),
// section (digits), rule (digits, optional letter or hyphen-letter
// suffix). A normative type marker may be glued to the rule segment
// ("1.2.2R") or stand alone nearby.
var (
	idCore        = `(\d+[A-Z]?)\.(\d+)\.(\d+(?:-[A-Z]|[A-Z]{1,2})?)`
	anchorFused   = regexp.MustCompile(`(?i)^\s*CASS\s+` + idCore + `(?:\s+(R|G|E|BG|C))?\s*$`)
	anchorPrefix  = regexp.MustCompile(`(?i)^\s*CASS\s+` + idCore + `(?:\s+(R|G|E|BG|C))?\s+`)
	bareFused     = regexp.MustCompile(`^\s*` + idCore + `(?:\s+(R|G|E|BG|C))?\s*$`)
	barePrefix    = regexp.MustCompile(`^\s*` + idCore + `(?:\s+(R|G|E|BG|C))?\s+`)
	typeOnly      = regexp.MustCompile(`(?i)^(R|G|E|BG|C)$`)
	cassAlone     = regexp.MustCompile(`(?i)^\s*CASS\s*$`)
	sectionBanner = regexp.MustCompile(`(?i)^\s*Section\s*:\s*CASS\s+\d+[A-Z]?\.\d+`)
	gluedMarker   = regexp.MustCompile(`^(\d+)(R|G|E|BG|C)$`)
)

// splitRule separates a glued type marker from a rule segment.
// "2R" is rule 2 with marker R; "3A" and "2-B" are plain rule suffixes.
func splitRule(rule string) (string, string) {
	if m := gluedMarker.FindStringSubmatch(rule); m != nil {
		return m[1], m[2]
	}
	return rule, ""
}

// Detector finds clause anchors in grouped page lines.
type Detector struct {
	cfg Config
}

// NewDetector returns a Detector using the given thresholds.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// DetectAll runs detection over every page and returns the anchors in
// global (page, doctop) order.
func (d *Detector) DetectAll(pages []PageLayout) []Anchor {
	var anchors []Anchor
	for _, pl := range pages {
		anchors = append(anchors, d.DetectPage(pl)...)
	}
	sort.SliceStable(anchors, func(i, j int) bool {
		if anchors[i].Page != anchors[j].Page {
			return anchors[i].Page < anchors[j].Page
		}
		if anchors[i].DocTop != anchors[j].DocTop {
			return anchors[i].DocTop < anchors[j].DocTop
		}
		return anchors[i].X1 < anchors[j].X1
	})
	return anchors
}

// DetectPage scans one page's lines for anchors. Only lines starting in
// the left gutter are candidates.
func (d *Detector) DetectPage(pl PageLayout) []Anchor {
	leftLimit := pl.Page.Width * d.cfg.LeftMaxRatio
	lines := pl.Lines

	var anchors []Anchor
	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		if ln.X0 >= leftLimit {
			continue
		}

		if sectionBanner.MatchString(ln.Text) {
			anchors = append(anchors, Anchor{
				Page:    pl.Page.Index,
				DocTop:  ln.DocTop,
				X1:      ln.X1,
				Section: true,
			})
			continue
		}

		if a, consumed, ok := d.matchIdentifier(lines, i, ln, leftLimit, false); ok {
			anchors = append(anchors, a)
			i += consumed
			continue
		}

		// "CASS" on its own line with the identifier on the next.
		if cassAlone.MatchString(ln.Text) && i+1 < len(lines) && lines[i+1].X0 < leftLimit {
			if a, consumed, ok := d.matchIdentifier(lines, i+1, lines[i+1], leftLimit, true); ok {
				anchors = append(anchors, a)
				i += consumed + 1
				continue
			}
		}
	}
	return anchors
}

// matchIdentifier tries to read an anchor from line i. It handles a
// fused full-line identifier, an identifier with body text leaking onto
// the same visual line, glued type markers, a standalone marker further
// along the line, and a marker on the following gutter line. consumed
// is the number of extra lines swallowed by the match. bare accepts an
// identifier without the CASS literal, for the split-line form where
// "CASS" sits alone on the previous line.
func (d *Detector) matchIdentifier(lines []layout.Line, i int, ln layout.Line, leftLimit float64, bare bool) (Anchor, int, bool) {
	fused, prefix := anchorFused, anchorPrefix
	if bare {
		fused, prefix = bareFused, barePrefix
	}
	m := fused.FindStringSubmatch(ln.Text)
	if m == nil {
		m = prefix.FindStringSubmatch(ln.Text)
	}
	if m == nil {
		return Anchor{}, 0, false
	}

	chapter, section, rule, marker := m[1], m[2], m[3], m[4]
	rule, glued := splitRule(rule)

	a := Anchor{
		ID:     chapter + "." + section + "." + rule,
		Page:   ln.Tokens[0].Page,
		DocTop: ln.DocTop,
	}

	// Tokens forming the identifier cluster. The marker, when captured
	// as its own field, is the cluster's last token.
	prefixFields := len(strings.Fields(strings.TrimSpace(m[0])))
	toks := ln.Tokens
	if prefixFields > len(toks) {
		prefixFields = len(toks)
	}
	idFields := prefixFields
	if marker != "" {
		idFields--
	}
	for _, tok := range toks[:idFields] {
		if tok.X1 > a.X1 {
			a.X1 = tok.X1
		}
	}

	if glued != "" {
		// A marker glued to the rule segment is part of the identifier
		// itself and outranks any detached token on the line.
		marker = glued
	} else if marker != "" && idFields < len(toks) {
		// A standalone marker is only trusted close to the identifier's
		// right edge; a lone "R" from the body column grouped into the
		// same visual line must not be consumed as the type.
		markerTok := toks[idFields]
		if markerTok.X0-a.X1 <= d.cfg.TypeMaxDX {
			if markerTok.X1 > a.X1 {
				a.X1 = markerTok.X1
			}
		} else {
			marker = ""
		}
	}

	consumed := 0
	if marker == "" && i+1 < len(lines) {
		// Marker on the next gutter line, within a small vertical gap.
		nxt := lines[i+1]
		drift := nxt.DocTop - ln.DocTop
		if drift < 0 {
			drift = -drift
		}
		if nxt.X0 < leftLimit && drift <= d.cfg.TypeMaxDY && typeOnly.MatchString(nxt.Text) {
			marker = nxt.Text
			if nxt.X1 > a.X1 {
				a.X1 = nxt.X1
			}
			consumed = 1
		}
	}

	a.Type = model.NormalizeType(strings.ToUpper(marker))
	return a, consumed, true
}

// StripAnchorPrefix removes a leading "CASS <id> [type] " fused onto a
// body line, returning the remaining text.
func StripAnchorPrefix(text string) string {
	if loc := anchorPrefix.FindStringIndex(text); loc != nil {
		return strings.TrimLeft(text[loc[1]:], " ")
	}
	return text
}

// HasAnchorPrefix reports whether a line starts with a clause
// identifier followed by more text.
func HasAnchorPrefix(text string) bool {
	return anchorPrefix.MatchString(text)
}
