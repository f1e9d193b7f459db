package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cassmap/cassmap/internal/layout"
)

// Heading and furniture detection. Each predicate is independent so the
// harvester can compose them: furniture is dropped everywhere, headings
// only where body prose cannot occur.

var (
	furnitureLine = regexp.MustCompile(`(?i)^\s*(www\.handbook\.fca\.org\.uk|FCA\s+\d{4}/\d+|Page\s+\d+\s+of\s+\d+)\s*$`)
	footerDate    = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+20\d{2}\b`)
	leaderLine    = regexp.MustCompile(`^[.\-–—\s]+$`)
	titleStub     = regexp.MustCompile(`^[RG]\s+[A-Z][a-z]+(?:\s+[A-Za-z][a-z]*)*:?$`)
	sentencePunct = regexp.MustCompile(`[.;:)]`)
	stubPunct     = regexp.MustCompile(`[.;)]`)
)

// furnitureHints are boilerplate phrases from the statutory
// rights-of-action tables that repeat on many pages.
var furnitureHints = []string{
	"Actions for damages",
	"Section 138D",
	"Rights of Action",
	"For private person",
	"Removed?",
	"For other person",
}

// IsFurniture reports whether a line is non-substantive page content:
// handbook URLs, release references, page counters, dated footers,
// leader rows or known boilerplate. Furniture is dropped unconditionally.
func IsFurniture(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	if furnitureLine.MatchString(t) || footerDate.MatchString(t) || leaderLine.MatchString(t) {
		return true
	}
	lower := strings.ToLower(t)
	for _, hint := range furnitureHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

// lowerRatio returns the share of letters in s that are lower case.
func lowerRatio(s string) float64 {
	var letters, lower int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				lower++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(lower) / float64(letters)
}

// IsSentenceLike reports whether a line reads as body prose. Sentence
// punctuation is decisive; otherwise a long line with a reasonable
// lower-case share qualifies. This is the guard that keeps a clause's
// first sentence even when it is printed bold.
func IsSentenceLike(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if sentencePunct.MatchString(t) {
		return true
	}
	return len(t) >= 50 && lowerRatio(t) >= 0.25
}

// IsTitleStub reports whether a line is a short "R Title Case Words"
// clause-title remnant.
func IsTitleStub(text string) bool {
	t := strings.TrimSpace(text)
	return titleStub.MatchString(t) && !stubPunct.MatchString(t)
}

// IsHeading reports whether a line is heading-like: a short run of
// upper-case letters without sentence punctuation, a title stub, or a
// large bold line clearly above the body font size.
func IsHeading(line layout.Line, bodySizeGuess, headingSizeMin float64) bool {
	t := strings.TrimSpace(line.Text)
	if t == "" {
		return false
	}

	var letters []rune
	for _, r := range t {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) > 0 && len(letters) <= 40 && !sentencePunct.MatchString(t) {
		upper := true
		for _, r := range letters {
			if !unicode.IsUpper(r) {
				upper = false
				break
			}
		}
		if upper {
			return true
		}
	}

	if IsTitleStub(t) {
		return true
	}

	big := line.MaxSize() >= headingSizeMin
	larger := line.MedianSize() >= bodySizeGuess+1.2
	if big && line.Bold() && larger && !sentencePunct.MatchString(t) {
		return true
	}
	return false
}
