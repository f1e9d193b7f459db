package extract

import (
	"regexp"
	"strings"
)

// Paragraph reflow: harvested lines are merged back into paragraphs.
// Wrapped words are de-hyphenated, list markers and colon-terminated
// introductions start new paragraphs, everything else joins with a
// single space.

var (
	listMarker    = regexp.MustCompile(`(?i)^(\(\d+\)|\([a-z]\)|\([ivxlcdm]+\)|\d+\.)$`)
	trailingBreak = regexp.MustCompile(`(\pL)-$`)
)

// ParagraphSeparator joins reflowed paragraphs in a clause's text.
const ParagraphSeparator = "\n\n"

// IsListStart reports whether a line opens with a list marker such as
// "(1)", "(a)", "(iv)" or "2.".
func IsListStart(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return listMarker.MatchString(fields[0])
}

// Reflow merges body lines into paragraph text. A blank input line
// forces a paragraph break; a line ending in a letter-hyphen joins the
// next line without a space.
func Reflow(lines []string) string {
	var paragraphs []string
	var acc strings.Builder
	hyphenJoin := false

	push := func() {
		if p := strings.TrimSpace(acc.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
		acc.Reset()
		hyphenJoin = false
	}

	for _, raw := range lines {
		s := strings.TrimSpace(raw)
		if s == "" {
			push()
			continue
		}

		breakBefore := IsListStart(s) || strings.HasSuffix(strings.TrimSpace(acc.String()), ":")
		if breakBefore {
			push()
		}

		joined := trailingBreak.ReplaceAllString(s, "$1")
		wraps := joined != s

		switch {
		case acc.Len() == 0:
			acc.WriteString(joined)
		case hyphenJoin:
			acc.WriteString(joined)
		default:
			acc.WriteString(" ")
			acc.WriteString(joined)
		}
		hyphenJoin = wraps
	}
	push()

	return strings.Join(paragraphs, ParagraphSeparator)
}
