package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsListStart(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"(1) money held by the firm", true},
		{"(a) in respect of each client", true},
		{"(iv) any interest earned", true},
		{"2. the second matter", true},
		{"a firm must (1) keep records", false},
		{"(12a) malformed", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsListStart(tc.line), tc.line)
	}
}

func TestReflowJoinsWrappedLines(t *testing.T) {
	got := Reflow([]string{
		"A firm must keep such records",
		"as are necessary.",
	})
	assert.Equal(t, "A firm must keep such records as are necessary.", got)
}

func TestReflowDehyphenatesWithoutSpace(t *testing.T) {
	got := Reflow([]string{
		"the firm must main-",
		"tain adequate records",
	})
	assert.Equal(t, "the firm must maintain adequate records", got)
}

func TestReflowKeepsNonLetterHyphen(t *testing.T) {
	// A trailing hyphen after a digit is a range or identifier, not a
	// wrapped word.
	got := Reflow([]string{
		"under CASS 7.13.3 -",
		"the firm must comply",
	})
	assert.Equal(t, "under CASS 7.13.3 - the firm must comply", got)
}

func TestReflowListMarkersStartParagraphs(t *testing.T) {
	got := Reflow([]string{
		"a firm must:",
		"(1) keep records of client money;",
		"and reconcile them",
		"(2) perform reconciliations.",
	})
	want := "a firm must:" + ParagraphSeparator +
		"(1) keep records of client money; and reconcile them" + ParagraphSeparator +
		"(2) perform reconciliations."
	assert.Equal(t, want, got)
}

func TestReflowColonBreak(t *testing.T) {
	got := Reflow([]string{
		"the following applies:",
		"records must be kept.",
	})
	assert.Equal(t, "the following applies:"+ParagraphSeparator+"records must be kept.", got)
}

func TestReflowBlankLineBreaks(t *testing.T) {
	got := Reflow([]string{"first paragraph.", "", "second paragraph."})
	assert.Equal(t, "first paragraph."+ParagraphSeparator+"second paragraph.", got)
}

func TestReflowIdempotence(t *testing.T) {
	// Reflowed text fed back through Reflow must come out unchanged:
	// de-hyphenation, list breaks and colon breaks are all settled on
	// the first pass.
	cases := [][]string{
		{"the firm must main-", "tain adequate records"},
		{"under CASS 7.13.3 -", "the firm must comply"},
		{
			"a firm must:",
			"(1) keep records of client money;",
			"and reconcile them",
			"(2) perform reconciliations.",
		},
		{"the following applies:", "records must be kept."},
		{"first paragraph.", "", "second paragraph."},
	}
	for _, lines := range cases {
		once := Reflow(lines)

		// Decode the output back into lines: one line per paragraph,
		// blank lines marking the paragraph boundaries.
		var refeed []string
		for i, p := range strings.Split(once, ParagraphSeparator) {
			if i > 0 {
				refeed = append(refeed, "")
			}
			refeed = append(refeed, p)
		}

		assert.Equal(t, once, Reflow(refeed), "input %q", lines)
	}
}

func TestReflowEmpty(t *testing.T) {
	assert.Equal(t, "", Reflow(nil))
	assert.Equal(t, "", Reflow([]string{"", "   "}))
}
