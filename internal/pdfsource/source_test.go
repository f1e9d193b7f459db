package pdfsource

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(s string, x, y, w float64) pdf.Text {
	return pdf.Text{Font: "Times", FontSize: 10, X: x, Y: y, W: w, S: s}
}

func TestGroupWordsJoinsAdjacentRuns(t *testing.T) {
	texts := []pdf.Text{
		run("Fi", 100, 700, 8),
		run("rm", 108, 700, 8),
		run(" ", 116, 700, 4),
		run("must", 122, 700, 20),
	}

	tokens := groupWords(texts, 0, 792, 0)
	require.Len(t, tokens, 2)
	assert.Equal(t, "Firm", tokens[0].Text)
	assert.Equal(t, 100.0, tokens[0].X0)
	assert.Equal(t, 116.0, tokens[0].X1)
	assert.Equal(t, "must", tokens[1].Text)
}

func TestGroupWordsSplitsOnWideGap(t *testing.T) {
	texts := []pdf.Text{
		run("left", 100, 700, 20),
		run("right", 300, 700, 25),
	}

	tokens := groupWords(texts, 0, 792, 0)
	require.Len(t, tokens, 2)
	assert.Equal(t, "left", tokens[0].Text)
	assert.Equal(t, "right", tokens[1].Text)
}

func TestGroupWordsSplitsOnFontChange(t *testing.T) {
	bold := pdf.Text{Font: "Times-Bold", FontSize: 10, X: 120, Y: 700, W: 5, S: "R"}
	texts := []pdf.Text{
		run("7.13.12", 100, 700, 19),
		bold,
	}

	tokens := groupWords(texts, 0, 792, 0)
	require.Len(t, tokens, 2)
	assert.Equal(t, "R", tokens[1].Text)
	assert.Equal(t, "Times-Bold", tokens[1].FontName)
}

func TestGroupWordsTopDownOrderAndOffsets(t *testing.T) {
	texts := []pdf.Text{
		run("lower", 100, 600, 25),
		run("upper", 100, 700, 25),
	}

	tokens := groupWords(texts, 1, 792, 792)
	require.Len(t, tokens, 2)
	assert.Equal(t, "upper", tokens[0].Text)
	assert.Equal(t, "lower", tokens[1].Text)

	// Baseline 700 with a 10pt font sits 84pt from the page top; the
	// second page adds a full page height of document offset.
	assert.InDelta(t, 84.0, tokens[0].Y0, 0.001)
	assert.InDelta(t, 792+84.0, tokens[0].DocTop, 0.001)
	assert.Equal(t, 1, tokens[0].Page)
}

func TestGroupWordsEmpty(t *testing.T) {
	assert.Nil(t, groupWords(nil, 0, 792, 0))
}
