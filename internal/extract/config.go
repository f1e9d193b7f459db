// Package extract implements the layout-to-record pipeline that turns
// positioned handbook page text into clause records: anchor detection in
// the left gutter, cross-page body harvesting, paragraph reflow,
// de-duplication and deterministic ordering.
package extract

import (
	"errors"
	"fmt"
)

// Config carries every numeric threshold of the pipeline. It is
// immutable once constructed and passed by value into each component.
type Config struct {
	// LeftMaxRatio bounds the gutter: only lines starting left of
	// page width * LeftMaxRatio are anchor candidates.
	LeftMaxRatio float64

	// RightMinRatio is the fixed-ratio fallback for the body column
	// start (page width * RightMinRatio).
	RightMinRatio float64

	// ColumnGapMin is the smallest x0 gap accepted as the gutter/body
	// split by the largest-gap column estimate.
	ColumnGapMin float64

	// LargestGapColumns selects largest-gap column estimation over the
	// fixed ratio.
	LargestGapColumns bool

	// YTolerance is the vertical band tolerance for grouping tokens
	// into lines.
	YTolerance float64

	// TypeMaxDX is the widest horizontal gap between an identifier and
	// a standalone type marker on the same line.
	TypeMaxDX float64

	// TypeMaxDY is the largest vertical drift between an identifier
	// line and a type marker on the following line.
	TypeMaxDY float64

	// BodyStartMargin is added to an anchor's right extent when
	// rejecting gutter spillover from harvested bodies.
	BodyStartMargin float64

	// HeadingSizeMin is the font size at which a bold, unpunctuated
	// line counts as a heading.
	HeadingSizeMin float64

	// MaxLeadingHeadings bounds how many heading-like lines may be
	// skipped at the start of a harvested body.
	MaxLeadingHeadings int

	// MinBodyLen discards anchors whose reflowed body is shorter than
	// this, treating them as false positives such as contents entries.
	MinBodyLen int

	// ChapterOrder is the preferred chapter reading sequence; chapters
	// not listed sort after all listed ones.
	ChapterOrder []string
}

// DefaultConfig returns the documented defaults for the CASS handbook
// layouts.
func DefaultConfig() Config {
	return Config{
		LeftMaxRatio:       0.46,
		RightMinRatio:      0.42,
		ColumnGapMin:       40.0,
		LargestGapColumns:  true,
		YTolerance:         3.0,
		TypeMaxDX:          14.0,
		TypeMaxDY:          5.0,
		BodyStartMargin:    8.0,
		HeadingSizeMin:     12.0,
		MaxLeadingHeadings: 3,
		MinBodyLen:         40,
		ChapterOrder:       []string{"1", "1A", "3", "5", "6", "7"},
	}
}

// Validate checks the configuration for values that would make the
// pipeline degenerate.
func (c Config) Validate() error {
	if c.LeftMaxRatio <= 0 || c.LeftMaxRatio >= 1 {
		return errors.New("left gutter ratio must be in (0, 1)")
	}
	if c.RightMinRatio <= 0 || c.RightMinRatio >= 1 {
		return errors.New("right column ratio must be in (0, 1)")
	}
	if c.YTolerance <= 0 {
		return errors.New("line grouping tolerance must be positive")
	}
	if c.MinBodyLen < 0 {
		return fmt.Errorf("minimum body length cannot be negative: %d", c.MinBodyLen)
	}
	if c.MaxLeadingHeadings < 0 {
		return fmt.Errorf("leading heading limit cannot be negative: %d", c.MaxLeadingHeadings)
	}
	return nil
}

// unrankedChapter sorts chapters outside the preferred sequence after
// every listed one.
const unrankedChapter = 99

// chapterRank returns the priority rank of a chapter label, or a large
// fallback rank for chapters outside the preferred sequence.
func (c Config) chapterRank(chapter string) int {
	for i, ch := range c.ChapterOrder {
		if ch == chapter {
			return i
		}
	}
	return unrankedChapter
}
