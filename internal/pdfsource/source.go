// Package pdfsource adapts a PDF library to the extractor's token
// source contract: positioned word tokens per page plus page
// dimensions. The extraction pipeline itself never touches PDF bytes.
package pdfsource

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cassmap/cassmap/internal/extract"
	"github.com/cassmap/cassmap/internal/layout"
)

// US Letter fallback when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// ascentRatio approximates the height of a glyph above its baseline as
// a fraction of the font size, for converting baselines to top offsets.
const ascentRatio = 0.8

// Source opens PDF files as token documents.
type Source struct {
	maxFileSize int64
}

// NewSource creates a Source that refuses files larger than maxFileSize.
func NewSource(maxFileSize int64) *Source {
	return &Source{maxFileSize: maxFileSize}
}

var _ extract.Source = (*Source)(nil)

// Open opens and validates a PDF file.
func (s *Source) Open(path string) (extract.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), s.maxFileSize)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", path, err)
	}

	doc := &document{file: f, reader: reader}
	doc.buildPageOffsets()
	return doc, nil
}

// document wraps an open ledongthuc reader. Page offsets are cumulative
// page heights so tokens carry a document-relative vertical position.
type document struct {
	file    *os.File
	reader  *pdf.Reader
	offsets []float64
	heights []float64
	widths  []float64
}

func (d *document) buildPageOffsets() {
	n := d.reader.NumPage()
	d.offsets = make([]float64, n)
	d.heights = make([]float64, n)
	d.widths = make([]float64, n)

	var offset float64
	for i := 0; i < n; i++ {
		w, h := pageSize(d.reader.Page(i + 1))
		d.widths[i] = w
		d.heights[i] = h
		d.offsets[i] = offset
		offset += h
	}
}

// PageCount returns the number of pages.
func (d *document) PageCount() int {
	return d.reader.NumPage()
}

// Page extracts one page's word tokens. index is zero-based.
func (d *document) Page(index int) (layout.Page, error) {
	if index < 0 || index >= d.reader.NumPage() {
		return layout.Page{}, fmt.Errorf("page index %d out of range (document has %d pages)",
			index, d.reader.NumPage())
	}

	page := d.reader.Page(index + 1)
	out := layout.Page{
		Index:  index,
		Width:  d.widths[index],
		Height: d.heights[index],
	}
	if page.V.IsNull() {
		return out, nil
	}

	out.Tokens = groupWords(page.Content().Text, index, d.heights[index], d.offsets[index])
	return out, nil
}

// Close releases the underlying file handle.
func (d *document) Close() error {
	return d.file.Close()
}

// pageSize reads a page's MediaBox, falling back to US Letter when it
// is missing or malformed.
func pageSize(page pdf.Page) (width, height float64) {
	width, height = defaultPageWidth, defaultPageHeight
	defer func() {
		// Corrupt MediaBox entries can panic inside the value accessors.
		_ = recover()
	}()

	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Kind() != pdf.Array || box.Len() != 4 {
		return width, height
	}

	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v := box.Index(i)
		switch v.Kind() {
		case pdf.Integer:
			coords[i] = float64(v.Int64())
		case pdf.Real:
			coords[i] = v.Float64()
		default:
			return width, height
		}
	}
	if coords[2] <= coords[0] || coords[3] <= coords[1] {
		return width, height
	}
	return coords[2] - coords[0], coords[3] - coords[1]
}

// groupWords merges a page's positioned character runs into word
// tokens. Runs join while they share a baseline and font and the
// horizontal gap between them is smaller than a fraction of the font
// size; whitespace always ends the current word.
func groupWords(texts []pdf.Text, pageIndex int, pageHeight, docOffset float64) []layout.Token {
	if len(texts) == 0 {
		return nil
	}

	runs := make([]pdf.Text, len(texts))
	copy(runs, texts)
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Y != runs[j].Y {
			return runs[i].Y > runs[j].Y // higher baseline first in top-down order
		}
		return runs[i].X < runs[j].X
	})

	var tokens []layout.Token
	var word strings.Builder
	var cur layout.Token
	var lastX1, lastY float64

	flush := func() {
		if word.Len() == 0 {
			return
		}
		cur.Text = word.String()
		tokens = append(tokens, cur)
		word.Reset()
	}

	for _, run := range runs {
		if strings.TrimSpace(run.S) == "" {
			flush()
			continue
		}

		gap := run.X - lastX1
		sameBaseline := run.Y == lastY
		joinable := word.Len() > 0 && sameBaseline &&
			run.Font == cur.FontName && gap >= 0 && gap <= run.FontSize*0.3

		if !joinable {
			flush()
			top := pageHeight - run.Y - run.FontSize*ascentRatio
			cur = layout.Token{
				X0:       run.X,
				Y0:       top,
				Y1:       pageHeight - run.Y,
				DocTop:   docOffset + top,
				FontName: run.Font,
				FontSize: run.FontSize,
				Page:     pageIndex,
			}
		}
		word.WriteString(run.S)
		cur.X1 = run.X + run.W
		lastX1 = run.X + run.W
		lastY = run.Y
	}
	flush()

	return tokens
}
