package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassmap/cassmap/internal/layout"
	"github.com/cassmap/cassmap/internal/model"
)

type fakeDoc struct {
	pages []layout.Page
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(index int) (layout.Page, error) {
	if index < 0 || index >= len(d.pages) {
		return layout.Page{}, fmt.Errorf("page %d out of range", index)
	}
	return d.pages[index], nil
}

func (d *fakeDoc) Close() error { return nil }

type fakeSource struct {
	docs map[string]*fakeDoc
}

func (s *fakeSource) Open(path string) (Document, error) {
	doc, ok := s.docs[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("no such document: %s", path)
	}
	return doc, nil
}

// touch creates a placeholder file so the batch loop's existence check
// passes; the fake source ignores the content.
func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o644))
	return path
}

func newTestExtractor(t *testing.T, docs map[string]*fakeDoc) *Extractor {
	t.Helper()
	e, err := New(DefaultConfig(), &fakeSource{docs: docs}, nil)
	require.NoError(t, err)
	return e
}

func singleClausePages(id, marker, body string) []layout.Page {
	page := makePage(0, words("CASS "+id+" "+marker, 70, 100, 0))
	top := 112.0
	for _, ln := range wrapAt(body, 45) {
		page.Tokens = append(page.Tokens, words(ln, 250, top, 0)...)
		top += 12
	}
	return []layout.Page{page}
}

// wrapAt breaks text into lines of at most width characters, on word
// boundaries.
func wrapAt(text string, width int) []string {
	var out []string
	cur := ""
	for _, w := range strings.Fields(text) {
		if cur == "" {
			cur = w
			continue
		}
		if len(cur)+1+len(w) > width {
			out = append(out, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

const ruleBody = "A firm must keep such records as are necessary to enable it to distinguish client money held for each client."

func TestExtractDocumentSingleClause(t *testing.T) {
	e := newTestExtractor(t, nil)

	records, err := e.ExtractDocument(&fakeDoc{pages: singleClausePages("7.13.12", "R", ruleBody)})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "7.13.12", rec.ID)
	assert.Equal(t, "7", rec.Chapter)
	assert.Equal(t, model.TypeRule, rec.Type)
	assert.Equal(t, "CASS 7.13.12", rec.Display)
	assert.Equal(t, ruleBody, rec.Text)
	assert.NotNil(t, rec.RiskIDs)
	assert.Empty(t, rec.RiskIDs)
	assert.NotNil(t, rec.DefaultControlIDs)
	assert.Nil(t, rec.ApplicabilityConditions)
}

func TestExtractDocumentOrdersClauses(t *testing.T) {
	page := makePage(0,
		words("CASS 7.13.13 G", 70, 300, 0),
		words("Firms should consider how the records required", 250, 312, 0),
		words("by this section interact with their own systems.", 250, 324, 0),
		words("CASS 7.13.12 R", 70, 100, 0),
		words("A firm must keep such records as are necessary", 250, 112, 0),
		words("to distinguish client money held for each client.", 250, 124, 0),
	)
	e := newTestExtractor(t, nil)

	records, err := e.ExtractDocument(&fakeDoc{pages: []layout.Page{page}})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "7.13.12", records[0].ID)
	assert.Equal(t, "7.13.13", records[1].ID)
}

func TestExtractDocumentDeterministic(t *testing.T) {
	// Running the pipeline twice over the same document must produce
	// identical records, including the R-before-G tiebreak for a rule
	// and its guidance sharing one identifier.
	page := makePage(0,
		words("CASS 7.13.12 R", 70, 100, 0),
		words("A firm must keep such records as are necessary", 250, 112, 0),
		words("to distinguish client money held for each client.", 250, 124, 0),
		words("CASS 7.13.13 G", 70, 200, 0),
		words("Firms should consider how the records required", 250, 212, 0),
		words("by this section interact with their own systems.", 250, 224, 0),
		words("CASS 7.13.12 G", 70, 300, 0),
		words("The records in question include those maintained", 250, 312, 0),
		words("by a third party administrator on the firm's behalf.", 250, 324, 0),
	)
	doc := &fakeDoc{pages: []layout.Page{page}}
	e := newTestExtractor(t, nil)

	first, err := e.ExtractDocument(doc)
	require.NoError(t, err)
	second, err := e.ExtractDocument(doc)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, "7.13.12", first[0].ID)
	assert.Equal(t, model.TypeRule, first[0].Type)
	assert.Equal(t, "7.13.12", first[1].ID)
	assert.Equal(t, model.TypeGuidance, first[1].Type)
	assert.Equal(t, "7.13.13", first[2].ID)
	assert.Equal(t, first, second)
}

func TestExtractDocumentCrossPageBody(t *testing.T) {
	page0 := makePage(0,
		words("CASS 7.13.12 R", 70, 600, 0),
		words("A firm must keep records of all client", 250, 612, 0),
		words("money received, and must reconcile those", 250, 624, 0),
	)
	page1 := makePage(1,
		words("Page 2 of 2", 250, 30, 1),
		words("records against its internal accounts", 250, 80, 1),
		words("as often as necessary.", 250, 92, 1),
	)
	e := newTestExtractor(t, nil)

	records, err := e.ExtractDocument(&fakeDoc{pages: []layout.Page{page0, page1}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t,
		"A firm must keep records of all client money received, and must reconcile those records against its internal accounts as often as necessary.",
		records[0].Text)
}

func TestExtractDocumentDiscardsShortBodies(t *testing.T) {
	// Contents pages repeat the identifier grammar with stub text.
	page := makePage(0,
		words("CASS 7.13.12 R", 70, 100, 0),
		words("Records of client money", 250, 112, 0),
	)
	e := newTestExtractor(t, nil)

	records, err := e.ExtractDocument(&fakeDoc{pages: []layout.Page{page}})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractDocumentSectionBannersBoundButYieldNothing(t *testing.T) {
	page := makePage(0,
		words("CASS 7.13.12 R", 70, 100, 0),
		words("A firm must keep such records as are necessary", 250, 112, 0),
		words("to distinguish client money held for each client.", 250, 124, 0),
		words("Section : CASS 7.14 : Client money held by a third party", 70, 160, 0),
		words("This later text belongs to the next section.", 250, 172, 0),
	)
	e := newTestExtractor(t, nil)

	records, err := e.ExtractDocument(&fakeDoc{pages: []layout.Page{page}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "7.13.12", records[0].ID)
	assert.NotContains(t, records[0].Text, "later text")
}

func TestExtractAllMergesKeepingLongest(t *testing.T) {
	dir := t.TempDir()
	shorter := ruleBody
	longer := ruleBody + " It must retain those records for five years."

	e := newTestExtractor(t, map[string]*fakeDoc{
		"a.pdf": {pages: singleClausePages("7.13.12", "R", shorter)},
		"b.pdf": {pages: singleClausePages("7.13.12", "R", longer)},
	})

	records, err := e.ExtractAll([]string{
		touch(t, dir, "a.pdf"),
		touch(t, dir, "b.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, longer, records[0].Text)
}

func TestExtractAllSkipsMissingAndUnreadable(t *testing.T) {
	dir := t.TempDir()

	e := newTestExtractor(t, map[string]*fakeDoc{
		"good.pdf": {pages: singleClausePages("7.13.12", "R", ruleBody)},
	})

	records, err := e.ExtractAll([]string{
		filepath.Join(dir, "missing.pdf"),
		touch(t, dir, "unreadable.pdf"), // not in the fake source
		touch(t, dir, "good.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "7.13.12", records[0].ID)
}

func TestExtractAllEmptyBatch(t *testing.T) {
	e := newTestExtractor(t, nil)

	_, err := e.ExtractAll([]string{filepath.Join(t.TempDir(), "missing.pdf")})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.YTolerance = -1

	_, err := New(cfg, &fakeSource{}, nil)
	assert.Error(t, err)
}
