package extract

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cassmap/cassmap/internal/layout"
	"github.com/cassmap/cassmap/internal/model"
)

// ErrNoRecords reports that a whole batch produced zero clause records.
// Per-file problems are recovered by skipping; an empty result set is
// the one condition downstream consumers cannot work with.
var ErrNoRecords = errors.New("no clause records extracted from any input")

// Document is one open source document from the layout engine.
type Document interface {
	PageCount() int
	Page(index int) (layout.Page, error)
	Close() error
}

// Source opens documents by path. The PDF adapter implements it for
// real files; tests supply synthetic pages.
type Source interface {
	Open(path string) (Document, error)
}

// Extractor runs the full layout-to-record pipeline over documents.
type Extractor struct {
	cfg       Config
	src       Source
	log       *zap.Logger
	detector  *Detector
	harvester *Harvester
}

// New builds an Extractor. The configuration is validated once here and
// never mutated afterwards.
func New(cfg Config, src Source, log *zap.Logger) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("extractor config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		cfg:       cfg,
		src:       src,
		log:       log,
		detector:  NewDetector(cfg),
		harvester: NewHarvester(cfg),
	}, nil
}

// ExtractAll processes every input file and returns the merged, sorted
// record set. Missing files and anchorless documents are logged and
// skipped; ErrNoRecords is returned only when nothing at all was
// extracted.
func (e *Extractor) ExtractAll(paths []string) ([]model.ClauseRecord, error) {
	dedupe := NewDeduper()

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			e.log.Warn("skipping missing input", zap.String("path", path), zap.Error(err))
			continue
		}
		recs, err := e.ExtractFile(path)
		if err != nil {
			e.log.Warn("skipping unreadable input", zap.String("path", path), zap.Error(err))
			continue
		}
		dedupe.AddAll(recs)
	}

	if dedupe.Len() == 0 {
		return nil, ErrNoRecords
	}
	return dedupe.Records(e.cfg), nil
}

// ExtractFile extracts one document's records, de-duplicated and sorted.
func (e *Extractor) ExtractFile(path string) ([]model.ClauseRecord, error) {
	doc, err := e.src.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	records, err := e.ExtractDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if len(records) == 0 {
		e.log.Warn("no anchors found; document may be scanned or use an unsupported layout",
			zap.String("path", path))
	}
	return records, nil
}

// ExtractDocument runs detection and harvesting over an open document.
// Anchor detection completes for the whole document before any
// harvesting, because each body is bounded by the following anchor.
func (e *Extractor) ExtractDocument(doc Document) ([]model.ClauseRecord, error) {
	pages := make([]layout.Page, 0, doc.PageCount())
	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.Page(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, page)
	}

	layouts := BuildLayout(pages, e.cfg)
	anchors := e.detector.DetectAll(layouts)
	if len(anchors) == 0 {
		return nil, nil
	}

	dedupe := NewDeduper()
	for i, a := range anchors {
		if a.Section {
			continue
		}
		var next *Anchor
		if i+1 < len(anchors) {
			next = &anchors[i+1]
		}

		text, title := e.harvester.Harvest(layouts, a, next)
		if len(text) < e.cfg.MinBodyLen {
			// Too short to be a clause body; almost always a contents
			// entry that matched the identifier grammar.
			continue
		}
		dedupe.Add(e.buildRecord(a, text, title))
	}
	return dedupe.Records(e.cfg), nil
}

// buildRecord assembles the output record for one harvested anchor.
func (e *Extractor) buildRecord(a Anchor, text string, title *string) model.ClauseRecord {
	chapter, _, _ := strings.Cut(a.ID, ".")
	return model.ClauseRecord{
		ID:                a.ID,
		Chapter:           chapter,
		Type:              a.Type,
		Title:             title,
		Text:              text,
		Display:           "CASS " + a.ID,
		RiskIDs:           []string{},
		DefaultControlIDs: []string{},
	}
}
