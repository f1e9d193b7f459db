package extract

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cassmap/cassmap/internal/model"
)

// Deduper merges clause records by (id, type), keeping the longest body
// for each key. Overlapping source files routinely cover the same
// clause; the longest harvest is the most complete one.
type Deduper struct {
	records map[model.Key]model.ClauseRecord
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{records: make(map[model.Key]model.ClauseRecord)}
}

// Add merges one record, keeping the longer text on key collision.
func (d *Deduper) Add(rec model.ClauseRecord) {
	key := rec.Key()
	if prev, ok := d.records[key]; ok && len(prev.Text) >= len(rec.Text) {
		return
	}
	d.records[key] = rec
}

// AddAll merges a batch of records.
func (d *Deduper) AddAll(recs []model.ClauseRecord) {
	for _, r := range recs {
		d.Add(r)
	}
}

// Len returns the number of distinct (id, type) keys held.
func (d *Deduper) Len() int {
	return len(d.records)
}

// Records returns the merged records sorted by the configured chapter
// priority, then section, rule number, rule suffix and type. The order
// is deterministic for identical inputs.
func (d *Deduper) Records(cfg Config) []model.ClauseRecord {
	out := make([]model.ClauseRecord, 0, len(d.records))
	for _, rec := range d.records {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i], cfg).less(sortKey(out[j], cfg))
	})
	return out
}

// clauseSortKey is the total order of final output records.
type clauseSortKey struct {
	chapterRank int
	chapter     string
	section     int
	ruleNum     int
	ruleSuffix  string
	typeRank    int
}

func (k clauseSortKey) less(o clauseSortKey) bool {
	if k.chapterRank != o.chapterRank {
		return k.chapterRank < o.chapterRank
	}
	if k.chapter != o.chapter {
		return k.chapter < o.chapter
	}
	if k.section != o.section {
		return k.section < o.section
	}
	if k.ruleNum != o.ruleNum {
		return k.ruleNum < o.ruleNum
	}
	if k.ruleSuffix != o.ruleSuffix {
		return k.ruleSuffix < o.ruleSuffix
	}
	return k.typeRank < o.typeRank
}

func sortKey(rec model.ClauseRecord, cfg Config) clauseSortKey {
	key := clauseSortKey{
		chapterRank: cfg.chapterRank(rec.Chapter),
		chapter:     rec.Chapter,
		typeRank:    rec.Type.Rank(),
	}

	parts := strings.SplitN(rec.ID, ".", 3)
	if len(parts) == 3 {
		key.section, _ = strconv.Atoi(parts[1])
		key.ruleNum, key.ruleSuffix = splitRuleSegment(parts[2])
	}
	return key
}

// splitRuleSegment separates a rule segment into its numeric part and
// letter/hyphen suffix, e.g. "12-A" -> (12, "-A").
func splitRuleSegment(rule string) (int, string) {
	var digits, rest strings.Builder
	for _, r := range rule {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		} else {
			rest.WriteRune(r)
		}
	}
	n, _ := strconv.Atoi(digits.String())
	return n, rest.String()
}
