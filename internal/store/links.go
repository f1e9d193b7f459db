package store

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cassmap/cassmap/internal/model"
)

// RiskLink attaches risk ids to every rule whose id starts with Match.
type RiskLink struct {
	Match   string   `yaml:"match"`
	RiskIDs []string `yaml:"risk_ids"`
}

// LoadRiskLinks reads the link patterns file.
func LoadRiskLinks(path string) ([]RiskLink, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risk links: %w", err)
	}

	var file struct {
		Rules []RiskLink `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse risk links %s: %w", path, err)
	}
	return file.Rules, nil
}

// LinkRisks applies link patterns to the rules in place. For each rule
// the longest matching prefix wins, and its risk ids are merged with
// any the rule already carries.
func LinkRisks(rules []model.ClauseRecord, links []RiskLink) {
	for i := range rules {
		var best *RiskLink
		for j := range links {
			if !strings.HasPrefix(rules[i].ID, links[j].Match) {
				continue
			}
			if best == nil || len(links[j].Match) > len(best.Match) {
				best = &links[j]
			}
		}
		if best == nil {
			continue
		}

		merged := map[string]bool{}
		for _, id := range rules[i].RiskIDs {
			merged[id] = true
		}
		for _, id := range best.RiskIDs {
			merged[id] = true
		}

		ids := make([]string, 0, len(merged))
		for id := range merged {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		rules[i].RiskIDs = ids
	}
}
