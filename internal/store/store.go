// Package store reads and writes the YAML data files: extracted rules,
// the risk and control registers, the questionnaire and the
// rule-to-risk link patterns.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cassmap/cassmap/internal/model"
)

// rulesFile accepts both layouts in the wild: a bare list of records or
// a mapping with a "rules" key.
type rulesFile struct {
	Rules []model.ClauseRecord `yaml:"rules"`
}

// LoadRules reads clause records from path.
func LoadRules(path string) ([]model.ClauseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var list []model.ClauseRecord
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var keyed rulesFile
	if err := yaml.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return keyed.Rules, nil
}

// WriteRules writes clause records to path as a bare YAML list,
// creating parent directories as needed.
func WriteRules(path string, rules []model.ClauseRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}

// LoadRisks reads the risk register into a map by risk id.
func LoadRisks(path string) (map[string]model.Risk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risks: %w", err)
	}

	var file struct {
		Risks []model.Risk `yaml:"risks"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse risks %s: %w", path, err)
	}

	out := make(map[string]model.Risk, len(file.Risks))
	for _, r := range file.Risks {
		out[r.ID] = r
	}
	return out, nil
}

// LoadControls reads the control register into a map by control id.
func LoadControls(path string) (map[string]model.Control, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read controls: %w", err)
	}

	var file struct {
		Controls []model.Control `yaml:"controls"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse controls %s: %w", path, err)
	}

	out := make(map[string]model.Control, len(file.Controls))
	for _, c := range file.Controls {
		out[c.ID] = c
	}
	return out, nil
}

// LoadQuestionnaire reads the questionnaire as free-form YAML for the
// API to serve verbatim.
func LoadQuestionnaire(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questionnaire: %w", err)
	}

	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse questionnaire %s: %w", path, err)
	}
	return out, nil
}
