package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Condition is an applicability condition tree. Exactly one of All,
// Any, Not or Expr is populated. A nil *Condition means the clause
// always applies.
//
// In YAML and JSON a condition is either a bare expression string
// ("firm.holds_client_money == true") or a single-key mapping over
// "all", "any" or "not".
type Condition struct {
	All  []Condition `yaml:"-" json:"-"`
	Any  []Condition `yaml:"-" json:"-"`
	Not  *Condition  `yaml:"-" json:"-"`
	Expr string      `yaml:"-" json:"-"`
}

// IsLeaf reports whether the condition is a bare expression.
func (c *Condition) IsLeaf() bool {
	return c != nil && len(c.All) == 0 && len(c.Any) == 0 && c.Not == nil
}

// UnmarshalYAML decodes either a scalar expression or an all/any/not mapping.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&c.Expr)
	case yaml.MappingNode:
		var m struct {
			All []Condition `yaml:"all"`
			Any []Condition `yaml:"any"`
			Not *Condition  `yaml:"not"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		c.All, c.Any, c.Not = m.All, m.Any, m.Not
		return nil
	default:
		return fmt.Errorf("condition must be a string or mapping, got yaml kind %d", node.Kind)
	}
}

// MarshalYAML encodes leaf conditions as scalars and combinators as mappings.
func (c Condition) MarshalYAML() (any, error) {
	if c.IsLeaf() {
		return c.Expr, nil
	}
	m := map[string]any{}
	if len(c.All) > 0 {
		m["all"] = c.All
	}
	if len(c.Any) > 0 {
		m["any"] = c.Any
	}
	if c.Not != nil {
		m["not"] = c.Not
	}
	return m, nil
}

// UnmarshalJSON mirrors the YAML encoding for API payloads.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Expr = s
		return nil
	}
	var m struct {
		All []Condition `json:"all"`
		Any []Condition `json:"any"`
		Not *Condition  `json:"not"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("condition must be a string or object: %w", err)
	}
	c.All, c.Any, c.Not = m.All, m.Any, m.Not
	return nil
}

// MarshalJSON mirrors the YAML encoding for API payloads.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.IsLeaf() {
		return json.Marshal(c.Expr)
	}
	m := map[string]any{}
	if len(c.All) > 0 {
		m["all"] = c.All
	}
	if len(c.Any) > 0 {
		m["any"] = c.Any
	}
	if c.Not != nil {
		m["not"] = c.Not
	}
	return json.Marshal(m)
}
