// Package model defines the shared record types produced by the extraction
// pipeline and consumed by the applicability engine and the HTTP API.
package model

import "fmt"

// ClauseType is the normative type of a clause: binding rule or guidance.
// Non-rule handbook markers (G, E, BG, C) all normalize to guidance.
type ClauseType string

const (
	TypeRule     ClauseType = "R"
	TypeGuidance ClauseType = "G"
)

// NormalizeType maps a raw handbook type marker to a ClauseType.
// Anything that is not "R" is guidance.
func NormalizeType(marker string) ClauseType {
	if marker == "R" || marker == "r" {
		return TypeRule
	}
	return TypeGuidance
}

// Valid reports whether t is one of the two closed enum values.
func (t ClauseType) Valid() bool {
	return t == TypeRule || t == TypeGuidance
}

// Rank orders rules before guidance for sorting.
func (t ClauseType) Rank() int {
	if t == TypeRule {
		return 0
	}
	return 1
}

// ClauseRecord is one extracted handbook clause. Records are keyed
// uniquely by (ID, Type) in any output set.
type ClauseRecord struct {
	ID                      string     `yaml:"id" json:"id"`
	Chapter                 string     `yaml:"chapter" json:"chapter"`
	Type                    ClauseType `yaml:"type" json:"type"`
	Title                   *string    `yaml:"title" json:"title"`
	Summary                 *string    `yaml:"summary" json:"summary"`
	RiskIDs                 []string   `yaml:"risk_ids" json:"risk_ids"`
	DefaultControlIDs       []string   `yaml:"default_control_ids" json:"default_control_ids"`
	ApplicabilityConditions *Condition `yaml:"applicability_conditions" json:"applicability_conditions"`
	Text                    string     `yaml:"text" json:"text"`
	Display                 string     `yaml:"display" json:"display"`
}

// Key identifies a record for de-duplication.
type Key struct {
	ID   string
	Type ClauseType
}

// Key returns the record's (id, type) de-duplication key.
func (r ClauseRecord) Key() Key {
	return Key{ID: r.ID, Type: r.Type}
}

func (r ClauseRecord) String() string {
	return fmt.Sprintf("%s %s", r.Display, r.Type)
}

// Risk is a client-asset risk that one or more rules guard against.
type Risk struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	Categories     []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	RelatedRuleIDs []string `yaml:"related_rule_ids,omitempty" json:"related_rule_ids,omitempty"`
}

// Control is a mitigating control mapped to one or more risks.
type Control struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Objective        string   `yaml:"objective" json:"objective"`
	MitigatesRiskIDs []string `yaml:"mitigates_risk_ids" json:"mitigates_risk_ids"`
	Type             string   `yaml:"type" json:"type"`
	OwnerRole        string   `yaml:"owner_role,omitempty" json:"owner_role,omitempty"`
}

// FirmProfile is the free-form answers a firm gives to the
// questionnaire; condition expressions resolve paths into it.
type FirmProfile map[string]any
