package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassmap/cassmap/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sampleRules() []model.ClauseRecord {
	title := "Records"
	return []model.ClauseRecord{
		{
			ID:                "7.13.12",
			Chapter:           "7",
			Type:              model.TypeRule,
			Title:             &title,
			Text:              "A firm must keep records.",
			Display:           "CASS 7.13.12",
			RiskIDs:           []string{"R1"},
			DefaultControlIDs: []string{},
			ApplicabilityConditions: &model.Condition{
				Expr: "firm.holds_client_money == true",
			},
		},
		{
			ID:      "7.13.13",
			Chapter: "7",
			Type:    model.TypeGuidance,
			Text:    "Firms should consider their systems.",
			Display: "CASS 7.13.13",
		},
	}
}

func TestWriteAndLoadRulesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rules.yaml")

	require.NoError(t, WriteRules(path, sampleRules()))

	got, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "7.13.12", got[0].ID)
	assert.Equal(t, model.TypeRule, got[0].Type)
	require.NotNil(t, got[0].Title)
	assert.Equal(t, "Records", *got[0].Title)
	assert.Equal(t, []string{"R1"}, got[0].RiskIDs)
	require.NotNil(t, got[0].ApplicabilityConditions)
	assert.Equal(t, "firm.holds_client_money == true", got[0].ApplicabilityConditions.Expr)
	assert.Nil(t, got[1].ApplicabilityConditions)
}

func TestLoadRulesKeyedLayout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", `
rules:
  - id: "7.13.12"
    chapter: "7"
    type: R
    text: A firm must keep records.
    display: CASS 7.13.12
`)

	got, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "7.13.12", got[0].ID)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRisks(t *testing.T) {
	path := writeFile(t, t.TempDir(), "risks.yaml", `
risks:
  - id: R1
    name: Commingling
    description: Client money mixed with firm money.
    categories: [segregation]
  - id: R2
    name: Shortfall
    description: Insufficient client money held.
`)

	got, err := LoadRisks(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Commingling", got["R1"].Name)
	assert.Equal(t, []string{"segregation"}, got["R1"].Categories)
}

func TestLoadControls(t *testing.T) {
	path := writeFile(t, t.TempDir(), "controls.yaml", `
controls:
  - id: C-SEG
    name: Segregated accounts
    objective: Keep client money separate.
    mitigates_risk_ids: [R1]
    type: preventative
    owner_role: CASS oversight officer
`)

	got, err := LoadControls(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"R1"}, got["C-SEG"].MitigatesRiskIDs)
	assert.Equal(t, "CASS oversight officer", got["C-SEG"].OwnerRole)
}

func TestLoadQuestionnaire(t *testing.T) {
	path := writeFile(t, t.TempDir(), "questionnaire.yaml", `
sections:
  - key: holds_client_money
    question: Does the firm hold client money?
    kind: bool
`)

	got, err := LoadQuestionnaire(path)
	require.NoError(t, err)
	assert.Contains(t, got, "sections")
}

func TestLoadRiskLinksAndLinkRisks(t *testing.T) {
	path := writeFile(t, t.TempDir(), "links.yaml", `
rules:
  - match: "7.13"
    risk_ids: [R1]
  - match: "7.13.12"
    risk_ids: [R2]
  - match: "6."
    risk_ids: [R9]
`)

	links, err := LoadRiskLinks(path)
	require.NoError(t, err)
	require.Len(t, links, 3)

	rules := []model.ClauseRecord{
		{ID: "7.13.12", RiskIDs: []string{"R0"}},
		{ID: "7.13.13"},
		{ID: "5.1.1"},
	}
	LinkRisks(rules, links)

	// Longest matching prefix wins, merged with existing ids.
	assert.Equal(t, []string{"R0", "R2"}, rules[0].RiskIDs)
	assert.Equal(t, []string{"R1"}, rules[1].RiskIDs)
	assert.Empty(t, rules[2].RiskIDs)
}
