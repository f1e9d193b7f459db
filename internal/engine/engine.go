// Package engine evaluates clause applicability conditions against a
// firm profile and derives the risks and controls that follow from the
// applicable rule set.
package engine

import (
	"sort"
	"strings"

	"github.com/cassmap/cassmap/internal/model"
)

// Eval evaluates a condition tree against a firm profile. A nil
// condition always applies. An explicit empty "all" list is vacuously
// true; an empty "any" list matches nothing.
func Eval(cond *model.Condition, firm model.FirmProfile) bool {
	if cond == nil {
		return true
	}
	switch {
	case cond.All != nil:
		for _, c := range cond.All {
			if !Eval(&c, firm) {
				return false
			}
		}
		return true
	case cond.Any != nil:
		for _, c := range cond.Any {
			if Eval(&c, firm) {
				return true
			}
		}
		return false
	case cond.Not != nil:
		return !Eval(cond.Not, firm)
	default:
		return evalExpr(cond.Expr, firm)
	}
}

// evalExpr evaluates a leaf expression of the form
// "firm.<path> == <literal>". The literal may be true, false or a bare
// string; unknown forms evaluate to false.
func evalExpr(expr string, firm model.FirmProfile) bool {
	left, right, found := strings.Cut(expr, "==")
	if !found {
		return false
	}
	left = strings.TrimSpace(left)
	right = strings.Trim(strings.TrimSpace(right), `"'`)

	if !strings.HasPrefix(left, "firm.") {
		return false
	}
	val, ok := resolve(strings.TrimPrefix(left, "firm."), firm)
	if !ok {
		return false
	}

	switch strings.ToLower(right) {
	case "true":
		b, ok := val.(bool)
		return ok && b
	case "false":
		b, ok := val.(bool)
		return ok && !b
	default:
		s, ok := val.(string)
		return ok && s == right
	}
}

// resolve walks a dotted path into the profile map.
func resolve(path string, firm model.FirmProfile) (any, bool) {
	var cur any = map[string]any(firm)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// ApplicableRules filters rules to those whose conditions hold for the
// firm.
func ApplicableRules(rules []model.ClauseRecord, firm model.FirmProfile) []model.ClauseRecord {
	out := make([]model.ClauseRecord, 0, len(rules))
	for _, r := range rules {
		if Eval(r.ApplicabilityConditions, firm) {
			out = append(out, r)
		}
	}
	return out
}

// CollectRisks returns the sorted, de-duplicated risk ids referenced by
// the given rules.
func CollectRisks(rules []model.ClauseRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rules {
		for _, id := range r.RiskIDs {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}

// SuggestControls returns the sorted control ids suggested for a firm:
// the rules' default controls plus every control that mitigates one of
// the collected risks.
func SuggestControls(rules []model.ClauseRecord, controls map[string]model.Control, riskIDs []string) []string {
	ids := map[string]bool{}
	for _, r := range rules {
		for _, id := range r.DefaultControlIDs {
			ids[id] = true
		}
	}

	riskSet := map[string]bool{}
	for _, id := range riskIDs {
		riskSet[id] = true
	}
	for cid, c := range controls {
		for _, rid := range c.MitigatesRiskIDs {
			if riskSet[rid] {
				ids[cid] = true
				break
			}
		}
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Matrix is a risk-by-control coverage matrix. Gaps lists the risks no
// control covers.
type Matrix struct {
	RiskIDs    []string `json:"risks"`
	ControlIDs []string `json:"controls"`
	Cells      [][]int  `json:"matrix"`
	Gaps       []string `json:"gaps"`
}

// UserControl is a caller-supplied control for matrix building; it only
// needs an identity and the risks it claims to mitigate.
type UserControl struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	MitigatesRiskIDs []string `json:"mitigates_risk_ids"`
}

func (u UserControl) key() string {
	if u.ID != "" {
		return u.ID
	}
	return u.Name
}

// BuildMatrix builds the coverage matrix for the given risks over the
// known controls plus any user-supplied ones.
func BuildMatrix(riskIDs []string, controls map[string]model.Control, userControls []UserControl) Matrix {
	controlIDs := make([]string, 0, len(controls)+len(userControls))
	for id := range controls {
		controlIDs = append(controlIDs, id)
	}
	sort.Strings(controlIDs)

	mitigations := map[string][]string{}
	for id, c := range controls {
		mitigations[id] = c.MitigatesRiskIDs
	}
	for _, uc := range userControls {
		controlIDs = append(controlIDs, uc.key())
		mitigations[uc.key()] = uc.MitigatesRiskIDs
	}

	m := Matrix{
		RiskIDs:    riskIDs,
		ControlIDs: controlIDs,
		Cells:      make([][]int, 0, len(riskIDs)),
		Gaps:       []string{},
	}
	for _, rid := range riskIDs {
		row := make([]int, len(controlIDs))
		covered := false
		for i, cid := range controlIDs {
			for _, mit := range mitigations[cid] {
				if mit == rid {
					row[i] = 1
					covered = true
					break
				}
			}
		}
		if !covered {
			m.Gaps = append(m.Gaps, rid)
		}
		m.Cells = append(m.Cells, row)
	}
	return m
}
