package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/cassmap/cassmap/internal/engine"
	"github.com/cassmap/cassmap/internal/model"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rules": len(s.rules)})
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.questionnaire)
}

// handleProfile echoes the posted profile back, confirming it parsed.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var firm model.FirmProfile
	if !s.readJSON(w, r, &firm) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"firm": firm})
}

func (s *Server) handleApplicableRules(w http.ResponseWriter, r *http.Request) {
	var firm model.FirmProfile
	if !s.readJSON(w, r, &firm) {
		return
	}
	rules := engine.ApplicableRules(s.rules, firm)
	s.writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

func (s *Server) handleRisks(w http.ResponseWriter, r *http.Request) {
	var firm model.FirmProfile
	if !s.readJSON(w, r, &firm) {
		return
	}
	rules := engine.ApplicableRules(s.rules, firm)

	risks := []model.Risk{}
	for _, id := range engine.CollectRisks(rules) {
		if risk, ok := s.risks[id]; ok {
			risks = append(risks, risk)
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"risks": risks})
}

func (s *Server) handleSuggestedControls(w http.ResponseWriter, r *http.Request) {
	var firm model.FirmProfile
	if !s.readJSON(w, r, &firm) {
		return
	}
	rules := engine.ApplicableRules(s.rules, firm)
	riskIDs := engine.CollectRisks(rules)

	controls := []model.Control{}
	for _, id := range engine.SuggestControls(rules, s.controls, riskIDs) {
		if ctrl, ok := s.controls[id]; ok {
			controls = append(controls, ctrl)
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"controls": controls})
}

type controlMapRequest struct {
	Risks        []string             `json:"risks"`
	UserControls []engine.UserControl `json:"user_controls"`
}

func (s *Server) handleControlMatrix(w http.ResponseWriter, r *http.Request) {
	var req controlMapRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, engine.BuildMatrix(req.Risks, s.controls, req.UserControls))
}
