// Package api serves the extracted rule set and the applicability
// engine over HTTP. The stores are loaded once at startup; every
// endpoint is a pure function of them and the posted firm profile.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cassmap/cassmap/internal/model"
)

// Server is the HTTP front end over the loaded data set.
type Server struct {
	srv           *http.Server
	log           *zap.Logger
	rules         []model.ClauseRecord
	risks         map[string]model.Risk
	controls      map[string]model.Control
	questionnaire map[string]any
}

// NewServer builds a Server listening on addr.
func NewServer(addr string, log *zap.Logger,
	rules []model.ClauseRecord,
	risks map[string]model.Risk,
	controls map[string]model.Control,
	questionnaire map[string]any,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		log:           log,
		rules:         rules,
		risks:         risks,
		controls:      controls,
		questionnaire: questionnaire,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /questionnaire", s.handleQuestionnaire)
	mux.HandleFunc("POST /profile", s.handleProfile)
	mux.HandleFunc("POST /rules/applicable", s.handleApplicableRules)
	mux.HandleFunc("POST /risks", s.handleRisks)
	mux.HandleFunc("POST /controls/suggested", s.handleSuggestedControls)
	mux.HandleFunc("POST /controls/map", s.handleControlMatrix)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
