package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cassmap/cassmap/internal/api"
	"github.com/cassmap/cassmap/internal/model"
	"github.com/cassmap/cassmap/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire and applicability API",
	Long: `Serve loads the extracted rules together with the risk, control and
questionnaire data files and exposes them over HTTP: the questionnaire
for intake, applicable rules and risks for a posted firm profile, and
control suggestion and coverage mapping.

The rules file is required; the other data files are optional and the
corresponding endpoints degrade to empty results when they are absent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		rules, err := store.LoadRules(cfg.RulesPath)
		if err != nil {
			return err
		}

		risks, err := store.LoadRisks(cfg.RisksPath)
		if err != nil {
			log.Warn("risks unavailable", zap.String("path", cfg.RisksPath), zap.Error(err))
			risks = map[string]model.Risk{}
		}
		controls, err := store.LoadControls(cfg.ControlsPath)
		if err != nil {
			log.Warn("controls unavailable", zap.String("path", cfg.ControlsPath), zap.Error(err))
			controls = map[string]model.Control{}
		}
		questionnaire, err := store.LoadQuestionnaire(cfg.QuestionnairePath)
		if err != nil {
			log.Warn("questionnaire unavailable", zap.String("path", cfg.QuestionnairePath), zap.Error(err))
			questionnaire = map[string]any{}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := api.NewServer(cfg.Address(), log, rules, risks, controls, questionnaire)
		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
