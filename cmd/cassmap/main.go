// Package main is the entry point for the cassmap CLI. It extracts
// clause records from FCA CASS handbook PDFs, links them to risks and
// serves the applicability API over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cassmap/cassmap/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the cassmap CLI.
var rootCmd = &cobra.Command{
	Use:   "cassmap",
	Short: "CASS handbook extraction and applicability mapping",
	Long: `cassmap turns the FCA CASS handbook PDFs into structured clause
records and maps them onto a firm's profile.

Each stage is a subcommand: extract reads handbook PDFs and writes
rules.yaml, link attaches risk identifiers to the extracted rules, and
serve exposes the questionnaire and applicability API over HTTP.`,
	SilenceUsage: true,
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
}

// loadConfig parses the merged flag and environment view once a
// command actually runs.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, log, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.IsDebug() {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
