package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cassmap/cassmap/internal/extract"
	"github.com/cassmap/cassmap/internal/pdfsource"
	"github.com/cassmap/cassmap/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdfs...]",
	Short: "Extract clause records from handbook PDFs",
	Long: `Extract reads one or more CASS handbook chapter PDFs, detects the
rule and guidance anchors in the left gutter, harvests and reflows each
clause body, and writes the merged, ordered record set as YAML.

Unreadable or anchorless inputs are skipped with a warning; the command
fails only if no records could be extracted at all.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.RulesPath
		}

		validator := pdfsource.NewValidator(cfg.MaxFileSize)
		paths := make([]string, 0, len(args))
		for _, path := range args {
			if err := validator.Validate(path); err != nil {
				log.Warn("skipping invalid input", zap.String("path", path), zap.Error(err))
				continue
			}
			paths = append(paths, path)
		}

		extractor, err := extract.New(cfg.Extract, pdfsource.NewSource(cfg.MaxFileSize), log)
		if err != nil {
			return err
		}
		records, err := extractor.ExtractAll(paths)
		if err != nil {
			return err
		}

		if err := store.WriteRules(out, records); err != nil {
			return err
		}
		log.Info("extraction complete",
			zap.Int("records", len(records)),
			zap.Int("inputs", len(paths)),
			zap.String("out", out))
		return nil
	},
}

func init() {
	extractCmd.Flags().String("out", "", "output rules file (defaults to <data-dir>/rules.yaml)")

	rootCmd.AddCommand(extractCmd)
}
