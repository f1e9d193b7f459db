package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cassmap/cassmap/internal/store"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Attach risk identifiers to extracted rules",
	Long: `Link loads the extracted rules and the rule-to-risk link table, maps
each rule to its risks by longest identifier prefix, and writes the
enriched rule set back out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		rulesPath, _ := cmd.Flags().GetString("rules")
		if rulesPath == "" {
			rulesPath = cfg.RulesPath
		}
		linksPath, _ := cmd.Flags().GetString("links")
		if linksPath == "" {
			linksPath = cfg.RiskLinksPath
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = rulesPath
		}

		rules, err := store.LoadRules(rulesPath)
		if err != nil {
			return err
		}
		links, err := store.LoadRiskLinks(linksPath)
		if err != nil {
			return err
		}

		store.LinkRisks(rules, links)

		linked := 0
		for _, r := range rules {
			if len(r.RiskIDs) > 0 {
				linked++
			}
		}

		if err := store.WriteRules(out, rules); err != nil {
			return err
		}
		log.Info("risk linking complete",
			zap.Int("rules", len(rules)),
			zap.Int("linked", linked),
			zap.String("out", out))
		return nil
	},
}

func init() {
	linkCmd.Flags().String("rules", "", "rules file to enrich (defaults to <data-dir>/rules.yaml)")
	linkCmd.Flags().String("links", "", "rule-to-risk link table (defaults to <data-dir>/rule_risk_links.yaml)")
	linkCmd.Flags().String("out", "", "output file (defaults to the rules file)")

	rootCmd.AddCommand(linkCmd)
}
