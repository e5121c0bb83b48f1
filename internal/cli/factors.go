package cli

import (
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alphalever/backend/internal/domain/scoring"
)

func (a *app) factorsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Print the active factor configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.factors()
			if err != nil {
				return err
			}
			switch output {
			case outputJSON:
				return writeJSON(a.out, cfg)
			case "yaml":
				if a.cfg.FactorsFile == "" {
					_, err := a.out.Write(scoring.DefaultConfigYAML())
					return err
				}
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return err
				}
				return enc.Close()
			default:
				return a.printFactors(cfg)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	return cmd
}

func (a *app) printFactors(cfg *scoring.Config) error {
	total := cfg.TotalWeight()
	rows := make([][]string, 0, len(cfg.Factors))
	for _, f := range cfg.Factors {
		share := 0.0
		if total > 0 {
			share = f.Weight / total * 100
		}
		id := f.ID
		if f.ReadOnly {
			id += " (admin)"
		}
		rows = append(rows, []string{
			f.Section,
			id,
			string(f.Kind),
			strconv.FormatFloat(f.Weight, 'f', 3, 64),
			strconv.FormatFloat(share, 'f', 1, 64) + "%",
		})
	}
	return renderTable(a.out, []string{"Section", "Factor", "Kind", "Weight", "Share"}, rows)
}
