package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alphalever/backend/internal/domain/scoring"
)

func (a *app) scoreCmd() *cobra.Command {
	var (
		explain bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Score an answers file (JSON or YAML); reads stdin when no file is given",
		Long: `Score an answers file (JSON or YAML); reads stdin when no file is given.

The file maps factor ids to answers. Times such as mile_time are written as
minutes.seconds: "6.30" and 6.30 both mean 6 minutes 30 seconds. A value
without a dot is read as seconds.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.factors()
			if err != nil {
				return err
			}
			answers, err := readAnswers(cfg, a.in, args)
			if err != nil {
				return err
			}
			res := scoring.Compute(cfg, answers)
			if output == outputJSON {
				if !explain {
					res.Breakdown = nil
				}
				return writeJSON(a.out, res)
			}
			return a.printResult(cfg, res, explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Print each factor's percentage and contribution")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")
	return cmd
}

// readAnswers decodes an answer bag from the named file or r. YAML is a
// superset of JSON, so one decoder handles both. Unquoted numbers given for
// duration factors keep their source text, so mile_time: 6.30 reads as
// "6.30" (6 min 30 s) rather than 6.3 seconds.
func readAnswers(cfg *scoring.Config, r io.Reader, args []string) (scoring.Answers, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	answers := scoring.Answers{}
	if len(doc.Content) == 0 {
		return answers, nil
	}
	root := doc.Content[0]
	if err := root.Decode(&answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		f, ok := cfg.Factor(key.Value)
		if !ok || f.Format != scoring.FormatDuration || val.Kind != yaml.ScalarNode {
			continue
		}
		if val.Tag == "!!float" || val.Tag == "!!int" {
			answers[key.Value] = val.Value
		}
	}
	return answers, nil
}

func (a *app) printResult(cfg *scoring.Config, res scoring.Result, explain bool) error {
	if explain {
		rows := make([][]string, 0, len(res.Breakdown))
		for _, fs := range res.Breakdown {
			label := fs.ID
			if f, ok := cfg.Factor(fs.ID); ok && f.Label != "" {
				label = f.Label
			}
			answered := ""
			if fs.Answered {
				answered = "yes"
			}
			rows = append(rows, []string{
				label,
				answered,
				strconv.FormatFloat(fs.Percentage, 'f', 1, 64),
				strconv.FormatFloat(fs.Weight, 'f', 3, 64),
				strconv.FormatFloat(fs.Contribution, 'f', 1, 64),
			})
		}
		if err := renderTable(a.out, []string{"Factor", "Answered", "Percent", "Weight", "Points"}, rows); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(a.out, "Score: %d / %d  Tier: %s (%s)\n",
		res.Score, scoring.MaxScore, colorTier(res.Tier), res.Tier.Description)
	return err
}
