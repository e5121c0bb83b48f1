package cli

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alphalever/backend/internal/domain/leaderboard"
)

func (a *app) leaderboardCmd() *cobra.Command {
	var (
		limit  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank users by score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative, got %d", limit)
			}
			sb, closeDB, err := a.openScoreboard()
			if err != nil {
				return err
			}
			defer closeDB()

			entries, err := sb.Leaderboard(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.writeLeaderboard(entries, output)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Number of entries to show (0 = all)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or csv")
	return cmd
}

func (a *app) writeLeaderboard(entries []leaderboard.Entry, output string) error {
	switch output {
	case outputJSON:
		type row struct {
			Rank  int    `json:"rank"`
			Email string `json:"email"`
			Name  string `json:"name"`
			Score int    `json:"score"`
			Tier  string `json:"tier"`
		}
		out := make([]row, len(entries))
		for i, e := range entries {
			out[i] = row{e.Rank, e.Email, e.Name, e.Score, e.Tier.Name}
		}
		return writeJSON(a.out, out)

	case outputCSV:
		w := csv.NewWriter(a.out)
		if err := w.Write([]string{"rank", "email", "name", "score", "tier"}); err != nil {
			return err
		}
		for _, e := range entries {
			if err := w.Write([]string{strconv.Itoa(e.Rank), e.Email, e.Name, strconv.Itoa(e.Score), e.Tier.Name}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()

	case outputTable:
		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{strconv.Itoa(e.Rank), e.Name, strconv.Itoa(e.Score), colorTier(e.Tier)}
		}
		if err := renderTable(a.out, []string{"Rank", "Name", "Score", "Tier"}, rows); err != nil {
			return err
		}
		_, err := fmt.Fprintf(a.out, "Showing %d users\n", len(entries))
		return err

	default:
		return fmt.Errorf("unknown output format %q (want table, json or csv)", output)
	}
}
