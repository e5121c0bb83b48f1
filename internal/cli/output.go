package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/alphalever/backend/internal/domain/scoring"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

var (
	apexColor      = color.New(color.FgMagenta, color.Bold)
	alphaColor     = color.New(color.FgRed, color.Bold)
	contenderColor = color.New(color.FgYellow)
	risingColor    = color.New(color.FgGreen)
	startingColor  = color.New(color.FgHiBlack)
)

// colorTier renders a tier name in its band's color. fatih/color disables
// itself when stdout is not a terminal or NO_COLOR is set.
func colorTier(t scoring.Tier) string {
	var c *color.Color
	switch {
	case t.Threshold >= 900:
		c = apexColor
	case t.Threshold >= 750:
		c = alphaColor
	case t.Threshold >= 500:
		c = contenderColor
	case t.Threshold >= 250:
		c = risingColor
	default:
		c = startingColor
	}
	return c.Sprint(t.Name)
}

// renderTable writes rows under headers, numeric columns right-aligned.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error writing JSON output: %w", err)
	}
	return nil
}
