package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alphalever/backend/internal/export"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		format     string
		outputFile string
		compress   bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every user with score, tier and answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == export.FormatParquet && outputFile == "" {
				return fmt.Errorf("parquet export needs --output-file")
			}

			sb, closeDB, err := a.openScoreboard()
			if err != nil {
				return err
			}
			defer closeDB()

			users, err := sb.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			table := export.NewTable(sb.Config(), users)

			var w io.Writer = a.out
			if outputFile != "" {
				file, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() { _ = file.Close() }()
				w = file
			}
			if err := export.Write(w, f, table, compress); err != nil {
				return err
			}
			if outputFile != "" {
				_, err = fmt.Fprintf(a.out, "Exported %d users to %s\n", len(table.Rows), outputFile)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "Export format: csv, json or parquet")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&compress, "gzip", false, "gzip-compress the output")
	return cmd
}
