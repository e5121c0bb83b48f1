package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alphalever/backend/internal/store"
)

func (a *app) migrateCmd() *cobra.Command {
	var version int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema",
		Long:  "Migrate the database schema to the latest version, or to --version N (0 rolls every migration back).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.Open(a.cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			got, err := db.Migrate(version)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Database %s is at schema version %d\n", a.cfg.DatabasePath, got)
			return err
		},
	}
	cmd.Flags().IntVar(&version, "version", store.LatestVersion, "Target schema version (-1 = latest)")
	return cmd
}
