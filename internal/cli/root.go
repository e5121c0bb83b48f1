// Package cli implements the alphalever command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/infrastructure/config"
	"github.com/alphalever/backend/internal/service"
	"github.com/alphalever/backend/internal/store"
)

// app carries state shared by every subcommand.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
}

// NewRootCmd builds the command tree. Config comes from the same sources as
// the server (.env, ALPHA_* variables, alphalever.yaml) with flags on top.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New(), in: in, out: out}

	root := &cobra.Command{
		Use:           "alphalever",
		Short:         "Score, rank and export Alpha Lever answers.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := slog.LevelWarn
			if a.v.GetBool("verbose") {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to config file (default ./alphalever.yaml)")
	flags.String("database-path", "", "SQLite database file")
	flags.String("factors-file", "", "Factor configuration file (YAML or JSON); empty uses the built-in factors")
	flags.String("admin-code", "", "Admin code for admin registration and assessments")
	flags.Int("workers", 0, "Number of concurrent scoring workers")
	flags.BoolP("verbose", "v", false, "Log debug output to stderr")
	for key, flag := range map[string]string{
		"config":        "config",
		"database_path": "database-path",
		"factors_file":  "factors-file",
		"admin_code":    "admin-code",
		"workers":       "workers",
		"verbose":       "verbose",
	} {
		// Bound flags only override other sources when set explicitly.
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.scoreCmd(),
		a.surveyCmd(),
		a.usersCmd(),
		a.leaderboardCmd(),
		a.exportCmd(),
		a.migrateCmd(),
		a.factorsCmd(),
	)
	return root
}

// Execute runs the CLI against the process's standard streams.
func Execute(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) error {
	root := NewRootCmd(in, out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) factors() (*scoring.Config, error) {
	return scoring.LoadConfig(a.cfg.FactorsFile)
}

// openScoreboard opens the database (migrating it) and wires a Scoreboard.
// The caller must invoke the returned close function.
func (a *app) openScoreboard() (*service.Scoreboard, func(), error) {
	factors, err := a.factors()
	if err != nil {
		return nil, nil, err
	}
	db, err := store.NewSQLite(a.cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	sb := service.NewScoreboard(db, factors, service.Options{
		AdminCode: a.cfg.AdminCode,
		Workers:   a.cfg.Workers,
	}, a.logger)
	return sb, func() { _ = db.Close() }, nil
}
