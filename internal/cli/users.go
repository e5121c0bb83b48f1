package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registered users",
	}
	cmd.AddCommand(a.usersAddCmd(), a.usersListCmd(), a.usersRmCmd())
	return cmd
}

func (a *app) usersAddCmd() *cobra.Command {
	var (
		name  string
		admin bool
	)
	cmd := &cobra.Command{
		Use:   "add EMAIL",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, closeDB, err := a.openScoreboard()
			if err != nil {
				return err
			}
			defer closeDB()

			code := ""
			if admin {
				code = a.cfg.AdminCode
			}
			su, err := sb.Register(cmd.Context(), args[0], name, code)
			if err != nil {
				return fmt.Errorf("failed to register %s: %w", args[0], err)
			}
			_, err = fmt.Fprintf(a.out, "Registered %s (id %s, admin %t)\n", su.User.Email, su.User.ID, su.User.IsAdmin)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().BoolVar(&admin, "admin", false, "Register as admin using the configured admin code")
	return cmd
}

func (a *app) usersListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sb, closeDB, err := a.openScoreboard()
			if err != nil {
				return err
			}
			defer closeDB()

			users, err := sb.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			if output == outputJSON {
				type row struct {
					Email     string    `json:"email"`
					Name      string    `json:"name"`
					IsAdmin   bool      `json:"is_admin"`
					CreatedAt time.Time `json:"created_at"`
					Score     int       `json:"score"`
					Tier      string    `json:"tier"`
				}
				out := make([]row, len(users))
				for i, su := range users {
					out[i] = row{su.User.Email, su.User.Name, su.User.IsAdmin, su.User.CreatedAt, su.Result.Score, su.Result.Tier.Name}
				}
				return writeJSON(a.out, out)
			}

			rows := make([][]string, len(users))
			for i, su := range users {
				admin := ""
				if su.User.IsAdmin {
					admin = "yes"
				}
				rows[i] = []string{
					su.User.Email,
					su.User.Name,
					admin,
					su.User.CreatedAt.Local().Format(time.DateTime),
					strconv.Itoa(su.Result.Score),
					colorTier(su.Result.Tier),
				}
			}
			return renderTable(a.out, []string{"Email", "Name", "Admin", "Registered", "Score", "Tier"}, rows)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")
	return cmd
}

func (a *app) usersRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm EMAIL",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, closeDB, err := a.openScoreboard()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := sb.DeleteUser(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete %s: %w", args[0], err)
			}
			_, err = fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return err
		},
	}
}
