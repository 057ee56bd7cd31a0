package admin

import (
	"context"
	"fmt"

	"github.com/crucial707/newsdesk/internal/auth"
	"github.com/crucial707/newsdesk/internal/config"
	"github.com/crucial707/newsdesk/internal/db"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/spf13/cobra"
)

// InitAdmin registers the commands that work on the database directly rather than through the API.
// They read the same DB_* settings (and .env) as the server.
func InitAdmin(rootCmd *cobra.Command) {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Database maintenance (runs against DB_* directly)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
	}
	adminCmd.AddCommand(migrateCmd(), bootstrapCmd())
	rootCmd.AddCommand(adminCmd)
}

// ==========================
// Migrate
// ==========================
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := db.Migrate(cfg.DB().URL()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

// ==========================
// Bootstrap Admin
// ==========================
func bootstrapCmd() *cobra.Command {
	var username, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create or promote the administrator account",
		Long: `Creates the administrator if it does not exist, or grants admin to an existing account.
An existing account keeps its password. Defaults come from ADMIN_USERNAME and ADMIN_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if username == "" {
				username = cfg.AdminUsername
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			if username == "" || password == "" {
				return fmt.Errorf("admin username and password are required (flags or ADMIN_USERNAME/ADMIN_PASSWORD)")
			}

			if err := db.Migrate(cfg.DB().URL()); err != nil {
				return err
			}
			conn, err := db.Connect(cfg.DB())
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer conn.Close()

			user, err := auth.EnsureAdmin(context.Background(), repo.NewPostgresStore(conn), auth.AdminAccount{
				Username:  username,
				Password:  password,
				FirstName: firstName,
				LastName:  lastName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) is an administrator.\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (default $ADMIN_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password for a new admin (default $ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name for a new admin")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name for a new admin")
	return cmd
}
