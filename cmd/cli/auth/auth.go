package auth

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/crucial707/newsdesk/cmd/cli/client"
	"github.com/crucial707/newsdesk/cmd/cli/config"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/spf13/cobra"
)

// InitAuth registers register, login, logout and whoami on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prompt(cmd, &username, &password); err != nil {
				return err
			}
			body := map[string]any{"username": username, "password": password}
			if firstName != "" {
				body["firstName"] = firstName
			}
			if lastName != "" {
				body["lastName"] = lastName
			}
			user, err := authenticate("/api/register", body)
			if err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s.\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prompt(cmd, &username, &password); err != nil {
				return err
			}
			user, err := authenticate("/api/login", map[string]any{"username": username, "password": password})
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			role := "reader"
			if user.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s).\n", user.Username, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and remove it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New()
			if err != nil {
				return err
			}
			// The local copy goes even when the server cannot be reached.
			if err := client.Check(c.R().Post("/api/logout")); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: server logout failed:", err)
			}
			had, err := config.ClearSession()
			if err != nil {
				return err
			}
			if !had {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// ==========================
// Who Am I
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New()
			if err != nil {
				return err
			}
			var user *models.User
			if err := client.Check(c.R().SetResult(&user).Get("/api/user")); err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, admin %t)\n", user.Username, user.ID, user.IsAdmin)
			return nil
		},
	}
}

func authenticate(path string, body map[string]any) (*models.User, error) {
	c, err := client.New()
	if err != nil {
		return nil, err
	}
	var user models.User
	resp, err := c.R().SetBody(body).SetResult(&user).Post(path)
	if err := client.Check(resp, err); err != nil {
		return nil, err
	}
	sid, ok := client.SessionCookie(resp)
	if !ok {
		return nil, fmt.Errorf("no session cookie returned")
	}
	if err := config.SaveSession(sid); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &user, nil
}

// prompt asks for whatever credentials were not given as flags.
func prompt(cmd *cobra.Command, username, password *string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	if *username == "" {
		v, err := ask(in, out, "Username: ")
		if err != nil {
			return err
		}
		*username = v
	}
	if *password == "" {
		v, err := ask(in, out, "Password: ")
		if err != nil {
			return err
		}
		*password = v
	}
	if *username == "" || *password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

func ask(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
