package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
)

var (
	setAdminEmail    string
	setAdminName     string
	setAdminPassword string
)

var setAdminCmd = &cobra.Command{
	Use:   "set-admin",
	Short: "Grant the admin role to a user",
	Long: `Promote the user with the given email to admin. When no such user exists one
is created, with --password if given; without a password the account can only
sign in with Google.`,
	RunE: runSetAdmin,
}

func init() {
	setAdminCmd.Flags().StringVarP(&setAdminEmail, "email", "e", "", "Email of the user to promote (required)")
	setAdminCmd.Flags().StringVarP(&setAdminName, "name", "n", "", "Name for a newly created user (default \"Admin User\")")
	setAdminCmd.Flags().StringVarP(&setAdminPassword, "password", "p", "", "Password for a newly created user")
	_ = setAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(setAdminCmd)
}

func runSetAdmin(cmd *cobra.Command, _ []string) error {
	appConfig, err := config.NewAppConfig()
	if err != nil {
		return err
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	database, err := db.Connect(cmd.Context(), appConfig.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	users := server.NewUserService(database, passwordConfig, nil, nil)
	user, created, err := users.PromoteAdmin(cmd.Context(), setAdminEmail, setAdminName, setAdminPassword)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if created {
		_, _ = fmt.Fprintf(out, "Created admin user %s (%s)\n", user.Email, user.ID)
		if !user.PasswordSet {
			_, _ = fmt.Fprintln(out, "No password set: the account can only sign in with Google.")
		}
		return nil
	}
	_, _ = fmt.Fprintf(out, "Promoted %s (%s) to admin\n", user.Email, user.ID)
	_, _ = fmt.Fprintln(out, "Existing sessions keep their old role until the user signs in again.")
	return nil
}
