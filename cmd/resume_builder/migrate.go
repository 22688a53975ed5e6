package main

import (
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply every pending SQL migration embedded in the binary to DATABASE_URL.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		appConfig, err := config.NewAppConfig()
		if err != nil {
			return err
		}
		return db.Migrate(appConfig.DatabaseURL)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
