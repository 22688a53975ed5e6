// Package main provides the entry point for the Resume Builder API server and
// its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Resume Builder HTTP API Server",
	Long:  "Resume Builder stores user resumes and renders them with one of several visual templates via REST API.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logConfig, err := config.NewLogConfig()
		if err != nil {
			return err
		}
		logging.Setup(logConfig.Level, logConfig.Pretty)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
