package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the auth, resume and admin REST endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply pending database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	appConfig, err := config.NewAppConfig()
	if err != nil {
		return err
	}

	if serveMigrate {
		if err := db.Migrate(appConfig.DatabaseURL); err != nil {
			return err
		}
	}

	srv, err := server.New(cmd.Context(), server.Config{
		Port:        servePort,
		DatabaseURL: appConfig.DatabaseURL,
		CORSOrigin:  appConfig.CORSOrigin,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info().Int("port", servePort).Str("cors_origin", appConfig.CORSOrigin).Msg("resume builder ready")
	return srv.Start()
}
