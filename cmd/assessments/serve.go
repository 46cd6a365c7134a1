package main

import (
	"fmt"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/mail"
	"github.com/assessmentslol/assessments/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the companies, submissions, statistics, profile and lead endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}

	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	store, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}

	srv, err := server.New(store, server.Options{
		Port:              port,
		JWT:               jwtConfig,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Mailer:            mail.NewWelcomer(mail.NewSender(cfg.Mailgun)),
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
