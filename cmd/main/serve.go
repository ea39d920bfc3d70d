package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zerosugar/explorer/internal/container"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := container.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		log.Info("Starting zero-sugar explorer...")
		if err := app.Run(ctx); err != nil {
			return fmt.Errorf("server exited with error: %w", err)
		}

		log.Info("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
