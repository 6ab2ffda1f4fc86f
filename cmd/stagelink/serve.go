package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stagelink/stagelink"
	"github.com/stagelink/stagelink/internal/config"
	"github.com/stagelink/stagelink/internal/logging"
	"github.com/stagelink/stagelink/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the page and preview server",
	Long:  `Starts the HTTP server that renders the page, accepts snapshot saves, and resolves preview sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// Flags override file settings.
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}
		if page, _ := cmd.Flags().GetString("page"); page != "" {
			cfg.PageFile = page
		}
		if secret := os.Getenv("STAGELINK_SESSION_SECRET"); secret != "" {
			cfg.SessionSecret = secret
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger := logging.New(slog.LevelInfo)

		blobs, err := newBlobStore(cfg)
		if err != nil {
			return err
		}

		appOpts := []stagelink.Option{
			stagelink.WithBlobStore(blobs),
			stagelink.WithLogger(logger),
			stagelink.WithMetrics(observability.NewMetrics()),
			stagelink.WithBaseURL(cfg.BaseURL),
		}
		if cfg.SessionMaxAge > 0 {
			appOpts = append(appOpts, stagelink.WithSessionMaxAge(cfg.SessionMaxAge.Std()))
		}
		if cfg.StoreTimeout > 0 {
			appOpts = append(appOpts, stagelink.WithStoreTimeout(cfg.StoreTimeout.Std()))
		}

		app, err := stagelink.New(cfg.PageFile, []byte(cfg.SessionSecret), appOpts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: app.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting stagelink server", "addr", srv.Addr, "page", cfg.PageFile, "store", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			logger.Info("server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (overrides config)")
	serveCmd.Flags().StringP("page", "p", "", "Path to the page file (overrides config)")
}
