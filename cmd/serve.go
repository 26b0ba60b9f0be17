package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/phototagger/internal/handlers"
	"github.com/lehigh-university-libraries/phototagger/internal/metrics"
	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

func newServeCmd(verbose *bool) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the folder-browsing web interface",
		Long: `Starts the PhotoTagger web interface on the specified port.

The web interface lets you browse folders, preview images with their tag
state, and tag individual photos into each folder's tagged/ subdirectory.`,
		Example: `  # Start server on default port 5001
  phototagger serve

  # Start server on custom port
  phototagger serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*verbose)
			if err != nil {
				return err
			}
			if port == "" {
				port = fmt.Sprintf("%d", cfg.Server.Port)
			}

			handler := handlers.New(buildTagger(cfg), tagger.MarkerTagState{}, cfg)

			// Set up routes
			mux := http.NewServeMux()
			mux.Handle("/api/browse", metrics.Middleware("/api/browse", http.HandlerFunc(handler.HandleBrowse)))
			mux.Handle("/api/images", metrics.Middleware("/api/images", http.HandlerFunc(handler.HandleImages)))
			mux.Handle("/api/thumbnail/", metrics.Middleware("/api/thumbnail/", http.HandlerFunc(handler.HandleThumbnail)))
			mux.Handle("/api/tag", metrics.Middleware("/api/tag", http.HandlerFunc(handler.HandleTag)))
			mux.Handle("/metrics", metrics.Handler())
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:         addr,
				Handler:      mux,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("PhotoTagger interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config, 5001)")

	return cmd
}
