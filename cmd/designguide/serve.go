package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve an extraction output directory over HTTP",
		Long: `Serve exposes a report directory on a local HTTP server so the design
guide, screenshots, and extracted assets can be reviewed in a browser.

Examples:
  designguide serve ./output
  designguide serve ./output -a :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("dir", "d", "./output", "Report directory to serve")
	cmd.Flags().StringP("addr", "a", "127.0.0.1:8077", "Listen address")

	return cmd
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if len(args) == 1 {
		dir = args[0]
	}
	addr, _ := cmd.Flags().GetString("addr")
	logger := newLogger(cmd)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("report directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("report directory %s is not a directory", dir)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("serve: listening", "addr", addr, "dir", dir)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", dir, addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-cmd.Context().Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("serve: stopped")
		return nil
	}
}

// secureHeaders sets baseline security headers on every response. The CSP
// allows inline styles because the generated guide embeds extracted CSS,
// and data: images for screenshot previews.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}
