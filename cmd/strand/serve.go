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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/strand-dev/strand"
	"github.com/strand-dev/strand/app/routes"
	"github.com/strand-dev/strand/pkg/middleware"
)

func serveCmd() *cobra.Command {
	var (
		port int
		env  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the application server",
		Long: `Start the HTTP server.

In development mode the shell is re-read on every request and
connected browsers live-reload on file changes. In production
the shell and assets load once from the artifact store.

Examples:
  strand serve
  strand serve --port=8080
  strand serve --env=development`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, env)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from PORT, then 3000)")
	cmd.Flags().StringVarP(&env, "env", "e", "", "Environment: development or production (default from STRAND_ENV)")

	return cmd
}

// newRouter wraps the application in the process-edge middleware and
// mounts the operational endpoints.
func newRouter(app http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OTel())
	r.Use(middleware.Prometheus())

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/*", app)

	return r
}

func runServe(port int, env string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := strand.FromEnv()
	cfg.Logger = logger
	if port > 0 {
		cfg.Port = port
	}
	switch env {
	case "development", "dev":
		cfg.Env = strand.EnvDevelopment
	case "production", "prod":
		cfg.Env = strand.EnvProduction
	}

	app, err := strand.New(cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	routes.Register(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DevMode() {
		go func() {
			if err := app.StartDevReload(ctx); err != nil {
				logger.Error("dev reload stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: newRouter(app),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("listening", "addr", srv.Addr, "env", string(cfg.Env))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
