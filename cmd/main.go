package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/suteetoe/hrms/internal/handler"
	mid "github.com/suteetoe/hrms/internal/middleware"
	"github.com/suteetoe/hrms/internal/seed"
	"github.com/suteetoe/hrms/pkg/logger"
	"github.com/suteetoe/hrms/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "HR management backend: departments, employees, attendance",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newSeedCmd(), newImportCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			return serve(cmd.Context(), a)
		},
	}
}

func newEcho(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	httpMetrics := metrics.NewHTTPMetrics(a.registry, a.cfg.Metrics.Prefix)

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware())
	e.Use(httpMetrics.Middleware())
	e.Use(logger.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: a.cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))

	e.GET("/metrics", echo.WrapHandler(metrics.Handler(a.registry)))

	h := handler.New(a.store, a.departments, a.employees, a.attendance, a.audit, a.imports, handler.Options{
		ImportMaxBytes: a.cfg.Import.MaxBytes,
		EnableSeed:     a.cfg.EnableSeed,
	})
	h.Register(e)
	return e
}

func serve(ctx context.Context, a *app) error {
	e := newEcho(a)
	addr := ":" + a.cfg.Server.Port

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.log.Error("Server error", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server", zap.Duration("timeout", a.cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	a.log.Info("Server stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// bootstrap migrates
			a, err := bootstrap()
			if err != nil {
				return err
			}
			a.close()
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample departments, employees and attendance into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			result, err := seed.Run(cmd.Context(), a.store, a.audit)
			if err != nil {
				return err
			}
			if result.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "Employees already exist; skipping seed.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d departments, %d employees, %d attendance records.\n",
				result.Departments, result.Employees, result.Attendance)
			return nil
		},
	}
}
