package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bookstore/internal/httpserver"
	"github.com/Skotchmaster/bookstore/internal/logging"
	loggingmw "github.com/Skotchmaster/bookstore/internal/middleware/logging"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
)

const (
	sessionIdle   = 24 * time.Hour
	sweepInterval = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, a, logger)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger,
		loggingmw.SkipPrefixes("/health"),
		loggingmw.WithAttrs(sessionmw.LogAttrs),
	))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Catalog: &httpserver.CatalogHTTP{Store: a.books, Search: a.searcher},
		Admin:   &httpserver.AdminHTTP{Books: a.books, Users: a.users, Orders: a.orders},
		Session: sessionmw.Config{
			Manager:      a.manager,
			Secret:       sessionSecret(cfg, logger),
			SecureCookie: cfg.SecureCookies,
		},
		CSRF:     cfg.CSRFEnabled,
		ChatRate: cfg.ChatRatePerSec,
		Ready:    a.ready,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	logger.Info("shutdown_complete")
	return nil
}

func sweepSessions(ctx context.Context, a *app, logger *slog.Logger) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.manager.Sweep(sessionIdle); n > 0 {
				logger.Info("sessions_swept", "count", n, "remaining", a.manager.Len())
			}
		}
	}
}
