package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wbunit/web/internal/config"
	"github.com/wbunit/web/internal/httpserver"
	"github.com/wbunit/web/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", "", "listen address, overrides WEB_HTTP_ADDR and PORT")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			fmt.Fprintf(os.Stderr, "invalid configuration (%v): %v\n", invalid.Fields(), err)
		} else {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		}
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	baseLogger, err := observability.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	srv, err := httpserver.New(cfg, httpserver.Dependencies{Logger: logger})
	if err != nil {
		logger.Fatal("failed to build http server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	logger.Info("web server listening",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.Site.Environment),
		zap.String("default_locale", cfg.Site.DefaultLocale),
		zap.Bool("h2c", cfg.Server.EnableH2C),
		zap.Bool("calculator_proxy", cfg.Site.CalculatorUpstream != ""),
	)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			logger.Error("http server failed", zap.Error(err))
			stop()
			_ = baseLogger.Sync()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		_ = baseLogger.Sync()
		os.Exit(1)
	}
}
