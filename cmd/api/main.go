package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livestock-records/internal/adapters/storage"
	"livestock-records/internal/domain/records"
	"livestock-records/internal/platform/config"
	"livestock-records/internal/platform/logger"
	"livestock-records/internal/platform/metrics"
	"livestock-records/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("config error", logger.Fields{"error": err})
		os.Exit(1)
	}
	log := cfg.Logger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", logger.Fields{"error": err})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logger.Logger) error {
	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("storage close failed", logger.Fields{"error": err})
		}
	}()

	reg := metrics.NewRegistry()
	store, err := records.Open(ctx, backend,
		records.WithLogger(log.With(logger.Fields{"component": "records"})),
		records.WithObserver(metrics.NewRecorder(reg)),
	)
	if err != nil {
		return err
	}
	metrics.RegisterCollectionGauges(reg, store)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: router.NewRouter(router.Options{
			Store:          store,
			Logger:         log,
			MetricsHandler: metrics.Handler(reg),
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", logger.Fields{"addr": cfg.Addr, "storage": string(cfg.Storage.Driver)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
