package router

import (
	"context"
	"net/http"

	_ "livestock-records/docs" // registra la doc de swagger
	mem "livestock-records/internal/adapters/storage/memory"
	"livestock-records/internal/domain/records"
	"livestock-records/internal/middleware"
	"livestock-records/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si es nil se usa un store in-memory (modo dev / tests).
	Store *records.Store

	Logger logger.Logger

	// Opcional: si viene, se monta en /metrics.
	MetricsHandler http.Handler
}

// @title Livestock Records API
// @version 1.0
// @description Registro de animales, tratamientos, alimentación y servicios de un establecimiento ganadero.
// @BasePath /
func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	store := opts.Store
	if store == nil {
		// memory.Load nunca falla, Open tampoco
		store, _ = records.Open(context.Background(), mem.NewStorage(), records.WithLogger(log))
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	records.RegisterRoutes(r, store, log)

	return r
}
