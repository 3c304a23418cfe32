package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foodiespos/terminal/internal/config"
	"github.com/foodiespos/terminal/internal/modules/auth"
	"github.com/foodiespos/terminal/internal/modules/catalog"
	"github.com/foodiespos/terminal/internal/modules/order"
	"github.com/foodiespos/terminal/internal/modules/pos"
	"github.com/foodiespos/terminal/internal/modules/seating"
	"github.com/foodiespos/terminal/internal/remote"
	"github.com/foodiespos/terminal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if cfg.App.Env == "development" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", "pos-terminal").Logger()

	log.Info().Str("remote", cfg.Remote.BaseURL).Msg("POS terminal starting")

	// ── Remote API & session ────────────────────────────────
	session := auth.NewSession()
	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, session)
	authService := auth.NewService(session, client, cfg.Auth.OverridePINHash)

	// ── Catalog ─────────────────────────────────────────────
	catalogService := catalog.NewService(client)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
	if err := catalogService.Load(loadCtx); err != nil {
		// The UI can trigger a reload once the remote is reachable.
		log.Warn().Err(err).Msg("Initial catalog load failed")
	}
	cancelLoad()

	// ── Stores ──────────────────────────────────────────────
	floors, err := seating.LoadLayout(cfg.Seating.LayoutPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Seating.LayoutPath).Msg("Failed to load seating layout")
	}
	seatingStore := seating.NewStore(floors)
	orderStore := order.NewStore()

	// ── Session orchestration ───────────────────────────────
	posService := pos.NewService(orderStore, seatingStore, catalogService, session, client)

	syncWorker := worker.NewTableSyncWorker(posService, cfg.Seating.SyncInterval, log.Logger)
	syncWorker.Start()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	auth.NewHandler(authService, session).RegisterRoutes(router)
	catalog.NewHandler(catalogService).RegisterRoutes(router)
	order.NewHandler(orderStore, catalogService).RegisterRoutes(router)
	seating.NewHandler(seatingStore).RegisterRoutes(router)
	pos.NewHandler(posService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.App.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	syncWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Terminal stopped")
}
