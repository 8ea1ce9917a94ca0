package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	server "tripdesk/internal/adapters/http_server"
	"tripdesk/internal/adapters/observability"
	"tripdesk/internal/domain"
	"tripdesk/internal/shared"
	"tripdesk/internal/storage/memory"
	mysqlrepo "tripdesk/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	addr := pflag.String("addr", cfg.HTTPAddr, "listen address")
	dsn := pflag.String("mysql-dsn", cfg.MySQLDSN, "store itineraries in MySQL instead of memory")
	seed := pflag.Bool("seed", true, "load the demo catalog and accounts")
	timeout := pflag.Duration("request-timeout", server.DefaultRequestTimeout, "per-request deadline")
	pflag.Parse()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observability.Serve(cfg.MetricsAddr)

	// itinerary store
	var store domain.ItineraryStore = memory.New()
	if *dsn != "" {
		db, err := mysqlrepo.Open(ctx, *dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connect failed")
		}
		defer db.Close()
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("mysql migrate failed")
		}
		store = mysqlrepo.New(db)
		log.Info().Msg("database connection ok")
	}

	cat := memory.NewCatalog()
	if *seed {
		if err := server.Seed(ctx, cat); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		log.Info().Str("password", server.DemoPassword).Msg("demo accounts: admin@, ana@, rui@, casa@tripdesk.dev")
	}

	// http
	srv := server.New(*timeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:  cat,
		Store:    store,
		Tokens:   server.NewTokens(cfg.JWTSecret, cfg.SessionTTL),
		RideFare: cfg.RideFare,
	})

	httpSrv := &http.Server{Addr: *addr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdown)
	}()

	log.Info().Str("addr", *addr).Msg("stub API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("stub API stopped")
}
