package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clanhall/internal/clan/events"
	"clanhall/internal/clan/handler"
	"clanhall/internal/clan/invite"
	clanmetrics "clanhall/internal/clan/metrics"
	"clanhall/internal/clan/presence"
	"clanhall/internal/clan/registry"
	"clanhall/internal/clan/relation"
	"clanhall/internal/clan/sanction"
	"clanhall/internal/clan/service"
	"clanhall/internal/clan/store"
	"clanhall/internal/identity"
	"clanhall/internal/maintenance"
	"clanhall/internal/platform/config"
	"clanhall/internal/platform/httpserver"
	"clanhall/internal/platform/logger"
	"clanhall/internal/platform/middleware"
	"clanhall/internal/platform/redis"
	"clanhall/internal/ranking"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error("database unreachable", "err", err)
		os.Exit(1)
	}

	gw := store.NewPostgres(db)
	if err := gw.EnsureSchema(ctx); err != nil {
		log.Error("apply schema", "err", err)
		os.Exit(1)
	}

	// Caches: registry and index first, relations after both, so every
	// membership and relation resolves against a materialized clan.
	reg := registry.NewRegistry()
	idx := registry.NewMembershipIndex()
	graph := relation.NewGraph(gw)
	if err := registry.Bootstrap(ctx, gw, reg, idx, graph, log); err != nil {
		log.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaEventTopic, log)
		if err != nil {
			log.Error("kafka connect failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafka.Close(closeCtx); err != nil {
				log.Error("kafka close failed", "err", err)
			}
		}()
		publisher = kafka
	}

	metrics := clanmetrics.New()
	pres := presence.NewTracker(idx)

	var lb *ranking.Leaderboard
	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		lb = ranking.New(redisClient, reg, log)
		if err := lb.Rebuild(ctx); err != nil {
			log.Error("leaderboard rebuild failed", "err", err)
			os.Exit(1)
		}
	}

	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithPublisher(publisher),
		service.WithInitialRankingPoints(cfg.InitialRankingPoints),
	}
	if lb != nil {
		svcOpts = append(svcOpts, service.WithRanking(ranking.NewGuardedSink(lb, log)))
	}
	svc := service.New(gw, reg, idx, graph, pres, svcOpts...)

	engine := sanction.New(gw, reg, pres, cfg.Sanctions,
		sanction.WithLogger(log),
		sanction.WithMetrics(metrics),
		sanction.WithPublisher(publisher),
	)

	invites := invite.NewTracker(svc, pres, log, cfg.InviteTTL)
	go invites.Run(ctx)

	cleanup := maintenance.New(gw, svc, idx, pres, cfg.Cleanup, log)
	go cleanup.Run(ctx)

	resolver := identity.NewCacheResolver(idx, pres)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestMeta)
	router.Use(middleware.PlayerIdentity)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	var leaderboard handler.Leaderboard
	if lb != nil {
		leaderboard = lb
	}
	h := handler.New(svc, reg, idx, graph, invites, engine, leaderboard, resolver, log)
	h.Register(router)

	admin := handler.NewAdmin(engine, reg, log)
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(cfg.JWTSigningKey, log))
		admin.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("clanhall listening", "addr", cfg.Addr,
			"clans", reg.Count(), "members", idx.Count())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
}
