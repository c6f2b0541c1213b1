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

	_ "github.com/lib/pq"

	"lexscreen/internal/audit"
	httpapi "lexscreen/internal/http"
	"lexscreen/internal/platform/config"
	"lexscreen/internal/platform/httpserver"
	"lexscreen/internal/platform/logger"
	platformmetrics "lexscreen/internal/platform/metrics"
	"lexscreen/internal/platform/redis"
	regstore "lexscreen/internal/regulation/store"
	"lexscreen/internal/screening/controller"
	"lexscreen/internal/screening/executor"
	screeninghandler "lexscreen/internal/screening/handler"
	screeningmetrics "lexscreen/internal/screening/metrics"
	"lexscreen/internal/screening/strategy"
	"lexscreen/internal/screening/stream"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Regulation corpus: postgres when configured, otherwise the bundled
	// in-memory corpus.
	var regulations regstore.Store
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		regulations = regstore.NewPostgresStore(db)
		log.Info("regulation store: postgres")
	} else {
		regulations = regstore.NewInMemoryStore(regstore.SeedCorpus())
		log.Info("regulation store: in-memory seed corpus")
	}

	// Optional redis cache in front of the corpus.
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		regulations = regstore.NewCachedStore(regulations, redisClient, log)
		log.Info("regulation query cache enabled")
	}

	// Audit pipeline: bounded inbox drained by a background worker.
	auditStore := audit.NewInMemoryStore()
	auditInbox := make(chan audit.Event, 256)
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)
	go func() {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()
	auditPub := audit.NewPublisher(auditInbox, log)

	// Screening engine.
	screeningMetrics := screeningmetrics.New()
	exec := executor.New(regulations, log, screeningMetrics)
	ctrl := controller.New(exec, log)
	builder := strategy.NewBuilder(cfg.Screening.EnhancedThreshold, cfg.Screening.ComprehensiveThreshold)
	coordinator := stream.New(builder, ctrl, auditPub, screeningMetrics, log,
		stream.WithMaxConcurrentRuns(cfg.Screening.MaxConcurrentRuns),
		stream.WithSubscriberBuffer(cfg.Screening.SubscriberBuffer),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:      log,
		Metrics:     platformmetrics.New(),
		Screening:   screeninghandler.New(coordinator, auditPub, log),
		AuditReader: audit.NewReader(auditStore),
		Health: func() error {
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("lexscreen listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
