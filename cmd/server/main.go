package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"argus/internal/agents"
	"argus/internal/audit"
	auditkafka "argus/internal/audit/kafka"
	"argus/internal/investigation/handler"
	"argus/internal/investigation/metrics"
	"argus/internal/investigation/service"
	"argus/internal/investigation/store"
	"argus/internal/platform/config"
	"argus/internal/platform/httpserver"
	"argus/internal/platform/logger"
	platformredis "argus/internal/platform/redis"
	"argus/internal/synthesis"
	httptransport "argus/internal/transport/http"
	"argus/pkg/platform/middleware/auth"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	// Evidence analyzer collaborator: remote service when configured,
	// otherwise the deferring domains stay unscored.
	var analyzer agents.EvidenceAnalyzer = agents.NoopAnalyzer{}
	if cfg.AnalyzerURL != "" {
		analyzer = agents.NewHTTPAnalyzer(cfg.AnalyzerURL, cfg.AnalyzerTimeout)
	}

	// Store of record: postgres when configured, memory otherwise.
	var invStore store.Store = store.NewMemoryStore()
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		invStore = store.NewPostgresStore(db)
	}
	if rdb, err := platformredis.New(cfg.Redis); err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	} else if rdb != nil {
		defer rdb.Close()
		invStore = store.NewCachedStore(invStore, rdb.Client, cfg.Redis.TTL)
	}

	// Chain-of-thought trail: memory store, optionally mirrored to Kafka.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trail := audit.NewMemoryStore()
	var auditStore audit.Store = trail
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := auditkafka.NewSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("connect kafka audit sink", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		auditStore = audit.NewTeeStore(trail, sink)
	}
	publisher := audit.NewPublisher(cfg.AuditBuffer, log)
	go func() {
		_ = audit.NewWorker(auditStore, publisher.Inbox(), log).Run(ctx)
	}()

	svc, err := service.New(
		agents.All(analyzer),
		synthesis.New(log),
		invStore,
		log,
		service.WithAudit(publisher),
		service.WithMetrics(metrics.New()),
		service.WithTimeout(cfg.InvestigationTimeout),
		service.WithFailureThreshold(cfg.FailureThreshold),
	)
	if err != nil {
		log.Error("build investigation service", "error", err)
		os.Exit(1)
	}

	h := handler.New(svc, invStore, trail, log)
	router := httptransport.NewRouter(h, auth.Config{
		JWTSigningKey: []byte(cfg.JWTSigningKey),
		APIKeyHash:    []byte(cfg.APIKeyHash),
	}, log)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting argus", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
