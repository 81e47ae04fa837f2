package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/platform/config"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/platform/httpserver"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/platform/logger"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/platform/middleware"
	platformredis "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/platform/redis"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/cache"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/engine"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/handler"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/metrics"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/modules"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/processor"
	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
	auditpublisher "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit/publisher"
	auditmemory "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit/store/memory"
	auditpostgres "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit/store/postgres"
)

// main wires platform dependencies to the verification engine and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Results cache: Redis when configured, process-local otherwise.
	var resultsCache cache.Cache
	if cfg.Engine.EnableCaching {
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("redis connect failed", "error", err)
			os.Exit(1)
		}
		if redisClient != nil {
			defer redisClient.Close()
			resultsCache = cache.NewRedis(redisClient.Client, cfg.Engine.CacheTTL())
			log.Info("results cache: redis", "url", cfg.Redis.URL)
		} else {
			memoryCache := cache.NewMemory(cfg.Engine.CacheTTL(), cfg.Engine.CacheMaxSize)
			go memoryCache.Run(rootCtx, cache.DefaultSweepInterval)
			resultsCache = memoryCache
			log.Info("results cache: in-process memory")
		}
	}

	// Audit: postgres when configured, memory otherwise; kafka publisher tees
	// events to streaming consumers when brokers are present.
	var auditStore audit.Store
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("pgx", cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgStore := auditpostgres.New(db)
		if err := pgStore.Migrate(rootCtx); err != nil {
			log.Error("audit migration failed", "error", err)
			os.Exit(1)
		}
		auditStore = pgStore
		log.Info("audit store: postgres")
	} else {
		auditStore = auditmemory.NewInMemoryStore()
		log.Info("audit store: in-process memory")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kgo.NewClient(kgo.SeedBrokers(cfg.Kafka.Brokers...))
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaClient.Close()
		auditStore = audit.NewTee(auditStore, auditpublisher.NewKafka(kafkaClient, cfg.Kafka.Topic, log))
		log.Info("audit publisher: kafka", "topic", cfg.Kafka.Topic)
	}

	emitter := audit.NewEmitter(auditStore, cfg.Audit.Buffer, log)
	go emitter.Run(rootCtx)

	weights := make(map[models.Domain]float64, len(cfg.Engine.ConfidenceWeights))
	for domain, weight := range cfg.Engine.ConfidenceWeights {
		weights[models.Domain(domain)] = weight
	}
	proc := processor.New(processor.Config{
		Weights: weights,
		MemoTTL: cfg.Engine.MemoTTL(),
	})

	eng := engine.New(engine.Config{
		MaxConcurrentVerifications: cfg.Engine.MaxConcurrentVerifications,
		DefaultTimeout:             cfg.Engine.DefaultTimeout(),
		EnableCaching:              cfg.Engine.EnableCaching,
	},
		proc,
		engine.WithCache(resultsCache),
		engine.WithEmitter(emitter),
		engine.WithMetrics(m),
		engine.WithLogger(log),
	)

	eng.RegisterModule(modules.NewFactCheck())
	eng.RegisterModule(modules.NewNumeric())
	for _, domain := range []models.Domain{
		models.DomainLegal,
		models.DomainFinancial,
		models.DomainHealthcare,
		models.DomainInsurance,
	} {
		eng.RegisterModule(modules.NewCompliance(domain))
	}

	h := handler.New(eng, log)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/v1", func(r chi.Router) {
		if cfg.Server.JWTSigningKey != "" {
			r.Use(middleware.RequireAuth(cfg.Server.JWTSigningKey, log))
		}
		h.Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting verification server", "addr", cfg.Server.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
