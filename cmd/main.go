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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vovarama1992/agro-ai-gateway/internal/ai"
	"github.com/Vovarama1992/agro-ai-gateway/internal/config"
	"github.com/Vovarama1992/agro-ai-gateway/internal/gateway"
	"github.com/Vovarama1992/agro-ai-gateway/internal/history"
	"github.com/Vovarama1992/agro-ai-gateway/internal/idempotency"
	"github.com/Vovarama1992/agro-ai-gateway/internal/identity"
	"github.com/Vovarama1992/agro-ai-gateway/internal/logger"
	"github.com/Vovarama1992/agro-ai-gateway/internal/metrics"
	"github.com/Vovarama1992/agro-ai-gateway/internal/prompt"
	"github.com/Vovarama1992/agro-ai-gateway/internal/quota"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		ServiceName: "agro-ai-gateway",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	// --- DB ---
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open error", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("db ping error", zap.Error(err))
	}
	if err := history.EnsureSchema(ctx, db); err != nil {
		log.Fatal("schema error", zap.Error(err))
	}

	// --- Idempotency ---
	// a claim outlives the longest possible request, not the replay window
	idemTTL := idempotency.TTLs{Pending: cfg.RequestBudget + 30*time.Second, Completed: cfg.IdempotencyTTL}
	var idem idempotency.Store = idempotency.NewMemoryStore(idemTTL)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis url error", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, idempotency falls back to memory", zap.Error(err))
		} else {
			idem = idempotency.NewRedisStore(rdb, idemTTL)
		}
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gm := metrics.New(reg)

	// --- Gateway module wiring ---
	users := identity.NewRepo(db)
	records := history.NewRepo(db)
	aiClient := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:    cfg.OpenAIAPIKey,
		BaseURL:   cfg.OpenAIBaseURL,
		Model:     cfg.OpenAIModel,
		MaxTokens: cfg.MaxTokens,
	}, log)

	svc := gateway.NewService(gateway.Deps{
		Quota:             quota.NewGate(users, records, cfg.FreeTierLimit, log),
		Composer:          prompt.NewComposer(cfg.Region),
		Invoker:           ai.NewInvoker(aiClient, cfg.ModelDeadline, log),
		Recorder:          history.NewRecorder(records, log),
		Records:           records,
		Idempotency:       idem,
		Metrics:           gm,
		StrictPersistence: cfg.StrictPersistence,
		Log:               log,
	})
	handler := gateway.NewHandler(svc, log)
	auth := identity.NewAuthenticator(cfg.JWTSecret, log)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", gateway.IdempotencyHeader},
	}))

	gateway.RegisterRoutes(r, handler, auth.Middleware)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Method(http.MethodGet, "/health", gateway.NewHealth(db, aiClient))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestBudget,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.Duration("ai_deadline", cfg.ModelDeadline))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.RequestBudget)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	log.Info("stopped")
}
