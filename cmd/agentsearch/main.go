package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/retailgrid/agentsearch/internal/config"
	"github.com/retailgrid/agentsearch/internal/db"
	dbRedis "github.com/retailgrid/agentsearch/internal/db/redis"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
	logpkg "github.com/retailgrid/agentsearch/internal/logger"
	"github.com/retailgrid/agentsearch/internal/metrics"
	usagerepo "github.com/retailgrid/agentsearch/internal/repository/usage"
	agentTransport "github.com/retailgrid/agentsearch/internal/transport/agent"
	chiTransport "github.com/retailgrid/agentsearch/internal/transport/chi"
	openaiTransport "github.com/retailgrid/agentsearch/internal/transport/openai"
	formatuc "github.com/retailgrid/agentsearch/internal/usecase/format"
	healthuc "github.com/retailgrid/agentsearch/internal/usecase/health"
	searchuc "github.com/retailgrid/agentsearch/internal/usecase/search"
	usageuc "github.com/retailgrid/agentsearch/internal/usecase/usage"
	"github.com/retailgrid/agentsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting agentsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("usage_enabled", cfg.Usage.Enabled),
	)

	// Usage counter store (optional)
	ctx := context.Background()
	var store db.Store
	var usageRecorder searchuc.UsageRecorder
	var usageSvc *usageuc.Service
	if cfg.Usage.Enabled {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")

		repo := usagerepo.New(store,
			time.Duration(cfg.Usage.DailyTTLHours)*time.Hour,
			time.Duration(cfg.Usage.MonthlyTTLDays)*24*time.Hour,
		)
		usageRecorder = repo
		usageSvc = usageuc.New(repo, cfg.Usage.CostPerMillionTokens)
	}

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Build the search pipeline — composition root
	formatter := formatuc.New(formatuc.SystemClock{}, cfg.Usage.CostPerMillionTokens)
	searchSvc := searchuc.New(formatter, usageRecorder)
	healthSvc := healthuc.New(store)

	if agentCfg := cfg.Retrievers.Agentic; agentCfg.Enabled() {
		client := agentTransport.NewClient(&agentTransport.Config{
			Endpoint: agentCfg.Endpoint,
			APIKey:   agentCfg.APIKey,
			Timeout:  time.Duration(agentCfg.TimeoutSec) * time.Second,
			Label:    "agentic",
		})
		searchSvc.Register(answer.TypeAgentic, client)
		searchSvc.Register(answer.TypeGeneric, client)
		healthSvc.AddRetriever("agentic", client)
		logger.Info("Agentic retriever configured", zap.String("endpoint", agentCfg.Endpoint))
	}

	if agentCfg := cfg.Retrievers.Dataverse; agentCfg.Enabled() {
		client := agentTransport.NewClient(&agentTransport.Config{
			Endpoint: agentCfg.Endpoint,
			APIKey:   agentCfg.APIKey,
			Timeout:  time.Duration(agentCfg.TimeoutSec) * time.Second,
			Label:    "dataverse",
		})
		searchSvc.Register(answer.TypeDataverse, client)
		healthSvc.AddRetriever("dataverse", client)
		logger.Info("Dataverse retriever configured", zap.String("endpoint", agentCfg.Endpoint))
	}

	if ragCfg := cfg.Retrievers.RAG; ragCfg.Enabled() {
		retriever := openaiTransport.NewRetriever(&openaiTransport.Config{
			APIKey:      ragCfg.APIKey,
			BaseURL:     ragCfg.BaseURL,
			Model:       ragCfg.Model,
			Temperature: ragCfg.Temperature,
			MaxTokens:   ragCfg.MaxTokens,
		})
		searchSvc.Register(answer.TypeRAG, retriever)
		healthSvc.AddRetriever("rag", retriever)
		logger.Info("RAG retriever configured", zap.String("model", ragCfg.Model))
	}

	// Create chi server
	server := chiTransport.NewServer(searchSvc, usageSvc, healthSvc, chiTransport.StreamConfig{
		ChunkWords: cfg.Streaming.ChunkWords,
		DelayMs:    cfg.Streaming.DelayMs,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
