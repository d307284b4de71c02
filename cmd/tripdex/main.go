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

	"github.com/kaiyu-cloud/tripdex/internal/config"
	"github.com/kaiyu-cloud/tripdex/internal/corpus"
	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
	"github.com/kaiyu-cloud/tripdex/internal/embed/lexical"
	logpkg "github.com/kaiyu-cloud/tripdex/internal/logger"
	"github.com/kaiyu-cloud/tripdex/internal/metrics"
	"github.com/kaiyu-cloud/tripdex/internal/store"
	storeMemory "github.com/kaiyu-cloud/tripdex/internal/store/memory"
	storeRedis "github.com/kaiyu-cloud/tripdex/internal/store/redis"
	chiTransport "github.com/kaiyu-cloud/tripdex/internal/transport/chi"
	openaiTransport "github.com/kaiyu-cloud/tripdex/internal/transport/openai"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/engine"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/extract"
	healthuc "github.com/kaiyu-cloud/tripdex/internal/usecase/health"
	itineraryuc "github.com/kaiyu-cloud/tripdex/internal/usecase/itinerary"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/rerank"
	"github.com/kaiyu-cloud/tripdex/internal/version"
)

func main() {
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

	logger.Info("Starting tripdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("embedding_backend", cfg.Embedding.Backend),
	)

	metrics.RegisterEngineMetrics()

	ctx := context.Background()

	// Load the corpus before anything else: the lexical backend derives its
	// vocabulary from it.
	records, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}

	embedder := buildEmbedder(cfg, records, logger)

	docs, err := corpus.Build(ctx, records, embedder)
	if err != nil {
		logger.Fatal("Failed to encode corpus", zap.Error(err))
	}

	docStore, pinger, closeStore, err := buildStore(ctx, cfg, docs, logger)
	if err != nil {
		logger.Fatal("Failed to create document store", zap.Error(err))
	}
	defer closeStore()

	logger.Info("Corpus installed", zap.Int("documents", len(docs)))

	extractor := extract.New(cfg.Entities.Cities, cfg.Entities.Seasons)
	reranker := rerank.NewCosine(embedder)

	eng := engine.New(docStore, embedder, extractor, reranker, cfg.SelectionOptions()).
		WithStoreTimeout(time.Duration(cfg.Store.QueryTimeoutSec) * time.Second)

	var itinSvc *itineraryuc.Service
	if cfg.Generation.APIKey != "" {
		gen := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:  cfg.Generation.APIKey,
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
			Logger:  logger,
		})
		itinSvc = itineraryuc.New(eng, gen)
		logger.Info("Itinerary generator enabled", zap.String("model", cfg.Generation.Model))
	}

	corpusSize := len(docs)
	healthSvc := healthuc.New(pinger, func() int { return corpusSize })

	server := chiTransport.NewServer(eng, itinSvc, healthSvc, logger)

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

// buildEmbedder picks the embedding backend. The lexical encoder builds its
// vocabulary once from the corpus being indexed.
func buildEmbedder(cfg config.Config, records []corpus.Record, logger *zap.Logger) domain.Embedder {
	if cfg.Embedding.Backend == "openai" {
		logger.Info("Using dense embedding backend",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
		return openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   "openai",
			Logger:     logger,
		})
	}

	vocab := lexical.BuildVocabulary(corpus.Texts(records))
	logger.Info("Using lexical embedding backend", zap.Int("vocabulary", vocab.Size()))
	return lexical.NewEncoder(vocab)
}

// buildStore creates the store driver and installs the corpus snapshot.
func buildStore(
	ctx context.Context, cfg config.Config, docs []document.Document, logger *zap.Logger,
) (store.Store, healthuc.Pinger, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		st := storeMemory.New()
		st.Install(docs)
		return st, nil, func() {}, nil

	case "redis":
		st, err := storeRedis.NewStore(storeRedis.Config{
			Addrs:     cfg.Store.Addrs,
			Password:  cfg.Store.Password,
			KeyPrefix: cfg.Store.KeyPrefix,
			IndexName: cfg.Store.IndexName,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := st.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
			st.Close()
			return nil, nil, nil, err
		}
		logger.Info("Connected to redis store", zap.Strings("addrs", cfg.Store.Addrs))

		dims := 0
		if len(docs) > 0 {
			dims = len(docs[0].Vector())
		}
		if err := st.EnsureIndex(ctx, dims); err != nil {
			st.Close()
			return nil, nil, nil, err
		}
		for i := range docs {
			if err := st.Upsert(ctx, docs[i]); err != nil {
				st.Close()
				return nil, nil, nil, err
			}
		}
		return st, st, st.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
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

			requestID := chiMiddleware.GetReqID(r.Context())
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
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
