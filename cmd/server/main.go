package main

import (
	"context"
	"expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/killrtmrn242/AI-Assistant/internal/api"
	"github.com/killrtmrn242/AI-Assistant/internal/config"
	"github.com/killrtmrn242/AI-Assistant/internal/llm"
	"github.com/killrtmrn242/AI-Assistant/internal/providers"
	"github.com/killrtmrn242/AI-Assistant/internal/query"
	"github.com/killrtmrn242/AI-Assistant/internal/telemetry"
	"github.com/killrtmrn242/AI-Assistant/internal/token"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	resolver := token.NewResolver()
	primary := providers.NewCoinGeckoProvider(cfg.CoinGeckoAPIURL)
	fallback := providers.NewCoinMarketCapProvider(cfg.CoinMarketCapURL, cfg.CoinMarketCapKey)
	news := providers.NewCryptoPanicProvider(cfg.CryptoPanicAPIURL, cfg.CryptoPanicAPIKey)
	generator := llm.NewOllamaClient(cfg.OllamaAPIURL, cfg.OllamaModel, llm.GenerateOptions{
		Temperature: cfg.OllamaTemperature,
		TopP:        cfg.OllamaTopP,
	})

	queries := query.NewService(resolver, primary, fallback, news, generator)
	apiServer := api.NewServer(queries)

	router := chi.NewRouter()
	router.Use(telemetry.RequestMetricsMiddleware)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/debug/vars", expvar.Handler())
	mountStatic(router, cfg.StaticDir)
	apiServer.Mount(router)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	slog.Info("server started", "port", cfg.Port, "fallback_enabled", fallback.Available())

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-serverErrCh:
		slog.Error("server terminated unexpectedly", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func mountStatic(router chi.Router, dir string) {
	if _, err := os.Stat(dir); err != nil {
		slog.Warn("static directory not found, skipping static routes", "dir", dir)
		return
	}

	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(dir)))
	router.Handle("/static/*", fileServer)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
