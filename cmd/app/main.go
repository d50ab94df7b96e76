package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	cfgpkg "github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/config"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/limiter"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/llamaindex"
	logpkg "github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/logger"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/metrics"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/orchestrator"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/statuscheck"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/store"
	web "github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := cfgpkg.FromEnv()

	// Init logging
	_ = logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logpkg.Close()

	metrics.Init()

	// Job store: redis when configured, in-process fallback otherwise
	var jobs orchestrator.JobStore
	var redisPinger statuscheck.RedisPinger
	var cooldown orchestrator.Limiter
	if cfg.Store.RedisURL != "" {
		rj, err := store.NewRedisJobs(cfg.Store.RedisURL, cfg.Store.JobTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init redis job store")
		}
		defer rj.Close()
		jobs = rj
		redisPinger = rj

		cd, err := limiter.New(limiter.Options{RedisURL: cfg.Store.RedisURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init remote cooldown")
		}
		defer cd.Close()
		cooldown = cd
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory job store")
		jobs = store.NewMemory()
	}

	base := llamaindex.NewClient(llamaindex.Options{
		BaseURL: cfg.Llama.BaseURL,
		APIKey:  cfg.Llama.APIKey,
		Timeout: cfg.Llama.RequestTimeout,
	})
	remote := func(apiKeyOverride string) orchestrator.Remote {
		return base.WithAPIKey(apiKeyOverride)
	}

	orch := orchestrator.New(orchestrator.Dependencies{
		Jobs:                jobs,
		Remote:              remote,
		Limiter:             cooldown,
		CategoryDescription: cfg.Llama.CategoryDescription,
		PollInterval:        cfg.Llama.PollInterval,
		PollMaxAttempts:     cfg.Llama.PollMaxAttempts,
		MaxUploadBytes:      int64(cfg.Server.MaxUploadMB) << 20,
	})
	mux := http.NewServeMux()
	orch.RegisterRoutes(mux)
	mux.Handle("/metrics", metrics.Handler())

	checker := statuscheck.New(statuscheck.Options{
		Redis:     redisPinger,
		LlamaBase: cfg.Llama.BaseURL,
	})
	mux.HandleFunc("/status", checker.Handler())

	// Dashboard
	dash := web.New()
	dash.RegisterRoutes(mux)

	port := cfg.Server.Port
	srv := &http.Server{Addr: ":" + port, Handler: mux}

	go func() {
		log.Info().Msgf("HTTP server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("shutdown complete")
}
