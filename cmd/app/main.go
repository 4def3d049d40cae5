// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marketing-automation/internal/config"
	"marketing-automation/internal/domain/ports/repository"
	"marketing-automation/internal/infra/adapters/webhook"
	"marketing-automation/internal/infra/logging"
	"marketing-automation/internal/infra/memstore"
	"marketing-automation/internal/infra/metrics"
	red "marketing-automation/internal/infra/redis"
	"marketing-automation/internal/infra/web"
	"marketing-automation/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.RegisterAll()

	// ---- Status store backend ----
	var statusRepo repository.StatusRepository
	switch cfg.Status.Backend {
	case "redis":
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		statusRepo = red.NewStatusRepo(redisClient, cfg.Status.TTL)
		logger.Info().Str("backend", "redis").Msg("status store ready")
	default:
		statusRepo = memstore.NewStatusRepo()
		logger.Info().Str("backend", "memory").Msg("status store ready")
	}

	// ---- Webhook adapters ----
	workflow, err := webhook.NewWorkflowWebhook(cfg.Webhook.TriggerURL, cfg.Webhook.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("trigger webhook")
	}
	agent, err := webhook.NewAgentWebhook(cfg.Webhook.ChatURL, cfg.Webhook.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("chat webhook")
	}

	// ---- Use cases ----
	statusUC := usecase.NewStatusUseCase(statusRepo, cfg.Status.TTL, time.Now)
	triggerUC := usecase.NewTriggerUseCase(workflow, time.Now)
	chatUC := usecase.NewChatUseCase(agent, time.Now)

	// ---- HTTP server ----
	srv := web.NewServer(statusUC, triggerUC, chatUC, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
