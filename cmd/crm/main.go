package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/eywa-space/crm/internal/assistant"
	"github.com/eywa-space/crm/internal/config"
	"github.com/eywa-space/crm/internal/domain/clients"
	"github.com/eywa-space/crm/internal/domain/payments"
	"github.com/eywa-space/crm/internal/domain/services"
	"github.com/eywa-space/crm/internal/domain/subscriptions"
	"github.com/eywa-space/crm/internal/infra/ai"
	"github.com/eywa-space/crm/internal/infra/api"
	"github.com/eywa-space/crm/internal/infra/db"
	httpx "github.com/eywa-space/crm/internal/infra/http"
	"github.com/eywa-space/crm/internal/infra/logger"
	"github.com/eywa-space/crm/internal/infra/notify"
	"github.com/eywa-space/crm/internal/infra/tts"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	paymentsRepo := payments.NewRepo(pool)
	clientsRepo := clients.NewRepo(pool)
	servicesRepo := services.NewRepo(pool)

	var notifier subscriptions.Notifier
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
		if err != nil {
			log.Error("telegram notifier init failed", "err", err)
			return
		}
		notifier = tg
		log.Info("telegram notifier ready", "admin_chat_id", cfg.Telegram.AdminChatID)
	}

	subsService := subscriptions.NewService(log, paymentsRepo, clientsRepo, notifier, "body")

	var historyStore assistant.HistoryStore
	if cfg.Redis.Addr != "" {
		store, err := assistant.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTLHours)
		if err != nil {
			log.Error("redis connect failed", "err", err)
			return
		}
		defer func() { _ = store.Close() }()
		historyStore = store
		log.Info("redis connected", "addr", cfg.Redis.Addr)
	} else {
		historyStore = assistant.NewMemoryStore()
		log.Warn("redis not configured, assistant history kept in memory")
	}

	chatClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.Token, cfg.AI.AgentAccessID, cfg.AI.SystemPrompt)
	sessions := assistant.NewSessions(log, chatClient, historyStore)
	ttsClient := tts.NewClient(cfg.TTS.BaseURL, cfg.TTS.APIKey, cfg.TTS.VoiceID)

	handler := api.NewHandler(log, paymentsRepo, clientsRepo, servicesRepo, subsService, sessions, ttsClient)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handler)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
