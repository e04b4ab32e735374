package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/cache"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/database/memory"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

// openStore returns the configured store and a function releasing it.
func openStore(cfg *config.Config, log *logrus.Logger, migrate bool) (database.Store, func() error, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn("using in-memory store; data is lost on restart")
		return memory.New(), func() error { return nil }, nil
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		log.Info("database migrated")
	}
	return database.NewGormStore(db), sqlDB.Close, nil
}

// openCache prefers redis and falls back to an in-process cache when it is
// unset or unreachable.
func openCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) (cache.Store, func() error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-memory response cache")
		return cache.NewMemoryStore(), func() error { return nil }
	}
	rs, err := cache.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, using in-memory response cache")
		return cache.NewMemoryStore(), func() error { return nil }
	}
	log.Info("redis cache connected")
	return rs, rs.Close
}

// openNotifier returns nil when Gmail is not configured or not yet authorized.
func openNotifier(ctx context.Context, cfg *config.Config, log *logrus.Logger) services.Notifier {
	if cfg.GmailCredentialsFile == "" || cfg.GmailTokenFile == "" {
		log.Info("gmail not configured, status emails disabled")
		return nil
	}
	client, err := auth.NewGmailClient(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile)
	if errors.Is(err, auth.ErrNoGmailToken) {
		log.Warn("gmail token missing, run the gmail-token command; status emails disabled")
		return nil
	}
	if err != nil {
		log.WithError(err).Warn("gmail client failed, status emails disabled")
		return nil
	}
	svc, err := services.NewEmailService(ctx, client, cfg.MailFrom, log)
	if err != nil {
		log.WithError(err).Warn("gmail service failed, status emails disabled")
		return nil
	}
	log.Info("gmail notifier connected")
	return svc
}

func openExtractor(ctx context.Context, cfg *config.Config, log *logrus.Logger) *services.LLMService {
	if cfg.GeminiAPIKey == "" {
		log.Info("GEMINI_API_KEY not set, job extraction disabled")
		return nil
	}
	llm, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Warn("job extraction disabled")
		return nil
	}
	return llm
}
