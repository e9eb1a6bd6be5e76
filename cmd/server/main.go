// Command server runs the learnloop hub REST API: auth, content generation,
// the progress ledger, and the social feed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/learnloop/learnloop-hub/config"
	"github.com/learnloop/learnloop-hub/internal/application/command"
	"github.com/learnloop/learnloop-hub/internal/application/eventhandler"
	"github.com/learnloop/learnloop-hub/internal/application/query"
	"github.com/learnloop/learnloop-hub/internal/domain/social"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/auth"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/external/provider"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/messaging"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/persistence/postgres"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/persistence/redis"
	httpapi "github.com/learnloop/learnloop-hub/internal/interface/http"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LoggerMode())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence.
	conn, err := postgres.NewConnection(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close()

	if err := postgres.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var feedCache redis.FeedCache = redis.NewNoopCache()
	var redisCache *redis.Cache
	if cfg.Redis.URL != "" {
		redisCache, err = redis.NewCache(ctx, cfg.Redis.URL, cfg.Redis.FeedTTL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		feedCache = redisCache
		defer redisCache.Close()
	} else {
		log.Warn("REDIS_URL not set, feed cache disabled")
	}

	users := postgres.NewUserRepository(conn)
	achievements := postgres.NewAchievementRepository(conn)
	topics := postgres.NewTopicRepository(conn)
	sessions := postgres.NewSessionRepository(conn)
	contentSets := postgres.NewContentRepository(conn)
	posts := postgres.NewPostRepository(conn)

	// Events.
	bus := messaging.NewInMemoryEventBus(log)
	eventhandler.NewOnAchievementUnlocked(log).Register(bus)

	// External content provider.
	providerClient := provider.NewClient(provider.ClientConfig{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: cfg.Provider.Timeout,
		Logger:  log,
	})

	// Auth.
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	// Application layer.
	ledger := command.NewProgressLedger(users, sessions, achievements, bus, log)

	deps := httpapi.Dependencies{
		Auth:            command.NewAuthHandler(users, tokens, log),
		Ledger:          ledger,
		GenerateContent: command.NewGenerateContentHandler(providerClient, contentSets, topics, ledger, log),
		CreateTopic:     command.NewCreateTopicHandler(topics),
		CreatePost:      command.NewCreatePostHandler(posts, feedCache, bus, log),
		ToggleLike:      command.NewToggleLikeHandler(posts, feedCache, bus, log),
		GetProgress:     query.NewGetProgressHandler(users, achievements),
		GetFeed:         query.NewGetFeedHandler(posts, feedCache, social.ChronologicalRanking{}, log),
		Tokens:          tokens,
		Health:          &healthChecker{pg: conn, cache: redisCache},
		Logger:          log,
	}

	serverCfg := httpapi.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	if !cfg.IsProduction() {
		serverCfg.Mode = "debug"
	}

	server := httpapi.NewServer(serverCfg, deps)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// healthChecker pings the backing stores for the readiness probe.
type healthChecker struct {
	pg    *postgres.Connection
	cache *redis.Cache
}

func (h *healthChecker) Check(ctx context.Context) map[string]error {
	result := map[string]error{
		"postgres": h.pg.Ping(ctx),
	}
	if h.cache != nil {
		result["redis"] = h.cache.Ping(ctx)
	}
	return result
}
