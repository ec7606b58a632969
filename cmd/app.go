package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"civiclink/cache"
	"civiclink/config"
	"civiclink/controllers"
	"civiclink/enrichment"
	"civiclink/geocoding"
	"civiclink/routes"
	"civiclink/services"
)

const gapCachePrefix = "civiclink:"

// app is the fully wired server: storage, optional redis, services and router.
type app struct {
	router *gin.Engine
	issues *services.IssueService
	users  *services.UserService

	store *storage
	redis *redis.Client
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	opts := services.Options{
		Geocoder:          geocoding.NewNominatim(cfg.GeocoderURL, cfg.GeocodeTimeout),
		Logger:            logger,
		EnrichmentTimeout: cfg.EnrichmentTimeout,
		GeocodeTimeout:    cfg.GeocodeTimeout,
	}
	if cfg.AnthropicAPIKey != "" {
		opts.Enricher = enrichment.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel).WithLogger(logger)
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, AI enrichment disabled")
	}
	if rdb != nil {
		opts.GapCache = cache.NewGapCache(rdb, gapCachePrefix, cfg.GapCacheTTL)
	} else {
		logger.Warn("REDIS_ADDRESS not set, issue rate limit and gap cache disabled")
	}

	a := &app{
		issues: services.NewIssueService(store.Issues, opts),
		users:  services.NewUserService(store.Users, logger),
		store:  store,
		redis:  rdb,
	}

	a.router = routes.NewRouter(routes.Deps{
		Auth: controllers.NewAuthController(a.users, controllers.AuthSettings{
			Secret:     cfg.JWTSecret,
			TokenTTL:   cfg.TokenTTL,
			Domain:     cfg.Domain,
			Production: cfg.IsProduction(),
		}),
		Issues:          controllers.NewIssueController(a.issues),
		Users:           controllers.NewUserController(a.users, a.issues),
		Admin:           controllers.NewAdminController(a.issues),
		JWTSecret:       cfg.JWTSecret,
		Redis:           rdb,
		IssueLimitKey:   cfg.IssueLimitKey,
		IssueDailyLimit: cfg.IssueDailyLimit,
		CORSOrigins:     cfg.CORSOrigins,
	})

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		_, created, err := a.users.EnsureAdmin(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure admin: %w", err)
		}
		if created {
			logger.Info("created admin account", "email", cfg.AdminEmail)
		}
	}

	return a, nil
}

// Close drains background enrichment, then releases redis and storage.
func (a *app) Close() {
	a.issues.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("closing redis failed", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("closing storage failed", "error", err)
	}
}
