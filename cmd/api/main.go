// Package main is the entrypoint for the SkyFinder API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/cache"
	"github.com/skyfinder/skyfinder/internal/config"
	"github.com/skyfinder/skyfinder/internal/handler"
	"github.com/skyfinder/skyfinder/internal/metrics"
	"github.com/skyfinder/skyfinder/internal/repository"
	"github.com/skyfinder/skyfinder/internal/server"
	"github.com/skyfinder/skyfinder/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	recorder := metrics.NewInMemory()
	httpClient := amadeus.NewHTTPClient(cfg.UpstreamTimeout)

	if !cfg.HasUpstreamCredentials() {
		logger.Warn("amadeus credentials not set; search endpoints will degrade")
	}
	broker := amadeus.NewBroker(amadeus.BrokerConfig{
		BaseURL:      cfg.AmadeusBaseURL,
		ClientID:     cfg.AmadeusAPIKey,
		ClientSecret: cfg.AmadeusAPISecret,
		HTTPClient:   httpClient,
		Recorder:     recorder,
		Logger:       logger,
	})
	client := amadeus.NewClient(amadeus.ClientConfig{
		BaseURL:    cfg.AmadeusBaseURL,
		HTTPClient: httpClient,
		Tokens:     broker,
		Recorder:   recorder,
		Logger:     logger,
		Timeout:    cfg.UpstreamTimeout,
	})

	routes := server.RouterConfig{
		Logger:             logger,
		IsDevelopment:      cfg.IsDevelopment(),
		MaxBodySize:        cfg.MaxRequestBodySize,
		InternalKeyHash:    cfg.InternalKeyHash,
		SearchAuthRequired: cfg.SearchAuthRequired,
		Resolver:           newResolver(cfg, logger),
		Tokens:             broker,
		Search:             service.NewSearchService(client, logger),
		Metrics:            recorder,
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// Left as untyped nil when unconfigured so readiness reports "not configured".
	var dbCheck, cacheCheck handler.HealthChecker

	if cfg.DatabaseURL != "" {
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return err
		}
		closers = append(closers, repo.Close)
		dbCheck = repo
		routes.Accounts = service.NewAccountService(repo, logger)
		logger.Info("connected to database")
	} else {
		logger.Warn("DATABASE_URL not set; account routes disabled")
	}

	if cfg.RedisURL != "" {
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		closers = append(closers, func() { _ = cacheClient.Close() })
		cacheCheck = cacheClient
		routes.Recent = service.NewRecentService(cacheClient)
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set; recent-search routes disabled")
	}

	routes.Health = handler.NewHealthHandler(dbCheck, cacheCheck, cfg.HasUpstreamCredentials())

	srv := server.New(server.NewRouter(routes), server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("upstream-http", func(context.Context) error {
		httpClient.CloseIdleConnections()
		return nil
	})

	logger.Info("starting server",
		slog.Int("port", cfg.AppPort),
		slog.String("env", cfg.AppEnv),
		slog.String("amadeus_base_url", cfg.AmadeusBaseURL),
		slog.Bool("search_auth_required", cfg.SearchAuthRequired),
	)
	return srv.Run(ctx)
}

// newResolver picks local JWT verification when a secret is set, otherwise the remote auth service.
func newResolver(cfg *config.Config, logger *slog.Logger) auth.IdentityResolver {
	switch {
	case cfg.AuthJWTSecret != "":
		return auth.NewJWTResolver(cfg.AuthJWTSecret)
	case cfg.AuthServiceURL != "":
		return auth.NewRemoteResolver(cfg.AuthServiceURL, cfg.AuthServiceAPIKey, nil)
	default:
		logger.Warn("no identity resolver configured; gated routes will reject all callers")
		return nil
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	if parsed.User != nil {
		if name := parsed.User.Username(); name != "" {
			parsed.User = url.User(name)
		} else {
			parsed.User = url.User("redacted")
		}
	}
	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, redactURL(secret))
	}
	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
