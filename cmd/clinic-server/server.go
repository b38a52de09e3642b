package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/guilherme-michels/clinic-up-sub000/internal/config"
	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/account"
	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/anamnesis"
	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/financial"
	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/membership"
	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/organization"
	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/patient"
	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/scheduling"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/metrics"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/middleware"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/ratelimit"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/tenant"
)

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		l := newLogger(os.Getenv("ENV"))
		l.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = ratelimit.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid redis url")
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, rate limiting falls back to memory")
		}
	}

	m := metrics.New()
	m.RegisterPool(pool)

	e, err := newServer(cfg, pool, rdb, m, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires every route. rdb may be nil, in which case rate limiting is
// kept in memory.
func newServer(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, m *metrics.Metrics, logger zerolog.Logger) (*echo.Echo, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	tokens := auth.NewTokens(auth.JWTConfig{
		Issuer:     cfg.JWTIssuer,
		SigningKey: []byte(cfg.JWTSecret),
		TTL:        cfg.JWTTTL,
	})

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", tenant.OrganizationHeader},
	}))
	e.Use(m.Middleware())
	e.Use(auth.JWTMiddleware(tokens, auth.AuthSkipper))
	e.Use(middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", m.Handler())

	rlCfg := ratelimit.Config{RequestsPerSecond: cfg.RateLimitRPS, BurstSize: cfg.RateLimitBurst}
	if rlCfg.RequestsPerSecond <= 0 || rlCfg.BurstSize <= 0 {
		rlCfg = ratelimit.DefaultConfig()
	}
	var limiter, fallback ratelimit.Limiter = ratelimit.NewMemory(rlCfg), nil
	if rdb != nil {
		limiter, fallback = ratelimit.NewRedis(rdb, rlCfg), limiter
	}
	limit := ratelimit.Middleware(limiter, fallback, logger)

	tx := db.NewTransactor(pool)
	resolver := tenant.NewResolver(tenant.NewPGStore(pool))

	orgSvc := organization.NewService(organization.NewRepoPG(pool), resolver, tx)
	accountSvc := account.NewService(account.NewRepoPG(pool), account.NewProviderRepoPG(pool), orgSvc, tx,
		tokens, auth.NewPasswords(cfg.BcryptCost))

	orgHandler := organization.NewHandler(orgSvc)

	// Account-level routes: the caller is known but no tenant is resolved.
	api := e.Group("/api/v1", limit)
	account.NewHandler(accountSvc).RegisterRoutes(api)
	orgHandler.RegisterRoutes(api)

	// Tenant routes run against the organization resolved for the caller.
	scoped := e.Group("/api/v1", limit, tenant.Middleware(resolver))
	orgHandler.RegisterTenantRoutes(scoped)
	membership.NewHandler(membership.NewService(membership.NewRepoPG(pool), tx)).RegisterRoutes(scoped)
	patient.NewHandler(patient.NewService(patient.NewRepoPG(pool), loc)).RegisterRoutes(scoped)
	scheduling.NewHandler(scheduling.NewService(scheduling.NewAppointmentRepoPG(pool), loc)).RegisterRoutes(scoped)
	financial.NewHandler(financial.NewService(financial.NewCategoryRepoPG(pool), financial.NewTransactionRepoPG(pool), tx)).RegisterRoutes(scoped)
	anamnesis.NewHandler(anamnesis.NewService(anamnesis.NewTemplateRepoPG(pool), anamnesis.NewQuestionRepoPG(pool),
		anamnesis.NewPatientAnamnesisRepoPG(pool), tx)).RegisterRoutes(scoped)

	return e, nil
}
