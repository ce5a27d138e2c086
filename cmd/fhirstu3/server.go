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
	"github.com/rs/zerolog"

	"github.com/ehr/fhirstu3/internal/config"
	"github.com/ehr/fhirstu3/internal/domain/resource"
	"github.com/ehr/fhirstu3/internal/platform/auth"
	"github.com/ehr/fhirstu3/internal/platform/db"
	"github.com/ehr/fhirstu3/internal/platform/fhir"
	"github.com/ehr/fhirstu3/internal/platform/middleware"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
)

const requestTimeout = 30 * time.Second

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	var pool *pgxpool.Pool
	if cfg.UseDatabase() {
		ctx := context.Background()
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBSchema)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, resources are kept in memory")
	}

	e := buildServer(cfg, logger, pool)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("strict", cfg.StrictParsing).Msg("starting server")
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
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// buildServer wires the HTTP stack. A nil pool selects the in-memory store.
func buildServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = fhir.HTTPErrorHandler

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(requestTimeout))
	e.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	var authMW echo.MiddlewareFunc
	if cfg.AuthSigningKey != "" {
		authMW = auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		})
	} else {
		authMW = auth.DevAuthMiddleware()
	}
	fhirGroup := e.Group("/fhir", fhir.ContentNegotiationMiddleware(), authMW)

	parser := fhirparser.New(
		fhirparser.WithStrict(cfg.StrictParsing),
		fhirparser.WithLogger(logger),
		fhirparser.WithPrettyPrint(cfg.PrettyPrint),
	)

	fhir.NewOperationsHandler(parser, logger).RegisterRoutes(fhirGroup)

	var repo resource.Repository
	if pool != nil {
		repo = resource.NewRepoPG(pool)
	} else {
		repo = resource.NewMemoryRepo()
	}
	svc := resource.NewService(repo, parser, logger)
	resource.NewHandler(svc, parser, logger).RegisterRoutes(fhirGroup, auth.RequireResourceScope())

	return e
}
