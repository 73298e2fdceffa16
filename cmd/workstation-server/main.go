package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skolyn/workstation/internal/config"
	"github.com/skolyn/workstation/internal/domain/session"
	"github.com/skolyn/workstation/internal/domain/viewer"
	"github.com/skolyn/workstation/internal/domain/worklist"
	"github.com/skolyn/workstation/internal/platform/imagestore"
	"github.com/skolyn/workstation/internal/platform/metrics"
	"github.com/skolyn/workstation/internal/platform/middleware"
	"github.com/skolyn/workstation/internal/platform/ws"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "workstation-server",
		Short: "Radiology workstation API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the workstation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the study catalog to the demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.UsePostgres() {
				fmt.Println("DATABASE_URL not set; the in-memory catalog is seeded on every start.")
				return nil
			}

			ctx := context.Background()
			pool, err := newPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := worklist.NewPGRepo(pool)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := repo.Replace(ctx, worklist.SeedStudies()); err != nil {
				return err
			}
			fmt.Println("Seeded the demo worklist.")
			return nil
		},
	}
}

func newPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// resolveSigningKey returns the session signing key from the hex-encoded
// SESSION_SIGNING_KEY or generates a random 32-byte key. The second return
// value is true when a random key was generated, meaning sessions will not
// survive a restart.
func resolveSigningKey(envValue string) ([]byte, bool, error) {
	if envValue != "" {
		decoded, err := hex.DecodeString(envValue)
		if err != nil {
			return nil, false, fmt.Errorf("invalid SESSION_SIGNING_KEY hex value: %w", err)
		}
		return decoded, false, nil
	}
	key := make([]byte, 32)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("failed to generate random session signing key: %w", err)
	}
	return key, true, nil
}

// promMetrics adapts the Prometheus registry to the service-layer metric
// interfaces.
type promMetrics struct {
	m *metrics.Metrics
}

func (p promMetrics) RecordLogin(result string) {
	p.m.LoginsTotal.WithLabelValues(result).Inc()
}

func (p promMetrics) RecordUpload(result string) {
	p.m.UploadsTotal.WithLabelValues(result).Inc()
}

func (p promMetrics) RecordAnalysis(severity worklist.Severity, elapsed time.Duration) {
	p.m.AnalysesTotal.WithLabelValues(string(severity)).Inc()
	p.m.AnalysisDuration.Observe(elapsed.Seconds())
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	signingKey, generated, err := resolveSigningKey(cfg.SessionSigningKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve session signing key")
	}
	if generated {
		logger.Warn().Msg("SESSION_SIGNING_KEY not set; using a random key, sessions will not survive restarts")
	}

	// Study catalog: Postgres when configured, in-memory otherwise.
	ctx := context.Background()
	var repo worklist.StudyRepository
	if cfg.UsePostgres() {
		pool, err := newPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		pgRepo := worklist.NewPGRepo(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
		existing, err := pgRepo.List(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to read study catalog")
		}
		if len(existing) == 0 {
			if err := pgRepo.Replace(ctx, worklist.SeedStudies()); err != nil {
				logger.Fatal().Err(err).Msg("failed to seed study catalog")
			}
			logger.Info().Msg("seeded empty study catalog")
		}
		repo = pgRepo
		logger.Info().Msg("connected to database")
	} else {
		memRepo := worklist.NewMemRepo()
		if err := memRepo.Replace(ctx, worklist.SeedStudies()); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed study catalog")
		}
		repo = memRepo
		logger.Info().Msg("using in-memory study catalog")
	}

	// Platform pieces
	m := metrics.New()
	adapter := promMetrics{m: m}
	hub := ws.NewHub(logger)
	images := imagestore.NewStore(cfg.UploadMaxBytes)

	// Domain services
	sessionSvc := session.NewService(session.NewFileStore(cfg.SessionFile), signingKey, logger)
	sessionSvc.Restore()

	analyzer := worklist.NewAnalyzer(cfg.AnalysisDuration(), cfg.AnalysisSteps)
	worklistSvc := worklist.NewService(repo, analyzer, images, hub, adapter, logger)
	defer worklistSvc.Close()

	viewerSvc := viewer.NewService(logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(m.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check and metrics exposition
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/metrics", m.Handler())

	// WebSocket event stream
	ws.NewHandler(hub).RegisterRoutes(e.Group(""))

	// API group: everything except the auth endpoints and image bytes
	// requires a valid session token. Images stay open so <img> tags can
	// load them without an Authorization header.
	apiV1 := e.Group("/api/v1")
	apiV1.Use(session.RequireSession(sessionSvc, func(c echo.Context) bool {
		return strings.HasPrefix(c.Path(), "/api/v1/auth") ||
			strings.HasPrefix(c.Path(), "/api/v1/images")
	}))

	session.NewHandler(sessionSvc, adapter).RegisterRoutes(apiV1)
	worklist.NewHandler(worklistSvc).RegisterRoutes(apiV1)
	viewer.NewHandler(viewerSvc).RegisterRoutes(apiV1)
	imagestore.NewHandler(images).RegisterRoutes(apiV1)

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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
