package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/apexwerks/storefront-core/internal/adapter/cache"
	"github.com/apexwerks/storefront-core/internal/adapter/cms"
	"github.com/apexwerks/storefront-core/internal/adapter/commerce"
	"github.com/apexwerks/storefront-core/internal/adapter/store"
	"github.com/apexwerks/storefront-core/internal/handler"
	"github.com/apexwerks/storefront-core/internal/metrics"
	"github.com/apexwerks/storefront-core/internal/middleware"
	"github.com/apexwerks/storefront-core/internal/port"
	"github.com/apexwerks/storefront-core/internal/service"
	"github.com/apexwerks/storefront-core/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("starting storefront core",
		"port", cfg.Port,
		"cms", cfg.CMSBaseURL,
		"commerce", cfg.CommerceBaseURL,
		"index_ttl", cfg.IndexTTL,
	)

	// ── Analytics store (optional) ───────────────────────────────────────
	var searchLogs port.SearchLogWriter
	var pgStore *store.PostgresStore
	if cfg.DatabaseURL != "" {
		s, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			slog.Warn("analytics database unavailable, running without search analytics", "error", err)
		} else {
			pgStore = s
			searchLogs = s
		}
	}
	defer func() {
		if pgStore != nil {
			_ = pgStore.Close()
		}
	}()

	// ── Shared cache ─────────────────────────────────────────────────────
	memCache := cache.NewMemory()
	memCache.StartJanitor(10 * time.Minute)
	defer memCache.Stop()

	counters := metrics.New()

	// ── Upstream record sources ──────────────────────────────────────────
	vehicleSource := cms.NewClient(cms.Config{
		BaseURL: cfg.CMSBaseURL,
		Dataset: cfg.CMSDataset,
		Token:   cfg.CMSToken,
	})
	productSource := commerce.NewClient(commerce.Config{
		BaseURL: cfg.CommerceBaseURL,
		Token:   cfg.CommerceToken,
	})

	// ── Services ─────────────────────────────────────────────────────────
	indexService := service.NewIndexService(vehicleSource, productSource, memCache, counters, cfg.IndexTTL)
	compatService := service.NewCompatService(vehicleSource, productSource, memCache, counters, cfg.CompatTTL)
	searchService := service.NewSearchService(indexService, memCache, searchLogs, counters, cfg.SearchTTL)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c fiber.Ctx) error {
		mode := "memory"
		if pgStore != nil {
			mode = "postgres"
		}
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"app":       cfg.AppName,
			"analytics": mode,
			"counters":  counters.Snapshot(),
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	searchAPI := app.Group("/api/v1", middleware.RateLimit(cfg.SearchRatePerMinute))
	searchHandler := handler.NewSearchHandler(searchService)
	searchHandler.Register(searchAPI)

	recommendHandler := handler.NewRecommendHandler(compatService, vehicleSource, productSource)
	recommendHandler.Register(api)

	webhookHandler := handler.NewWebhookHandler(indexService, cfg.WebhookSecret)
	webhookHandler.Register(api)

	// ── Cache warming ────────────────────────────────────────────────────
	if cfg.WarmOnStart {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			indexService.WarmSearchCache(ctx)

			terms := service.DefaultPopularTerms
			if searchLogs != nil {
				if top, err := searchLogs.TopTerms(ctx, 10); err != nil {
					slog.Warn("top terms unavailable, warming with defaults", "error", err)
				} else {
					for _, tc := range top {
						terms = append(terms, tc.Term)
					}
				}
			}
			searchService.WarmPopular(ctx, terms)
		}()
	}

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
