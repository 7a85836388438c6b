package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiranalabs/storefront/api/routes"
	"github.com/kiranalabs/storefront/internal/admin"
	"github.com/kiranalabs/storefront/internal/cart"
	"github.com/kiranalabs/storefront/internal/catalog"
	"github.com/kiranalabs/storefront/internal/checkout"
	"github.com/kiranalabs/storefront/internal/orders"
	"github.com/kiranalabs/storefront/internal/pricing"
	"github.com/kiranalabs/storefront/internal/session"
	"github.com/kiranalabs/storefront/internal/stock"
	"github.com/kiranalabs/storefront/pkg/config"
	"github.com/kiranalabs/storefront/pkg/db"
	"github.com/kiranalabs/storefront/pkg/env"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/metrics"
	"github.com/kiranalabs/storefront/pkg/migrate"
	"github.com/kiranalabs/storefront/pkg/redis"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

// fetcherAdapter narrows the catalog service to what the reconciler needs.
type fetcherAdapter struct {
	svc catalog.Service
}

func (f fetcherAdapter) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return f.svc.GetProduct(ctx, id)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	shopClient, err := shopapi.NewClient(cfg.ShopAPI, shopapi.WithMetrics(storefrontMetrics))
	if err != nil {
		logg.Error(context.Background(), "failed to build shop api client", err)
		os.Exit(1)
	}

	var (
		dbClient    *db.Client
		redisClient *redis.Client
		cartPort    cart.Port
		sessionPort session.Port
	)

	switch cfg.Persist.Backend {
	case config.PersistBackendDB:
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
		cartPort = cart.NewDBPort(dbClient.DB())
		sessionPort = session.NewDBPort(dbClient.DB())
	case config.PersistBackendRedis:
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cartPort = cart.NewRedisPort(redisClient)
		sessionPort = session.NewRedisPort(redisClient)
	}

	// The product cache rides on redis when it is already up; with the db
	// backend it is only started when the flag asks for it.
	if cfg.Features.CacheCatalog && redisClient == nil {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Warn(context.Background(), "catalog cache disabled, redis unavailable")
			redisClient = nil
		}
	}

	catalogParams := catalog.ServiceParams{
		API:            shopClient,
		MinQueryLength: cfg.Search.MinQueryLength,
		SearchDebounce: cfg.Search.Debounce,
		Logger:         logg,
	}
	if cfg.Features.CacheCatalog && redisClient != nil {
		catalogParams.Cache = redisClient
	}
	catalogService, err := catalog.NewService(catalogParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	policy, err := pricing.NewPolicy(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to parse pricing policy", err)
		os.Exit(1)
	}

	carts := cart.NewManager(cartPort, logg)
	reconciler := stock.NewReconciler(fetcherAdapter{svc: catalogService}, storefrontMetrics, logg)
	checkoutService := checkout.NewService(carts, reconciler, shopClient, policy, logg)

	sessionService, err := session.NewService(shopClient, sessionPort, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(shopClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	adminService, err := admin.NewService(shopClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		Config:          cfg,
		Logger:          logg,
		Registry:        registry,
		Carts:           carts,
		Pricing:         policy,
		CatalogService:  catalogService,
		SessionService:  sessionService,
		CheckoutService: checkoutService,
		OrderService:    orderService,
		AdminService:    adminService,
	}
	if dbClient != nil {
		deps.DBPinger = dbClient
	}
	if redisClient != nil {
		deps.RedisPinger = redisClient
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Persist.Backend,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
