package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andresfontal/voltio-backend/api/routes"
	"github.com/andresfontal/voltio-backend/internal/auth"
	"github.com/andresfontal/voltio-backend/internal/cart"
	"github.com/andresfontal/voltio-backend/internal/catalog"
	"github.com/andresfontal/voltio-backend/internal/dashboard"
	"github.com/andresfontal/voltio-backend/internal/sales"
	sessionholder "github.com/andresfontal/voltio-backend/internal/session"
	"github.com/andresfontal/voltio-backend/internal/users"
	"github.com/andresfontal/voltio-backend/pkg/auth/session"
	"github.com/andresfontal/voltio-backend/pkg/config"
	"github.com/andresfontal/voltio-backend/pkg/db"
	"github.com/andresfontal/voltio-backend/pkg/logger"
	"github.com/andresfontal/voltio-backend/pkg/metrics"
	"github.com/andresfontal/voltio-backend/pkg/migrate"
	"github.com/andresfontal/voltio-backend/pkg/outbox"
	"github.com/andresfontal/voltio-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	currentUserHolder, err := sessionholder.NewHolder(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session holder", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	salesMetrics := metrics.NewSalesMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	salesRepo := sales.NewRepository(dbClient.DB())
	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		CurrentUser:    currentUserHolder,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		AppConfig:      cfg.App,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, dbClient, outboxSvc, logg, cfg.Catalog)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(salesRepo, dbClient, catalogRepo, cartRepo, usersRepo, outboxSvc, salesMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(salesRepo, catalogRepo, usersRepo, cfg.Catalog.LowStockThreshold, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			currentUserHolder,
			authService,
			registerService,
			catalogService,
			cartService,
			salesService,
			dashboardService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
