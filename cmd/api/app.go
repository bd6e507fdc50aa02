package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"pizzeria/internal/config"
	"pizzeria/internal/handler"
	"pizzeria/internal/infra/cache"
	"pizzeria/internal/infra/db"
	"pizzeria/internal/infra/payment"
	infraRepo "pizzeria/internal/infra/repository"
	"pizzeria/internal/infra/token"
	"pizzeria/internal/logger"
	"pizzeria/internal/middleware"
	"pizzeria/internal/server"
	"pizzeria/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const bcryptCost = 12

// app is the wired object graph shared by the subcommands.
type app struct {
	cfg    config.Config
	db     *gorm.DB
	redis  *redis.Client
	issuer *token.JWTIssuer

	stores   *usecase.StoreUsecase
	admins   *usecase.AdminUsecase
	seeder   *usecase.MenuSeeder
	handlers server.Handlers
	auth     server.Auth
}

func loadConfig() (config.Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.IsProduction())
	return cfg, nil
}

func openDB(ctx context.Context) (config.Config, *gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	gdb, err := db.Connect(ctx, cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, gdb, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, gdb, err := openDB(ctx)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: gdb}

	var dedup usecase.WebhookDeduper = usecase.NoopDeduper{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			a.close()
			return nil, err
		}
		a.redis = rdb
		dedup = cache.NewRedisDeduper(rdb, cfg.WebhookDedupTTL)
	} else {
		logger.L.Warn("REDIS_ADDR not set, webhook redeliveries are not deduplicated")
	}

	provider := payment.NewStripeProvider(payment.StripeConfig{
		SecretKey:      cfg.StripeSecretKey,
		PublishableKey: cfg.StripePublishableKey,
		WebhookSecret:  cfg.StripeWebhookSecret,
		Timeout:        cfg.StripeTimeout,
		Currency:       cfg.StripeCurrency,
	})
	if cfg.StripeSecretKey == "" {
		logger.L.Warn("STRIPE_SECRET_KEY not set, payment intents are unavailable")
	}

	tx := infraRepo.NewTxManagerGorm(gdb)
	repos := infraRepo.NewRepos(gdb)
	clock := usecase.SystemClock{}
	hasher := usecase.NewBcryptPasswordHasher(bcryptCost)
	a.issuer = token.NewJWTIssuer(cfg.JWTSecret, cfg.UserTokenTTL, cfg.AdminTokenTTL)
	dir := usecase.NewStoreDirectory()

	a.stores = usecase.NewStoreUsecase(tx, dir)
	a.admins = usecase.NewAdminUsecase(tx, dir, hasher, a.issuer, clock)
	a.seeder = usecase.NewMenuSeeder(tx)

	a.handlers = server.Handlers{
		Products:    handler.NewProductHandler(usecase.NewProductUsecase(repos.Products(), repos.Menu())),
		Stores:      handler.NewStoreHandler(a.stores),
		Auth:        handler.NewAuthHandler(usecase.NewAuthUsecase(tx, hasher, a.issuer, clock)),
		Cart:        handler.NewCartHandler(usecase.NewCartUsecase(repos.Carts(), repos.CartItems(), repos.Products())),
		Orders:      handler.NewOrderHandler(usecase.NewCheckoutUsecase(tx, dir, clock), usecase.NewOrderUsecase(tx)),
		Payments:    handler.NewPaymentHandler(usecase.NewPaymentUsecase(tx, provider, dedup, clock)),
		Admin:       handler.NewAdminHandler(a.admins),
		AdminOrders: handler.NewAdminOrderHandler(usecase.NewOrderLifecycleUsecase(tx, clock)),
	}
	a.auth = server.Auth{
		User:  []echo.MiddlewareFunc{middleware.UserJWT(a.issuer)},
		Admin: []echo.MiddlewareFunc{middleware.AdminJWT(a.issuer), middleware.AdminSessionGuard(repos.Admins())},
	}
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
