package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mobistore/mobistore/internal/account"
	"github.com/mobistore/mobistore/internal/auth"
	"github.com/mobistore/mobistore/internal/cache"
	"github.com/mobistore/mobistore/internal/client"
	"github.com/mobistore/mobistore/internal/config"
	"github.com/mobistore/mobistore/internal/middleware"
	"github.com/mobistore/mobistore/internal/mobile"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database or Redis in development the memory backends serve the API.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var store cache.Store
	if d.Cache != nil {
		store = cache.NewRedisStore(d.Cache)
	} else {
		store = cache.NewMemoryStore()
	}

	var accountRepo account.Repository
	var clientRepo client.Repository
	var mobileRepo mobile.Repository
	var mobileMemRepo *mobile.MemoryRepository
	if d.DB != nil {
		accountRepo = account.NewPostgresRepository(d.DB)
		clientRepo = client.NewPostgresRepository(d.DB)
		mobileRepo = mobile.NewPostgresRepository(d.DB)
	} else {
		accountRepo = account.NewMemoryRepository()
		clientRepo = client.NewMemoryRepository()
		mobileMemRepo = mobile.NewMemoryRepository()
		mobileRepo = mobileMemRepo
	}

	accounts := account.NewService(accountRepo)
	clients := client.NewService(clientRepo)
	mobiles := mobile.NewService(mobileRepo)
	authSvc := auth.NewService(d.Cfg, accountRepo)

	accountHandler := account.NewHandler(accounts, store, d.Cfg.CacheTTL)
	clientHandler := client.NewHandler(clients, store, d.Cfg.CacheTTL, d.Cfg.PageSize)
	mobileHandler := mobile.NewHandler(mobiles, store, d.Cfg.CacheTTL, d.Cfg.PageSize)
	authHandler := auth.NewHandler(authSvc)

	if mobileMemRepo != nil {
		seedDevCatalog(d.Logger, accounts, mobiles, mobileMemRepo)
	}

	api := app.Group("/api")

	// Public routes
	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, 5))
	api.Post("/user", accountHandler.Create)

	// Protected routes
	verifier := func(token string) (string, error) {
		claims, err := auth.Verify(token, d.Cfg.JWTSecret)
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	}
	protected := api.Group("", middleware.JWTAuth(verifier))
	RegisterAccountRoutes(protected, accountHandler)
	RegisterClientRoutes(protected, clientHandler)
	RegisterMobileRoutes(protected, mobileHandler)

	return nil
}

// Demo credentials available when running with the memory backends.
const (
	DevUserEmail    = "demo@mobistore.dev"
	DevUserPassword = "demo-password"
)

func seedDevCatalog(logger *slog.Logger, accounts *account.Service, mobiles *mobile.Service, repo *mobile.MemoryRepository) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog := []mobile.Mobile{
		{ID: "7b3c1d52-9a54-4f6c-9f2e-111111111111", Brand: "Nokio", Model: "X1", Description: "Entry level", PriceCents: 19900, CreatedAt: base},
		{ID: "7b3c1d52-9a54-4f6c-9f2e-222222222222", Brand: "Samsia", Model: "S9", Description: "Mid range", PriceCents: 59900, CreatedAt: base.Add(time.Minute)},
		{ID: "7b3c1d52-9a54-4f6c-9f2e-333333333333", Brand: "Pearphone", Model: "P12", Description: "Flagship", PriceCents: 89900, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, m := range catalog {
		repo.Add(m)
	}

	user, err := accounts.Register(ctx, account.RegisterInput{Name: "Demo", Email: DevUserEmail, Password: DevUserPassword})
	if err != nil {
		logger.Warn("seed demo user", "error", err)
		return
	}
	for _, m := range catalog {
		if err := mobiles.Enroll(ctx, m.ID, user.ID); err != nil {
			logger.Warn("seed demo enrollment", "mobile_id", m.ID, "error", err)
		}
	}
	logger.Info("seeded demo catalog", "user_id", user.ID, "email", DevUserEmail)
}
