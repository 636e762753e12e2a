package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	redisadapter "github.com/storefront-go/cart-controller/internal/adapter/redis"
	"github.com/storefront-go/cart-controller/internal/app/config"
	"github.com/storefront-go/cart-controller/internal/domain/entity"
	"github.com/storefront-go/cart-controller/internal/platform/logger"
	"github.com/storefront-go/cart-controller/internal/port/httpserver"
	"github.com/storefront-go/cart-controller/internal/repository"
)

// App hosts the dev cart-manager server: the local implementation of the
// remote collaborator the cart controller synchronizes against.
type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpserver.Server
	cartStore   repository.CartStore
	redisClient *goredis.Client
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	cartStore := redisadapter.NewCartStore(redisClient)
	appLogger.Info("CartStore initialized")

	if cfg.Cart.SeedDemo {
		if err := seedDemoCart(ctx, cartStore, cfg.Cart.TTL); err != nil {
			appLogger.Warnf("Failed to seed demo cart: %v", err)
		} else {
			appLogger.Info("Demo cart seeded for user 'demo-user'")
		}
	}

	handler := httpserver.NewHandler(cartStore, cfg.Cart.TTL, appLogger)
	server := httpserver.NewServer(
		appLogger,
		cfg.HTTPServer.Port,
		handler.Routes(),
		cfg.HTTPServer.ReadTimeout,
		cfg.HTTPServer.WriteTimeout,
	)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		cartStore:   cartStore,
		redisClient: redisClient,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
}

// seedDemoCart populates a small cart so a local controller has something to
// load against.
func seedDemoCart(ctx context.Context, store repository.CartStore, ttl time.Duration) error {
	cart := repository.NewCart(uuid.NewString(), "demo-user")
	lines := []entity.CartLine{
		{ID: uuid.NewString(), ProductID: "prod-1", ProductName: "Espresso Beans 1kg", UnitPrice: 18.50, Quantity: 2},
		{ID: uuid.NewString(), ProductID: "prod-2", ProductName: "Pour-over Kettle", UnitPrice: 42.00, Quantity: 1},
	}
	for _, line := range lines {
		if err := cart.AddLine(line); err != nil {
			return err
		}
	}
	return store.Save(ctx, cart, ttl)
}
