package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ezzshop/ezzshop-backend/api/routes"
	"github.com/ezzshop/ezzshop-backend/internal/auth"
	"github.com/ezzshop/ezzshop-backend/internal/cart"
	"github.com/ezzshop/ezzshop-backend/internal/categories"
	"github.com/ezzshop/ezzshop-backend/internal/chat"
	"github.com/ezzshop/ezzshop-backend/internal/checkout"
	"github.com/ezzshop/ezzshop-backend/internal/contact"
	"github.com/ezzshop/ezzshop-backend/internal/dashboard"
	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/internal/products"
	"github.com/ezzshop/ezzshop-backend/internal/tracking"
	"github.com/ezzshop/ezzshop-backend/internal/users"
	"github.com/ezzshop/ezzshop-backend/pkg/config"
	"github.com/ezzshop/ezzshop-backend/pkg/db"
	"github.com/ezzshop/ezzshop-backend/pkg/kvstore"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/metrics"
	"github.com/ezzshop/ezzshop-backend/pkg/migrate"
	"github.com/ezzshop/ezzshop-backend/pkg/paypal"
	"github.com/ezzshop/ezzshop-backend/pkg/redis"
	"github.com/ezzshop/ezzshop-backend/pkg/stripe"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	store := kvstore.NewRedisStore(redisClient)

	var stripeClient checkout.StripeChargeClient
	if cfg.Stripe.APIKey != "" {
		sc, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to initialize stripe", err)
			os.Exit(1)
		}
		stripeClient = checkout.NewStripeChargeClient(sc)
	} else {
		logg.Warn(context.Background(), "stripe not configured, card payments disabled")
	}

	var paypalClient checkout.PayPalOrderClient
	if cfg.PayPal.ClientID != "" {
		pc, err := paypal.NewClient(context.Background(), cfg.PayPal, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to initialize paypal", err)
			os.Exit(1)
		}
		paypalClient = checkout.NewPayPalOrderClient(pc)
	} else {
		logg.Warn(context.Background(), "paypal not configured, paypal payments disabled")
	}

	gormDB := dbClient.DB()

	userService, err := users.NewService(users.NewRepository(gormDB), cfg.Password)
	exitOnError(logg, "users service", err)

	cartService, err := cart.NewService(store, nil, cfg.Cart.TTL, logg)
	exitOnError(logg, "cart service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		TokenRepo:      auth.NewTokenRepository(gormDB),
		SessionStore:   redisClient,
		CartDestroyer:  cartService,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	exitOnError(logg, "auth service", err)

	productService, err := products.NewService(products.NewRepository(gormDB))
	exitOnError(logg, "products service", err)

	categoryService, err := categories.NewService(categories.NewRepository(gormDB))
	exitOnError(logg, "categories service", err)

	orderService, err := orders.NewService(orders.NewRepository(gormDB), dbClient, logg)
	exitOnError(logg, "orders service", err)

	checkoutService, err := checkout.NewService(
		cartService, orderService, store,
		stripeClient, paypalClient,
		cfg.WhatsApp, cfg.Checkout, logg,
	)
	exitOnError(logg, "checkout service", err)

	contactService, err := contact.NewService(contact.NewRepository(gormDB))
	exitOnError(logg, "contact service", err)

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(gormDB))
	exitOnError(logg, "dashboard service", err)

	chatService, err := chat.NewService(chat.NewRepository(gormDB), store, cfg.Chat, logg)
	exitOnError(logg, "chat service", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Registry:    registry,
		HTTPMetrics: httpMetrics,

		Auth:       authService,
		Users:      userService,
		Products:   productService,
		Categories: categoryService,
		Cart:       cartService,
		Checkout:   checkoutService,
		Orders:     orderService,
		Contact:    contactService,
		Dashboard:  dashboardService,
		Chat:       chatService,
		Tracking:   tracking.NewService(cfg.Tracking),
	})

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
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func exitOnError(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
