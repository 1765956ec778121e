package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/farm-market/internal/app"
	"github.com/linemk/farm-market/internal/app/handlers"
	"github.com/linemk/farm-market/internal/config"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/farm-market/internal/lib/logger"
	"github.com/linemk/farm-market/internal/lib/logger/handlers/urllog"
	"github.com/linemk/farm-market/internal/lib/metrics"
	"github.com/linemk/farm-market/internal/service"
	"github.com/linemk/farm-market/internal/storage"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(application.DB, cfg.Database.Name),
	)
	m := metrics.New(reg)

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(m.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	productRepo := storage.NewProductRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	paymentRepo := storage.NewPaymentRepository(application.DB)
	notificationRepo := storage.NewNotificationRepository(application.DB)

	cartService := service.NewCartService(log, productRepo, cartRepo)
	checkoutService := service.NewCheckoutService(log, application.DB, m, productRepo, cartRepo, orderRepo, paymentRepo, notificationRepo)
	paymentService := service.NewPaymentService(log, application.DB, paymentRepo, orderRepo)
	orderService := service.NewOrderService(log, orderRepo, paymentRepo)
	notificationService := service.NewNotificationService(log, notificationRepo)
	stockService := service.NewStockService(log, productRepo)

	jwtMW := jwtmiddleware.NewJWTMiddleware(cfg.JWT.Secret)

	router.Get("/health", handlers.HealthHandler(log, application.DB))
	router.Handle("/metrics", metrics.Handler(reg))

	router.Route("/api/buyer/orders", func(r chi.Router) {
		// вебхук платёжной системы: без JWT, по общему секрету
		r.With(jwtmiddleware.NewWebhookSecretMiddleware(cfg.Webhook.SecretHash)).
			Post("/payment/update", handlers.UpdatePaymentHandler(log, paymentService))

		r.Group(func(r chi.Router) {
			r.Use(jwtMW)
			r.Use(jwtmiddleware.RequireRole(models.RoleBuyer))

			r.Post("/cart", handlers.AddToCartHandler(log, cartService))
			r.Get("/cart", handlers.GetCartHandler(log, cartService))
			r.Delete("/cart/{product_id}", handlers.RemoveFromCartHandler(log, cartService))
			r.Post("/confirm/{id}", handlers.ConfirmOrderHandler(log, checkoutService))
			r.Get("/", handlers.ListOrdersHandler(log, orderService))
			r.Get("/{id}", handlers.GetOrderHandler(log, orderService))
		})
	})

	router.Route("/api/notifications", func(r chi.Router) {
		r.Use(jwtMW)
		r.Get("/", handlers.ListNotificationsHandler(log, notificationService))
		r.Patch("/{id}/read", handlers.MarkNotificationReadHandler(log, notificationService))
	})

	router.Route("/api/farmer/products", func(r chi.Router) {
		r.Use(jwtMW)
		r.Use(jwtmiddleware.RequireRole(models.RoleFarmer))
		r.Post("/{id}/restock", handlers.RestockHandler(log, stockService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", errors.Wrap(err, "shutdown")))
	}
	log.Info("server gracefully stopped")
}
