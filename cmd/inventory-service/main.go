package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/stocker/stocker-backend/internal/inventory/consumers"
	"github.com/stocker/stocker-backend/internal/inventory/events"
	"github.com/stocker/stocker-backend/internal/inventory/handler"
	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/internal/inventory/service"
	"github.com/stocker/stocker-backend/pkg/config"
	"github.com/stocker/stocker-backend/pkg/database"
	"github.com/stocker/stocker-backend/pkg/httputil"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stocker/stocker-backend/pkg/mailer"
	"github.com/stocker/stocker-backend/pkg/messaging"
)

func main() {
	cfg, err := config.LoadWithValidation("inventory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("inventory-service", cfg.Server.Environment)
	log.Info().Msg("starting Inventory Service")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	publisher, err := events.NewInventoryEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	mail, err := mailer.NewSMTP(&cfg.SMTP)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create SMTP mailer")
	}

	// Repositories
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	staffUserRepo := repository.NewStaffUserRepository(db)

	thresholds := service.Thresholds{
		LowStock:       cfg.Inventory.LowStockThreshold,
		NearExpiryDays: cfg.Inventory.NearExpiryDays,
	}

	// Services
	dispatcher := service.NewAlertDispatcher(productRepo, staffUserRepo, notificationRepo, mail, publisher, thresholds, log)
	inventoryService := service.NewInventoryService(productRepo, categoryRepo, supplierRepo, movementRepo, publisher, dispatcher, thresholds, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	reportService := service.NewReportService(productRepo, supplierRepo, thresholds, log)

	// Handlers
	productHandler := handler.NewProductHandler(inventoryService, log)
	categoryHandler := handler.NewCategoryHandler(inventoryService, log)
	supplierHandler := handler.NewSupplierHandler(inventoryService, log)
	stockHandler := handler.NewStockHandler(inventoryService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	dashboardHandler := handler.NewDashboardHandler(inventoryService, notificationService, log)

	// Start user event consumer
	userConsumer, err := consumers.NewUserEventConsumer(rmq, staffUserRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create user event consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := userConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start user event consumer")
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "inventory-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// Reads are open to any authenticated user; mutations, reports and the
	// dashboard require staff privileges.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httputil.Auth(cfg.JWT.Secret, cfg.JWT.Issuer))

		r.Route("/products", func(r chi.Router) {
			staff := r.With(httputil.RequireStaff)

			r.Get("/", productHandler.List)
			staff.Post("/", productHandler.Create)
			r.Get("/sku/{sku}", productHandler.GetBySKU)
			r.Get("/{id}", productHandler.Get)
			staff.Put("/{id}", productHandler.Update)
			staff.Delete("/{id}", productHandler.Delete)
			r.Get("/{id}/suppliers", productHandler.ListSuppliers)
			staff.Post("/{id}/stock", stockHandler.Update)
			r.Get("/{id}/movements", stockHandler.ListProductMovements)
		})

		r.Route("/categories", func(r chi.Router) {
			staff := r.With(httputil.RequireStaff)

			r.Get("/", categoryHandler.List)
			staff.Post("/", categoryHandler.Create)
			r.Get("/{id}", categoryHandler.Get)
			staff.Put("/{id}", categoryHandler.Update)
			staff.Delete("/{id}", categoryHandler.Delete)
		})

		r.Route("/suppliers", func(r chi.Router) {
			staff := r.With(httputil.RequireStaff)

			r.Get("/", supplierHandler.List)
			staff.Post("/", supplierHandler.Create)
			r.Get("/{id}", supplierHandler.Get)
			staff.Put("/{id}", supplierHandler.Update)
			staff.Delete("/{id}", supplierHandler.Delete)
			staff.Post("/{id}/products", supplierHandler.LinkProduct)
			r.Get("/{id}/products/{linkID}", supplierHandler.GetLink)
			staff.Put("/{id}/products/{linkID}", supplierHandler.UpdateLink)
			staff.Post("/{id}/products/{linkID}/toggle", supplierHandler.ToggleLink)
			staff.Delete("/{id}/products/{linkID}", supplierHandler.UnlinkProduct)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/status", stockHandler.Status)
			r.Get("/movements", stockHandler.ListMovements)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Get("/unread", notificationHandler.UnreadCount)
			r.Put("/read-all", notificationHandler.MarkAllRead)
			r.Put("/{id}/read", notificationHandler.MarkRead)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(httputil.RequireStaff)

			r.Get("/inventory", reportHandler.Inventory)
			r.Get("/inventory/pdf", reportHandler.InventoryPDF)
			r.Get("/inventory/csv", reportHandler.InventoryCSV)
			r.Get("/suppliers", reportHandler.Suppliers)
			r.Get("/suppliers/pdf", reportHandler.SuppliersPDF)
			r.Get("/suppliers/csv", reportHandler.SuppliersCSV)
		})

		r.With(httputil.RequireStaff).Get("/dashboard", dashboardHandler.Get)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
