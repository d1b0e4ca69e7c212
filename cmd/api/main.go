package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowcart-backend/config"
	"glowcart-backend/internal/delivery/http/middleware"
	v1 "glowcart-backend/internal/delivery/http/v1"
	"glowcart-backend/internal/domain"
	"glowcart-backend/internal/infrastructure/cache"
	"glowcart-backend/internal/infrastructure/notify"
	"glowcart-backend/internal/repository/postgres"
	"glowcart-backend/internal/usecase"
	"glowcart-backend/pkg/logger"
	"glowcart-backend/pkg/storage"
	"glowcart-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL")

	// Initialize Repositories
	orderRepo := postgres.NewOrderRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// --- Evidence Storage (R2) ---
	r2Storage, err := storage.NewR2Storage(
		context.Background(),
		cfg.R2AccountID,
		cfg.R2AccessKeyID,
		cfg.R2AccessKeySecret,
		cfg.R2BucketName,
		cfg.R2PublicURL,
		cfg.R2UploadTimeout,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
	}
	uploadHandler := v1.NewUploadHandler(r2Storage, cfg.MaxUploadSizeMB)

	// --- Notification Webhook ---
	notifier := notify.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyTimeout)

	// --- Order & Return Modules ---
	orderUC := usecase.NewOrderUsecase(orderRepo, txManager, notifier)
	returnUC := usecase.NewReturnUsecase(orderRepo, txManager, notifier)
	orderHandler := v1.NewOrderHandler(orderUC, returnUC)
	adminOrderHandler := v1.NewAdminOrderHandler(orderUC)
	returnHandler := v1.NewReturnHandler(returnUC)

	// Config Handler
	configHandler := v1.NewConfigHandler(memCache, cfg.CacheEnumsTTL)

	// Set up Router
	mux := http.NewServeMux()

	// Route guard helpers
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}
	withRoles := func(h http.HandlerFunc, roles ...string) http.Handler {
		return middleware.AuthMiddleware(middleware.RequireRole(roles...)(h))
	}
	staff := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.StaffOnly(h))
	}

	// Config (Public)
	mux.HandleFunc("GET /api/v1/config/enums", configHandler.GetEnums)

	// Customer: orders & return workflow entry
	mux.Handle("GET /api/v1/orders", authed(orderHandler.GetMyOrders))
	mux.Handle("GET /api/v1/orders/{id}", authed(orderHandler.GetMyOrder))
	mux.Handle("POST /api/v1/orders/{id}/return", withRoles(orderHandler.RequestReturn, domain.RoleCustomer))
	mux.Handle("GET /api/v1/orders/{id}/return", authed(orderHandler.GetMyReturnCase))
	mux.Handle("GET /api/v1/orders/{id}/refund-preview", authed(orderHandler.PreviewMyRefund))
	mux.Handle("POST /api/v1/orders/{id}/evidence", authed(uploadHandler.UploadEvidence))

	// Back office: listings, detail, fulfilment, audit trail
	mux.Handle("GET /api/v1/admin/orders", staff(adminOrderHandler.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", staff(adminOrderHandler.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", withRoles(adminOrderHandler.UpdateStatus, domain.RoleAdmin))
	mux.Handle("GET /api/v1/admin/orders/{id}/events", staff(adminOrderHandler.GetOrderEvents))

	// Back office: return workflow transitions. Route guards narrow access
	// per console; the state machine re-checks role and status either way.
	mux.Handle("GET /api/v1/admin/orders/{id}/return", staff(returnHandler.GetReturnCase))
	mux.Handle("GET /api/v1/admin/orders/{id}/refund-preview", staff(returnHandler.PreviewRefund))
	mux.Handle("POST /api/v1/admin/orders/{id}/return/cs-confirm", withRoles(returnHandler.CSConfirm, domain.RoleCustomerSupport))
	mux.Handle("POST /api/v1/admin/orders/{id}/return/staff-confirm", withRoles(returnHandler.StaffConfirm, domain.RoleWarehouseStaff))
	mux.Handle("POST /api/v1/admin/orders/{id}/return/reject", withRoles(returnHandler.Reject, domain.RoleCustomerSupport, domain.RoleWarehouseStaff))
	mux.Handle("POST /api/v1/admin/orders/{id}/return/confirm-refund", withRoles(returnHandler.ConfirmRefund, domain.RoleFinanceAdmin))
	mux.Handle("POST /api/v1/admin/orders/{id}/evidence", staff(uploadHandler.UploadEvidence))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,
		100,
		time.Minute,
		3*time.Minute,
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart("glowcart-backend", "1.0.0", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()
	log.Info().Msg("Server exited properly")
}
