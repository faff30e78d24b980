package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, redisClient *redis.Client) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health())
	})

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db.DB())
	brandRepo := repository.NewBrandRepository(db.DB())
	productRepo := repository.NewProductRepository(db.DB())
	reviewRepo := repository.NewReviewRepository(db.DB())
	deliveryRepo := repository.NewDeliveryLocationRepository(db.DB())
	cartRepo := repository.NewCartRepository(db.DB())
	orderRepo := repository.NewOrderRepository(db.DB())
	adminRepo := repository.NewAdminRepository(db.DB())

	// Initialize services
	catalogService := service.NewCatalogService(categoryRepo, brandRepo, productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	deliveryService := service.NewDeliveryService(deliveryRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, deliveryRepo)
	adminService := service.NewAdminService(adminRepo, cfg.JWT, cfg.Auth)

	mediaService, err := service.NewMediaService(cfg.Cloudinary, cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media service: %w", err)
	}

	// Initialize handlers
	categoryHandler := transport.NewCategoryHandler(catalogService, logger)
	brandHandler := transport.NewBrandHandler(catalogService, logger)
	productHandler := transport.NewProductHandler(catalogService, logger)
	reviewHandler := transport.NewReviewHandler(reviewService, logger)
	deliveryHandler := transport.NewDeliveryHandler(deliveryService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	authHandler := transport.NewAuthHandler(adminService, logger)
	uploadHandler := transport.NewUploadHandler(mediaService, cfg.Upload.MaxSizeBytes, logger)

	// Admin routes require a valid token and an admin role
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	adminOnly := func(next http.Handler) http.Handler {
		return authMiddleware(requireAdmin(next))
	}

	loginLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:login",
	}, logger)

	// Register routes
	categoryHandler.RegisterRoutes(router, adminOnly)
	brandHandler.RegisterRoutes(router, adminOnly)
	productHandler.RegisterRoutes(router, adminOnly)
	reviewHandler.RegisterRoutes(router)
	deliveryHandler.RegisterRoutes(router, adminOnly)
	cartHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router, adminOnly)
	authHandler.RegisterRoutes(router, loginLimiter, adminOnly)
	uploadHandler.RegisterRoutes(router, adminOnly)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
