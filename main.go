package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"suppliers-be/internal/cache"
	"suppliers-be/internal/config"
	"suppliers-be/internal/controllers"
	"suppliers-be/internal/database"
	"suppliers-be/internal/jwt"
	"suppliers-be/internal/logging"
	"suppliers-be/internal/middleware"
	"suppliers-be/internal/server"
	"suppliers-be/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	// Connect to database
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}
	logger.Info(ctx, "database ready")

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, continuing without cache", "error", err)
			cacheClient = nil
		} else {
			defer cacheClient.Close()
			logger.Info(ctx, "connected to redis cache")
		}
	}

	// Initialize JWT service
	jwtService, err := jwt.NewJWTService(cfg.SecretKey, cfg.AccessTokenTTL(), cfg.Algorithm)
	if err != nil {
		return err
	}

	// Initialize services
	userService := service.NewUserService(db, cfg.BcryptCost, logger)
	supplierService := service.NewSupplierService(db, cacheClient, cfg.SupplierCacheTTL(), logger)
	authService, err := service.NewAuthService(userService, jwtService, cfg.BcryptCost, logger)
	if err != nil {
		return err
	}

	// Initialize controllers
	cookie := controllers.CookieConfig{
		Domain: cfg.Domain,
		Secure: cfg.IsProduction(),
		MaxAge: jwtService.TTL(),
	}

	router := server.NewRouter(server.Dependencies{
		Logger:         logger,
		AuthService:    authService,
		Auth:           controllers.NewAuthController(authService, cookie),
		User:           controllers.NewUserController(userService, cookie),
		Supplier:       controllers.NewSupplierController(supplierService),
		QRCode:         controllers.NewQRCodeController(supplierService, cfg.FrontendURL),
		GeneralLimiter: middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		AuthLimiter:    middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
