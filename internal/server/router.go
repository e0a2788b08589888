// Package server assembles the gin engine and its route table.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suppliers-be/internal/controllers"
	"suppliers-be/internal/logging"
	"suppliers-be/internal/middleware"
	"suppliers-be/internal/models"
	"suppliers-be/internal/service"
)

// Dependencies are the handlers and middleware the router wires together.
type Dependencies struct {
	Logger      logging.Logger
	AuthService service.AuthService

	Auth     *controllers.AuthController
	User     *controllers.UserController
	Supplier *controllers.SupplierController
	QRCode   *controllers.QRCodeController

	// GeneralLimiter applies to every /api route, AuthLimiter additionally
	// to /api/auth. Either may be nil to disable it.
	GeneralLimiter *middleware.RateLimiter
	AuthLimiter    *middleware.RateLimiter
}

// NewRouter builds the HTTP handler for the whole API
func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(d.Logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Welcome to the suppliers API"})
	})

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := router.Group("/api")
	if d.GeneralLimiter != nil {
		api.Use(d.GeneralLimiter.LimitMiddleware())
	}
	{
		auth := api.Group("/auth")
		if d.AuthLimiter != nil {
			auth.Use(d.AuthLimiter.LimitMiddleware())
		}
		{
			auth.POST("/signup", d.Auth.Signup)
			auth.POST("/login", d.Auth.Login)
			auth.POST("/logout", d.Auth.Logout)
		}

		// Protected routes - require a valid access token
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(d.AuthService))
		{
			user := protected.Group("/user")
			user.GET("/me", d.User.GetMe)
			user.PUT("/me", d.User.UpdateMe)
			user.DELETE("/me", d.User.DeleteMe)

			suppliers := protected.Group("/suppliers")
			for _, path := range []string{"", "/"} {
				suppliers.GET(path, d.Supplier.ListSuppliers)
				suppliers.POST(path, d.Supplier.CreateSupplier)
			}
			suppliers.GET("/:id", d.Supplier.GetSupplier)
			suppliers.PUT("/:id", d.Supplier.UpdateSupplier)
			suppliers.DELETE("/:id", d.Supplier.DeleteSupplier)
			suppliers.GET("/:id/qrcode", d.QRCode.GenerateQRCode)
		}
	}

	return router
}
