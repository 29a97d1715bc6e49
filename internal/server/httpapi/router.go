// Package httpapi maps the REST surface onto application services.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manoj-kumar111/sweet-shop/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth     service.AuthService
	Sweets   service.SweetService
	Verifier TokenVerifier
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(services RouterServices) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(Recovery(services.Logger), Logging(services.Logger))

	r.GET("/health", healthHandler)

	authHandlers := &AuthHandlers{Svc: services.Auth}
	sweetHandlers := &SweetHandlers{Svc: services.Sweets}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandlers.register)
		auth.POST("/register-admin", authHandlers.registerAdmin)
		auth.POST("/login", authHandlers.login)

		sweets := api.Group("/sweets")
		sweets.Use(AuthRequired(services.Verifier))
		sweets.GET("", sweetHandlers.list)
		sweets.GET("/search", sweetHandlers.search)
		sweets.POST("/:id/purchase", sweetHandlers.purchase)

		admin := sweets.Group("")
		admin.Use(RequireAdmin())
		admin.POST("", sweetHandlers.create)
		admin.PUT("/:id", sweetHandlers.update)
		admin.DELETE("/:id", sweetHandlers.delete)
		admin.POST("/:id/restock", sweetHandlers.restock)
	}

	return r
}

// healthHandler is the unauthenticated proof-of-life endpoint.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}
