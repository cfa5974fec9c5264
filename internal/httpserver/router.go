package httpserver

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/metrics"
)

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps, opts Options) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(recovery(logger), requestLogger(logger), requestMetrics(), cors.New(corsConfig(opts.AllowedOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Backend))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.GET("/catalog", h.home)
	api.GET("/search", h.search)
	api.GET("/products/:slug", h.product)

	session := api.Group("", sessionMiddleware(opts.SecureCookies), leaseStore(deps.Sessions))
	session.GET("/state", h.state)
	session.POST("/cart/items", h.addToCart)
	session.PATCH("/cart/items/:id", h.updateQuantity)
	session.DELETE("/cart/items/:id", h.removeFromCart)
	session.DELETE("/cart", h.clearCart)
	session.POST("/wishlist/toggle", h.toggleWishlist)
	session.POST("/checkout", h.checkout)

	return router
}

// corsConfig allows credentialed requests only from explicitly listed
// origins. A wildcard answers any origin without cookies; such clients carry
// the session in the X-Session-ID header instead.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", sessionHeader},
		ExposeHeaders: []string{sessionHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
