package httpserver

import (
	"buywidget/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// buildRouter wires the page, the widget event endpoints and health checks.
func buildRouter(cfg config.ServerConfig, logger *zap.Logger, deps Deps) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(recovery(logger), requestLogger(logger), corsMiddleware(cfg.CORS))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Storage))

	h := &widgetHandler{reg: deps.Registry, page: deps.Page, logger: logger}
	router.GET("/", h.index)
	router.GET("/cart.json", h.cart)

	w := router.Group("/widget")
	{
		w.POST("/buttons/:container/add", h.addToCart)
		w.POST("/drawer/items/:index/:action", h.updateItem)
		w.POST("/drawer/open", h.openDrawer)
		w.POST("/drawer/close", h.closeDrawer)
		w.POST("/drawer/checkout", h.checkout)
		w.POST("/badge/click", h.clickBadge)
		w.POST("/upsell", h.addUpsell)
	}

	return router
}
