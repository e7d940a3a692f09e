package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AntonStoeckl/library-lending/library/shell"
)

// RouterConfig holds the collaborators of the router.
type RouterConfig struct {
	Service     LoanService
	Logger      shell.ContextualLogger
	ServiceName string
	Tracing     bool
}

// NewRouter builds the gin engine with all routes of the library API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.Tracing {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	router.Use(RequestContext(), RequestLogger(cfg.Logger))

	handler := NewHandler(cfg.Service)

	router.GET("/healthcheck", handler.HealthCheck)

	api := router.Group("/api")
	api.Use(RequireUser())
	{
		api.POST("/books", handler.AddBook)
		api.GET("/books", handler.ListBooks)
		api.GET("/books/:id", handler.GetBook)
		api.POST("/books/:id/borrow", handler.Borrow)

		api.POST("/loans/:id/return", handler.Return)
		api.POST("/loans/:id/rating", handler.RateLoan)
		api.GET("/loans/overdue", handler.OverdueLoans)

		api.GET("/me/loans", handler.ListOpenLoans)
		api.GET("/me/loans/history", handler.LoanHistory)
	}

	return router
}
