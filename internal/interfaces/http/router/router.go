package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revrec/backend/internal/infrastructure/logger"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar is implemented by handlers that register their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the gin engine, middleware chain and API route groups
type Router struct {
	engine     *gin.Engine
	log        *zap.Logger
	apiVersion string
	registrars []RouteRegistrar
}

// New creates a Router with the standard middleware chain
func New(log *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TenantContext())

	return &Router{
		engine:     engine,
		log:        log,
		apiVersion: "v1",
	}
}

// Register queues handlers for route registration during Setup
func (r *Router) Register(registrars ...RouteRegistrar) {
	r.registrars = append(r.registrars, registrars...)
}

// Setup registers health endpoints and all queued handlers under the
// versioned API group, then returns the engine
func (r *Router) Setup() *gin.Engine {
	r.engine.GET("/health", r.health)
	r.engine.GET("/healthz", r.health)

	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	return r.engine
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
