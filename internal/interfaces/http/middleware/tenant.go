package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/infrastructure/logger"
	"github.com/revrec/backend/internal/interfaces/http/dto"
)

// Header names for tenant resolution
const (
	TenantHeaderKey = "X-Tenant-ID"
	ActorHeaderKey  = "X-Actor-ID"
)

// tenantContextKey is the gin context key the resolved TenantContext lives under
const tenantContextKey = "tenant_context"

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// SkipPaths are paths that don't require a tenant (health checks etc.)
	SkipPaths []string
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready"},
	}
}

// TenantContext resolves the tenant and acting user from request headers and
// stores a shared.TenantContext for handlers. Requests without a valid
// X-Tenant-ID are rejected; X-Actor-ID is optional.
func TenantContext() gin.HandlerFunc {
	return TenantContextWithConfig(DefaultTenantConfig())
}

// TenantContextWithConfig returns the tenant middleware with custom configuration
func TenantContextWithConfig(cfg TenantConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		tenantIDStr := c.GetHeader(TenantHeaderKey)
		if tenantIDStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Tenant header is required", GetRequestID(c)))
			return
		}
		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil || tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Invalid tenant ID", GetRequestID(c)))
			return
		}

		actorID := uuid.Nil
		if actorStr := c.GetHeader(ActorHeaderKey); actorStr != "" {
			actorID, err = uuid.Parse(actorStr)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeBadRequest, "Invalid actor ID", GetRequestID(c)))
				return
			}
		}

		c.Set(tenantContextKey, shared.NewTenantContext(tenantID, actorID))

		// Enrich the request-scoped logger so downstream log lines carry the tenant
		ctx, _ := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantContext returns the TenantContext stored by the middleware.
// The zero value is returned when the middleware did not run for this path.
func GetTenantContext(c *gin.Context) shared.TenantContext {
	if v, ok := c.Get(tenantContextKey); ok {
		if tctx, ok := v.(shared.TenantContext); ok {
			return tctx
		}
	}
	return shared.TenantContext{}
}
