package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/revrec/backend/internal/domain/shared"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTenantContext_HeaderExtraction(t *testing.T) {
	validTenant := uuid.New()

	tests := []struct {
		name           string
		tenantHeader   string
		actorHeader    string
		expectedStatus int
	}{
		{
			name:           "valid tenant ID",
			tenantHeader:   validTenant.String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid tenant and actor",
			tenantHeader:   validTenant.String(),
			actorHeader:    uuid.New().String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing tenant header",
			tenantHeader:   "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed tenant ID",
			tenantHeader:   "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "nil tenant ID",
			tenantHeader:   uuid.Nil.String(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed actor ID",
			tenantHeader:   validTenant.String(),
			actorHeader:    "bogus",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(TenantContext())

			var captured shared.TenantContext
			engine.GET("/test", func(c *gin.Context) {
				captured = GetTenantContext(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.tenantHeader != "" {
				req.Header.Set(TenantHeaderKey, tt.tenantHeader)
			}
			if tt.actorHeader != "" {
				req.Header.Set(ActorHeaderKey, tt.actorHeader)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.tenantHeader, captured.TenantID.String())
				if tt.actorHeader != "" {
					assert.Equal(t, tt.actorHeader, captured.ActorID.String())
				} else {
					assert.Equal(t, uuid.Nil, captured.ActorID)
				}
			}
		})
	}
}

func TestTenantContext_SkipPaths(t *testing.T) {
	engine := gin.New()
	engine.Use(TenantContext())
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantContext_CustomSkipPaths(t *testing.T) {
	engine := gin.New()
	engine.Use(TenantContextWithConfig(TenantConfig{SkipPaths: []string{"/metrics"}}))
	engine.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// /health is no longer skipped with a custom config
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetTenantContext_ZeroValueWhenAbsent(t *testing.T) {
	engine := gin.New()

	var captured shared.TenantContext
	engine.GET("/test", func(c *gin.Context) {
		captured = GetTenantContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, uuid.Nil, captured.TenantID)
	assert.False(t, captured.Valid())
}
