package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
	"github.com/revrec/backend/internal/interfaces/http/dto"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// MockLedgerEntryRepository implements revenue.LedgerEntryRepository for testing
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter revenue.LedgerFilter) ([]revenue.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]revenue.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) ListUnposted(ctx context.Context, tenantID uuid.UUID) ([]revenue.LedgerEntry, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]revenue.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) Save(ctx context.Context, entry *revenue.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) MarkPosted(ctx context.Context, tenantID, id uuid.UUID, at time.Time, by *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id, at, by)
	return args.Bool(0), args.Error(1)
}

func newLedgerTestServer(repo revenue.LedgerEntryRepository, tenantID uuid.UUID) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("tenant_context", shared.NewTenantContext(tenantID, uuid.Nil))
	})
	api := engine.Group("/api/v1")
	NewLedgerHandler(revenueapp.NewLedgerService(repo)).RegisterRoutes(api)
	return engine
}

func testLedgerEntry(t *testing.T, tenantID uuid.UUID) *revenue.LedgerEntry {
	t.Helper()
	entry, err := revenue.NewLedgerEntry(
		tenantID, uuid.New(), nil,
		revenue.EntryRevenue,
		"contract_asset", "revenue",
		decimal.NewFromInt(1000),
		valueobject.USD,
		valueobject.NewCalendarDate(2025, 1, 31), valueobject.CalendarDate{}, valueobject.CalendarDate{},
		"January recognition",
	)
	require.NoError(t, err)
	return entry
}

func TestLedgerHandler_CreateEntry(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockLedgerEntryRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*revenue.LedgerEntry")).Return(nil)

	engine := newLedgerTestServer(repo, tenantID)

	body, _ := json.Marshal(gin.H{
		"contract_id":    uuid.New().String(),
		"entry_type":     "REVENUE",
		"debit_account":  "contract_asset",
		"credit_account": "revenue",
		"amount":         "1000",
		"entry_date":     "2025-01-31",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/entries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	repo.AssertExpectations(t)
}

func TestLedgerHandler_CreateEntry_InvalidDate(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockLedgerEntryRepository)
	engine := newLedgerTestServer(repo, tenantID)

	body, _ := json.Marshal(gin.H{
		"contract_id": uuid.New().String(),
		"entry_type":  "REVENUE",
		"amount":      "1000",
		"entry_date":  "not-a-date",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/entries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidDate, resp.Error.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLedgerHandler_Get_NotFound(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockLedgerEntryRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, mock.Anything).Return(nil, nil)

	engine := newLedgerTestServer(repo, tenantID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/entries/"+uuid.New().String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestLedgerHandler_Post(t *testing.T) {
	tenantID := uuid.New()
	entry := testLedgerEntry(t, tenantID)

	repo := new(MockLedgerEntryRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, entry.ID).Return(entry, nil)
	repo.On("MarkPosted", mock.Anything, tenantID, entry.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			at := args.Get(3).(time.Time)
			entry.IsPosted = true
			entry.PostedAt = &at
		}).
		Return(true, nil)

	engine := newLedgerTestServer(repo, tenantID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/entries/"+entry.ID.String()+"/post", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	payload, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, payload["is_posted"])
	repo.AssertExpectations(t)
}

func TestLedgerHandler_PostAll(t *testing.T) {
	tenantID := uuid.New()
	first := testLedgerEntry(t, tenantID)
	second := testLedgerEntry(t, tenantID)

	repo := new(MockLedgerEntryRepository)
	repo.On("ListUnposted", mock.Anything, tenantID).Return([]revenue.LedgerEntry{*first, *second}, nil)
	repo.On("MarkPosted", mock.Anything, tenantID, first.ID, mock.Anything, mock.Anything).Return(true, nil)
	repo.On("MarkPosted", mock.Anything, tenantID, second.ID, mock.Anything, mock.Anything).Return(true, nil)

	engine := newLedgerTestServer(repo, tenantID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/post-all", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payload, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), payload["posted"])
	repo.AssertExpectations(t)
}

func TestLedgerHandler_PostAll_ReportsPartialProgress(t *testing.T) {
	tenantID := uuid.New()
	first := testLedgerEntry(t, tenantID)
	second := testLedgerEntry(t, tenantID)

	repo := new(MockLedgerEntryRepository)
	repo.On("ListUnposted", mock.Anything, tenantID).Return([]revenue.LedgerEntry{*first, *second}, nil)
	repo.On("MarkPosted", mock.Anything, tenantID, first.ID, mock.Anything, mock.Anything).Return(true, nil)
	repo.On("MarkPosted", mock.Anything, tenantID, second.ID, mock.Anything, mock.Anything).
		Return(false, assert.AnError)

	engine := newLedgerTestServer(repo, tenantID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/post-all", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)

	// Entries posted before the failure stay posted and are reported
	payload, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), payload["posted"])
	assert.Equal(t, second.ID.String(), payload["failed_id"])
	repo.AssertExpectations(t)
}

func TestLedgerHandler_List_FiltersByType(t *testing.T) {
	tenantID := uuid.New()
	entry := testLedgerEntry(t, tenantID)

	repo := new(MockLedgerEntryRepository)
	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f revenue.LedgerFilter) bool {
		return f.EntryType != nil && *f.EntryType == revenue.EntryRevenue
	})).Return([]revenue.LedgerEntry{*entry}, nil)

	engine := newLedgerTestServer(repo, tenantID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/entries?entry_type=revenue", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

// Handlers read the tenant from the middleware-populated context, so the
// middleware helper and handler wiring must agree on the context key.
func TestLedgerHandler_TenantContextKeyMatchesMiddleware(t *testing.T) {
	engine := gin.New()
	tenantID := uuid.New()
	var got uuid.UUID
	engine.Use(func(c *gin.Context) {
		c.Set("tenant_context", shared.NewTenantContext(tenantID, uuid.Nil))
	})
	engine.GET("/probe", func(c *gin.Context) {
		got = middleware.GetTenantContext(c).TenantID
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, tenantID, got)
}
