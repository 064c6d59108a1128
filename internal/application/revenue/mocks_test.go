package revenue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
)

// =============================================================================
// Mock repositories shared by the service tests
// =============================================================================

// MockContractRepository is a mock implementation of revenue.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.Contract, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter revenue.ContractFilter) ([]revenue.Contract, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]revenue.Contract), args.Error(1)
}

func (m *MockContractRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *revenue.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockContractRepository) SaveVersion(ctx context.Context, version *revenue.ContractVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockContractRepository) FindVersionForTenant(ctx context.Context, tenantID, versionID uuid.UUID) (*revenue.ContractVersion, error) {
	args := m.Called(ctx, tenantID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.ContractVersion), args.Error(1)
}

func (m *MockContractRepository) SaveObligation(ctx context.Context, obligation *revenue.PerformanceObligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockContractRepository) FindObligationForTenant(ctx context.Context, tenantID, obligationID uuid.UUID) (*revenue.PerformanceObligation, error) {
	args := m.Called(ctx, tenantID, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.PerformanceObligation), args.Error(1)
}

func (m *MockContractRepository) ListObligationsByVersion(ctx context.Context, tenantID, versionID uuid.UUID) ([]revenue.PerformanceObligation, error) {
	args := m.Called(ctx, tenantID, versionID)
	return args.Get(0).([]revenue.PerformanceObligation), args.Error(1)
}

func (m *MockContractRepository) SumAllocatedByVersion(ctx context.Context, tenantID, versionID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, versionID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockScheduleRepository is a mock implementation of revenue.BillingScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.BillingSchedule, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.BillingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter revenue.ScheduleFilter) ([]revenue.BillingSchedule, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]revenue.BillingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]revenue.BillingSchedule, error) {
	args := m.Called(ctx, tenantID, contractID)
	return args.Get(0).([]revenue.BillingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Save(ctx context.Context, schedule *revenue.BillingSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) SaveAll(ctx context.Context, schedules []*revenue.BillingSchedule) error {
	args := m.Called(ctx, schedules)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of revenue.LedgerEntryRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter revenue.LedgerFilter) ([]revenue.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]revenue.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListUnposted(ctx context.Context, tenantID uuid.UUID) ([]revenue.LedgerEntry, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]revenue.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Save(ctx context.Context, entry *revenue.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkPosted(ctx context.Context, tenantID, id uuid.UUID, at time.Time, by *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id, at, by)
	return args.Bool(0), args.Error(1)
}

// MockBalanceRepository is a mock implementation of revenue.ConsolidatedBalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.ConsolidatedBalance, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.ConsolidatedBalance), args.Error(1)
}

func (m *MockBalanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]revenue.ConsolidatedBalance, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]revenue.ConsolidatedBalance), args.Error(1)
}

func (m *MockBalanceRepository) Save(ctx context.Context, balance *revenue.ConsolidatedBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// fakeUnitOfWork runs the function directly without a storage transaction
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
