package revenue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

func newBalanceFixture() (*BalanceService, *MockContractRepository, *MockScheduleRepository, *MockLedgerRepository, *MockBalanceRepository, shared.TenantContext) {
	contractRepo := new(MockContractRepository)
	scheduleRepo := new(MockScheduleRepository)
	ledgerRepo := new(MockLedgerRepository)
	balanceRepo := new(MockBalanceRepository)
	svc := NewBalanceService(contractRepo, scheduleRepo, ledgerRepo, balanceRepo)
	return svc, contractRepo, scheduleRepo, ledgerRepo, balanceRepo, newTestTenantContext()
}

func paidSchedule(t *testing.T, tenantID uuid.UUID, amount string) revenue.BillingSchedule {
	t.Helper()
	schedule, err := revenue.NewBillingSchedule(
		tenantID, uuid.New(), nil,
		valueobject.NewCalendarDate(2025, 1, 1),
		valueobject.NewCalendarDate(2025, 1, 31),
		decimal.RequireFromString(amount),
		valueobject.USD,
		revenue.FrequencyMonthly,
		"",
	)
	require.NoError(t, err)
	require.NoError(t, schedule.MarkInvoiced("INV-100"))
	require.NoError(t, schedule.MarkPaid(decimal.Zero, valueobject.NewCalendarDate(2025, 2, 15)))
	return *schedule
}

func scheduledSchedule(t *testing.T, tenantID uuid.UUID, amount string) revenue.BillingSchedule {
	t.Helper()
	schedule, err := revenue.NewBillingSchedule(
		tenantID, uuid.New(), nil,
		valueobject.NewCalendarDate(2025, 2, 1),
		valueobject.NewCalendarDate(2025, 3, 3),
		decimal.RequireFromString(amount),
		valueobject.USD,
		revenue.FrequencyMonthly,
		"",
	)
	require.NoError(t, err)
	return *schedule
}

// Posted revenue of 5,000, unposted deferred revenue of 3,000, one paid
// installment of 4,500 and one still scheduled: the snapshot recognizes
// 5,000, defers 3,000, bills 4,500, collects 4,500 and carries a 500
// contract asset with no liability or open receivable.
func TestGenerateSnapshot_ComputesTotals(t *testing.T) {
	svc, contractRepo, scheduleRepo, ledgerRepo, balanceRepo, tctx := newBalanceFixture()

	posted := newUnpostedEntry(t, tctx.TenantID, revenue.EntryRevenue, "5000")
	posted.MarkPosted(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), nil)
	deferred := newUnpostedEntry(t, tctx.TenantID, revenue.EntryDeferredRevenue, "3000")

	contractRepo.On("CountForTenant", mock.Anything, tctx.TenantID).Return(int64(1), nil)
	scheduleRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.BillingSchedule{
		paidSchedule(t, tctx.TenantID, "4500"),
		scheduledSchedule(t, tctx.TenantID, "3500"),
	}, nil)
	ledgerRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.LedgerEntry{*posted, *deferred}, nil)
	balanceRepo.On("Save", mock.Anything, mock.AnythingOfType("*revenue.ConsolidatedBalance")).Return(nil)

	resp, err := svc.GenerateSnapshot(context.Background(), tctx, GenerateSnapshotRequest{
		PeriodDate: "2025-03-31",
		PeriodType: "Quarterly",
	})
	require.NoError(t, err)

	assert.Equal(t, "quarterly", resp.PeriodType)
	assert.True(t, resp.TotalRecognizedRevenue.Equal(decimal.RequireFromString("5000")))
	assert.True(t, resp.TotalDeferredRevenue.Equal(decimal.RequireFromString("3000")))
	assert.True(t, resp.TotalBilledAmount.Equal(decimal.RequireFromString("4500")))
	assert.True(t, resp.TotalCashReceived.Equal(decimal.RequireFromString("4500")))
	assert.True(t, resp.TotalContractAssets.Equal(decimal.RequireFromString("500")))
	assert.True(t, resp.TotalContractLiabilities.IsZero())
	assert.True(t, resp.TotalReceivables.IsZero())
	assert.Equal(t, 1, resp.ContractCount)
	balanceRepo.AssertExpectations(t)
}

func TestGenerateSnapshot_UnpostedRevenueNotRecognized(t *testing.T) {
	svc, contractRepo, scheduleRepo, ledgerRepo, balanceRepo, tctx := newBalanceFixture()

	unposted := newUnpostedEntry(t, tctx.TenantID, revenue.EntryRevenue, "9999")

	contractRepo.On("CountForTenant", mock.Anything, tctx.TenantID).Return(int64(0), nil)
	scheduleRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.BillingSchedule{}, nil)
	ledgerRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.LedgerEntry{*unposted}, nil)
	balanceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.GenerateSnapshot(context.Background(), tctx, GenerateSnapshotRequest{
		PeriodDate: "2025-03-31",
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalRecognizedRevenue.IsZero())
}

func TestGenerateSnapshot_LiabilityWhenBillingLeadsRecognition(t *testing.T) {
	svc, contractRepo, scheduleRepo, ledgerRepo, balanceRepo, tctx := newBalanceFixture()

	posted := newUnpostedEntry(t, tctx.TenantID, revenue.EntryRevenue, "1000")
	posted.MarkPosted(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), nil)

	contractRepo.On("CountForTenant", mock.Anything, tctx.TenantID).Return(int64(1), nil)
	scheduleRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.BillingSchedule{
		paidSchedule(t, tctx.TenantID, "4000"),
	}, nil)
	ledgerRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.LedgerEntry{*posted}, nil)
	balanceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.GenerateSnapshot(context.Background(), tctx, GenerateSnapshotRequest{
		PeriodDate: "2025-03-31",
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalContractAssets.IsZero())
	assert.True(t, resp.TotalContractLiabilities.Equal(decimal.RequireFromString("3000")))
}

func TestGenerateSnapshot_Deterministic(t *testing.T) {
	svc, contractRepo, scheduleRepo, ledgerRepo, balanceRepo, tctx := newBalanceFixture()

	posted := newUnpostedEntry(t, tctx.TenantID, revenue.EntryRevenue, "2500")
	posted.MarkPosted(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), nil)

	contractRepo.On("CountForTenant", mock.Anything, tctx.TenantID).Return(int64(2), nil)
	scheduleRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.BillingSchedule{
		paidSchedule(t, tctx.TenantID, "1200"),
	}, nil)
	ledgerRepo.On("FindAllForTenant", mock.Anything, tctx.TenantID, mock.Anything).Return([]revenue.LedgerEntry{*posted}, nil)
	balanceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	req := GenerateSnapshotRequest{PeriodDate: "2025-03-31", PeriodType: "monthly"}
	first, err := svc.GenerateSnapshot(context.Background(), tctx, req)
	require.NoError(t, err)
	second, err := svc.GenerateSnapshot(context.Background(), tctx, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.TotalRecognizedRevenue.Equal(second.TotalRecognizedRevenue))
	assert.True(t, first.TotalBilledAmount.Equal(second.TotalBilledAmount))
	assert.True(t, first.TotalContractAssets.Equal(second.TotalContractAssets))
	assert.True(t, first.TotalContractLiabilities.Equal(second.TotalContractLiabilities))
	assert.True(t, first.TotalReceivables.Equal(second.TotalReceivables))
}

func TestGenerateSnapshot_RequiresPeriodDate(t *testing.T) {
	svc, _, _, _, _, tctx := newBalanceFixture()

	_, err := svc.GenerateSnapshot(context.Background(), tctx, GenerateSnapshotRequest{})
	var dateErr *revenue.InvalidDateError
	assert.ErrorAs(t, err, &dateErr)
}
