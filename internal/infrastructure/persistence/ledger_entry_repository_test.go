package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

func persistedEntry(t *testing.T, db *gorm.DB, tenantID uuid.UUID, entryType revenue.EntryType, amount string, entryDate valueobject.CalendarDate) *revenue.LedgerEntry {
	t.Helper()
	repo := NewGormLedgerEntryRepository(db)
	entry, err := revenue.NewLedgerEntry(
		tenantID, uuid.New(), nil,
		entryType, "", "",
		decimal.RequireFromString(amount), valueobject.USD,
		entryDate, valueobject.CalendarDate{}, valueobject.CalendarDate{},
		"",
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestGormLedgerEntryRepository_MarkPosted(t *testing.T) {
	db := setupRevenueTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	actorID := uuid.New()

	entry := persistedEntry(t, db, tenantID, revenue.EntryRevenue, "1000", valueobject.NewCalendarDate(2025, 1, 31))
	postedAt := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("first call wins the transition", func(t *testing.T) {
		won, err := repo.MarkPosted(ctx, tenantID, entry.ID, postedAt, &actorID)
		require.NoError(t, err)
		assert.True(t, won)

		found, err := repo.FindByIDForTenant(ctx, tenantID, entry.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.IsPosted)
		require.NotNil(t, found.PostedAt)
		require.NotNil(t, found.PostedBy)
		assert.Equal(t, actorID, *found.PostedBy)
	})

	t.Run("second call loses and leaves the row alone", func(t *testing.T) {
		won, err := repo.MarkPosted(ctx, tenantID, entry.ID, postedAt.Add(time.Hour), nil)
		require.NoError(t, err)
		assert.False(t, won)

		found, err := repo.FindByIDForTenant(ctx, tenantID, entry.ID)
		require.NoError(t, err)
		require.NotNil(t, found.PostedBy, "original poster attribution survives")
	})

	t.Run("wrong tenant cannot post", func(t *testing.T) {
		other := persistedEntry(t, db, tenantID, revenue.EntryRevenue, "500", valueobject.NewCalendarDate(2025, 2, 28))
		won, err := repo.MarkPosted(ctx, uuid.New(), other.ID, postedAt, nil)
		require.NoError(t, err)
		assert.False(t, won)
	})
}

func TestGormLedgerEntryRepository_ListUnposted(t *testing.T) {
	db := setupRevenueTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	later := persistedEntry(t, db, tenantID, revenue.EntryRevenue, "300", valueobject.NewCalendarDate(2025, 3, 31))
	earlier := persistedEntry(t, db, tenantID, revenue.EntryReceivable, "100", valueobject.NewCalendarDate(2025, 1, 31))
	posted := persistedEntry(t, db, tenantID, revenue.EntryCash, "200", valueobject.NewCalendarDate(2025, 2, 28))
	persistedEntry(t, db, uuid.New(), revenue.EntryRevenue, "999", valueobject.NewCalendarDate(2025, 1, 31))

	won, err := repo.MarkPosted(ctx, tenantID, posted.ID, time.Now().UTC(), nil)
	require.NoError(t, err)
	require.True(t, won)

	unposted, err := repo.ListUnposted(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, unposted, 2)
	assert.Equal(t, earlier.ID, unposted[0].ID, "entry date order")
	assert.Equal(t, later.ID, unposted[1].ID)
}

func TestGormLedgerEntryRepository_FindAllForTenant_Filters(t *testing.T) {
	db := setupRevenueTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	revenueEntry := persistedEntry(t, db, tenantID, revenue.EntryRevenue, "700", valueobject.NewCalendarDate(2025, 1, 31))
	persistedEntry(t, db, tenantID, revenue.EntryDeferredRevenue, "400", valueobject.NewCalendarDate(2025, 1, 31))

	won, err := repo.MarkPosted(ctx, tenantID, revenueEntry.ID, time.Now().UTC(), nil)
	require.NoError(t, err)
	require.True(t, won)

	t.Run("by entry type", func(t *testing.T) {
		entryType := revenue.EntryDeferredRevenue
		entries, err := repo.FindAllForTenant(ctx, tenantID, revenue.LedgerFilter{EntryType: &entryType})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("400")))
	})

	t.Run("by posted flag", func(t *testing.T) {
		postedOnly := true
		entries, err := repo.FindAllForTenant(ctx, tenantID, revenue.LedgerFilter{Posted: &postedOnly})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, revenueEntry.ID, entries[0].ID)
	})

	t.Run("by contract", func(t *testing.T) {
		entries, err := repo.FindAllForTenant(ctx, tenantID, revenue.LedgerFilter{ContractID: &revenueEntry.ContractID})
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})
}
