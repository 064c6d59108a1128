package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/infrastructure/persistence/models"
)

// GormLedgerEntryRepository implements revenue.LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByIDForTenant finds a ledger entry by ID for a specific tenant
func (r *GormLedgerEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all ledger entries for a tenant with filtering
func (r *GormLedgerEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter revenue.LedgerFilter) ([]revenue.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyLedgerFilter(query, filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]revenue.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// ListUnposted lists all unposted entries for a tenant in stable order
func (r *GormLedgerEntryRepository) ListUnposted(ctx context.Context, tenantID uuid.UUID) ([]revenue.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND is_posted = ?", tenantID, false).
		Order("entry_date ASC, created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]revenue.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *revenue.LedgerEntry) error {
	var model models.LedgerEntryModel
	model.FromDomain(entry)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// MarkPosted flips an entry to posted with a conditional write. The update
// only matches while is_posted is still false, so of any number of racing
// callers exactly one observes true.
func (r *GormLedgerEntryRepository) MarkPosted(ctx context.Context, tenantID, id uuid.UUID, at time.Time, by *uuid.UUID) (bool, error) {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ? AND id = ? AND is_posted = ?", tenantID, id, false).
		Updates(map[string]interface{}{
			"is_posted":  true,
			"posted_at":  at,
			"posted_by":  by,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// applyLedgerFilter applies filter options to the query
func (r *GormLedgerEntryRepository) applyLedgerFilter(query *gorm.DB, filter revenue.LedgerFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR debit_account ILIKE ? OR credit_account ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.EntryType != nil {
		query = query.Where("entry_type = ?", *filter.EntryType)
	}
	if filter.Posted != nil {
		query = query.Where("is_posted = ?", *filter.Posted)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, LedgerSortFields, "entry_date")
	if filter.OrderBy == "" {
		return query.Order("entry_date ASC, created_at ASC")
	}
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

var _ revenue.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
