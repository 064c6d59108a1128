package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/infrastructure/persistence/models"
)

// GormContractRepository implements revenue.ContractRepository using GORM.
// Find methods return (nil, nil) when no row matches; callers translate the
// absence into their own domain errors.
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByIDForTenant finds a contract by ID for a specific tenant
func (r *GormContractRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.Contract, error) {
	var model models.ContractModel
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

// FindAllForTenant finds all contracts for a tenant with filtering
func (r *GormContractRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter revenue.ContractFilter) ([]revenue.Contract, error) {
	var contractModels []models.ContractModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.ContractModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyContractFilter(query, filter)

	if err := query.Find(&contractModels).Error; err != nil {
		return nil, err
	}
	contracts := make([]revenue.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// CountForTenant counts contracts for a tenant
func (r *GormContractRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.ContractModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *revenue.Contract) error {
	var model models.ContractModel
	model.FromDomain(contract)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// DeleteForTenant deletes a contract with everything hanging off it: versions,
// obligations, billing schedules and ledger entries go in the same transaction.
func (r *GormContractRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := "tenant_id = ? AND contract_id = ?"
		if err := tx.Delete(&models.LedgerEntryModel{}, scope, tenantID, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BillingScheduleModel{}, scope, tenantID, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PerformanceObligationModel{}, scope, tenantID, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ContractVersionModel{}, scope, tenantID, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ContractModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return revenue.ErrContractNotFound
		}
		return nil
	})
}

// SaveVersion creates or updates a contract version
func (r *GormContractRepository) SaveVersion(ctx context.Context, version *revenue.ContractVersion) error {
	var model models.ContractVersionModel
	model.FromDomain(version)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// FindVersionForTenant finds a contract version by ID for a tenant
func (r *GormContractRepository) FindVersionForTenant(ctx context.Context, tenantID, versionID uuid.UUID) (*revenue.ContractVersion, error) {
	var model models.ContractVersionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, versionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveObligation creates or updates a performance obligation
func (r *GormContractRepository) SaveObligation(ctx context.Context, obligation *revenue.PerformanceObligation) error {
	var model models.PerformanceObligationModel
	model.FromDomain(obligation)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// FindObligationForTenant finds a performance obligation by ID for a tenant
func (r *GormContractRepository) FindObligationForTenant(ctx context.Context, tenantID, obligationID uuid.UUID) (*revenue.PerformanceObligation, error) {
	var model models.PerformanceObligationModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, obligationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListObligationsByVersion lists obligations allocated against a contract version
func (r *GormContractRepository) ListObligationsByVersion(ctx context.Context, tenantID, versionID uuid.UUID) ([]revenue.PerformanceObligation, error) {
	var obligationModels []models.PerformanceObligationModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND version_id = ?", tenantID, versionID).
		Order("created_at ASC").
		Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	obligations := make([]revenue.PerformanceObligation, len(obligationModels))
	for i, model := range obligationModels {
		obligations[i] = *model.ToDomain()
	}
	return obligations, nil
}

// SumAllocatedByVersion sums the allocated prices of all obligations on a version
func (r *GormContractRepository) SumAllocatedByVersion(ctx context.Context, tenantID, versionID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.PerformanceObligationModel{}).
		Select("COALESCE(SUM(allocated_price), 0) as total").
		Where("tenant_id = ? AND version_id = ?", tenantID, versionID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyContractFilter applies filter options to the query
func (r *GormContractRepository) applyContractFilter(query *gorm.DB, filter revenue.ContractFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("contract_number ILIKE ? OR name ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ContractSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

var _ revenue.ContractRepository = (*GormContractRepository)(nil)
