package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/infrastructure/persistence/models"
)

// GormConsolidatedBalanceRepository implements revenue.ConsolidatedBalanceRepository using GORM
type GormConsolidatedBalanceRepository struct {
	db *gorm.DB
}

// NewGormConsolidatedBalanceRepository creates a new GormConsolidatedBalanceRepository
func NewGormConsolidatedBalanceRepository(db *gorm.DB) *GormConsolidatedBalanceRepository {
	return &GormConsolidatedBalanceRepository{db: db}
}

// FindByIDForTenant finds a balance snapshot by ID for a specific tenant
func (r *GormConsolidatedBalanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.ConsolidatedBalance, error) {
	var model models.ConsolidatedBalanceModel
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

// FindAllForTenant finds all balance snapshots for a tenant, newest period first
func (r *GormConsolidatedBalanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]revenue.ConsolidatedBalance, error) {
	var balanceModels []models.ConsolidatedBalanceModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.ConsolidatedBalanceModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, BalanceSortFields, "period_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&balanceModels).Error; err != nil {
		return nil, err
	}
	balances := make([]revenue.ConsolidatedBalance, len(balanceModels))
	for i, model := range balanceModels {
		balances[i] = *model.ToDomain()
	}
	return balances, nil
}

// Save appends a balance snapshot
func (r *GormConsolidatedBalanceRepository) Save(ctx context.Context, balance *revenue.ConsolidatedBalance) error {
	var model models.ConsolidatedBalanceModel
	model.FromDomain(balance)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

var _ revenue.ConsolidatedBalanceRepository = (*GormConsolidatedBalanceRepository)(nil)
