package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/infrastructure/persistence/models"
)

// GormBillingScheduleRepository implements revenue.BillingScheduleRepository using GORM
type GormBillingScheduleRepository struct {
	db *gorm.DB
}

// NewGormBillingScheduleRepository creates a new GormBillingScheduleRepository
func NewGormBillingScheduleRepository(db *gorm.DB) *GormBillingScheduleRepository {
	return &GormBillingScheduleRepository{db: db}
}

// FindByIDForTenant finds a billing schedule by ID for a specific tenant
func (r *GormBillingScheduleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*revenue.BillingSchedule, error) {
	var model models.BillingScheduleModel
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

// FindAllForTenant finds all billing schedules for a tenant with filtering
func (r *GormBillingScheduleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter revenue.ScheduleFilter) ([]revenue.BillingSchedule, error) {
	var scheduleModels []models.BillingScheduleModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.BillingScheduleModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyScheduleFilter(query, filter)

	if err := query.Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	schedules := make([]revenue.BillingSchedule, len(scheduleModels))
	for i, model := range scheduleModels {
		schedules[i] = *model.ToDomain()
	}
	return schedules, nil
}

// FindByContract finds all installments of a contract in billing order
func (r *GormBillingScheduleRepository) FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]revenue.BillingSchedule, error) {
	var scheduleModels []models.BillingScheduleModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND contract_id = ?", tenantID, contractID).
		Order("billing_date ASC, created_at ASC").
		Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	schedules := make([]revenue.BillingSchedule, len(scheduleModels))
	for i, model := range scheduleModels {
		schedules[i] = *model.ToDomain()
	}
	return schedules, nil
}

// Save creates or updates a billing schedule
func (r *GormBillingScheduleRepository) Save(ctx context.Context, schedule *revenue.BillingSchedule) error {
	var model models.BillingScheduleModel
	model.FromDomain(schedule)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// SaveAll persists a batch of schedules in one transaction
func (r *GormBillingScheduleRepository) SaveAll(ctx context.Context, schedules []*revenue.BillingSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	scheduleModels := make([]models.BillingScheduleModel, len(schedules))
	for i, schedule := range schedules {
		scheduleModels[i].FromDomain(schedule)
	}
	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range scheduleModels {
			if err := tx.Save(&scheduleModels[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// applyScheduleFilter applies filter options to the query
func (r *GormBillingScheduleRepository) applyScheduleFilter(query *gorm.DB, filter revenue.ScheduleFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR notes ILIKE ?", searchPattern, searchPattern)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.ObligationID != nil {
		query = query.Where("obligation_id = ?", *filter.ObligationID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ScheduleSortFields, "billing_date")
	if filter.OrderBy == "" {
		return query.Order("billing_date ASC, created_at ASC")
	}
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

var _ revenue.BillingScheduleRepository = (*GormBillingScheduleRepository)(nil)
