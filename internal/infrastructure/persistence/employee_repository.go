package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/hr"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements hr.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

func (r *GormEmployeeRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("company_id = ?", tenantID)
}

func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "first_name", "last_name", "position")
	if value, ok := filter.Filters[hr.FilterIsActive]; ok {
		query = query.Where("is_active = ?", value)
	}
	return query
}

func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	var m models.EmployeeModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	var rows []models.EmployeeModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, employeeSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	employees := make([]hr.Employee, len(rows))
	for i := range rows {
		employees[i] = *rows[i].ToDomain()
	}
	return employees, nil
}

func (r *GormEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

func (r *GormEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	m := models.EmployeeModelFromDomain(employee)
	return saveVersioned(ctx, r.db, m, m.ID, employee, nil)
}

func (r *GormEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.EmployeeModel{}))
}

var _ hr.EmployeeRepository = (*GormEmployeeRepository)(nil)
