package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) fromEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

func (m *BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// AggregateModel adds the aggregate version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) fromAggregate(a shared.BaseAggregateRoot) {
	m.fromEntity(a.BaseEntity)
	m.Version = a.Version
}

func (m *AggregateModel) aggregate() shared.BaseAggregateRoot {
	return shared.RestoreAggregateRoot(m.entity(), m.Version)
}

// SetVersion sets the version about to be written
func (m *AggregateModel) SetVersion(version int) { m.Version = version }

// TenantModel scopes an aggregate to a company. TenantID maps to the
// company_id column.
type TenantModel struct {
	AggregateModel
	TenantID  uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

func (m *TenantModel) fromTenantRoot(t shared.TenantAggregateRoot) {
	m.fromAggregate(t.BaseAggregateRoot)
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

func (m *TenantModel) tenantRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.aggregate(),
		TenantID:          m.TenantID,
		CreatedBy:         m.CreatedBy,
	}
}

// All returns every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&CompanyModel{}, &UserModel{},
		&ProductModel{}, &ProductSupplierModel{},
		&ClientModel{}, &SupplierModel{},
		&StockMovementModel{},
		&SaleModel{}, &SaleItemModel{}, &SaleInstallmentModel{},
		&PurchaseModel{}, &PurchaseItemModel{}, &PurchaseInstallmentModel{},
		&QuoteModel{}, &DeliveryModel{}, &SaleReturnModel{},
		&SalePaymentModel{}, &PurchasePaymentModel{}, &ChargeModel{},
		&NotificationModel{}, &EmployeeModel{},
	}
}
