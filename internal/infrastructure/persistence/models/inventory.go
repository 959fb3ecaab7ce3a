package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/inventory"
)

// StockMovementModel is the persistence model for the append-only movement log.
type StockMovementModel struct {
	BaseModel
	TenantID    uuid.UUID                `gorm:"column:company_id;type:uuid;not null;index"`
	CreatedBy   *uuid.UUID               `gorm:"type:uuid"`
	ProductID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	ProductName string                   `gorm:"type:varchar(200);not null"`
	Type        inventory.MovementType   `gorm:"type:varchar(20);not null;index"`
	Source      inventory.MovementSource `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal          `gorm:"type:decimal(18,3);not null"`
	StockBefore decimal.Decimal          `gorm:"type:decimal(18,3);not null"`
	StockAfter  decimal.Decimal          `gorm:"type:decimal(18,3);not null"`
	ReferenceID *uuid.UUID               `gorm:"type:uuid;index"`
	Notes       string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity:  m.entity(),
		TenantID:    m.TenantID,
		CreatedBy:   m.CreatedBy,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        m.Type,
		Source:      m.Source,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		ReferenceID: m.ReferenceID,
		Notes:       m.Notes,
	}
}

// StockMovementModelFromDomain creates a persistence model from a domain StockMovement.
func StockMovementModelFromDomain(s *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		TenantID:    s.TenantID,
		CreatedBy:   s.CreatedBy,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Type:        s.Type,
		Source:      s.Source,
		Quantity:    s.Quantity,
		StockBefore: s.StockBefore,
		StockAfter:  s.StockAfter,
		ReferenceID: s.ReferenceID,
		Notes:       s.Notes,
	}
	m.fromEntity(s.BaseEntity)
	return m
}
