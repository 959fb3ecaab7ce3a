package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
)

// SalePaymentModel is the persistence model for a client payment.
type SalePaymentModel struct {
	TenantModel
	ClientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID   *uuid.UUID      `gorm:"type:uuid;index"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	Date     time.Time       `gorm:"not null;index"`
	Note     string          `gorm:"type:varchar(500)"`
	Method   string          `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (SalePaymentModel) TableName() string {
	return "sale_payments"
}

// ToDomain converts the persistence model to a domain SalePayment.
func (m *SalePaymentModel) ToDomain() *finance.SalePayment {
	return &finance.SalePayment{
		TenantAggregateRoot: m.tenantRoot(),
		ClientID:            m.ClientID,
		SaleID:              m.SaleID,
		Amount:              m.Amount,
		Date:                m.Date,
		Note:                m.Note,
		Method:              m.Method,
	}
}

// SalePaymentModelFromDomain creates a persistence model from a domain SalePayment.
func SalePaymentModelFromDomain(p *finance.SalePayment) *SalePaymentModel {
	m := &SalePaymentModel{
		ClientID: p.ClientID,
		SaleID:   p.SaleID,
		Amount:   p.Amount,
		Date:     p.Date,
		Note:     p.Note,
		Method:   p.Method,
	}
	m.fromTenantRoot(p.TenantAggregateRoot)
	return m
}

// PurchasePaymentModel is the persistence model for a supplier payment.
type PurchasePaymentModel struct {
	TenantModel
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	Date       time.Time       `gorm:"not null;index"`
	Note       string          `gorm:"type:varchar(500)"`
	Method     string          `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (PurchasePaymentModel) TableName() string {
	return "purchase_payments"
}

// ToDomain converts the persistence model to a domain PurchasePayment.
func (m *PurchasePaymentModel) ToDomain() *finance.PurchasePayment {
	return &finance.PurchasePayment{
		TenantAggregateRoot: m.tenantRoot(),
		SupplierID:          m.SupplierID,
		PurchaseID:          m.PurchaseID,
		Amount:              m.Amount,
		Date:                m.Date,
		Note:                m.Note,
		Method:              m.Method,
	}
}

// PurchasePaymentModelFromDomain creates a persistence model from a domain PurchasePayment.
func PurchasePaymentModelFromDomain(p *finance.PurchasePayment) *PurchasePaymentModel {
	m := &PurchasePaymentModel{
		SupplierID: p.SupplierID,
		PurchaseID: p.PurchaseID,
		Amount:     p.Amount,
		Date:       p.Date,
		Note:       p.Note,
		Method:     p.Method,
	}
	m.fromTenantRoot(p.TenantAggregateRoot)
	return m
}

// ChargeModel is the persistence model for an operating expense.
type ChargeModel struct {
	TenantModel
	Description string             `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal    `gorm:"type:decimal(18,3);not null"`
	Date        time.Time          `gorm:"not null;index"`
	Type        finance.ChargeType `gorm:"type:varchar(20);not null;index"`
	Source      string             `gorm:"type:varchar(200)"`
	ReceiptURL  string             `gorm:"type:varchar(1000)"`
	Notes       string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ChargeModel) TableName() string {
	return "charges"
}

// ToDomain converts the persistence model to a domain Charge.
func (m *ChargeModel) ToDomain() *finance.Charge {
	return &finance.Charge{
		TenantAggregateRoot: m.tenantRoot(),
		Description:         m.Description,
		Amount:              m.Amount,
		Date:                m.Date,
		Type:                m.Type,
		Source:              m.Source,
		ReceiptURL:          m.ReceiptURL,
		Notes:               m.Notes,
	}
}

// ChargeModelFromDomain creates a persistence model from a domain Charge.
func ChargeModelFromDomain(c *finance.Charge) *ChargeModel {
	m := &ChargeModel{
		Description: c.Description,
		Amount:      c.Amount,
		Date:        c.Date,
		Type:        c.Type,
		Source:      c.Source,
		ReceiptURL:  c.ReceiptURL,
		Notes:       c.Notes,
	}
	m.fromTenantRoot(c.TenantAggregateRoot)
	return m
}
