package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client aggregate.
type ClientModel struct {
	TenantModel
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Phone       string          `gorm:"type:varchar(20);not null;index"`
	Email       string          `gorm:"type:varchar(200)"`
	Sector      string          `gorm:"type:varchar(100)"`
	Address     string          `gorm:"type:text"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	CreditUsed  decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantAggregateRoot: m.tenantRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Email:               m.Email,
		Sector:              m.Sector,
		Address:             m.Address,
		IsActive:            m.IsActive,
		CreditLimit:         m.CreditLimit,
		CreditUsed:          m.CreditUsed,
		Notes:               m.Notes,
	}
}

// ClientModelFromDomain creates a persistence model from a domain Client.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		Sector:      c.Sector,
		Address:     c.Address,
		IsActive:    c.IsActive,
		CreditLimit: c.CreditLimit,
		CreditUsed:  c.CreditUsed,
		Notes:       c.Notes,
	}
	m.fromTenantRoot(c.TenantAggregateRoot)
	return m
}

// SupplierProductData is the stored form of a supplier catalogue entry
type SupplierProductData struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     *uuid.UUID      `json:"productId,omitempty"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	TVA           decimal.Decimal `json:"tva"`
}

// SupplierModel is the persistence model for the Supplier aggregate.
type SupplierModel struct {
	TenantModel
	Name      string                `gorm:"type:varchar(200);not null;index"`
	Phone     string                `gorm:"type:varchar(20);not null;index"`
	Email     string                `gorm:"type:varchar(200)"`
	Address   string                `gorm:"type:text"`
	Notes     string                `gorm:"type:text"`
	TotalDebt decimal.Decimal       `gorm:"type:decimal(18,3);not null;default:0"`
	Products  []SupplierProductData `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	s := &partner.Supplier{
		TenantAggregateRoot: m.tenantRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		Notes:               m.Notes,
		TotalDebt:           m.TotalDebt,
		Products:            make([]partner.SupplierProduct, 0, len(m.Products)),
	}
	for _, p := range m.Products {
		s.Products = append(s.Products, partner.SupplierProduct(p))
	}
	return s
}

// SupplierModelFromDomain creates a persistence model from a domain Supplier.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Notes:     s.Notes,
		TotalDebt: s.TotalDebt,
		Products:  make([]SupplierProductData, 0, len(s.Products)),
	}
	m.fromTenantRoot(s.TenantAggregateRoot)
	for _, p := range s.Products {
		m.Products = append(m.Products, SupplierProductData(p))
	}
	return m
}
