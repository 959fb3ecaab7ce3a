package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	TenantModel
	Name           string                 `gorm:"type:varchar(200);not null;index"`
	Description    string                 `gorm:"type:text"`
	Unit           string                 `gorm:"type:varchar(50);not null"`
	TVA            decimal.Decimal        `gorm:"column:tva;type:decimal(5,2);not null;default:0"`
	StockQuantity  decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	StockThreshold decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	PurchasePrice  decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	SalePrice      decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	IsActive       bool                   `gorm:"not null;default:true"`
	Suppliers      []ProductSupplierModel `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ProductSupplierModel links a product to one of its suppliers
type ProductSupplierModel struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ProductSupplierModel) TableName() string {
	return "product_suppliers"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		TenantAggregateRoot: m.tenantRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Unit:                m.Unit,
		TVA:                 m.TVA,
		StockQuantity:       m.StockQuantity,
		StockThreshold:      m.StockThreshold,
		PurchasePrice:       m.PurchasePrice,
		SalePrice:           m.SalePrice,
		IsActive:            m.IsActive,
		SupplierIDs:         make([]uuid.UUID, 0, len(m.Suppliers)),
	}
	for _, s := range m.Suppliers {
		p.SupplierIDs = append(p.SupplierIDs, s.SupplierID)
	}
	return p
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		TVA:            p.TVA,
		StockQuantity:  p.StockQuantity,
		StockThreshold: p.StockThreshold,
		PurchasePrice:  p.PurchasePrice,
		SalePrice:      p.SalePrice,
		IsActive:       p.IsActive,
		Suppliers:      make([]ProductSupplierModel, 0, len(p.SupplierIDs)),
	}
	m.fromTenantRoot(p.TenantAggregateRoot)
	for _, id := range p.SupplierIDs {
		m.Suppliers = append(m.Suppliers, ProductSupplierModel{ProductID: p.ID, SupplierID: id})
	}
	return m
}
