package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/trade"
)

// LineItemModel holds the columns shared by sale and purchase lines
type LineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	TVA         decimal.Decimal `gorm:"column:tva;type:decimal(5,2);not null;default:0"`
	TotalHT     decimal.Decimal `gorm:"column:total_ht;type:decimal(18,3);not null"`
	TotalTTC    decimal.Decimal `gorm:"column:total_ttc;type:decimal(18,3);not null"`
}

func (m LineItemModel) toDomain() trade.LineItem {
	return trade.LineItem{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TVA:         m.TVA,
		TotalHT:     m.TotalHT,
		TotalTTC:    m.TotalTTC,
	}
}

func lineItemModel(docID uuid.UUID, pos int, l trade.LineItem) LineItemModel {
	return LineItemModel{
		ID:          l.ID,
		DocumentID:  docID,
		Position:    pos,
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		TVA:         l.TVA,
		TotalHT:     l.TotalHT,
		TotalTTC:    l.TotalTTC,
	}
}

// InstallmentModel holds the columns shared by sale and purchase installments
type InstallmentModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	Date       time.Time       `gorm:"not null"`
	Note       string          `gorm:"type:varchar(500)"`
	Method     string          `gorm:"type:varchar(30);not null"`
}

func (m InstallmentModel) toDomain() trade.Installment {
	return trade.Installment{ID: m.ID, Amount: m.Amount, Date: m.Date, Note: m.Note, Method: m.Method}
}

func installmentModel(docID uuid.UUID, i trade.Installment) InstallmentModel {
	return InstallmentModel{ID: i.ID, DocumentID: docID, Amount: i.Amount, Date: i.Date, Note: i.Note, Method: i.Method}
}

// SettledModel holds the priced and settled columns of sales and purchases
type SettledModel struct {
	TotalHT    decimal.Decimal     `gorm:"column:total_ht;type:decimal(18,3);not null"`
	TotalTVA   decimal.Decimal     `gorm:"column:total_tva;type:decimal(18,3);not null"`
	TotalTTC   decimal.Decimal     `gorm:"column:total_ttc;type:decimal(18,3);not null"`
	AmountPaid decimal.Decimal     `gorm:"type:decimal(18,3);not null;default:0"`
	Remaining  decimal.Decimal     `gorm:"column:amount_remaining;type:decimal(18,3);not null"`
	Status     trade.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	Notes      string              `gorm:"type:text"`
}

func settledModel(d trade.SettledDocument) SettledModel {
	return SettledModel{
		TotalHT:    d.TotalHT,
		TotalTVA:   d.TotalTVA,
		TotalTTC:   d.TotalTTC,
		AmountPaid: d.AmountPaid,
		Remaining:  d.Remaining,
		Status:     d.Status,
		Notes:      d.Notes,
	}
}

func (m SettledModel) document(items []LineItemModel, installments []InstallmentModel) trade.SettledDocument {
	d := trade.SettledDocument{
		Items:        make([]trade.LineItem, 0, len(items)),
		TotalHT:      m.TotalHT,
		TotalTVA:     m.TotalTVA,
		TotalTTC:     m.TotalTTC,
		AmountPaid:   m.AmountPaid,
		Remaining:    m.Remaining,
		Status:       m.Status,
		Installments: make([]trade.Installment, 0, len(installments)),
		Notes:        m.Notes,
	}
	for _, it := range items {
		d.Items = append(d.Items, it.toDomain())
	}
	for _, in := range installments {
		d.Installments = append(d.Installments, in.toDomain())
	}
	return d
}

// SaleItemModel is a line of a sale
type SaleItemModel struct{ LineItemModel }

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string { return "sale_items" }

// SaleInstallmentModel is a payment recorded on a sale
type SaleInstallmentModel struct{ InstallmentModel }

// TableName returns the table name for GORM
func (SaleInstallmentModel) TableName() string { return "sale_installments" }

// SaleModel is the persistence model for the Sale aggregate.
type SaleModel struct {
	TenantModel
	SettledModel
	ClientID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	ClientName   string                 `gorm:"type:varchar(200);not null"`
	Items        []SaleItemModel        `gorm:"foreignKey:DocumentID;references:ID"`
	Installments []SaleInstallmentModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale.
func (m *SaleModel) ToDomain() *trade.Sale {
	items := make([]LineItemModel, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, it.LineItemModel)
	}
	installments := make([]InstallmentModel, 0, len(m.Installments))
	for _, in := range m.Installments {
		installments = append(installments, in.InstallmentModel)
	}
	return &trade.Sale{
		TenantAggregateRoot: m.tenantRoot(),
		SettledDocument:     m.document(items, installments),
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
	}
}

// SaleModelFromDomain creates a persistence model from a domain Sale.
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{
		SettledModel: settledModel(s.SettledDocument),
		ClientID:     s.ClientID,
		ClientName:   s.ClientName,
		Items:        make([]SaleItemModel, 0, len(s.Items)),
		Installments: make([]SaleInstallmentModel, 0, len(s.Installments)),
	}
	m.fromTenantRoot(s.TenantAggregateRoot)
	for i, l := range s.Items {
		m.Items = append(m.Items, SaleItemModel{lineItemModel(s.ID, i, l)})
	}
	for _, in := range s.Installments {
		m.Installments = append(m.Installments, SaleInstallmentModel{installmentModel(s.ID, in)})
	}
	return m
}

// PurchaseItemModel is a line of a purchase
type PurchaseItemModel struct{ LineItemModel }

// TableName returns the table name for GORM
func (PurchaseItemModel) TableName() string { return "purchase_items" }

// PurchaseInstallmentModel is a payment recorded on a purchase
type PurchaseInstallmentModel struct{ InstallmentModel }

// TableName returns the table name for GORM
func (PurchaseInstallmentModel) TableName() string { return "purchase_installments" }

// PurchaseModel is the persistence model for the Purchase aggregate.
type PurchaseModel struct {
	TenantModel
	SettledModel
	SupplierID   uuid.UUID                  `gorm:"type:uuid;not null;index"`
	SupplierName string                     `gorm:"type:varchar(200);not null"`
	Items        []PurchaseItemModel        `gorm:"foreignKey:DocumentID;references:ID"`
	Installments []PurchaseInstallmentModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain Purchase.
func (m *PurchaseModel) ToDomain() *trade.Purchase {
	items := make([]LineItemModel, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, it.LineItemModel)
	}
	installments := make([]InstallmentModel, 0, len(m.Installments))
	for _, in := range m.Installments {
		installments = append(installments, in.InstallmentModel)
	}
	return &trade.Purchase{
		TenantAggregateRoot: m.tenantRoot(),
		SettledDocument:     m.document(items, installments),
		SupplierID:          m.SupplierID,
		SupplierName:        m.SupplierName,
	}
}

// PurchaseModelFromDomain creates a persistence model from a domain Purchase.
func PurchaseModelFromDomain(p *trade.Purchase) *PurchaseModel {
	m := &PurchaseModel{
		SettledModel: settledModel(p.SettledDocument),
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Items:        make([]PurchaseItemModel, 0, len(p.Items)),
		Installments: make([]PurchaseInstallmentModel, 0, len(p.Installments)),
	}
	m.fromTenantRoot(p.TenantAggregateRoot)
	for i, l := range p.Items {
		m.Items = append(m.Items, PurchaseItemModel{lineItemModel(p.ID, i, l)})
	}
	for _, in := range p.Installments {
		m.Installments = append(m.Installments, PurchaseInstallmentModel{installmentModel(p.ID, in)})
	}
	return m
}
