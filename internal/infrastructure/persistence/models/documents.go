package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/trade"
)

// LineItemData is the JSON form of a priced line
type LineItemData struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TVA         decimal.Decimal `json:"tva"`
	TotalHT     decimal.Decimal `json:"totalHT"`
	TotalTTC    decimal.Decimal `json:"totalTTC"`
}

func linesToData(items []trade.LineItem) []LineItemData {
	out := make([]LineItemData, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemData(it))
	}
	return out
}

func linesFromData(data []LineItemData) []trade.LineItem {
	out := make([]trade.LineItem, 0, len(data))
	for _, d := range data {
		out = append(out, trade.LineItem(d))
	}
	return out
}

// QuoteModel is the persistence model for the Quote aggregate.
type QuoteModel struct {
	TenantModel
	ClientID        *uuid.UUID        `gorm:"type:uuid;index"`
	ClientName      string            `gorm:"type:varchar(200);not null"`
	Phone           string            `gorm:"type:varchar(30)"`
	Email           string            `gorm:"type:varchar(200)"`
	Items           []LineItemData    `gorm:"type:jsonb;serializer:json"`
	TotalHT         decimal.Decimal   `gorm:"column:total_ht;type:decimal(18,3);not null"`
	TotalTVA        decimal.Decimal   `gorm:"column:total_tva;type:decimal(18,3);not null"`
	TotalTTC        decimal.Decimal   `gorm:"column:total_ttc;type:decimal(18,3);not null"`
	Status          trade.QuoteStatus `gorm:"type:varchar(20);not null;index"`
	ValidUntil      *time.Time
	Notes           string     `gorm:"type:text"`
	ConvertedSaleID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote.
func (m *QuoteModel) ToDomain() *trade.Quote {
	return &trade.Quote{
		TenantAggregateRoot: m.tenantRoot(),
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		Phone:               m.Phone,
		Email:               m.Email,
		Items:               linesFromData(m.Items),
		TotalHT:             m.TotalHT,
		TotalTVA:            m.TotalTVA,
		TotalTTC:            m.TotalTTC,
		Status:              m.Status,
		ValidUntil:          m.ValidUntil,
		Notes:               m.Notes,
		ConvertedSaleID:     m.ConvertedSaleID,
	}
}

// QuoteModelFromDomain creates a persistence model from a domain Quote.
func QuoteModelFromDomain(q *trade.Quote) *QuoteModel {
	m := &QuoteModel{
		ClientID:        q.ClientID,
		ClientName:      q.ClientName,
		Phone:           q.Phone,
		Email:           q.Email,
		Items:           linesToData(q.Items),
		TotalHT:         q.TotalHT,
		TotalTVA:        q.TotalTVA,
		TotalTTC:        q.TotalTTC,
		Status:          q.Status,
		ValidUntil:      q.ValidUntil,
		Notes:           q.Notes,
		ConvertedSaleID: q.ConvertedSaleID,
	}
	m.fromTenantRoot(q.TenantAggregateRoot)
	return m
}

// DeliveryItemData is the JSON form of a delivery line
type DeliveryItemData struct {
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// DeliveryModel is the persistence model for the Delivery aggregate.
type DeliveryModel struct {
	TenantModel
	SaleID      *uuid.UUID           `gorm:"type:uuid;index"`
	ClientName  string               `gorm:"type:varchar(200);not null"`
	Phone       string               `gorm:"type:varchar(30)"`
	Address     string               `gorm:"type:text;not null"`
	Items       []DeliveryItemData   `gorm:"type:jsonb;serializer:json"`
	Status      trade.DeliveryStatus `gorm:"type:varchar(20);not null;index"`
	DeliveredAt *time.Time
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// ToDomain converts the persistence model to a domain Delivery.
func (m *DeliveryModel) ToDomain() *trade.Delivery {
	items := make([]trade.DeliveryItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, trade.DeliveryItem(it))
	}
	return &trade.Delivery{
		TenantAggregateRoot: m.tenantRoot(),
		SaleID:              m.SaleID,
		ClientName:          m.ClientName,
		Phone:               m.Phone,
		Address:             m.Address,
		Items:               items,
		Status:              m.Status,
		DeliveredAt:         m.DeliveredAt,
		Notes:               m.Notes,
	}
}

// DeliveryModelFromDomain creates a persistence model from a domain Delivery.
func DeliveryModelFromDomain(d *trade.Delivery) *DeliveryModel {
	m := &DeliveryModel{
		SaleID:      d.SaleID,
		ClientName:  d.ClientName,
		Phone:       d.Phone,
		Address:     d.Address,
		Items:       make([]DeliveryItemData, 0, len(d.Items)),
		Status:      d.Status,
		DeliveredAt: d.DeliveredAt,
		Notes:       d.Notes,
	}
	m.fromTenantRoot(d.TenantAggregateRoot)
	for _, it := range d.Items {
		m.Items = append(m.Items, DeliveryItemData(it))
	}
	return m
}

// SaleReturnModel is the persistence model for the SaleReturn aggregate.
type SaleReturnModel struct {
	TenantModel
	SaleID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ClientID    *uuid.UUID         `gorm:"type:uuid;index"`
	ClientName  string             `gorm:"type:varchar(200)"`
	Reason      string             `gorm:"type:text;not null"`
	Items       []LineItemData     `gorm:"type:jsonb;serializer:json"`
	TotalRefund decimal.Decimal    `gorm:"type:decimal(18,3);not null"`
	Status      trade.ReturnStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (SaleReturnModel) TableName() string {
	return "sale_returns"
}

// ToDomain converts the persistence model to a domain SaleReturn.
func (m *SaleReturnModel) ToDomain() *trade.SaleReturn {
	return &trade.SaleReturn{
		TenantAggregateRoot: m.tenantRoot(),
		SaleID:              m.SaleID,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		Reason:              m.Reason,
		Items:               linesFromData(m.Items),
		TotalRefund:         m.TotalRefund,
		Status:              m.Status,
	}
}

// SaleReturnModelFromDomain creates a persistence model from a domain SaleReturn.
func SaleReturnModelFromDomain(r *trade.SaleReturn) *SaleReturnModel {
	m := &SaleReturnModel{
		SaleID:      r.SaleID,
		ClientID:    r.ClientID,
		ClientName:  r.ClientName,
		Reason:      r.Reason,
		Items:       linesToData(r.Items),
		TotalRefund: r.TotalRefund,
		Status:      r.Status,
	}
	m.fromTenantRoot(r.TenantAggregateRoot)
	return m
}
