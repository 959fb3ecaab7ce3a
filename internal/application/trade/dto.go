package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/trade"
)

// =============================================================================
// Line and payment DTOs
// =============================================================================

// LineRequest is one document line as sent by the client
type LineRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name" binding:"max=200"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TVA         *decimal.Decimal `json:"tva"`
}

// LineItemResponse represents a priced line in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TVA         decimal.Decimal `json:"tva"`
	TotalHT     decimal.Decimal `json:"total_ht"`
	TotalTTC    decimal.Decimal `json:"total_ttc"`
}

// InstallmentResponse represents a payment recorded on a document
type InstallmentResponse struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
	Method string          `json:"method"`
}

// AddPaymentRequest represents an installment paid against a document
type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note" binding:"max=500"`
	Method string          `json:"method" binding:"max=50"`
}

// ExportFilter bounds an Excel export by document date
type ExportFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// ExportFile is a generated download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

func toLineInputs(lines []LineRequest) []trade.LineInput {
	inputs := make([]trade.LineInput, len(lines))
	for i, l := range lines {
		inputs[i] = trade.LineInput{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
		if l.TVA != nil {
			inputs[i].TVA = *l.TVA
		}
	}
	return inputs
}

func toLineItemResponses(items []trade.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TVA:         item.TVA,
			TotalHT:     item.TotalHT,
			TotalTTC:    item.TotalTTC,
		}
	}
	return responses
}

func toInstallmentResponses(installments []trade.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i, inst := range installments {
		responses[i] = InstallmentResponse{
			ID:     inst.ID,
			Amount: inst.Amount,
			Date:   inst.Date,
			Note:   inst.Note,
			Method: inst.Method,
		}
	}
	return responses
}

func exportWindow(filter ExportFilter) (time.Time, time.Time) {
	var from, to time.Time
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}
	return from, to
}

// =============================================================================
// Sale DTOs
// =============================================================================

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	ClientID       uuid.UUID        `json:"client_id" binding:"required"`
	Items          []LineRequest    `json:"items" binding:"required,min=1,dive"`
	InitialPayment *decimal.Decimal `json:"initial_payment"`
	PaymentMethod  string           `json:"payment_method" binding:"max=50"`
	Notes          string           `json:"notes"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending partial paid"`
	ClientID *uuid.UUID `form:"-"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID              uuid.UUID             `json:"id"`
	Number          string                `json:"number"`
	ClientID        uuid.UUID             `json:"client_id"`
	ClientName      string                `json:"client_name"`
	Items           []LineItemResponse    `json:"items"`
	TotalHT         decimal.Decimal       `json:"total_ht"`
	TotalTVA        decimal.Decimal       `json:"total_tva"`
	TotalTTC        decimal.Decimal       `json:"total_ttc"`
	AmountPaid      decimal.Decimal       `json:"amount_paid"`
	AmountRemaining decimal.Decimal       `json:"amount_remaining"`
	Status          string                `json:"status"`
	Payments        []InstallmentResponse `json:"payments"`
	Notes           string                `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID            `json:"created_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ClientSalesStats sums the sales of one client
type ClientSalesStats struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Remaining    decimal.Decimal `json:"amount_remaining"`
	Count        int64           `json:"count"`
}

// ToSaleResponse converts a domain sale to a response DTO
func ToSaleResponse(s *trade.Sale) SaleResponse {
	return SaleResponse{
		ID:              s.ID,
		Number:          s.Number(),
		ClientID:        s.ClientID,
		ClientName:      s.ClientName,
		Items:           toLineItemResponses(s.Items),
		TotalHT:         s.TotalHT,
		TotalTVA:        s.TotalTVA,
		TotalTTC:        s.TotalTTC,
		AmountPaid:      s.AmountPaid,
		AmountRemaining: s.Remaining,
		Status:          string(s.Status),
		Payments:        toInstallmentResponses(s.Installments),
		Notes:           s.Notes,
		CreatedBy:       s.GetCreatedBy(),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
	}
}

// ToSaleResponses converts a slice of domain sales
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}

// =============================================================================
// Purchase DTOs
// =============================================================================

// CreatePurchaseRequest represents a request to create a purchase
type CreatePurchaseRequest struct {
	SupplierID     uuid.UUID        `json:"supplier_id" binding:"required"`
	Items          []LineRequest    `json:"items" binding:"required,min=1,dive"`
	InitialPayment *decimal.Decimal `json:"initial_payment"`
	PaymentMethod  string           `json:"payment_method" binding:"max=50"`
	Notes          string           `json:"notes"`
}

// PurchaseListFilter represents filter options for the purchase list
type PurchaseListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending partial paid"`
	SupplierID *uuid.UUID `form:"-"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID              uuid.UUID             `json:"id"`
	Number          string                `json:"number"`
	SupplierID      uuid.UUID             `json:"supplier_id"`
	SupplierName    string                `json:"supplier_name"`
	Items           []LineItemResponse    `json:"items"`
	TotalHT         decimal.Decimal       `json:"total_ht"`
	TotalTVA        decimal.Decimal       `json:"total_tva"`
	TotalTTC        decimal.Decimal       `json:"total_ttc"`
	AmountPaid      decimal.Decimal       `json:"amount_paid"`
	AmountRemaining decimal.Decimal       `json:"amount_remaining"`
	Status          string                `json:"status"`
	Payments        []InstallmentResponse `json:"payments"`
	Notes           string                `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID            `json:"created_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToPurchaseResponse converts a domain purchase to a response DTO
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:              p.ID,
		Number:          p.Number(),
		SupplierID:      p.SupplierID,
		SupplierName:    p.SupplierName,
		Items:           toLineItemResponses(p.Items),
		TotalHT:         p.TotalHT,
		TotalTVA:        p.TotalTVA,
		TotalTTC:        p.TotalTTC,
		AmountPaid:      p.AmountPaid,
		AmountRemaining: p.Remaining,
		Status:          string(p.Status),
		Payments:        toInstallmentResponses(p.Installments),
		Notes:           p.Notes,
		CreatedBy:       p.GetCreatedBy(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToPurchaseResponses converts a slice of domain purchases
func ToPurchaseResponses(purchases []trade.Purchase) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses
}

// =============================================================================
// Quote DTOs
// =============================================================================

// QuoteRequest represents a request to create or replace a quote
type QuoteRequest struct {
	ClientID   *uuid.UUID    `json:"client_id"`
	ClientName string        `json:"client_name" binding:"required,max=200"`
	Phone      string        `json:"phone" binding:"max=30"`
	Email      string        `json:"email" binding:"omitempty,email,max=200"`
	Items      []LineRequest `json:"items" binding:"required,min=1,dive"`
	ValidUntil *time.Time    `json:"valid_until"`
	Notes      string        `json:"notes"`
}

// UpdateQuoteStatusRequest moves a quote along its lifecycle
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent accepted rejected expired"`
}

// ConvertQuoteRequest carries the optional first payment of the sale
type ConvertQuoteRequest struct {
	InitialPayment *decimal.Decimal `json:"initial_payment"`
	PaymentMethod  string           `json:"payment_method" binding:"max=50"`
}

// QuoteListFilter represents filter options for the quote list
type QuoteListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft sent accepted rejected expired"`
	ClientID *uuid.UUID `form:"-"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID              uuid.UUID          `json:"id"`
	Number          string             `json:"number"`
	ClientID        *uuid.UUID         `json:"client_id,omitempty"`
	ClientName      string             `json:"client_name"`
	Phone           string             `json:"phone,omitempty"`
	Email           string             `json:"email,omitempty"`
	Items           []LineItemResponse `json:"items"`
	TotalHT         decimal.Decimal    `json:"total_ht"`
	TotalTVA        decimal.Decimal    `json:"total_tva"`
	TotalTTC        decimal.Decimal    `json:"total_ttc"`
	Status          string             `json:"status"`
	ValidUntil      *time.Time         `json:"valid_until,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	ConvertedSaleID *uuid.UUID         `json:"converted_sale_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// ConvertQuoteResponse is returned once a quote became a sale
type ConvertQuoteResponse struct {
	Quote QuoteResponse `json:"quote"`
	Sale  SaleResponse  `json:"sale"`
}

// ToQuoteResponse converts a domain quote to a response DTO
func ToQuoteResponse(q *trade.Quote) QuoteResponse {
	return QuoteResponse{
		ID:              q.ID,
		Number:          trade.DocumentNumber(trade.QuoteNumberPrefix, q.ID),
		ClientID:        q.ClientID,
		ClientName:      q.ClientName,
		Phone:           q.Phone,
		Email:           q.Email,
		Items:           toLineItemResponses(q.Items),
		TotalHT:         q.TotalHT,
		TotalTVA:        q.TotalTVA,
		TotalTTC:        q.TotalTTC,
		Status:          string(q.Status),
		ValidUntil:      q.ValidUntil,
		Notes:           q.Notes,
		ConvertedSaleID: q.ConvertedSaleID,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		Version:         q.Version,
	}
}

// ToQuoteResponses converts a slice of domain quotes
func ToQuoteResponses(quotes []trade.Quote) []QuoteResponse {
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses
}

// =============================================================================
// Delivery DTOs
// =============================================================================

// DeliveryItemRequest is a product and quantity to deliver
type DeliveryItemRequest struct {
	ProductName string          `json:"product_name" binding:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateDeliveryRequest represents a request to create a delivery
type CreateDeliveryRequest struct {
	SaleID     *uuid.UUID            `json:"sale_id"`
	ClientName string                `json:"client_name" binding:"required,max=200"`
	Phone      string                `json:"phone" binding:"max=30"`
	Address    string                `json:"address" binding:"required,max=500"`
	Items      []DeliveryItemRequest `json:"items" binding:"omitempty,dive"`
	Notes      string                `json:"notes"`
}

// DeliveryListFilter represents filter options for the delivery list
type DeliveryListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending delivered cancelled"`
	SaleID   *uuid.UUID `form:"-"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DeliveryItemResponse represents a delivered product
type DeliveryItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// DeliveryResponse represents a delivery in API responses
type DeliveryResponse struct {
	ID          uuid.UUID              `json:"id"`
	Number      string                 `json:"number"`
	SaleID      *uuid.UUID             `json:"sale_id,omitempty"`
	ClientName  string                 `json:"client_name"`
	Phone       string                 `json:"phone,omitempty"`
	Address     string                 `json:"address"`
	Items       []DeliveryItemResponse `json:"items"`
	Status      string                 `json:"status"`
	DeliveredAt *time.Time             `json:"delivered_at,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ToDeliveryResponse converts a domain delivery to a response DTO
func ToDeliveryResponse(d *trade.Delivery) DeliveryResponse {
	items := make([]DeliveryItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = DeliveryItemResponse{ProductName: item.ProductName, Quantity: item.Quantity}
	}
	return DeliveryResponse{
		ID:          d.ID,
		Number:      trade.DocumentNumber(trade.DeliveryNumberPrefix, d.ID),
		SaleID:      d.SaleID,
		ClientName:  d.ClientName,
		Phone:       d.Phone,
		Address:     d.Address,
		Items:       items,
		Status:      string(d.Status),
		DeliveredAt: d.DeliveredAt,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToDeliveryResponses converts a slice of domain deliveries
func ToDeliveryResponses(deliveries []trade.Delivery) []DeliveryResponse {
	responses := make([]DeliveryResponse, len(deliveries))
	for i := range deliveries {
		responses[i] = ToDeliveryResponse(&deliveries[i])
	}
	return responses
}

// =============================================================================
// Return DTOs
// =============================================================================

// CreateReturnRequest represents a request to record a sale return
type CreateReturnRequest struct {
	SaleID uuid.UUID     `json:"sale_id" binding:"required"`
	Reason string        `json:"reason" binding:"required,max=500"`
	Items  []LineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateReturnStatusRequest moves a return along its lifecycle
type UpdateReturnStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved refunded rejected"`
}

// ReturnListFilter represents filter options for the return list
type ReturnListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending approved refunded rejected"`
	SaleID   *uuid.UUID `form:"-"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReturnResponse represents a sale return in API responses
type ReturnResponse struct {
	ID          uuid.UUID          `json:"id"`
	SaleID      uuid.UUID          `json:"sale_id"`
	ClientID    *uuid.UUID         `json:"client_id,omitempty"`
	ClientName  string             `json:"client_name"`
	Reason      string             `json:"reason"`
	Items       []LineItemResponse `json:"items"`
	TotalRefund decimal.Decimal    `json:"total_refund"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ToReturnResponse converts a domain return to a response DTO
func ToReturnResponse(r *trade.SaleReturn) ReturnResponse {
	return ReturnResponse{
		ID:          r.ID,
		SaleID:      r.SaleID,
		ClientID:    r.ClientID,
		ClientName:  r.ClientName,
		Reason:      r.Reason,
		Items:       toLineItemResponses(r.Items),
		TotalRefund: r.TotalRefund,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToReturnResponses converts a slice of domain returns
func ToReturnResponses(returns []trade.SaleReturn) []ReturnResponse {
	responses := make([]ReturnResponse, len(returns))
	for i := range returns {
		responses[i] = ToReturnResponse(&returns[i])
	}
	return responses
}
