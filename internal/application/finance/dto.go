package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
)

// CreateSalePaymentRequest records a client payment outside the sale screen
type CreateSalePaymentRequest struct {
	ClientID uuid.UUID       `json:"client_id" binding:"required"`
	SaleID   *uuid.UUID      `json:"sale_id"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Date     *time.Time      `json:"date"`
	Note     string          `json:"note" binding:"max=500"`
	Method   string          `json:"method" binding:"max=50"`
}

// UpdateSalePaymentRequest changes a client payment
type UpdateSalePaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Note   *string          `json:"note" binding:"omitempty,max=500"`
	Date   *time.Time       `json:"date"`
}

// PaymentListFilter represents filter options for payment lists
type PaymentListFilter struct {
	Search     string     `form:"search"`
	ClientID   *uuid.UUID `form:"-"`
	SaleID     *uuid.UUID `form:"-"`
	SupplierID *uuid.UUID `form:"-"`
	PurchaseID *uuid.UUID `form:"-"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SalePaymentResponse represents a client payment in API responses
type SalePaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	ClientID  uuid.UUID       `json:"client_id"`
	SaleID    *uuid.UUID      `json:"sale_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	Method    string          `json:"method,omitempty"`
	CreatedBy *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// PaymentStatsResponse summarizes the payments of one client
type PaymentStatsResponse struct {
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Count       int64           `json:"count"`
	LastPayment *time.Time      `json:"last_payment,omitempty"`
}

// PurchasePaymentResponse represents a supplier payment in API responses
type PurchasePaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	PurchaseID *uuid.UUID      `json:"purchase_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
	Method     string          `json:"method,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToSalePaymentResponse converts a domain payment to a response DTO
func ToSalePaymentResponse(p *finance.SalePayment) SalePaymentResponse {
	return SalePaymentResponse{
		ID:        p.ID,
		ClientID:  p.ClientID,
		SaleID:    p.SaleID,
		Amount:    p.Amount,
		Date:      p.Date,
		Note:      p.Note,
		Method:    p.Method,
		CreatedBy: p.GetCreatedBy(),
		CreatedAt: p.CreatedAt,
	}
}

// ToSalePaymentResponses converts a slice of domain payments
func ToSalePaymentResponses(payments []finance.SalePayment) []SalePaymentResponse {
	responses := make([]SalePaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToSalePaymentResponse(&payments[i])
	}
	return responses
}

// ToPurchasePaymentResponses converts a slice of supplier payments
func ToPurchasePaymentResponses(payments []finance.PurchasePayment) []PurchasePaymentResponse {
	responses := make([]PurchasePaymentResponse, len(payments))
	for i := range payments {
		p := &payments[i]
		responses[i] = PurchasePaymentResponse{
			ID:         p.ID,
			SupplierID: p.SupplierID,
			PurchaseID: p.PurchaseID,
			Amount:     p.Amount,
			Date:       p.Date,
			Note:       p.Note,
			Method:     p.Method,
			CreatedAt:  p.CreatedAt,
		}
	}
	return responses
}

// =============================================================================
// Charge DTOs
// =============================================================================

// ChargeRequest represents a request to create or replace a charge
type ChargeRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        *time.Time      `json:"date"`
	Type        string          `json:"type" binding:"omitempty,oneof=rent salary utilities equipment marketing tax insurance other"`
	Source      string          `json:"source" binding:"max=200"`
	Notes       string          `json:"notes"`
}

// ChargeListFilter represents filter options for the charge list
type ChargeListFilter struct {
	Search   string     `form:"search"`
	Type     string     `form:"type" binding:"omitempty,oneof=rent salary utilities equipment marketing tax insurance other"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReceiptUpload is a receipt image sent with a charge
type ReceiptUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ChargeResponse represents a charge in API responses
type ChargeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	TypeLabel   string          `json:"type_label"`
	Source      string          `json:"source,omitempty"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExportFile is a generated download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ToChargeResponse converts a domain charge to a response DTO
func ToChargeResponse(c *finance.Charge) ChargeResponse {
	return ChargeResponse{
		ID:          c.ID,
		Description: c.Description,
		Amount:      c.Amount,
		Date:        c.Date,
		Type:        string(c.Type),
		TypeLabel:   c.Type.DisplayName(),
		Source:      c.Source,
		ReceiptURL:  c.ReceiptURL,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToChargeResponses converts a slice of domain charges
func ToChargeResponses(charges []finance.Charge) []ChargeResponse {
	responses := make([]ChargeResponse, len(charges))
	for i := range charges {
		responses[i] = ToChargeResponse(&charges[i])
	}
	return responses
}

func toChargeDetails(req ChargeRequest) finance.ChargeDetails {
	details := finance.ChargeDetails{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        finance.ChargeType(req.Type),
		Source:      req.Source,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		details.Date = *req.Date
	}
	return details
}
