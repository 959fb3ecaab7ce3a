package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// SalePayment (paiement client) is a payment received from a client.
// SaleID is nil for payments that are not attached to a sale.
type SalePayment struct {
	shared.TenantAggregateRoot
	ClientID uuid.UUID
	SaleID   *uuid.UUID
	Amount   decimal.Decimal
	Date     time.Time
	Note     string
	Method   string
}

// SalePaymentInput carries the fields of a client payment
type SalePaymentInput struct {
	ID       uuid.UUID // optional, reuses the sale installment ID when set
	ClientID uuid.UUID
	SaleID   *uuid.UUID
	Amount   decimal.Decimal
	Date     time.Time
	Note     string
	Method   string
}

// NewSalePayment creates a client payment record
func NewSalePayment(tenantID uuid.UUID, in SalePaymentInput) (*SalePayment, error) {
	if in.ClientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !in.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if in.SaleID != nil && *in.SaleID == uuid.Nil {
		in.SaleID = nil
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	p := &SalePayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            in.ClientID,
		SaleID:              in.SaleID,
		Amount:              in.Amount,
		Date:                in.Date,
		Note:                strings.TrimSpace(in.Note),
		Method:              strings.TrimSpace(in.Method),
	}
	if in.ID != uuid.Nil {
		p.ID = in.ID
	}
	return p, nil
}

// Update changes amount, note and date. Nil fields are left untouched.
func (p *SalePayment) Update(amount *decimal.Decimal, note *string, date *time.Time) error {
	if amount != nil {
		if !amount.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
		}
		p.Amount = *amount
	}
	if note != nil {
		p.Note = strings.TrimSpace(*note)
	}
	if date != nil && !date.IsZero() {
		p.Date = *date
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// PaymentStats summarizes the payments of one client
type PaymentStats struct {
	TotalPaid   decimal.Decimal
	Count       int64
	LastPayment *time.Time
}

// PurchasePayment (paiement fournisseur) is a payment made to a supplier
type PurchasePayment struct {
	shared.TenantAggregateRoot
	SupplierID uuid.UUID
	PurchaseID *uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	Note       string
	Method     string
}

// NewPurchasePayment creates a supplier payment record with the given ID.
// A nil id generates a new one.
func NewPurchasePayment(tenantID, id, supplierID uuid.UUID, purchaseID *uuid.UUID, amount decimal.Decimal, note, method string) (*PurchasePayment, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	p := &PurchasePayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		PurchaseID:          purchaseID,
		Amount:              amount,
		Date:                time.Now(),
		Note:                note,
		Method:              method,
	}
	if id != uuid.Nil {
		p.ID = id
	}
	return p, nil
}
