package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Filter keys understood by the finance repositories
const (
	FilterClientID   = "client_id"
	FilterSaleID     = "sale_id"
	FilterSupplierID = "supplier_id"
	FilterPurchaseID = "purchase_id"
	FilterType       = "type"
)

// SalePaymentRepository defines the interface for client payment persistence
type SalePaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalePayment, error)
	// FindAllForTenant lists payments, newest date first. Search matches the note.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalePayment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]SalePayment, error)
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]SalePayment, error)
	StatsByClient(ctx context.Context, tenantID, clientID uuid.UUID) (PaymentStats, error)
	Save(ctx context.Context, payment *SalePayment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteBySale(ctx context.Context, tenantID, saleID uuid.UUID) error
}

// PurchasePaymentRepository defines the interface for supplier payment persistence
type PurchasePaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchasePayment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchasePayment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, payment *PurchasePayment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) error
}

// ChargeRepository defines the interface for charge persistence
type ChargeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Charge, error)
	// FindAllForTenant lists charges, newest date first by default.
	// Search matches description and source.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Charge, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	SumForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	Save(ctx context.Context, charge *Charge) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
