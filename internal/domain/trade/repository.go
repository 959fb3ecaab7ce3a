package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Filter keys understood by the document repositories
const (
	FilterStatus     = "status"
	FilterClientID   = "client_id"
	FilterSupplierID = "supplier_id"
	FilterSaleID     = "sale_id"
	FilterCreatedBy  = "created_by"
)

// PartyTotals aggregates the documents of one client or supplier
type PartyTotals struct {
	Count     int64
	TotalTTC  decimal.Decimal
	TotalPaid decimal.Decimal
	Remaining decimal.Decimal
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindByClient returns the client's most recent sales
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]Sale, error)
	// TotalsByClient sums every sale of the client
	TotalsByClient(ctx context.Context, tenantID, clientID uuid.UUID) (PartyTotals, error)
	Save(ctx context.Context, sale *Sale) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Purchase, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, limit int) ([]Purchase, error)
	Save(ctx context.Context, purchase *Purchase) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, quote *Quote) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DeliveryRepository defines the interface for delivery persistence
type DeliveryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Delivery, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Delivery, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, delivery *Delivery) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SaleReturnRepository defines the interface for sale return persistence
type SaleReturnRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SaleReturn, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SaleReturn, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, ret *SaleReturn) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
