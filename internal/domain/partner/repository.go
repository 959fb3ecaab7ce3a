package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Filter keys understood by ClientRepository.FindAllForTenant
const (
	FilterIsActive = "is_active"
	FilterSector   = "sector"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsByPhone reports whether a client other than excludeID uses the phone
	ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, client *Client) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsByPhone reports whether a supplier other than excludeID uses the phone
	ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
