package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Filter keys understood by ProductRepository.FindAllForTenant
const (
	FilterSupplierID = "supplier_id"
	FilterIsActive   = "is_active"
	FilterLowStock   = "low_stock"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForTenant finds products for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountForTenant counts products for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindLowStock finds products with an enabled threshold that has been reached
	FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]Product, error)

	// FindOutOfStock finds products with nothing on hand
	FindOutOfStock(ctx context.Context, tenantID uuid.UUID) ([]Product, error)

	// FindBySupplier finds products provided by a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
