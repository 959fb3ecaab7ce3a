package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockMovementRepository persists the append-only movement log
type StockMovementRepository interface {
	// Create appends a movement
	Create(ctx context.Context, movement *StockMovement) error
	// FindForTenant lists movements newest first
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) ([]StockMovement, error)
	// FindByReference lists movements written for a document
	FindByReference(ctx context.Context, tenantID, referenceID uuid.UUID) ([]StockMovement, error)
}
