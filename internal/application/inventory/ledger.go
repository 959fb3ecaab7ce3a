package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Entry describes one stock change requested by a document flow
type Entry struct {
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
	Source      inventory.MovementSource
	ReferenceID *uuid.UUID
	Notes       string
	CreatedBy   uuid.UUID
}

// Ledger applies stock changes to products and appends the matching
// movement. Each call reads the product, mutates it, saves it, writes the
// movement and publishes the product's pending events (stock alerts).
// Callers hold the company lock.
type Ledger struct {
	products       catalog.ProductRepository
	movements      inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
}

// NewLedger creates a new Ledger
func NewLedger(products catalog.ProductRepository, movements inventory.StockMovementRepository) *Ledger {
	return &Ledger{products: products, movements: movements}
}

// SetEventPublisher sets the publisher receiving stock alert events
func (l *Ledger) SetEventPublisher(publisher shared.EventPublisher) {
	l.eventPublisher = publisher
}

// Receive adds quantity to stock (purchase, return, sale cancellation)
func (l *Ledger) Receive(ctx context.Context, tenantID uuid.UUID, e Entry) (*inventory.StockMovement, error) {
	return l.apply(ctx, tenantID, e, inventory.MovementTypeIn, func(p *catalog.Product) (catalog.StockChange, error) {
		return p.IncreaseStock(e.Quantity)
	})
}

// Issue removes quantity from stock and fails when the stock does not cover it
func (l *Ledger) Issue(ctx context.Context, tenantID uuid.UUID, e Entry) (*inventory.StockMovement, error) {
	return l.apply(ctx, tenantID, e, inventory.MovementTypeOut, func(p *catalog.Product) (catalog.StockChange, error) {
		return p.DecreaseStock(e.Quantity)
	})
}

// Withdraw removes quantity from stock, clamping the result at zero
func (l *Ledger) Withdraw(ctx context.Context, tenantID uuid.UUID, e Entry) (*inventory.StockMovement, error) {
	return l.apply(ctx, tenantID, e, inventory.MovementTypeOut, func(p *catalog.Product) (catalog.StockChange, error) {
		if !e.Quantity.IsPositive() {
			return catalog.StockChange{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		return p.WithdrawStock(e.Quantity), nil
	})
}

// Adjust sets an absolute on-hand quantity. Entry.Quantity is the new level.
func (l *Ledger) Adjust(ctx context.Context, tenantID uuid.UUID, e Entry) (*inventory.StockMovement, error) {
	return l.apply(ctx, tenantID, e, inventory.MovementTypeAdjustment, func(p *catalog.Product) (catalog.StockChange, error) {
		return p.AdjustStock(e.Quantity)
	})
}

func (l *Ledger) apply(
	ctx context.Context,
	tenantID uuid.UUID,
	e Entry,
	typ inventory.MovementType,
	mutate func(*catalog.Product) (catalog.StockChange, error),
) (*inventory.StockMovement, error) {
	product, err := l.products.FindByIDForTenant(ctx, tenantID, e.ProductID)
	if err != nil {
		return nil, err
	}

	change, err := mutate(product)
	if err != nil {
		return nil, err
	}
	if err := l.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save stock of product %s: %w", product.ID, err)
	}

	// a clamped withdrawal moves less than requested
	quantity := change.After.Sub(change.Before).Abs()

	movement, err := inventory.NewStockMovement(tenantID, inventory.MovementInput{
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        typ,
		Source:      e.Source,
		Quantity:    quantity,
		StockBefore: change.Before,
		StockAfter:  change.After,
		ReferenceID: e.ReferenceID,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	if err := l.movements.Create(ctx, movement); err != nil {
		logger.L(ctx).Error("Failed to write stock movement",
			zap.String("product_id", product.ID.String()),
			zap.String("type", string(typ)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to write stock movement: %w", err)
	}

	l.publish(ctx, product)
	return movement, nil
}

func (l *Ledger) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if l.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := l.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("Failed to publish stock events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
	}
}
