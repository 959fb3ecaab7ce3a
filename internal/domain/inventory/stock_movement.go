package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
)

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementSource is the business operation that caused a movement
type MovementSource string

const (
	MovementSourcePurchase MovementSource = "purchase"
	MovementSourceSale     MovementSource = "sale"
	MovementSourceManual   MovementSource = "manual"
	MovementSourceReturn   MovementSource = "return"
)

// IsValid returns true if the source is known
func (s MovementSource) IsValid() bool {
	switch s {
	case MovementSourcePurchase, MovementSourceSale, MovementSourceManual, MovementSourceReturn:
		return true
	}
	return false
}

// StockMovement is an append-only audit record of a stock change.
// Movements are never updated once written.
type StockMovement struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	CreatedBy   *uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Type        MovementType
	Source      MovementSource
	Quantity    decimal.Decimal
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	ReferenceID *uuid.UUID
	Notes       string
}

// MovementInput carries the facts of a stock change
type MovementInput struct {
	ProductID   uuid.UUID
	ProductName string
	Type        MovementType
	Source      MovementSource
	Quantity    decimal.Decimal
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	ReferenceID *uuid.UUID
	Notes       string
	CreatedBy   uuid.UUID
}

// NewStockMovement validates and builds a movement
func NewStockMovement(tenantID uuid.UUID, in MovementInput) (*StockMovement, error) {
	if in.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type: "+string(in.Type))
	}
	if !in.Source.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_SOURCE", "Invalid movement source: "+string(in.Source))
	}
	if in.Quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be negative")
	}
	if in.StockAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock cannot become negative")
	}

	m := &StockMovement{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Type:        in.Type,
		Source:      in.Source,
		Quantity:    in.Quantity,
		StockBefore: in.StockBefore,
		StockAfter:  in.StockAfter,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
	}
	if in.CreatedBy != uuid.Nil {
		createdBy := in.CreatedBy
		m.CreatedBy = &createdBy
	}
	return m, nil
}

// Delta returns the signed change in stock
func (m *StockMovement) Delta() decimal.Decimal {
	return m.StockAfter.Sub(m.StockBefore)
}

// MovementFilter narrows a movement listing
type MovementFilter struct {
	Type      MovementType
	ProductID *uuid.UUID
	From      time.Time
	To        time.Time
	Limit     int
}

// DefaultMovementLimit caps movement listings
const DefaultMovementLimit = 200
