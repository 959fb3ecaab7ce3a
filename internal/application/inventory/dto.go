package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/inventory"
)

// MovementListFilter represents filter options for the movement log
type MovementListFilter struct {
	Type      string     `form:"type" binding:"omitempty,oneof=in out adjustment"`
	ProductID *uuid.UUID `form:"-"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=200"`
}

// AdjustStockRequest sets an absolute on-hand quantity after an inventory count
type AdjustStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	NewQuantity decimal.Decimal `json:"new_quantity" binding:"required"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// UpdateStockRequest adds or subtracts a quantity
type UpdateStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Operation string          `json:"operation" binding:"required,oneof=add subtract"`
	Notes     string          `json:"notes" binding:"max=500"`
}

// Stock operations accepted by UpdateStockRequest
const (
	OperationAdd      = "add"
	OperationSubtract = "subtract"
)

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Type        string          `json:"type"`
	Source      string          `json:"source"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	ReferenceID *uuid.UUID      `json:"reference_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AlertProduct is a product listed by the stock alerts endpoint
type AlertProduct struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	StockQuantity  decimal.Decimal `json:"stock_quantity"`
	StockThreshold decimal.Decimal `json:"stock_threshold"`
}

// AlertsResponse groups the products needing restocking
type AlertsResponse struct {
	LowStock   []AlertProduct `json:"low_stock"`
	OutOfStock []AlertProduct `json:"out_of_stock"`
	Total      int            `json:"total"`
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        string(m.Type),
		Source:      string(m.Source),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		ReferenceID: m.ReferenceID,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

func toAlertProducts(products []catalog.Product) []AlertProduct {
	items := make([]AlertProduct, len(products))
	for i, p := range products {
		items[i] = AlertProduct{
			ID:             p.ID,
			Name:           p.Name,
			Unit:           p.Unit,
			StockQuantity:  p.StockQuantity,
			StockThreshold: p.StockThreshold,
		}
	}
	return items
}
