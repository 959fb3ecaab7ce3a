package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeStockAlert     = "ProductStockAlert"
)

// StockLevel qualifies a stock alert
type StockLevel string

const (
	StockLevelLow StockLevel = "low"
	StockLevelOut StockLevel = "out_of_stock"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseEvent: shared.NewBaseEvent(EventTypeProductCreated, product.ID, product.TenantID),
		ProductID:       product.ID,
		Name:            product.Name,
		Unit:            product.Unit,
	}
}

// StockAlertEvent is raised when a stock decrease leaves a product out of
// stock or at/below its threshold
type StockAlertEvent struct {
	shared.BaseEvent
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Level       StockLevel      `json:"level"`
	Quantity    decimal.Decimal `json:"quantity"`
	Threshold   decimal.Decimal `json:"threshold"`
}

// NewStockAlertEvent creates a new StockAlertEvent
func NewStockAlertEvent(product *Product, level StockLevel) *StockAlertEvent {
	return &StockAlertEvent{
		BaseEvent: shared.NewBaseEvent(EventTypeStockAlert, product.ID, product.TenantID),
		ProductID:       product.ID,
		ProductName:     product.Name,
		Unit:            product.Unit,
		Level:           level,
		Quantity:        product.StockQuantity,
		Threshold:       product.StockThreshold,
	}
}
