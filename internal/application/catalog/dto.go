package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description" binding:"max=2000"`
	Unit           string           `json:"unit" binding:"max=50"`
	TVA            *decimal.Decimal `json:"tva"`
	StockQuantity  *decimal.Decimal `json:"stock_quantity"`
	StockThreshold *decimal.Decimal `json:"stock_threshold"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	SupplierIDs    []uuid.UUID      `json:"supplier_ids"`
}

// UpdateProductRequest represents a request to update a product.
// Stock is changed through the stock endpoints only.
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=2000"`
	Unit           *string          `json:"unit" binding:"omitempty,max=50"`
	TVA            *decimal.Decimal `json:"tva"`
	StockThreshold *decimal.Decimal `json:"stock_threshold"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	SupplierIDs    *[]uuid.UUID     `json:"supplier_ids"`
	IsActive       *bool            `json:"is_active"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"-"`
	LowStock   bool       `form:"low_stock"`
	IsActive   *bool      `form:"is_active"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Unit           string          `json:"unit"`
	TVA            decimal.Decimal `json:"tva"`
	StockQuantity  decimal.Decimal `json:"stock_quantity"`
	StockThreshold decimal.Decimal `json:"stock_threshold"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	StockValue     decimal.Decimal `json:"stock_value"`
	IsLowStock     bool            `json:"is_low_stock"`
	IsOutOfStock   bool            `json:"is_out_of_stock"`
	IsActive       bool            `json:"is_active"`
	SupplierIDs    []uuid.UUID     `json:"supplier_ids"`
	Suppliers      []SupplierRef   `json:"suppliers,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// SupplierRef names a supplier linked to a product
type SupplierRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		TVA:            p.TVA,
		StockQuantity:  p.StockQuantity,
		StockThreshold: p.StockThreshold,
		PurchasePrice:  p.PurchasePrice,
		SalePrice:      p.SalePrice,
		StockValue:     p.StockValue(),
		IsLowStock:     p.IsLowStock(),
		IsOutOfStock:   p.IsOutOfStock(),
		IsActive:       p.IsActive,
		SupplierIDs:    p.SupplierIDs,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
