package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/trade"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Phone       string           `json:"phone" binding:"required,tnphone"`
	Email       string           `json:"email" binding:"omitempty,email,max=200"`
	Sector      string           `json:"sector" binding:"max=100"`
	Address     string           `json:"address" binding:"max=500"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Notes       string           `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Phone       *string          `json:"phone" binding:"omitempty,tnphone"`
	Email       *string          `json:"email" binding:"omitempty,email,max=200"`
	Sector      *string          `json:"sector" binding:"omitempty,max=100"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	IsActive    *bool            `json:"is_active"`
	Notes       *string          `json:"notes"`
}

// UpdateBalanceRequest moves a client credit or supplier debt by Delta
type UpdateBalanceRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Sector   string `form:"sector"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email,omitempty"`
	Sector          string          `json:"sector,omitempty"`
	Address         string          `json:"address,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditUsed      decimal.Decimal `json:"credit_used"`
	CreditAvailable decimal.Decimal `json:"credit_available"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// RecentSale is a sale summary shown on the client sheet
type RecentSale struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	TotalTTC  decimal.Decimal `json:"total_ttc"`
	Remaining decimal.Decimal `json:"amount_remaining"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// ClientStatsResponse aggregates the sales of a client
type ClientStatsResponse struct {
	Client          ClientResponse  `json:"client"`
	CreditAvailable decimal.Decimal `json:"credit_available"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	TotalCredit     decimal.Decimal `json:"total_credit"`
	SalesCount      int64           `json:"sales_count"`
	RecentSales     []RecentSale    `json:"recent_sales"`
}

// ToClientResponse converts a domain client to a response DTO
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		Sector:          c.Sector,
		Address:         c.Address,
		IsActive:        c.IsActive,
		CreditLimit:     c.CreditLimit,
		CreditUsed:      c.CreditUsed,
		CreditAvailable: c.CreditAvailable(),
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// ToClientResponses converts a slice of domain clients
func ToClientResponses(clients []partner.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}

func toRecentSales(sales []trade.Sale) []RecentSale {
	items := make([]RecentSale, len(sales))
	for i := range sales {
		s := &sales[i]
		items[i] = RecentSale{
			ID:        s.ID,
			Number:    s.Number(),
			TotalTTC:  s.TotalTTC,
			Remaining: s.Remaining,
			Status:    string(s.Status),
			CreatedAt: s.CreatedAt,
		}
	}
	return items
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// SupplierProductInput is a catalogue entry typed by hand
type SupplierProductInput struct {
	ProductID     *uuid.UUID       `json:"product_id"`
	Name          string           `json:"name" binding:"required,max=200"`
	Unit          string           `json:"unit" binding:"max=50"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	TVA           *decimal.Decimal `json:"tva"`
}

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	Name     string                 `json:"name" binding:"required,min=1,max=200"`
	Phone    string                 `json:"phone" binding:"required,tnphone"`
	Email    string                 `json:"email" binding:"omitempty,email,max=200"`
	Address  string                 `json:"address" binding:"max=500"`
	Notes    string                 `json:"notes"`
	Products []SupplierProductInput `json:"products" binding:"omitempty,dive"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name     *string                 `json:"name" binding:"omitempty,min=1,max=200"`
	Phone    *string                 `json:"phone" binding:"omitempty,tnphone"`
	Email    *string                 `json:"email" binding:"omitempty,email,max=200"`
	Address  *string                 `json:"address" binding:"omitempty,max=500"`
	Notes    *string                 `json:"notes"`
	Products *[]SupplierProductInput `json:"products" binding:"omitempty,dive"`
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SupplierProductResponse is a catalogue entry in API responses
type SupplierProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TVA           decimal.Decimal `json:"tva"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        uuid.UUID                 `json:"id"`
	Name      string                    `json:"name"`
	Phone     string                    `json:"phone"`
	Email     string                    `json:"email,omitempty"`
	Address   string                    `json:"address,omitempty"`
	Notes     string                    `json:"notes,omitempty"`
	TotalDebt decimal.Decimal           `json:"total_debt"`
	Products  []SupplierProductResponse `json:"products"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Version   int                       `json:"version"`
}

// ToSupplierResponse converts a domain supplier to a response DTO
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	products := make([]SupplierProductResponse, len(s.Products))
	for i, p := range s.Products {
		products[i] = SupplierProductResponse{
			ID:            p.ID,
			ProductID:     p.ProductID,
			Name:          p.Name,
			Unit:          p.Unit,
			PurchasePrice: p.PurchasePrice,
			TVA:           p.TVA,
		}
	}
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Notes:     s.Notes,
		TotalDebt: s.TotalDebt,
		Products:  products,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

// ToSupplierResponses converts a slice of domain suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}

func toSupplierProducts(inputs []SupplierProductInput) []partner.SupplierProduct {
	products := make([]partner.SupplierProduct, len(inputs))
	for i, in := range inputs {
		products[i] = partner.NewSupplierProduct(in.ProductID, in.Name, in.Unit, in.PurchasePrice, in.TVA)
	}
	return products
}
