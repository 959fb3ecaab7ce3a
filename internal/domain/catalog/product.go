package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// DefaultUnit is used when a product is created without a unit.
const DefaultUnit = "unité"

var maxTVA = decimal.NewFromInt(100)

// Product is a stocked article. StockQuantity is the on-hand quantity and is
// never negative; StockThreshold > 0 enables low-stock alerts.
type Product struct {
	shared.TenantAggregateRoot
	Name           string
	Description    string
	Unit           string
	TVA            decimal.Decimal
	StockQuantity  decimal.Decimal
	StockThreshold decimal.Decimal
	PurchasePrice  decimal.Decimal
	SalePrice      decimal.Decimal
	SupplierIDs    []uuid.UUID
	IsActive       bool
}

// NewProduct creates a new product with an empty stock
func NewProduct(tenantID uuid.UUID, name, unit string, tva decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateTVA(tva); err != nil {
		return nil, err
	}
	if strings.TrimSpace(unit) == "" {
		unit = DefaultUnit
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Unit:                unit,
		TVA:                 tva,
		StockQuantity:       decimal.Zero,
		StockThreshold:      decimal.Zero,
		PurchasePrice:       decimal.Zero,
		SalePrice:           decimal.Zero,
		SupplierIDs:         []uuid.UUID{},
		IsActive:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, description, unit string, tva decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateTVA(tva); err != nil {
		return err
	}
	if strings.TrimSpace(unit) == "" {
		unit = DefaultUnit
	}

	p.Name = name
	p.Description = description
	p.Unit = unit
	p.TVA = tva
	p.touch()
	return nil
}

// SetPrices sets purchase and sale prices
func (p *Product) SetPrices(purchasePrice, salePrice decimal.Decimal) error {
	if purchasePrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	p.PurchasePrice = purchasePrice
	p.SalePrice = salePrice
	p.touch()
	return nil
}

// SetStockThreshold sets the alert threshold. Zero disables low-stock alerts.
func (p *Product) SetStockThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Stock threshold cannot be negative")
	}
	p.StockThreshold = threshold
	p.touch()
	return nil
}

// SetInitialStock sets the on-hand quantity of a product that has not been saved yet
func (p *Product) SetInitialStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	p.StockQuantity = quantity
	return nil
}

// SetActive toggles the product availability
func (p *Product) SetActive(active bool) {
	p.IsActive = active
	p.touch()
}

// SupplierChange lists how a product's supplier set moved.
type SupplierChange struct {
	Added   []uuid.UUID
	Removed []uuid.UUID
	Kept    []uuid.UUID
}

// SetSuppliers replaces the supplier set and reports the difference.
// Duplicates and nil IDs are dropped.
func (p *Product) SetSuppliers(ids []uuid.UUID) SupplierChange {
	next := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}

	prev := make(map[uuid.UUID]bool, len(p.SupplierIDs))
	for _, id := range p.SupplierIDs {
		prev[id] = true
	}

	var change SupplierChange
	for _, id := range next {
		if prev[id] {
			change.Kept = append(change.Kept, id)
		} else {
			change.Added = append(change.Added, id)
		}
	}
	for _, id := range p.SupplierIDs {
		if !seen[id] {
			change.Removed = append(change.Removed, id)
		}
	}

	p.SupplierIDs = next
	p.touch()
	return change
}

// HasSupplier reports whether the supplier provides this product
func (p *Product) HasSupplier(supplierID uuid.UUID) bool {
	for _, id := range p.SupplierIDs {
		if id == supplierID {
			return true
		}
	}
	return false
}

// StockChange is the before/after pair of a stock mutation.
type StockChange struct {
	Before decimal.Decimal
	After  decimal.Decimal
}

// IncreaseStock adds quantity to the on-hand stock
func (p *Product) IncreaseStock(quantity decimal.Decimal) (StockChange, error) {
	if !quantity.IsPositive() {
		return StockChange{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	change := StockChange{Before: p.StockQuantity, After: p.StockQuantity.Add(quantity)}
	p.StockQuantity = change.After
	p.touch()
	return change, nil
}

// CanFulfill reports whether quantity can be taken from the on-hand stock
func (p *Product) CanFulfill(quantity decimal.Decimal) bool {
	return p.StockQuantity.GreaterThanOrEqual(quantity)
}

// DecreaseStock removes quantity from stock. It fails when the stock does not
// cover the quantity and raises a stock alert when the result crosses the
// threshold.
func (p *Product) DecreaseStock(quantity decimal.Decimal) (StockChange, error) {
	if !quantity.IsPositive() {
		return StockChange{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.CanFulfill(quantity) {
		return StockChange{}, NewInsufficientStockError(p.Name, p.StockQuantity, quantity)
	}
	return p.WithdrawStock(quantity), nil
}

// WithdrawStock removes quantity without the availability check, clamping the
// result at zero. It is used when a supplier delivery is cancelled.
func (p *Product) WithdrawStock(quantity decimal.Decimal) StockChange {
	after := p.StockQuantity.Sub(quantity)
	if after.IsNegative() {
		after = decimal.Zero
	}
	change := StockChange{Before: p.StockQuantity, After: after}
	p.StockQuantity = after
	p.touch()
	p.raiseStockAlert()
	return change
}

// AdjustStock sets an absolute on-hand quantity (inventory count)
func (p *Product) AdjustStock(quantity decimal.Decimal) (StockChange, error) {
	if quantity.IsNegative() {
		return StockChange{}, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	change := StockChange{Before: p.StockQuantity, After: quantity}
	p.StockQuantity = quantity
	p.touch()
	if quantity.LessThan(change.Before) {
		p.raiseStockAlert()
	}
	return change, nil
}

// IsOutOfStock reports whether nothing is left on hand
func (p *Product) IsOutOfStock() bool {
	return !p.StockQuantity.IsPositive()
}

// IsLowStock reports whether the threshold is enabled and reached
func (p *Product) IsLowStock() bool {
	return p.StockThreshold.IsPositive() && p.StockQuantity.LessThanOrEqual(p.StockThreshold)
}

// StockValue is the on-hand quantity valued at purchase price
func (p *Product) StockValue() decimal.Decimal {
	return p.StockQuantity.Mul(p.PurchasePrice)
}

func (p *Product) raiseStockAlert() {
	switch {
	case p.IsOutOfStock():
		p.AddDomainEvent(NewStockAlertEvent(p, StockLevelOut))
	case p.IsLowStock():
		p.AddDomainEvent(NewStockAlertEvent(p, StockLevelLow))
	}
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// NewInsufficientStockError builds the error returned when stock cannot cover a line
func NewInsufficientStockError(name string, available, requested decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInsufficientStock,
		fmt.Sprintf("Stock insuffisant pour %s (disponible: %s, demandé: %s)", name, available.String(), requested.String()))
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateTVA(tva decimal.Decimal) error {
	if tva.IsNegative() || tva.GreaterThan(maxTVA) {
		return shared.NewDomainError("INVALID_TVA", "TVA must be between 0 and 100")
	}
	return nil
}
