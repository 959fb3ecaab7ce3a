package trade

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/shared/valueobject"
)

var maxTVA = decimal.NewFromInt(100)

// LineInput is an unpriced document line as entered by the user
type LineInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TVA         decimal.Decimal
}

// LineItem is a priced document line.
// TotalHT = Quantity × UnitPrice; TotalTTC = TotalHT × (1 + TVA/100).
type LineItem struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TVA         decimal.Decimal
	TotalHT     decimal.Decimal
	TotalTTC    decimal.Decimal
}

// TVAAmount is the tax part of the line
func (l LineItem) TVAAmount() decimal.Decimal {
	return l.TotalTTC.Sub(l.TotalHT)
}

// Totals are the document-level sums of its lines
type Totals struct {
	HT  decimal.Decimal
	TVA decimal.Decimal
	TTC decimal.Decimal
}

// NewLineItem validates and prices one line
func NewLineItem(in LineInput) (LineItem, error) {
	if !in.Quantity.IsPositive() {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.TVA.IsNegative() || in.TVA.GreaterThan(maxTVA) {
		return LineItem{}, shared.NewDomainError("INVALID_TVA", "TVA must be between 0 and 100")
	}

	ht := valueobject.Round(in.Quantity.Mul(in.UnitPrice))
	return LineItem{
		ID:          uuid.New(),
		ProductID:   in.ProductID,
		ProductName: strings.TrimSpace(in.ProductName),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TVA:         in.TVA,
		TotalHT:     ht,
		TotalTTC:    valueobject.WithTax(ht, in.TVA),
	}, nil
}

// PriceLines prices every line and accumulates the document totals.
// At least one line is required.
func PriceLines(inputs []LineInput) ([]LineItem, Totals, error) {
	if len(inputs) == 0 {
		return nil, Totals{}, shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}

	items := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := NewLineItem(in)
		if err != nil {
			return nil, Totals{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, SumLines(items), nil
}

// SumLines accumulates HT and TTC totals
func SumLines(items []LineItem) Totals {
	ht := valueobject.Sum(items, func(l LineItem) decimal.Decimal { return l.TotalHT })
	ttc := valueobject.Sum(items, func(l LineItem) decimal.Decimal { return l.TotalTTC })
	return Totals{HT: ht, TVA: ttc.Sub(ht), TTC: ttc}
}
