package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// DefaultSupplierTVA is applied to catalogue entries entered without a rate
var DefaultSupplierTVA = decimal.NewFromInt(19)

// SupplierProduct is a snapshot of an article in a supplier's catalogue.
// ProductID is nil for entries typed by hand that are not linked to a product.
type SupplierProduct struct {
	ID            uuid.UUID
	ProductID     *uuid.UUID
	Name          string
	Unit          string
	PurchasePrice decimal.Decimal
	TVA           decimal.Decimal
}

// NewSupplierProduct builds a catalogue entry; a nil tva defaults to 19%
func NewSupplierProduct(productID *uuid.UUID, name, unit string, purchasePrice decimal.Decimal, tva *decimal.Decimal) SupplierProduct {
	rate := DefaultSupplierTVA
	if tva != nil {
		rate = *tva
	}
	if unit == "" {
		unit = "unité"
	}
	return SupplierProduct{
		ID:            uuid.New(),
		ProductID:     productID,
		Name:          name,
		Unit:          unit,
		PurchasePrice: purchasePrice,
		TVA:           rate,
	}
}

// Supplier (fournisseur) provides products. TotalDebt is what the company owes.
type Supplier struct {
	shared.TenantAggregateRoot
	Name      string
	Phone     string
	Email     string
	Address   string
	Notes     string
	TotalDebt decimal.Decimal
	Products  []SupplierProduct
}

// SupplierDetails carries the editable fields of a supplier
type SupplierDetails struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

// NewSupplier creates a new supplier with no debt
func NewSupplier(tenantID uuid.UUID, details SupplierDetails) (*Supplier, error) {
	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TotalDebt:           decimal.Zero,
		Products:            []SupplierProduct{},
	}
	if err := s.apply(details); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the editable fields
func (s *Supplier) Update(details SupplierDetails) error {
	if err := s.apply(details); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Supplier) apply(details SupplierDetails) error {
	name, err := normalizeName(details.Name)
	if err != nil {
		return err
	}
	phone, err := normalizePhone(details.Phone)
	if err != nil {
		return err
	}
	email, err := normalizeEmail(details.Email)
	if err != nil {
		return err
	}
	s.Name = name
	s.Phone = phone
	s.Email = email
	s.Address = details.Address
	s.Notes = details.Notes
	return nil
}

// UpdateDebt moves the outstanding debt by delta (positive on purchase,
// negative on payment)
func (s *Supplier) UpdateDebt(delta decimal.Decimal) {
	s.TotalDebt = s.TotalDebt.Add(delta)
	s.touch()
}

// ReplaceProducts sets the hand-entered catalogue
func (s *Supplier) ReplaceProducts(products []SupplierProduct) {
	s.Products = products
	s.touch()
}

// UpsertProduct inserts or refreshes the catalogue entry linked to entry.ProductID
func (s *Supplier) UpsertProduct(entry SupplierProduct) {
	if entry.ProductID != nil {
		for i := range s.Products {
			if s.Products[i].ProductID != nil && *s.Products[i].ProductID == *entry.ProductID {
				entry.ID = s.Products[i].ID
				s.Products[i] = entry
				s.touch()
				return
			}
		}
	}
	s.Products = append(s.Products, entry)
	s.touch()
}

// RemoveProduct drops the catalogue entry linked to productID
func (s *Supplier) RemoveProduct(productID uuid.UUID) bool {
	for i := range s.Products {
		if s.Products[i].ProductID != nil && *s.Products[i].ProductID == productID {
			s.Products = append(s.Products[:i], s.Products[i+1:]...)
			s.touch()
			return true
		}
	}
	return false
}

func (s *Supplier) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
