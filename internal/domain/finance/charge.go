package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// ChargeType is the category of an operating expense
type ChargeType string

const (
	ChargeTypeRent      ChargeType = "rent"
	ChargeTypeSalary    ChargeType = "salary"
	ChargeTypeUtilities ChargeType = "utilities"
	ChargeTypeEquipment ChargeType = "equipment"
	ChargeTypeMarketing ChargeType = "marketing"
	ChargeTypeTax       ChargeType = "tax"
	ChargeTypeInsurance ChargeType = "insurance"
	ChargeTypeOther     ChargeType = "other"
)

// AllChargeTypes lists every charge type
var AllChargeTypes = []ChargeType{
	ChargeTypeRent, ChargeTypeSalary, ChargeTypeUtilities, ChargeTypeEquipment,
	ChargeTypeMarketing, ChargeTypeTax, ChargeTypeInsurance, ChargeTypeOther,
}

// IsValid checks if the type is known
func (t ChargeType) IsValid() bool {
	for _, known := range AllChargeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName returns the French label used in exports
func (t ChargeType) DisplayName() string {
	switch t {
	case ChargeTypeRent:
		return "Loyer"
	case ChargeTypeSalary:
		return "Salaires"
	case ChargeTypeUtilities:
		return "Eau / Électricité"
	case ChargeTypeEquipment:
		return "Équipement"
	case ChargeTypeMarketing:
		return "Marketing"
	case ChargeTypeTax:
		return "Impôts et taxes"
	case ChargeTypeInsurance:
		return "Assurance"
	case ChargeTypeOther:
		return "Autre"
	default:
		return string(t)
	}
}

// Charge is an operating expense of the company
type Charge struct {
	shared.TenantAggregateRoot
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Type        ChargeType
	Source      string
	ReceiptURL  string
	Notes       string
}

// ChargeDetails carries the editable fields of a charge
type ChargeDetails struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Type        ChargeType
	Source      string
	Notes       string
}

// NewCharge creates a charge
func NewCharge(tenantID uuid.UUID, details ChargeDetails) (*Charge, error) {
	c := &Charge{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := c.apply(details); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the charge fields
func (c *Charge) Update(details ChargeDetails) error {
	if err := c.apply(details); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

func (c *Charge) apply(details ChargeDetails) error {
	if strings.TrimSpace(details.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if details.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if details.Type == "" {
		details.Type = ChargeTypeOther
	}
	if !details.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Unknown charge type: "+string(details.Type))
	}
	if details.Date.IsZero() {
		details.Date = time.Now()
	}
	c.Description = strings.TrimSpace(details.Description)
	c.Amount = details.Amount
	c.Date = details.Date
	c.Type = details.Type
	c.Source = strings.TrimSpace(details.Source)
	c.Notes = details.Notes
	return nil
}

// AttachReceipt sets the stored receipt location
func (c *Charge) AttachReceipt(url string) {
	c.ReceiptURL = url
	c.UpdatedAt = time.Now()
}
