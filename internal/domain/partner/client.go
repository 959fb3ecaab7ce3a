package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Client is a customer of the company. Phone is unique per company.
type Client struct {
	shared.TenantAggregateRoot
	Name        string
	Phone       string
	Email       string
	Sector      string
	Address     string
	IsActive    bool
	CreditLimit decimal.Decimal
	CreditUsed  decimal.Decimal
	Notes       string
}

// ClientDetails carries the editable fields of a client
type ClientDetails struct {
	Name    string
	Phone   string
	Email   string
	Sector  string
	Address string
	Notes   string
}

// NewClient creates a new active client
func NewClient(tenantID uuid.UUID, details ClientDetails) (*Client, error) {
	c := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
		CreditLimit:         decimal.Zero,
		CreditUsed:          decimal.Zero,
	}
	if err := c.apply(details); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Client) Update(details ClientDetails) error {
	if err := c.apply(details); err != nil {
		return err
	}
	c.touch()
	return nil
}

func (c *Client) apply(details ClientDetails) error {
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
	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Sector = details.Sector
	c.Address = details.Address
	c.Notes = details.Notes
	return nil
}

// SetCreditLimit sets the maximum outstanding credit granted to the client
func (c *Client) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	c.CreditLimit = limit
	c.touch()
	return nil
}

// UpdateCredit moves the used credit by delta. The result never goes below zero.
func (c *Client) UpdateCredit(delta decimal.Decimal) {
	c.CreditUsed = c.CreditUsed.Add(delta)
	if c.CreditUsed.IsNegative() {
		c.CreditUsed = decimal.Zero
	}
	c.touch()
}

// CreditAvailable returns creditLimit - creditUsed
func (c *Client) CreditAvailable() decimal.Decimal {
	return c.CreditLimit.Sub(c.CreditUsed)
}

// SetActive activates or deactivates the client
func (c *Client) SetActive(active bool) {
	c.IsActive = active
	c.touch()
}

func (c *Client) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
