package identity

import (
	"strings"
	"time"

	"github.com/tunerp/backend/internal/domain/shared"
)

// DefaultCountry is used when a company is created without a country
const DefaultCountry = "Tunisie"

// DefaultOCRLimitPerMonth is the monthly OCR quota of a new company
const DefaultOCRLimitPerMonth = 400

// Company is a tenant. Every business record is scoped to one company.
type Company struct {
	shared.BaseAggregateRoot
	Name             string
	Email            string
	Phone            string
	Address          string
	City             string
	Country          string
	MatriculeFiscal  string
	RNE              string
	FiscalRegime     string
	ActivityType     string
	PrimaryColor     string
	LogoURL          string
	IsActive         bool
	OCRLimitPerMonth int
	OCRAttemptsLeft  int
	OCRResetAt       *time.Time
}

// CompanyProfile carries the editable fields of a company
type CompanyProfile struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	City            string
	Country         string
	MatriculeFiscal string
	RNE             string
	FiscalRegime    string
	ActivityType    string
	PrimaryColor    string
}

// NewCompany creates an active company with a full OCR quota
func NewCompany(profile CompanyProfile, ocrLimit int) (*Company, error) {
	if ocrLimit <= 0 {
		ocrLimit = DefaultOCRLimitPerMonth
	}
	now := time.Now()
	c := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          true,
		OCRLimitPerMonth:  ocrLimit,
		OCRAttemptsLeft:   ocrLimit,
		OCRResetAt:        &now,
	}
	if err := c.apply(profile); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateProfile replaces the company profile
func (c *Company) UpdateProfile(profile CompanyProfile) error {
	if err := c.apply(profile); err != nil {
		return err
	}
	c.touch()
	return nil
}

func (c *Company) apply(p CompanyProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if p.Email != "" {
		p.Email = NormalizeEmail(p.Email)
		if err := validateEmail(p.Email); err != nil {
			return err
		}
	}
	if strings.TrimSpace(p.Country) == "" {
		p.Country = DefaultCountry
	}
	c.Name = strings.TrimSpace(p.Name)
	c.Email = p.Email
	c.Phone = strings.TrimSpace(p.Phone)
	c.Address = p.Address
	c.City = p.City
	c.Country = p.Country
	c.MatriculeFiscal = strings.TrimSpace(p.MatriculeFiscal)
	c.RNE = strings.TrimSpace(p.RNE)
	c.FiscalRegime = p.FiscalRegime
	c.ActivityType = p.ActivityType
	c.PrimaryColor = p.PrimaryColor
	return nil
}

// SetLogo sets the stored logo location
func (c *Company) SetLogo(url string) {
	c.LogoURL = url
	c.touch()
}

// Suspend disables the company; its users can no longer log in
func (c *Company) Suspend() {
	c.IsActive = false
	c.touch()
}

// Reactivate re-enables a suspended company
func (c *Company) Reactivate() {
	c.IsActive = true
	c.touch()
}

// SetOCRLimit changes the monthly quota. Remaining attempts are capped at the new limit.
func (c *Company) SetOCRLimit(limit int) error {
	if limit < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "OCR limit cannot be negative")
	}
	c.OCRLimitPerMonth = limit
	if c.OCRAttemptsLeft > limit {
		c.OCRAttemptsLeft = limit
	}
	c.touch()
	return nil
}

// ResetOCR restores the full monthly quota
func (c *Company) ResetOCR(now time.Time) {
	c.OCRAttemptsLeft = c.OCRLimitPerMonth
	c.OCRResetAt = &now
	c.touch()
}

// RefreshOCRQuota resets the quota when the last reset happened in an
// earlier month, or never. It reports whether a reset occurred.
func (c *Company) RefreshOCRQuota(now time.Time) bool {
	if c.OCRResetAt != nil && !isEarlierMonth(*c.OCRResetAt, now) {
		return false
	}
	c.ResetOCR(now)
	return true
}

// ConsumeOCRAttempt refreshes the monthly quota then takes one attempt
func (c *Company) ConsumeOCRAttempt(now time.Time) error {
	c.RefreshOCRQuota(now)
	if c.OCRAttemptsLeft <= 0 {
		return shared.NewDomainError(shared.CodeQuotaExceeded,
			"Quota OCR mensuel atteint. Réessayez le mois prochain.")
	}
	c.OCRAttemptsLeft--
	c.touch()
	return nil
}

// NextOCRReset returns the first day of the month following now
func NextOCRReset(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location())
}

// DaysUntilOCRReset is the number of days left before the quota resets, rounded up
func DaysUntilOCRReset(now time.Time) int {
	hours := NextOCRReset(now).Sub(now).Hours()
	days := int(hours / 24)
	if float64(days*24) < hours {
		days++
	}
	return days
}

func isEarlierMonth(then, now time.Time) bool {
	ty, tm, _ := then.Date()
	ny, nm, _ := now.Date()
	return ty < ny || (ty == ny && tm < nm)
}

func (c *Company) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
