package hr

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// FilterIsActive restricts employee lists to active or inactive staff
const FilterIsActive = "is_active"

// Employee is a member of the company staff
type Employee struct {
	shared.TenantAggregateRoot
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Position   string
	Department string
	Salary     decimal.Decimal
	HireDate   *time.Time
	IsActive   bool
	Notes      string
}

// EmployeeDetails carries the editable fields of an employee
type EmployeeDetails struct {
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Position   string
	Department string
	Salary     decimal.Decimal
	HireDate   *time.Time
	Notes      string
}

// NewEmployee creates an active employee
func NewEmployee(tenantID uuid.UUID, details EmployeeDetails) (*Employee, error) {
	e := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := e.apply(details); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the employee fields
func (e *Employee) Update(details EmployeeDetails) error {
	if err := e.apply(details); err != nil {
		return err
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetActive marks the employee as active or gone
func (e *Employee) SetActive(active bool) {
	e.IsActive = active
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// FullName returns "First Last"
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e *Employee) apply(d EmployeeDetails) error {
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone is required")
	}
	if d.Salary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Salary cannot be negative")
	}
	e.FirstName = strings.TrimSpace(d.FirstName)
	e.LastName = strings.TrimSpace(d.LastName)
	e.Phone = strings.TrimSpace(d.Phone)
	e.Email = strings.ToLower(strings.TrimSpace(d.Email))
	e.Position = strings.TrimSpace(d.Position)
	e.Department = strings.TrimSpace(d.Department)
	e.Salary = d.Salary
	e.HireDate = d.HireDate
	e.Notes = d.Notes
	return nil
}

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	// FindAllForTenant searches first name, last name and position
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, employee *Employee) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
