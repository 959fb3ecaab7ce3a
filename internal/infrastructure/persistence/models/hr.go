package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/hr"
)

// EmployeeModel is the persistence model for the Employee aggregate.
type EmployeeModel struct {
	TenantModel
	FirstName  string          `gorm:"type:varchar(100);not null"`
	LastName   string          `gorm:"type:varchar(100);not null"`
	Phone      string          `gorm:"type:varchar(30);not null"`
	Email      string          `gorm:"type:varchar(200)"`
	Position   string          `gorm:"type:varchar(100)"`
	Department string          `gorm:"type:varchar(100)"`
	Salary     decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	HireDate   *time.Time
	IsActive   bool   `gorm:"not null;default:true"`
	Notes      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee.
func (m *EmployeeModel) ToDomain() *hr.Employee {
	return &hr.Employee{
		TenantAggregateRoot: m.tenantRoot(),
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               m.Phone,
		Email:               m.Email,
		Position:            m.Position,
		Department:          m.Department,
		Salary:              m.Salary,
		HireDate:            m.HireDate,
		IsActive:            m.IsActive,
		Notes:               m.Notes,
	}
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee.
func EmployeeModelFromDomain(e *hr.Employee) *EmployeeModel {
	m := &EmployeeModel{
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Phone:      e.Phone,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		HireDate:   e.HireDate,
		IsActive:   e.IsActive,
		Notes:      e.Notes,
	}
	m.fromTenantRoot(e.TenantAggregateRoot)
	return m
}
