package hr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/hr"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// EmployeeRequest represents a request to create or replace an employee
type EmployeeRequest struct {
	FirstName  string          `json:"first_name" binding:"required,max=100"`
	LastName   string          `json:"last_name" binding:"required,max=100"`
	Phone      string          `json:"phone" binding:"required,max=30"`
	Email      string          `json:"email" binding:"omitempty,email"`
	Position   string          `json:"position" binding:"max=100"`
	Department string          `json:"department" binding:"max=100"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   *time.Time      `json:"hire_date"`
	Notes      string          `json:"notes"`
	IsActive   *bool           `json:"is_active"`
}

// EmployeeListFilter represents filter options for the employee list
type EmployeeListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID         uuid.UUID       `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	FullName   string          `json:"full_name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email,omitempty"`
	Position   string          `json:"position,omitempty"`
	Department string          `json:"department,omitempty"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   *time.Time      `json:"hire_date,omitempty"`
	IsActive   bool            `json:"is_active"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToEmployeeResponse converts a domain employee to a response DTO
func ToEmployeeResponse(e *hr.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		FullName:   e.FullName(),
		Phone:      e.Phone,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		HireDate:   e.HireDate,
		IsActive:   e.IsActive,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (r EmployeeRequest) details() hr.EmployeeDetails {
	return hr.EmployeeDetails{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Phone:      r.Phone,
		Email:      r.Email,
		Position:   r.Position,
		Department: r.Department,
		Salary:     r.Salary,
		HireDate:   r.HireDate,
		Notes:      r.Notes,
	}
}

// EmployeeService manages the company staff
type EmployeeService struct {
	employeeRepo hr.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo hr.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// Create adds an employee
func (s *EmployeeService) Create(ctx context.Context, tenantID, userID uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	employee, err := hr.NewEmployee(tenantID, req.details())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		employee.SetActive(false)
	}
	employee.SetCreatedBy(userID)
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Employee created", zap.String("employee_id", employee.ID.String()))

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// List searches employees by name or position
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.IsActive != nil {
		domainFilter.Filters[hr.FilterIsActive] = *filter.IsActive
	}

	employees, err := s.employeeRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.employeeRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = ToEmployeeResponse(&employees[i])
	}
	return responses, total, nil
}

// Update replaces an employee
func (s *EmployeeService) Update(ctx context.Context, tenantID, employeeID uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := employee.Update(req.details()); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != employee.IsActive {
		employee.SetActive(*req.IsActive)
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Delete removes an employee
func (s *EmployeeService) Delete(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	return s.employeeRepo.DeleteForTenant(ctx, tenantID, employeeID)
}
