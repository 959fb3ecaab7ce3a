package hr

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/hr"
	"github.com/tunerp/backend/internal/domain/shared"
)

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func validRequest() EmployeeRequest {
	return EmployeeRequest{
		FirstName: "Leila",
		LastName:  "Haddad",
		Phone:     "98 765 432",
		Email:     "Leila@Carthage.tn",
		Position:  "Comptable",
		Salary:    decimal.NewFromInt(1800),
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*hr.Employee")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, uuid.New(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, "Leila Haddad", resp.FullName)
		assert.Equal(t, "leila@carthage.tn", resp.Email)
		assert.True(t, resp.IsActive)
	})

	t.Run("created inactive", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*hr.Employee")).Return(nil)

		req := validRequest()
		inactive := false
		req.IsActive = &inactive
		resp, err := svc.Create(ctx, tenantID, uuid.New(), req)
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("negative salary", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo)

		req := validRequest()
		req.Salary = decimal.NewFromInt(-1)
		_, err := svc.Create(ctx, tenantID, uuid.New(), req)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_List_ActiveFilter(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockEmployeeRepository)
	svc := NewEmployeeService(repo)

	active := true
	matches := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters[hr.FilterIsActive] == true && f.Search == "compta" && f.OrderBy == "created_at"
	})
	repo.On("FindAllForTenant", ctx, tenantID, matches).Return([]hr.Employee{}, nil)
	repo.On("CountForTenant", ctx, tenantID, matches).Return(int64(0), nil)

	_, total, err := svc.List(ctx, tenantID, EmployeeListFilter{Search: "compta", IsActive: &active})
	require.NoError(t, err)
	assert.Zero(t, total)
	repo.AssertExpectations(t)
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockEmployeeRepository)
	svc := NewEmployeeService(repo)

	employee, err := hr.NewEmployee(tenantID, validRequest().details())
	require.NoError(t, err)
	repo.On("FindByIDForTenant", ctx, tenantID, employee.ID).Return(employee, nil)
	repo.On("Save", ctx, employee).Return(nil)

	req := validRequest()
	req.Position = "Responsable comptable"
	gone := false
	req.IsActive = &gone
	resp, err := svc.Update(ctx, tenantID, employee.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Responsable comptable", resp.Position)
	assert.False(t, resp.IsActive)
}

func TestEmployeeService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockEmployeeRepository)
	svc := NewEmployeeService(repo)

	id := uuid.New()
	repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
