package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/report"
	"github.com/tunerp/backend/internal/domain/shared"
)

// MockReportRepository is a mock implementation of report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SalesRows(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.DocumentRow, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DocumentRow), args.Error(1)
}

func (m *MockReportRepository) PurchaseRows(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.DocumentRow, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DocumentRow), args.Error(1)
}

func (m *MockReportRepository) StockRows(ctx context.Context, tenantID uuid.UUID) ([]report.StockRow, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StockRow), args.Error(1)
}

func (m *MockReportRepository) ChargeRows(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.ChargeRow, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ChargeRow), args.Error(1)
}

func (m *MockReportRepository) SalesTotals(ctx context.Context, tenantID uuid.UUID, period report.Period) (finance.DocumentTotals, error) {
	args := m.Called(ctx, tenantID, period)
	return args.Get(0).(finance.DocumentTotals), args.Error(1)
}

func (m *MockReportRepository) PurchaseTotals(ctx context.Context, tenantID uuid.UUID, period report.Period) (finance.DocumentTotals, error) {
	args := m.Called(ctx, tenantID, period)
	return args.Get(0).(finance.DocumentTotals), args.Error(1)
}

func (m *MockReportRepository) CountClients(ctx context.Context, tenantID uuid.UUID, activeOnly bool) (int64, error) {
	args := m.Called(ctx, tenantID, activeOnly)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) CountProducts(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) CountOutOfStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]report.ClientRevenue, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ClientRevenue), args.Error(1)
}

func (m *MockReportRepository) MonthlySales(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]report.MonthlyRevenue, error) {
	args := m.Called(ctx, tenantID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MonthlyRevenue), args.Error(1)
}

// MockChargeRepository is a mock implementation of finance.ChargeRepository
type MockChargeRepository struct {
	mock.Mock
}

func (m *MockChargeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Charge, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Charge), args.Error(1)
}

func (m *MockChargeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Charge, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Charge), args.Error(1)
}

func (m *MockChargeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChargeRepository) SumForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockChargeRepository) Save(ctx context.Context, charge *finance.Charge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

func (m *MockChargeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
