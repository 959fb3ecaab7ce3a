package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
)

// MockSalePaymentRepository is a mock implementation of finance.SalePaymentRepository
type MockSalePaymentRepository struct {
	mock.Mock
}

func (m *MockSalePaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.SalePayment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.SalePayment), args.Error(1)
}

func (m *MockSalePaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.SalePayment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.SalePayment), args.Error(1)
}

func (m *MockSalePaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalePaymentRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]finance.SalePayment, error) {
	args := m.Called(ctx, tenantID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.SalePayment), args.Error(1)
}

func (m *MockSalePaymentRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]finance.SalePayment, error) {
	args := m.Called(ctx, tenantID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.SalePayment), args.Error(1)
}

func (m *MockSalePaymentRepository) StatsByClient(ctx context.Context, tenantID, clientID uuid.UUID) (finance.PaymentStats, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).(finance.PaymentStats), args.Error(1)
}

func (m *MockSalePaymentRepository) Save(ctx context.Context, payment *finance.SalePayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockSalePaymentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSalePaymentRepository) DeleteBySale(ctx context.Context, tenantID, saleID uuid.UUID) error {
	args := m.Called(ctx, tenantID, saleID)
	return args.Error(0)
}

// MockPurchasePaymentRepository is a mock implementation of finance.PurchasePaymentRepository
type MockPurchasePaymentRepository struct {
	mock.Mock
}

func (m *MockPurchasePaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.PurchasePayment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PurchasePayment), args.Error(1)
}

func (m *MockPurchasePaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.PurchasePayment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.PurchasePayment), args.Error(1)
}

func (m *MockPurchasePaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchasePaymentRepository) Save(ctx context.Context, payment *finance.PurchasePayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPurchasePaymentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPurchasePaymentRepository) DeleteByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) error {
	args := m.Called(ctx, tenantID, purchaseID)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, phone, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
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
