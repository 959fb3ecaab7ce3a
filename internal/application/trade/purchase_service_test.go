package trade

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appinventory "github.com/tunerp/backend/internal/application/inventory"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/lock"
)

type purchaseFixture struct {
	svc       *PurchaseService
	purchases *MockPurchaseRepository
	suppliers *MockSupplierRepository
	products  *MockProductRepository
	movements *MockMovementRepository
	payments  *MockPurchasePaymentRepository
}

func newPurchaseFixture() *purchaseFixture {
	f := &purchaseFixture{
		purchases: new(MockPurchaseRepository),
		suppliers: new(MockSupplierRepository),
		products:  new(MockProductRepository),
		movements: new(MockMovementRepository),
		payments:  new(MockPurchasePaymentRepository),
	}
	ledger := appinventory.NewLedger(f.products, f.movements)
	f.svc = NewPurchaseService(f.purchases, f.suppliers, f.products, f.payments, ledger, lock.NewMemoryLocker())
	return f
}

func newSupplier(t *testing.T, tenantID uuid.UUID) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(tenantID, partner.SupplierDetails{Name: "Grossiste Sfax", Phone: "74 123 456"})
	require.NoError(t, err)
	return s
}

func TestPurchaseService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPurchaseFixture()
	supplier := newSupplier(t, tenantID)
	product := newProduct(t, tenantID, "Semoule", 2, 0)

	f.suppliers.On("FindByIDForTenant", mock.Anything, tenantID, supplier.ID).Return(supplier, nil)
	f.suppliers.On("Save", mock.Anything, supplier).Return(nil)
	f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
	f.products.On("Save", mock.Anything, product).Return(nil)
	f.purchases.On("Save", mock.Anything, mock.AnythingOfType("*trade.Purchase")).Return(nil)
	f.payments.On("Save", mock.Anything, mock.MatchedBy(func(p *finance.PurchasePayment) bool {
		return p.Amount.Equal(dec("30")) && p.SupplierID == supplier.ID && p.PurchaseID != nil
	})).Return(nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
		return m.Type == inventory.MovementTypeIn &&
			m.Source == inventory.MovementSourcePurchase &&
			m.Quantity.Equal(dec("10")) &&
			m.StockAfter.Equal(dec("12"))
	})).Return(nil)

	initial := dec("30")
	resp, err := f.svc.Create(ctx, tenantID, uuid.New(), CreatePurchaseRequest{
		SupplierID:     supplier.ID,
		Items:          []LineRequest{{ProductID: product.ID, Quantity: dec("10"), UnitPrice: dec("10")}},
		InitialPayment: &initial,
	})
	require.NoError(t, err)

	assert.Equal(t, "partial", resp.Status)
	assert.True(t, strings.HasPrefix(resp.Number, "BA-"))
	assert.Equal(t, "Semoule", resp.Items[0].ProductName)
	assert.True(t, supplier.TotalDebt.Equal(dec("70")))
	assert.True(t, product.StockQuantity.Equal(dec("12")))
	f.payments.AssertExpectations(t)
	f.movements.AssertExpectations(t)
}

func TestPurchaseService_Create_UnknownSupplier(t *testing.T) {
	f := newPurchaseFixture()
	tenantID := uuid.New()
	supplierID := uuid.New()
	f.suppliers.On("FindByIDForTenant", mock.Anything, tenantID, supplierID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Create(context.Background(), tenantID, uuid.New(), CreatePurchaseRequest{
		SupplierID: supplierID,
		Items:      []LineRequest{{ProductID: uuid.New(), Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPurchaseService_Payments_MoveDebt(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPurchaseFixture()
	supplier := newSupplier(t, tenantID)
	supplier.UpdateDebt(dec("100"))

	purchase, err := trade.NewPurchase(tenantID, supplier.ID, supplier.Name, []trade.LineInput{{
		ProductID: uuid.New(), ProductName: "Huile", Quantity: dec("1"), UnitPrice: dec("100"),
	}}, dec("0"), "")
	require.NoError(t, err)

	f.purchases.On("FindByIDForTenant", ctx, tenantID, purchase.ID).Return(purchase, nil)
	f.purchases.On("Save", ctx, purchase).Return(nil)
	f.suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	f.suppliers.On("Save", ctx, supplier).Return(nil)
	f.payments.On("Save", ctx, mock.AnythingOfType("*finance.PurchasePayment")).Return(nil)

	resp, err := f.svc.AddPayment(ctx, tenantID, uuid.New(), purchase.ID, AddPaymentRequest{Amount: dec("40")})
	require.NoError(t, err)
	assert.Equal(t, "partial", resp.Status)
	assert.True(t, supplier.TotalDebt.Equal(dec("60")))

	paymentID := resp.Payments[0].ID
	f.payments.On("DeleteForTenant", ctx, tenantID, paymentID).Return(nil)

	resp, err = f.svc.RemovePayment(ctx, tenantID, purchase.ID, paymentID)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.True(t, supplier.TotalDebt.Equal(dec("100")))
}

func TestPurchaseService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPurchaseFixture()
	supplier := newSupplier(t, tenantID)
	supplier.UpdateDebt(dec("50"))
	product := newProduct(t, tenantID, "Sucre", 3, 0)

	purchase, err := trade.NewPurchase(tenantID, supplier.ID, supplier.Name, []trade.LineInput{{
		ProductID: product.ID, ProductName: product.Name, Quantity: dec("5"), UnitPrice: dec("10"),
	}}, dec("0"), "")
	require.NoError(t, err)

	f.purchases.On("FindByIDForTenant", mock.Anything, tenantID, purchase.ID).Return(purchase, nil)
	f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
	f.products.On("Save", mock.Anything, product).Return(nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
		// stock only held 3 of the 5 purchased units
		return m.Type == inventory.MovementTypeOut &&
			m.Source == inventory.MovementSourceReturn &&
			m.Quantity.Equal(dec("3")) &&
			strings.HasPrefix(m.Notes, "Annulation achat")
	})).Return(nil)
	f.suppliers.On("FindByIDForTenant", mock.Anything, tenantID, supplier.ID).Return(supplier, nil)
	f.suppliers.On("Save", mock.Anything, supplier).Return(nil)
	f.payments.On("DeleteByPurchase", mock.Anything, tenantID, purchase.ID).Return(nil)
	f.purchases.On("DeleteForTenant", mock.Anything, tenantID, purchase.ID).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, tenantID, uuid.New(), purchase.ID))
	assert.True(t, product.StockQuantity.IsZero())
	assert.True(t, supplier.TotalDebt.IsZero())
	f.purchases.AssertExpectations(t)
}
