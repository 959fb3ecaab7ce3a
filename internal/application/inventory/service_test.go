package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/lock"
)

func setupService() (*Service, *MockProductRepository, *MockMovementRepository) {
	products := new(MockProductRepository)
	movements := new(MockMovementRepository)
	ledger := NewLedger(products, movements)
	return NewService(products, movements, ledger, lock.NewMemoryLocker()), products, movements
}

func TestService_ListMovements(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, _, movements := setupService()

	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	movements.On("FindForTenant", ctx, tenantID, mock.MatchedBy(func(f inventory.MovementFilter) bool {
		return f.Type == inventory.MovementTypeOut && f.To.Hour() == 23 && f.To.Day() == 31
	})).Return([]inventory.StockMovement{{ProductName: "Sucre", Type: inventory.MovementTypeOut}}, nil)

	result, err := svc.ListMovements(ctx, tenantID, MovementListFilter{Type: "out", To: &to})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Sucre", result[0].ProductName)
	assert.Equal(t, "out", result[0].Type)
}

func TestService_Adjust(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, products, movements := setupService()
	product := newStockedProduct(t, tenantID, 12, 0)

	products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)
	movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
		return m.Type == inventory.MovementTypeAdjustment && m.Source == inventory.MovementSourceManual &&
			m.Quantity.Equal(decimal.NewFromInt(4)) && *m.CreatedBy == userID
	})).Return(nil)

	resp, err := svc.Adjust(ctx, tenantID, userID, AdjustStockRequest{
		ProductID:   product.ID,
		NewQuantity: decimal.NewFromInt(8),
		Notes:       "Inventaire mensuel",
	})
	require.NoError(t, err)
	assert.True(t, resp.StockBefore.Equal(decimal.NewFromInt(12)))
	assert.True(t, resp.StockAfter.Equal(decimal.NewFromInt(8)))
	movements.AssertExpectations(t)
}

func TestService_UpdateStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("subtract beyond stock is rejected", func(t *testing.T) {
		svc, products, _ := setupService()
		product := newStockedProduct(t, tenantID, 2, 0)
		products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)

		_, err := svc.UpdateStock(ctx, tenantID, uuid.Nil, product.ID, UpdateStockRequest{
			Quantity:  decimal.NewFromInt(3),
			Operation: OperationSubtract,
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("add writes in movement", func(t *testing.T) {
		svc, products, movements := setupService()
		product := newStockedProduct(t, tenantID, 2, 0)
		products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		products.On("Save", mock.Anything, product).Return(nil)
		movements.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.UpdateStock(ctx, tenantID, uuid.Nil, product.ID, UpdateStockRequest{
			Quantity:  decimal.NewFromInt(3),
			Operation: OperationAdd,
		})
		require.NoError(t, err)
		assert.Equal(t, "in", resp.Type)
		assert.True(t, resp.StockAfter.Equal(decimal.NewFromInt(5)))
	})
}

func TestService_Alerts(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, products, _ := setupService()

	low := *newStockedProduct(t, tenantID, 3, 5)
	empty := *newStockedProduct(t, tenantID, 0, 5)
	products.On("FindLowStock", ctx, tenantID).Return([]catalog.Product{low, empty}, nil)
	products.On("FindOutOfStock", ctx, tenantID).Return([]catalog.Product{empty}, nil)

	alerts, err := svc.Alerts(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, alerts.LowStock, 1)
	assert.Len(t, alerts.OutOfStock, 1)
	assert.Equal(t, 2, alerts.Total)
}
