package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/notification"
	"github.com/tunerp/backend/internal/domain/shared"
	"go.uber.org/zap/zaptest"
)

// MockRepository is a mock implementation of notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("FindRecent", ctx, tenantID, notification.DefaultListLimit).
		Return([]notification.Notification{{Title: "Stock faible", Type: notification.TypeLowStock}}, nil)

	items, err := svc.List(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "low_stock", items[0].Type)
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves unread notification", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		n, err := notification.New(tenantID, "Info", "", notification.TypeSystem, "")
		require.NoError(t, err)

		repo.On("FindByIDForTenant", ctx, tenantID, n.ID).Return(n, nil)
		repo.On("Save", ctx, n).Return(nil)

		resp, err := svc.MarkRead(ctx, tenantID, n.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsRead)
		repo.AssertExpectations(t)
	})

	t.Run("already read is not saved again", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		n, err := notification.New(tenantID, "Info", "", notification.TypeSystem, "")
		require.NoError(t, err)
		n.MarkRead()

		repo.On("FindByIDForTenant", ctx, tenantID, n.ID).Return(n, nil)

		_, err = svc.MarkRead(ctx, tenantID, n.ID)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		id := uuid.New()
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.MarkRead(ctx, tenantID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Create_RejectsUnknownType(t *testing.T) {
	svc := NewService(new(MockRepository))
	_, err := svc.Create(context.Background(), uuid.New(), CreateNotificationRequest{Title: "x", Type: "promo"})
	assert.Error(t, err)
}

func TestStockAlertHandler_Handle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	product, err := catalog.NewProduct(tenantID, "Lait demi-écrémé", "litre", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, product.SetStockThreshold(decimal.NewFromInt(10)))

	t.Run("out of stock", func(t *testing.T) {
		repo := new(MockRepository)
		handler := NewStockAlertHandler(repo, zaptest.NewLogger(t))
		repo.On("Create", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.Title == "🚨 Rupture de stock" &&
				n.Type == notification.TypeLowStock &&
				n.Link == "/products" &&
				n.TenantID == tenantID
		})).Return(nil)

		err := handler.Handle(ctx, catalog.NewStockAlertEvent(product, catalog.StockLevelOut))
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("low stock message carries threshold", func(t *testing.T) {
		repo := new(MockRepository)
		handler := NewStockAlertHandler(repo, zaptest.NewLogger(t))
		require.NoError(t, product.SetInitialStock(decimal.NewFromInt(4)))

		repo.On("Create", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.Title == "⚠️ Stock faible" && strings.Contains(n.Message, "(4/10)")
		})).Return(nil)

		require.NoError(t, handler.Handle(ctx, catalog.NewStockAlertEvent(product, catalog.StockLevelLow)))
		repo.AssertExpectations(t)
	})

	t.Run("repository failure is swallowed", func(t *testing.T) {
		repo := new(MockRepository)
		handler := NewStockAlertHandler(repo, zaptest.NewLogger(t))
		repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		assert.NoError(t, handler.Handle(ctx, catalog.NewStockAlertEvent(product, catalog.StockLevelLow)))
	})

	t.Run("wrong event type", func(t *testing.T) {
		handler := NewStockAlertHandler(new(MockRepository), zaptest.NewLogger(t))
		assert.Error(t, handler.Handle(ctx, catalog.NewProductCreatedEvent(product)))
	})

	assert.Equal(t, []string{catalog.EventTypeStockAlert}, NewStockAlertHandler(nil, nil).EventTypes())
}
