package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
)

func TestDeliveryService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	deliveries := new(MockDeliveryRepository)
	svc := NewDeliveryService(deliveries)
	deliveredAt := time.Date(2024, 5, 2, 15, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return deliveredAt }

	var saved *trade.Delivery
	deliveries.On("Save", ctx, mock.AnythingOfType("*trade.Delivery")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*trade.Delivery) }).
		Return(nil)

	resp, err := svc.Create(ctx, tenantID, uuid.New(), CreateDeliveryRequest{
		ClientName: "Café du Centre",
		Address:    "Avenue Habib Bourguiba, Sousse",
		Items:      []DeliveryItemRequest{{ProductName: "Eau 1.5L", Quantity: dec("24")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Contains(t, resp.Number, "BL-")

	deliveries.On("FindByIDForTenant", ctx, tenantID, saved.ID).Return(saved, nil)

	resp, err = svc.MarkDelivered(ctx, tenantID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)
	require.NotNil(t, resp.DeliveredAt)
	assert.Equal(t, deliveredAt, *resp.DeliveredAt)

	_, err = svc.Cancel(ctx, tenantID, saved.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestDeliveryService_Create_RequiresAddress(t *testing.T) {
	deliveries := new(MockDeliveryRepository)
	_, err := NewDeliveryService(deliveries).Create(context.Background(), uuid.New(), uuid.New(), CreateDeliveryRequest{
		ClientName: "Client",
	})
	assert.Error(t, err)
	deliveries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
