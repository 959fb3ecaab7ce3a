package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelivery_Lifecycle(t *testing.T) {
	items := []DeliveryItem{{ProductName: "Carton eau", Quantity: d("3")}}

	dl, err := NewDelivery(uuid.New(), nil, "Hotel Sousse", "73000000", "Route touristique", items, "")
	require.NoError(t, err)
	assert.Equal(t, DeliveryStatusPending, dl.Status)

	now := time.Now()
	require.NoError(t, dl.MarkDelivered(now))
	assert.Equal(t, DeliveryStatusDelivered, dl.Status)
	assert.Equal(t, &now, dl.DeliveredAt)

	assert.Error(t, dl.Cancel())
	assert.Error(t, dl.MarkDelivered(now))
}

func TestNewDelivery_Validation(t *testing.T) {
	_, err := NewDelivery(uuid.New(), nil, "", "", "addr", nil, "")
	assert.Error(t, err)
	_, err = NewDelivery(uuid.New(), nil, "X", "", " ", nil, "")
	assert.Error(t, err)
	_, err = NewDelivery(uuid.New(), nil, "X", "", "addr", []DeliveryItem{{ProductName: "a", Quantity: d("0")}}, "")
	assert.Error(t, err)
}

func TestSaleReturn_ChangeStatus(t *testing.T) {
	r, err := NewSaleReturn(uuid.New(), uuid.New(), nil, "Client", "Produit abîmé", testLines())
	require.NoError(t, err)
	assert.True(t, r.TotalRefund.Equal(d("24.8")))

	restock, err := r.ChangeStatus(ReturnStatusApproved)
	require.NoError(t, err)
	assert.True(t, restock)

	restock, err = r.ChangeStatus(ReturnStatusRefunded)
	require.NoError(t, err)
	assert.False(t, restock)

	_, err = r.ChangeStatus(ReturnStatusPending)
	assert.Error(t, err)
}
