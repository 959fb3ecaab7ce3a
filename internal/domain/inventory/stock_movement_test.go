package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMovement(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	saleID := uuid.New()
	userID := uuid.New()

	t.Run("builds sale movement", func(t *testing.T) {
		m, err := NewStockMovement(tenantID, MovementInput{
			ProductID:   productID,
			ProductName: "Sucre",
			Type:        MovementTypeOut,
			Source:      MovementSourceSale,
			Quantity:    decimal.NewFromInt(3),
			StockBefore: decimal.NewFromInt(10),
			StockAfter:  decimal.NewFromInt(7),
			ReferenceID: &saleID,
			CreatedBy:   userID,
		})
		require.NoError(t, err)
		assert.Equal(t, tenantID, m.TenantID)
		assert.Equal(t, &saleID, m.ReferenceID)
		require.NotNil(t, m.CreatedBy)
		assert.Equal(t, userID, *m.CreatedBy)
		assert.True(t, m.Delta().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, MovementInput{
			ProductID: productID, Type: "transfer", Source: MovementSourceManual,
		})
		assert.Error(t, err)
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, MovementInput{
			ProductID: productID, Type: MovementTypeIn, Source: "gift",
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative stock after", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, MovementInput{
			ProductID: productID, Type: MovementTypeOut, Source: MovementSourceSale,
			Quantity: decimal.NewFromInt(1), StockAfter: decimal.NewFromInt(-1),
		})
		assert.Error(t, err)
	})

	t.Run("nil creator stays nil", func(t *testing.T) {
		m, err := NewStockMovement(tenantID, MovementInput{
			ProductID: productID, Type: MovementTypeAdjustment, Source: MovementSourceManual,
		})
		require.NoError(t, err)
		assert.Nil(t, m.CreatedBy)
	})
}
