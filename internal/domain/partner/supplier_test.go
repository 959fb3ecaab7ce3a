package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupplier(t *testing.T) *Supplier {
	t.Helper()
	s, err := NewSupplier(uuid.New(), SupplierDetails{Name: "Grossiste Sfax", Phone: "74 123 456"})
	require.NoError(t, err)
	return s
}

func TestSupplier_UpdateDebt(t *testing.T) {
	s := newTestSupplier(t)
	s.UpdateDebt(decimal.RequireFromString("250.500"))
	s.UpdateDebt(decimal.RequireFromString("-100"))
	assert.True(t, s.TotalDebt.Equal(decimal.RequireFromString("150.5")))
}

func TestNewSupplierProduct_DefaultTVA(t *testing.T) {
	entry := NewSupplierProduct(nil, "Farine", "", decimal.NewFromInt(2), nil)
	assert.True(t, entry.TVA.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, "unité", entry.Unit)

	seven := decimal.NewFromInt(7)
	entry = NewSupplierProduct(nil, "Lait", "L", decimal.NewFromInt(1), &seven)
	assert.True(t, entry.TVA.Equal(seven))
}

func TestSupplier_CatalogueSync(t *testing.T) {
	s := newTestSupplier(t)
	productID := uuid.New()

	s.UpsertProduct(NewSupplierProduct(&productID, "Farine", "kg", decimal.NewFromInt(2), nil))
	require.Len(t, s.Products, 1)
	firstID := s.Products[0].ID

	s.UpsertProduct(NewSupplierProduct(&productID, "Farine T55", "kg", decimal.RequireFromString("2.2"), nil))
	require.Len(t, s.Products, 1)
	assert.Equal(t, firstID, s.Products[0].ID)
	assert.Equal(t, "Farine T55", s.Products[0].Name)

	assert.True(t, s.RemoveProduct(productID))
	assert.Empty(t, s.Products)
	assert.False(t, s.RemoveProduct(productID))
}
