package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
)

func TestGormClientRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClientRepository(newTestDB(t))
	tenantID := uuid.New()

	client, err := partner.NewClient(tenantID, partner.ClientDetails{Name: "Ben Salah", Phone: "20 123 456", Sector: "BTP"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, client))

	t.Run("phone uniqueness is scoped to the company", func(t *testing.T) {
		exists, err := repo.ExistsByPhone(ctx, tenantID, client.Phone, nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByPhone(ctx, tenantID, client.Phone, &client.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByPhone(ctx, uuid.New(), client.Phone, nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("filters by sector", func(t *testing.T) {
		found, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter().WithFilter(partner.FilterSector, "BTP"))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "+21620123456", found[0].Phone)
	})

	t.Run("credit round trip", func(t *testing.T) {
		client.UpdateCredit(decimal.NewFromInt(12))
		require.NoError(t, repo.Save(ctx, client))
		found, err := repo.FindByIDForTenant(ctx, tenantID, client.ID)
		require.NoError(t, err)
		assert.True(t, found.CreditUsed.Equal(decimal.NewFromInt(12)))
	})
}

func TestGormSupplierRepository_Catalogue(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))
	tenantID := uuid.New()

	supplier, err := partner.NewSupplier(tenantID, partner.SupplierDetails{Name: "Sotumetal", Phone: "71 000 111"})
	require.NoError(t, err)
	productID := uuid.New()
	supplier.ReplaceProducts([]partner.SupplierProduct{
		partner.NewSupplierProduct(&productID, "Fer 12", "barre", decimal.NewFromInt(25), nil),
	})
	require.NoError(t, repo.Save(ctx, supplier))

	found, err := repo.FindByIDForTenant(ctx, tenantID, supplier.ID)
	require.NoError(t, err)
	require.Len(t, found.Products, 1)
	assert.Equal(t, "Fer 12", found.Products[0].Name)
	require.NotNil(t, found.Products[0].ProductID)
	assert.Equal(t, productID, *found.Products[0].ProductID)

	byIDs, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{supplier.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, supplier.ID))
	_, err = repo.FindByIDForTenant(ctx, tenantID, supplier.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
