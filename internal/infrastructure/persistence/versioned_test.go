package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
)

func TestGormSaleRepository_StaleSaveIsRefused(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSaleRepository(newTestDB(t))
	tenantID := uuid.New()

	sale := newTestSale(t, tenantID, uuid.New(), 10)
	require.NoError(t, repo.Save(ctx, sale))

	first, err := repo.FindByIDForTenant(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, sale.ID)
	require.NoError(t, err)

	_, err = first.AddPayment(decimal.NewFromInt(20), "Paiement A", "cash")
	require.NoError(t, err)
	_, err = second.AddPayment(decimal.NewFromInt(20), "Paiement B", "cash")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByIDForTenant(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.AmountPaid.Equal(decimal.NewFromInt(30)), stored.AmountPaid.String())
	require.Len(t, stored.Installments, 2)
	assert.Equal(t, "Paiement A", stored.Installments[1].Note)
	assert.Equal(t, first.Version, stored.Version)
}

func TestGormProductRepository_StaleEditKeepsStock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))
	tenantID := uuid.New()

	p := newTestProduct(t, tenantID, "Ciment", 10, 0)
	require.NoError(t, repo.Save(ctx, p))

	edit, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	sold, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)

	_, err = sold.DecreaseStock(decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sold))

	require.NoError(t, edit.SetPrices(decimal.NewFromInt(11), decimal.NewFromInt(18)))
	assert.ErrorIs(t, repo.Save(ctx, edit), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.StockQuantity.IsZero(), stored.StockQuantity.String())
	assert.True(t, stored.SalePrice.Equal(decimal.NewFromInt(15)))

	t.Run("a reloaded copy saves", func(t *testing.T) {
		require.NoError(t, stored.SetPrices(decimal.NewFromInt(11), decimal.NewFromInt(18)))
		require.NoError(t, repo.Save(ctx, stored))

		again, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
		require.NoError(t, err)
		assert.True(t, again.StockQuantity.IsZero())
		assert.True(t, again.SalePrice.Equal(decimal.NewFromInt(18)))
	})
}

func TestGormSupplierRepository_StaleDebtIsRefused(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))
	tenantID := uuid.New()

	supplier, err := partner.NewSupplier(tenantID, partner.SupplierDetails{Name: "Sotumetal", Phone: "71 000 111"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, supplier))

	a, err := repo.FindByIDForTenant(ctx, tenantID, supplier.ID)
	require.NoError(t, err)
	b, err := repo.FindByIDForTenant(ctx, tenantID, supplier.ID)
	require.NoError(t, err)

	a.UpdateDebt(decimal.NewFromInt(100))
	b.UpdateDebt(decimal.NewFromInt(40))
	require.NoError(t, repo.Save(ctx, a))
	assert.ErrorIs(t, repo.Save(ctx, b), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByIDForTenant(ctx, tenantID, supplier.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalDebt.Equal(decimal.NewFromInt(100)), stored.TotalDebt.String())
}

func TestGormCompanyRepository_ConcurrentOCRAttempts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCompanyRepository(newTestDB(t))
	now := time.Now()

	company, err := identity.NewCompany(identity.CompanyProfile{Name: "Imprimerie Sousse"}, 5)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, company))

	a, err := repo.FindByID(ctx, company.ID)
	require.NoError(t, err)
	b, err := repo.FindByID(ctx, company.ID)
	require.NoError(t, err)

	require.NoError(t, a.ConsumeOCRAttempt(now))
	require.NoError(t, b.ConsumeOCRAttempt(now))
	require.NoError(t, repo.Save(ctx, a))
	assert.ErrorIs(t, repo.Save(ctx, b), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, a.OCRAttemptsLeft, stored.OCRAttemptsLeft)
}

func TestGormQuoteRepository_ConvertsOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewGormQuoteRepository(newTestDB(t))
	tenantID, clientID := uuid.New(), uuid.New()

	quote, err := trade.NewQuote(tenantID, trade.QuoteDetails{
		ClientID:   &clientID,
		ClientName: "Ben Salah",
		Lines:      []trade.LineInput{{ProductID: uuid.New(), ProductName: "Chaise", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(45)}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, quote))

	a, err := repo.FindByIDForTenant(ctx, tenantID, quote.ID)
	require.NoError(t, err)
	b, err := repo.FindByIDForTenant(ctx, tenantID, quote.ID)
	require.NoError(t, err)

	saleA, saleB := uuid.New(), uuid.New()
	a.MarkConverted(saleA)
	b.MarkConverted(saleB)
	require.NoError(t, repo.Save(ctx, a))
	assert.ErrorIs(t, repo.Save(ctx, b), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByIDForTenant(ctx, tenantID, quote.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ConvertedSaleID)
	assert.Equal(t, saleA, *stored.ConvertedSaleID)
}

func TestSaveVersioned_Bookkeeping(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClientRepository(newTestDB(t))
	tenantID := uuid.New()

	client, err := partner.NewClient(tenantID, partner.ClientDetails{Name: "Trabelsi", Phone: "22 333 444"})
	require.NoError(t, err)
	assert.Zero(t, client.StoredVersion())

	require.NoError(t, repo.Save(ctx, client))
	assert.Equal(t, client.GetVersion(), client.StoredVersion())

	t.Run("the saved instance keeps saving", func(t *testing.T) {
		before := client.StoredVersion()
		client.UpdateCredit(decimal.NewFromInt(5))
		require.NoError(t, repo.Save(ctx, client))
		require.NoError(t, repo.Save(ctx, client))
		assert.Equal(t, before+2, client.StoredVersion())

		found, err := repo.FindByIDForTenant(ctx, tenantID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client.StoredVersion(), found.Version)
	})

	t.Run("a deleted row is not recreated", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, client.ID))
		client.UpdateCredit(decimal.NewFromInt(1))
		assert.ErrorIs(t, repo.Save(ctx, client), shared.ErrConcurrencyConflict)

		_, err := repo.FindByIDForTenant(ctx, tenantID, client.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
