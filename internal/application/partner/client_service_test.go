package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
)

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("normalizes phone and saves", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients, new(MockSaleRepository))

		clients.On("ExistsByPhone", ctx, tenantID, "+21620123456", (*uuid.UUID)(nil)).Return(false, nil)
		clients.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

		limit := decimal.NewFromInt(500)
		resp, err := svc.Create(ctx, tenantID, userID, CreateClientRequest{
			Name:        "Épicerie Ben Salah",
			Phone:       "20 123 456",
			Sector:      "Alimentation",
			CreditLimit: &limit,
		})
		require.NoError(t, err)
		assert.Equal(t, "+21620123456", resp.Phone)
		assert.True(t, resp.CreditAvailable.Equal(limit))
		clients.AssertExpectations(t)
	})

	t.Run("duplicate phone is a conflict", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients, new(MockSaleRepository))
		clients.On("ExistsByPhone", ctx, tenantID, "+21620123456", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, userID, CreateClientRequest{Name: "Autre", Phone: "+216 20 123 456"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		clients.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc := NewClientService(new(MockClientRepository), new(MockSaleRepository))
		_, err := svc.Create(ctx, tenantID, userID, CreateClientRequest{Name: "X", Phone: "123"})
		assert.Error(t, err)
	})
}

func TestClientService_Update_PhoneCheckExcludesSelf(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clients := new(MockClientRepository)
	svc := NewClientService(clients, new(MockSaleRepository))

	client, err := partner.NewClient(tenantID, partner.ClientDetails{Name: "Client A", Phone: "20 123 456"})
	require.NoError(t, err)

	clients.On("FindByIDForTenant", ctx, tenantID, client.ID).Return(client, nil)
	clients.On("ExistsByPhone", ctx, tenantID, "+21698765432", &client.ID).Return(false, nil)
	clients.On("Save", ctx, client).Return(nil)

	phone := "98 765 432"
	active := false
	resp, err := svc.Update(ctx, tenantID, client.ID, UpdateClientRequest{Phone: &phone, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "+21698765432", resp.Phone)
	assert.False(t, resp.IsActive)
	clients.AssertExpectations(t)
}

func TestClientService_UpdateCredit_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clients := new(MockClientRepository)
	svc := NewClientService(clients, new(MockSaleRepository))

	client, err := partner.NewClient(tenantID, partner.ClientDetails{Name: "Client A", Phone: "20 123 456"})
	require.NoError(t, err)
	client.UpdateCredit(decimal.NewFromInt(30))

	clients.On("FindByIDForTenant", ctx, tenantID, client.ID).Return(client, nil)
	clients.On("Save", ctx, client).Return(nil)

	resp, err := svc.UpdateCredit(ctx, tenantID, client.ID, UpdateBalanceRequest{Delta: decimal.NewFromInt(-50)})
	require.NoError(t, err)
	assert.True(t, resp.CreditUsed.IsZero())
}

func TestClientService_Stats(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clients := new(MockClientRepository)
	sales := new(MockSaleRepository)
	svc := NewClientService(clients, sales)

	client, err := partner.NewClient(tenantID, partner.ClientDetails{Name: "Client A", Phone: "20 123 456"})
	require.NoError(t, err)
	require.NoError(t, client.SetCreditLimit(decimal.NewFromInt(1000)))

	sale, err := trade.NewSale(tenantID, client.ID, client.Name, []trade.LineInput{{
		ProductID: uuid.New(), ProductName: "Riz", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100),
	}}, decimal.NewFromInt(40), "")
	require.NoError(t, err)

	clients.On("FindByIDForTenant", ctx, tenantID, client.ID).Return(client, nil)
	sales.On("TotalsByClient", ctx, tenantID, client.ID).Return(trade.PartyTotals{
		Count:     3,
		TotalTTC:  decimal.NewFromInt(900),
		TotalPaid: decimal.NewFromInt(600),
		Remaining: decimal.NewFromInt(300),
	}, nil)
	sales.On("FindByClient", ctx, tenantID, client.ID, 5).Return([]trade.Sale{*sale}, nil)

	stats, err := svc.Stats(ctx, tenantID, client.ID)
	require.NoError(t, err)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(900)))
	assert.True(t, stats.TotalCredit.Equal(decimal.NewFromInt(300)))
	assert.True(t, stats.CreditAvailable.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(3), stats.SalesCount)
	require.Len(t, stats.RecentSales, 1)
	assert.Equal(t, "partial", stats.RecentSales[0].Status)
	assert.Contains(t, stats.RecentSales[0].Number, "FAC-")
}
