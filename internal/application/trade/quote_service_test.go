package trade

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
)

func TestQuoteService_Convert(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("creates the sale and accepts the quote", func(t *testing.T) {
		f := newSaleFixture()
		quotes := new(MockQuoteRepository)
		svc := NewQuoteService(quotes, f.svc)

		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Biscuits", 20, 0)
		quote, err := trade.NewQuote(tenantID, trade.QuoteDetails{
			ClientID:   &client.ID,
			ClientName: client.Name,
			Lines:      []trade.LineInput{{ProductID: product.ID, ProductName: product.Name, Quantity: dec("4"), UnitPrice: dec("2.5")}},
		})
		require.NoError(t, err)

		quotes.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)
		quotes.On("Save", ctx, quote).Return(nil)
		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		f.products.On("Save", mock.Anything, product).Return(nil)
		f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.sales.On("Save", mock.Anything, mock.AnythingOfType("*trade.Sale")).Return(nil)

		resp, err := svc.Convert(ctx, tenantID, userID, quote.ID, ConvertQuoteRequest{})
		require.NoError(t, err)
		assert.Equal(t, "accepted", resp.Quote.Status)
		require.NotNil(t, resp.Quote.ConvertedSaleID)
		assert.Equal(t, resp.Sale.ID, *resp.Quote.ConvertedSaleID)
		assert.True(t, resp.Sale.TotalTTC.Equal(dec("10")))
		assert.True(t, product.StockQuantity.Equal(dec("16")))
	})

	t.Run("two conversions of one quote create one sale", func(t *testing.T) {
		f := newSaleFixture()
		quotes := new(MockQuoteRepository)
		svc := NewQuoteService(quotes, f.svc)

		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Farine", 20, 0)
		quote, err := trade.NewQuote(tenantID, trade.QuoteDetails{
			ClientID:   &client.ID,
			ClientName: client.Name,
			Lines:      []trade.LineInput{{ProductID: product.ID, ProductName: product.Name, Quantity: dec("3"), UnitPrice: dec("4")}},
		})
		require.NoError(t, err)

		quotes.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)
		quotes.On("Save", ctx, quote).Return(nil)
		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		f.products.On("Save", mock.Anything, product).Return(nil)
		f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.sales.On("Save", mock.Anything, mock.AnythingOfType("*trade.Sale")).Return(nil)

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Convert(ctx, tenantID, userID, quote.ID, ConvertQuoteRequest{})
			}(i)
		}
		wg.Wait()

		failed := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, shared.ErrInvalidState)
				failed++
			}
		}
		assert.Equal(t, 1, failed)
		f.sales.AssertNumberOfCalls(t, "Save", 1)
		assert.True(t, product.StockQuantity.Equal(dec("17")), product.StockQuantity.String())
	})

	t.Run("rejected quote", func(t *testing.T) {
		quotes := new(MockQuoteRepository)
		svc := NewQuoteService(quotes, newSaleFixture().svc)
		clientID := uuid.New()
		quote, err := trade.NewQuote(tenantID, trade.QuoteDetails{
			ClientID: &clientID, ClientName: "Client",
			Lines: []trade.LineInput{{ProductID: uuid.New(), Quantity: dec("1"), UnitPrice: dec("1")}},
		})
		require.NoError(t, err)
		require.NoError(t, quote.ChangeStatus(trade.QuoteStatusRejected))
		quotes.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)

		_, err = svc.Convert(ctx, tenantID, userID, quote.ID, ConvertQuoteRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("expired by date", func(t *testing.T) {
		quotes := new(MockQuoteRepository)
		svc := NewQuoteService(quotes, newSaleFixture().svc)
		svc.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
		clientID := uuid.New()
		validUntil := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
		quote, err := trade.NewQuote(tenantID, trade.QuoteDetails{
			ClientID: &clientID, ClientName: "Client", ValidUntil: &validUntil,
			Lines: []trade.LineInput{{ProductID: uuid.New(), Quantity: dec("1"), UnitPrice: dec("1")}},
		})
		require.NoError(t, err)
		quotes.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)

		_, err = svc.Convert(ctx, tenantID, userID, quote.ID, ConvertQuoteRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("prospect without client", func(t *testing.T) {
		quotes := new(MockQuoteRepository)
		svc := NewQuoteService(quotes, newSaleFixture().svc)
		quote, err := trade.NewQuote(tenantID, trade.QuoteDetails{
			ClientName: "Prospect",
			Lines:      []trade.LineInput{{ProductID: uuid.New(), Quantity: dec("1"), UnitPrice: dec("1")}},
		})
		require.NoError(t, err)
		quotes.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)

		_, err = svc.Convert(ctx, tenantID, userID, quote.ID, ConvertQuoteRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		quotes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestQuoteService_CreateAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	quotes := new(MockQuoteRepository)
	svc := NewQuoteService(quotes, newSaleFixture().svc)

	var saved *trade.Quote
	quotes.On("Save", ctx, mock.AnythingOfType("*trade.Quote")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*trade.Quote) }).
		Return(nil)

	tva := dec("19")
	resp, err := svc.Create(ctx, tenantID, uuid.New(), QuoteRequest{
		ClientName: "Prospect",
		Items:      []LineRequest{{ProductID: uuid.New(), ProductName: "Chaise", Quantity: dec("2"), UnitPrice: dec("45"), TVA: &tva}},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Status)
	assert.True(t, resp.TotalTTC.Equal(dec("107.1")))
	assert.Contains(t, resp.Number, "DEV-")

	quotes.On("FindByIDForTenant", ctx, tenantID, saved.ID).Return(saved, nil)
	resp, err = svc.UpdateStatus(ctx, tenantID, saved.ID, UpdateQuoteStatusRequest{Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, "sent", resp.Status)

	_, err = svc.UpdateStatus(ctx, tenantID, saved.ID, UpdateQuoteStatusRequest{Status: "draft"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
