package trade

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appinventory "github.com/tunerp/backend/internal/application/inventory"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/lock"
)

type saleFixture struct {
	svc       *SaleService
	sales     *MockSaleRepository
	clients   *MockClientRepository
	products  *MockProductRepository
	movements *MockMovementRepository
	payments  *MockSalePaymentRepository
	publisher *recordingPublisher
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		sales:     new(MockSaleRepository),
		clients:   new(MockClientRepository),
		products:  new(MockProductRepository),
		movements: new(MockMovementRepository),
		payments:  new(MockSalePaymentRepository),
		publisher: &recordingPublisher{},
	}
	ledger := appinventory.NewLedger(f.products, f.movements)
	ledger.SetEventPublisher(f.publisher)
	f.svc = NewSaleService(f.sales, f.clients, f.products, f.payments, ledger, lock.NewMemoryLocker())
	return f
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newClient(t *testing.T, tenantID uuid.UUID) *partner.Client {
	t.Helper()
	c, err := partner.NewClient(tenantID, partner.ClientDetails{Name: "Épicerie Ben Salah", Phone: "20 123 456"})
	require.NoError(t, err)
	return c
}

func newProduct(t *testing.T, tenantID uuid.UUID, name string, stock, threshold int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, name, "", decimal.NewFromInt(19))
	require.NoError(t, err)
	require.NoError(t, p.SetInitialStock(decimal.NewFromInt(stock)))
	require.NoError(t, p.SetStockThreshold(decimal.NewFromInt(threshold)))
	p.ClearDomainEvents()
	return p
}

func TestSaleService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("runs the steps in order and raises a low stock alert", func(t *testing.T) {
		f := newSaleFixture()
		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Huile 1L", 10, 5)

		var steps []string
		var saved *trade.Sale
		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		f.sales.On("Save", mock.Anything, mock.AnythingOfType("*trade.Sale")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*trade.Sale)
				steps = append(steps, "sale")
			}).Return(nil)
		f.payments.On("Save", mock.Anything, mock.MatchedBy(func(p *finance.SalePayment) bool {
			return p.Amount.Equal(dec("20")) && p.ClientID == client.ID && p.SaleID != nil
		})).Run(func(args mock.Arguments) { steps = append(steps, "payment") }).Return(nil)
		f.products.On("Save", mock.Anything, product).
			Run(func(args mock.Arguments) { steps = append(steps, "stock") }).Return(nil)
		f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
			return m.Type == inventory.MovementTypeOut &&
				m.Source == inventory.MovementSourceSale &&
				m.StockBefore.Equal(dec("10")) &&
				m.StockAfter.Equal(dec("4")) &&
				strings.HasPrefix(m.Notes, "Vente #FAC-")
		})).Run(func(args mock.Arguments) { steps = append(steps, "movement") }).Return(nil)

		initial := dec("20")
		tva := dec("19")
		resp, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID:       client.ID,
			Items:          []LineRequest{{ProductID: product.ID, Quantity: dec("6"), UnitPrice: dec("10"), TVA: &tva}},
			InitialPayment: &initial,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"sale", "payment", "stock", "movement"}, steps)
		assert.True(t, resp.TotalHT.Equal(dec("60")))
		assert.True(t, resp.TotalTTC.Equal(dec("71.4")))
		assert.True(t, resp.AmountRemaining.Equal(dec("51.4")))
		assert.Equal(t, "partial", resp.Status)
		assert.Equal(t, "Huile 1L", resp.Items[0].ProductName)
		require.Len(t, resp.Payments, 1)
		assert.Equal(t, trade.InitialPaymentNote, resp.Payments[0].Note)

		// the client payment shares the installment ID
		f.payments.AssertCalled(t, "Save", mock.Anything, mock.MatchedBy(func(p *finance.SalePayment) bool {
			return p.ID == saved.Installments[0].ID && *p.SaleID == saved.ID
		}))

		require.Len(t, f.publisher.events, 1)
		alert, ok := f.publisher.events[0].(*catalog.StockAlertEvent)
		require.True(t, ok)
		assert.Equal(t, catalog.StockLevelLow, alert.Level)
	})

	t.Run("no payment record without initial payment", func(t *testing.T) {
		f := newSaleFixture()
		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Sucre", 10, 0)

		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		f.sales.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.products.On("Save", mock.Anything, product).Return(nil)
		f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID: client.ID,
			Items:    []LineRequest{{ProductID: product.ID, Quantity: dec("1"), UnitPrice: dec("2.5")}},
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.TotalTTC.Equal(dec("2.5")))
		f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("insufficient stock stops before saving", func(t *testing.T) {
		f := newSaleFixture()
		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Café", 3, 0)

		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)

		_, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID: client.ID,
			Items:    []LineRequest{{ProductID: product.ID, Quantity: dec("5"), UnitPrice: dec("1")}},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("lines of the same product are summed", func(t *testing.T) {
		f := newSaleFixture()
		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Café", 5, 0)

		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)

		_, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID: client.ID,
			Items: []LineRequest{
				{ProductID: product.ID, Quantity: dec("3"), UnitPrice: dec("1")},
				{ProductID: product.ID, Quantity: dec("3"), UnitPrice: dec("1")},
			},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("unknown client", func(t *testing.T) {
		f := newSaleFixture()
		clientID := uuid.New()
		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, clientID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID: clientID,
			Items:    []LineRequest{{ProductID: uuid.New(), Quantity: dec("1")}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newSaleFixture()
		client := newClient(t, tenantID)
		productID := uuid.New()
		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, productID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID: client.ID,
			Items:    []LineRequest{{ProductID: productID, Quantity: dec("1")}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("initial payment above the total is rejected", func(t *testing.T) {
		f := newSaleFixture()
		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Thé", 10, 0)
		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)

		initial := dec("10.002")
		_, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID:       client.ID,
			Items:          []LineRequest{{ProductID: product.ID, Quantity: dec("1"), UnitPrice: dec("10")}},
			InitialPayment: &initial,
		})
		assert.ErrorIs(t, err, shared.ErrPaymentExceedsBalance)
		f.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a failed movement does not fail the sale", func(t *testing.T) {
		f := newSaleFixture()
		client := newClient(t, tenantID)
		product := newProduct(t, tenantID, "Lait", 10, 0)
		f.clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		f.sales.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.products.On("Save", mock.Anything, product).Return(nil)
		f.movements.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := f.svc.Create(ctx, tenantID, userID, CreateSaleRequest{
			ClientID: client.ID,
			Items:    []LineRequest{{ProductID: product.ID, Quantity: dec("2"), UnitPrice: dec("1")}},
		})
		require.NoError(t, err)
		assert.True(t, product.StockQuantity.Equal(dec("8")))
	})
}

func newSavedSale(t *testing.T, tenantID uuid.UUID, product *catalog.Product, qty, price, initial string) *trade.Sale {
	t.Helper()
	sale, err := trade.NewSale(tenantID, uuid.New(), "Client", []trade.LineInput{{
		ProductID: product.ID, ProductName: product.Name, Quantity: dec(qty), UnitPrice: dec(price),
	}}, dec(initial), "")
	require.NoError(t, err)
	return sale
}

func TestSaleService_AddPayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	product := newProduct(t, tenantID, "Riz", 10, 0)

	t.Run("settles the sale and writes the client payment", func(t *testing.T) {
		f := newSaleFixture()
		sale := newSavedSale(t, tenantID, product, "2", "50", "40")

		f.sales.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)
		f.sales.On("Save", ctx, sale).Return(nil)
		f.payments.On("Save", ctx, mock.MatchedBy(func(p *finance.SalePayment) bool {
			return p.Amount.Equal(dec("60")) && p.Method == "cheque" && *p.SaleID == sale.ID
		})).Return(nil)

		resp, err := f.svc.AddPayment(ctx, tenantID, userID, sale.ID, AddPaymentRequest{Amount: dec("60"), Method: "cheque"})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.True(t, resp.AmountRemaining.IsZero())
		require.Len(t, resp.Payments, 2)
		f.payments.AssertExpectations(t)
	})

	t.Run("tolerates one millime", func(t *testing.T) {
		f := newSaleFixture()
		sale := newSavedSale(t, tenantID, product, "1", "10", "0")
		f.sales.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)
		f.sales.On("Save", ctx, sale).Return(nil)
		f.payments.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.AddPayment(ctx, tenantID, userID, sale.ID, AddPaymentRequest{Amount: dec("10.001")})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
	})

	t.Run("rejects more than the remaining balance", func(t *testing.T) {
		f := newSaleFixture()
		sale := newSavedSale(t, tenantID, product, "1", "10", "0")
		f.sales.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)

		_, err := f.svc.AddPayment(ctx, tenantID, userID, sale.ID, AddPaymentRequest{Amount: dec("10.5")})
		assert.ErrorIs(t, err, shared.ErrPaymentExceedsBalance)
		f.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("concurrent payments cannot both pass the balance check", func(t *testing.T) {
		f := newSaleFixture()
		sale := newSavedSale(t, tenantID, product, "1", "30", "10")
		f.sales.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)
		f.sales.On("Save", ctx, sale).Return(nil)
		f.payments.On("Save", ctx, mock.Anything).Return(nil)

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.AddPayment(ctx, tenantID, userID, sale.ID, AddPaymentRequest{Amount: dec("20")})
			}(i)
		}
		wg.Wait()

		failed := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, shared.ErrPaymentExceedsBalance)
				failed++
			}
		}
		assert.Equal(t, 1, failed)
		f.payments.AssertNumberOfCalls(t, "Save", 1)
		assert.True(t, sale.AmountPaid.Equal(dec("30")), sale.AmountPaid.String())
		assert.Len(t, sale.Installments, 2)
	})
}

func TestSaleService_RemovePayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	product := newProduct(t, tenantID, "Riz", 10, 0)

	t.Run("reverts the installment and deletes the client payment", func(t *testing.T) {
		f := newSaleFixture()
		sale := newSavedSale(t, tenantID, product, "1", "100", "100")
		paymentID := sale.Installments[0].ID

		f.sales.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)
		f.sales.On("Save", ctx, sale).Return(nil)
		f.payments.On("DeleteForTenant", ctx, tenantID, paymentID).Return(nil)

		resp, err := f.svc.RemovePayment(ctx, tenantID, sale.ID, paymentID)
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.AmountRemaining.Equal(dec("100")))
		f.payments.AssertExpectations(t)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newSaleFixture()
		sale := newSavedSale(t, tenantID, product, "1", "100", "0")
		f.sales.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)

		_, err := f.svc.RemovePayment(ctx, tenantID, sale.ID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSaleService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	f := newSaleFixture()
	product := newProduct(t, tenantID, "Farine", 4, 0)
	missing := newProduct(t, tenantID, "Supprimé", 0, 0)
	sale, err := trade.NewSale(tenantID, uuid.New(), "Client", []trade.LineInput{
		{ProductID: product.ID, ProductName: product.Name, Quantity: dec("3"), UnitPrice: dec("1")},
		{ProductID: missing.ID, ProductName: missing.Name, Quantity: dec("1"), UnitPrice: dec("1")},
	}, decimal.Zero, "")
	require.NoError(t, err)

	f.sales.On("FindByIDForTenant", mock.Anything, tenantID, sale.ID).Return(sale, nil)
	f.products.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
	f.products.On("FindByIDForTenant", mock.Anything, tenantID, missing.ID).Return(nil, shared.ErrNotFound)
	f.products.On("Save", mock.Anything, product).Return(nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
		return m.Type == inventory.MovementTypeIn &&
			m.Source == inventory.MovementSourceReturn &&
			strings.HasPrefix(m.Notes, "Annulation vente") &&
			m.StockAfter.Equal(dec("7"))
	})).Return(nil)
	f.payments.On("DeleteBySale", mock.Anything, tenantID, sale.ID).Return(nil)
	f.sales.On("DeleteForTenant", mock.Anything, tenantID, sale.ID).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, tenantID, userID, sale.ID))
	assert.True(t, product.StockQuantity.Equal(dec("7")))
	f.movements.AssertNumberOfCalls(t, "Create", 1)
	f.sales.AssertExpectations(t)
	f.payments.AssertExpectations(t)
}

func TestSaleService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clientID := uuid.New()
	f := newSaleFixture()

	match := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 1 && filter.PageSize == 20 &&
			filter.OrderBy == "created_at" && filter.OrderDir == "desc" &&
			filter.Filters[trade.FilterStatus] == "partial" &&
			filter.Filters[trade.FilterClientID] == clientID
	})
	f.sales.On("FindAllForTenant", ctx, tenantID, match).Return([]trade.Sale{}, nil)
	f.sales.On("CountForTenant", ctx, tenantID, match).Return(int64(0), nil)

	sales, total, err := f.svc.List(ctx, tenantID, SaleListFilter{Status: "partial", ClientID: &clientID})
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Equal(t, int64(0), total)
}

func TestSaleService_Invoice_Disabled(t *testing.T) {
	f := newSaleFixture()
	_, err := f.svc.Invoice(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, errPrintingDisabled)
}
