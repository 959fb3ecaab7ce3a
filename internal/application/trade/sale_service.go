package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/tunerp/backend/internal/application/inventory"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/export"
	"github.com/tunerp/backend/internal/infrastructure/lock"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"github.com/tunerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ClientSalesLimit caps the sales returned for one client
const ClientSalesLimit = 100

// DocumentPrinter renders sales and purchases to PDF
type DocumentPrinter interface {
	SaleInvoice(ctx context.Context, sale *trade.Sale, company *identity.Company, client *partner.Client) ([]byte, error)
	PurchaseOrder(ctx context.Context, purchase *trade.Purchase, company *identity.Company, supplier *partner.Supplier) ([]byte, error)
}

// saleInput is a validated sale order, shared by direct sales and quote conversion
type saleInput struct {
	ClientID       uuid.UUID
	Lines          []trade.LineInput
	InitialPayment decimal.Decimal
	PaymentMethod  string
	Notes          string
}

// SaleService handles sale business operations
type SaleService struct {
	saleRepo        trade.SaleRepository
	clientRepo      partner.ClientRepository
	productRepo     catalog.ProductRepository
	paymentRepo     finance.SalePaymentRepository
	ledger          *appinventory.Ledger
	locker          lock.Locker
	printer         DocumentPrinter
	companyRepo     identity.CompanyRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo trade.SaleRepository,
	clientRepo partner.ClientRepository,
	productRepo catalog.ProductRepository,
	paymentRepo finance.SalePaymentRepository,
	ledger *appinventory.Ledger,
	locker lock.Locker,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		ledger:      ledger,
		locker:      locker,
	}
}

// SetPrinter enables PDF invoices
func (s *SaleService) SetPrinter(printer DocumentPrinter, companyRepo identity.CompanyRepository) {
	s.printer = printer
	s.companyRepo = companyRepo
}

// SetBusinessMetrics sets the business metrics recorder
func (s *SaleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create validates stock, prices the lines, saves the sale, records the
// initial payment and takes the goods out of stock. The whole sequence runs
// under the company lock.
func (s *SaleService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	sale, err := s.place(ctx, tenantID, userID, saleInput{
		ClientID:       req.ClientID,
		Lines:          toLineInputs(req.Items),
		InitialPayment: orZero(req.InitialPayment),
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

func (s *SaleService) place(ctx context.Context, tenantID, userID uuid.UUID, in saleInput) (*trade.Sale, error) {
	var sale *trade.Sale
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		sale, err = s.placeLocked(ctx, tenantID, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.placed(ctx, sale)
	return sale, nil
}

// placeLocked runs the sale flow; the caller holds the company key
func (s *SaleService) placeLocked(ctx context.Context, tenantID, userID uuid.UUID, in saleInput) (*trade.Sale, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, in.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Client introuvable")
		}
		return nil, err
	}
	if err := s.checkStock(ctx, tenantID, in.Lines); err != nil {
		return nil, err
	}

	sale, err := trade.NewSale(tenantID, client.ID, client.Name, in.Lines, in.InitialPayment, in.Notes)
	if err != nil {
		return nil, err
	}
	sale.SetCreatedBy(userID)
	if in.PaymentMethod != "" {
		for i := range sale.Installments {
			sale.Installments[i].Method = in.PaymentMethod
		}
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	s.recordInitialPayment(ctx, sale, userID)
	s.withdrawStock(ctx, sale, userID)
	return sale, nil
}

func (s *SaleService) placed(ctx context.Context, sale *trade.Sale) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordSale(ctx, sale.TenantID, sale.TotalTTC)
		if inst, ok := sale.InitialInstallment(); ok {
			s.businessMetrics.RecordPayment(ctx, sale.TenantID, telemetry.PaymentKindSale, inst.Method, inst.Amount)
		}
	}

	logger.L(ctx).Info("Sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("client_id", sale.ClientID.String()),
		zap.String("total_ttc", sale.TotalTTC.String()),
		zap.String("status", string(sale.Status)))
}

// checkStock loads every product of the order and verifies that the stock
// covers the requested quantity. Lines naming the same product are summed.
// Empty product names are filled from the catalogue.
func (s *SaleService) checkStock(ctx context.Context, tenantID uuid.UUID, lines []trade.LineInput) error {
	requested := make(map[uuid.UUID]decimal.Decimal)
	products := make(map[uuid.UUID]*catalog.Product)

	for i := range lines {
		line := &lines[i]
		product, ok := products[line.ProductID]
		if !ok {
			found, err := s.productRepo.FindByIDForTenant(ctx, tenantID, line.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Produit introuvable: %s", line.ProductID))
				}
				return err
			}
			product = found
			products[line.ProductID] = product
		}
		if line.ProductName == "" {
			line.ProductName = product.Name
		}

		total := requested[line.ProductID].Add(line.Quantity)
		if !product.CanFulfill(total) {
			return catalog.NewInsufficientStockError(product.Name, product.StockQuantity, total)
		}
		requested[line.ProductID] = total
	}
	return nil
}

func (s *SaleService) recordInitialPayment(ctx context.Context, sale *trade.Sale, userID uuid.UUID) {
	inst, ok := sale.InitialInstallment()
	if !ok {
		return
	}
	if err := s.writePayment(ctx, sale, inst, userID); err != nil {
		logger.L(ctx).Error("Failed to record initial sale payment",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err))
	}
}

func (s *SaleService) writePayment(ctx context.Context, sale *trade.Sale, inst trade.Installment, userID uuid.UUID) error {
	payment, err := finance.NewSalePayment(sale.TenantID, finance.SalePaymentInput{
		ID:       inst.ID,
		ClientID: sale.ClientID,
		SaleID:   &sale.ID,
		Amount:   inst.Amount,
		Date:     inst.Date,
		Note:     inst.Note,
		Method:   inst.Method,
	})
	if err != nil {
		return err
	}
	payment.SetCreatedBy(userID)
	return s.paymentRepo.Save(ctx, payment)
}

func (s *SaleService) withdrawStock(ctx context.Context, sale *trade.Sale, userID uuid.UUID) {
	note := "Vente #" + sale.Number()
	for _, item := range sale.Items {
		_, err := s.ledger.Withdraw(ctx, sale.TenantID, appinventory.Entry{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Source:      inventory.MovementSourceSale,
			ReferenceID: &sale.ID,
			Notes:       note,
			CreatedBy:   userID,
		})
		if err != nil {
			logger.L(ctx).Error("Failed to withdraw sold stock",
				zap.String("sale_id", sale.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
		}
	}
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := s.listFilter(filter)

	sales, err := s.saleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleResponses(sales), total, nil
}

func (s *SaleService) listFilter(filter SaleListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters[trade.FilterStatus] = filter.Status
	}
	if filter.ClientID != nil {
		domainFilter.Filters[trade.FilterClientID] = *filter.ClientID
	}
	if filter.From != nil {
		domainFilter.From = *filter.From
	}
	if filter.To != nil {
		domainFilter.To = *filter.To
	}
	return domainFilter
}

// ByClient returns the latest sales of a client
func (s *SaleService) ByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]SaleResponse, error) {
	sales, err := s.saleRepo.FindByClient(ctx, tenantID, clientID, ClientSalesLimit)
	if err != nil {
		return nil, err
	}
	return ToSaleResponses(sales), nil
}

// ClientStats sums the sales of a client
func (s *SaleService) ClientStats(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientSalesStats, error) {
	totals, err := s.saleRepo.TotalsByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientSalesStats{
		TotalRevenue: totals.TotalTTC,
		TotalPaid:    totals.TotalPaid,
		Remaining:    totals.Remaining,
		Count:        totals.Count,
	}, nil
}

// AddPayment records an installment on the sale and the matching client
// payment, which shares the installment ID. It runs under the company key so
// two payments cannot both pass the remaining-balance check.
func (s *SaleService) AddPayment(ctx context.Context, tenantID, userID, saleID uuid.UUID, req AddPaymentRequest) (*SaleResponse, error) {
	var (
		sale *trade.Sale
		inst trade.Installment
	)
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		if sale, err = s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID); err != nil {
			return err
		}
		if inst, err = sale.AddPayment(req.Amount, req.Note, req.Method); err != nil {
			return err
		}
		if err := s.saleRepo.Save(ctx, sale); err != nil {
			return err
		}
		if err := s.writePayment(ctx, sale, inst, userID); err != nil {
			logger.L(ctx).Error("Failed to record sale payment",
				zap.String("sale_id", sale.ID.String()),
				zap.String("payment_id", inst.ID.String()),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, tenantID, telemetry.PaymentKindSale, inst.Method, inst.Amount)
	}
	logger.L(ctx).Info("Sale payment added",
		zap.String("sale_id", sale.ID.String()),
		zap.String("amount", inst.Amount.String()),
		zap.String("status", string(sale.Status)))

	response := ToSaleResponse(sale)
	return &response, nil
}

// RemovePayment cancels an installment and deletes the matching client payment
func (s *SaleService) RemovePayment(ctx context.Context, tenantID, saleID, paymentID uuid.UUID) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		if sale, err = s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID); err != nil {
			return err
		}
		if _, err := sale.RemovePayment(paymentID); err != nil {
			return err
		}
		if err := s.saleRepo.Save(ctx, sale); err != nil {
			return err
		}
		if err := s.paymentRepo.DeleteForTenant(ctx, tenantID, paymentID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			logger.L(ctx).Error("Failed to delete sale payment",
				zap.String("sale_id", sale.ID.String()),
				zap.String("payment_id", paymentID.String()),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Delete cancels a sale: the goods go back into stock, the client payments
// of the sale are removed, then the sale itself.
func (s *SaleService) Delete(ctx context.Context, tenantID, userID, saleID uuid.UUID) error {
	return s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
		if err != nil {
			return err
		}

		note := "Annulation vente #" + sale.Number()
		for _, item := range sale.Items {
			_, err := s.ledger.Receive(ctx, tenantID, appinventory.Entry{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				Source:      inventory.MovementSourceReturn,
				ReferenceID: &sale.ID,
				Notes:       note,
				CreatedBy:   userID,
			})
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				logger.L(ctx).Error("Failed to restore stock of cancelled sale",
					zap.String("sale_id", sale.ID.String()),
					zap.String("product_id", item.ProductID.String()),
					zap.Error(err))
			}
		}

		if err := s.paymentRepo.DeleteBySale(ctx, tenantID, sale.ID); err != nil {
			logger.L(ctx).Error("Failed to delete payments of cancelled sale",
				zap.String("sale_id", sale.ID.String()),
				zap.Error(err))
		}
		if err := s.saleRepo.DeleteForTenant(ctx, tenantID, sale.ID); err != nil {
			return err
		}

		logger.L(ctx).Info("Sale deleted", zap.String("sale_id", sale.ID.String()))
		return nil
	})
}

// Export builds the Excel workbook of the sales dated in the window
func (s *SaleService) Export(ctx context.Context, tenantID uuid.UUID, filter ExportFilter) (*ExportFile, error) {
	from, to := exportWindow(filter)
	sales, err := s.saleRepo.FindAllForTenant(ctx, tenantID, shared.Filter{
		OrderBy:  "created_at",
		OrderDir: "asc",
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*trade.Sale, len(sales))
	for i := range sales {
		docs[i] = &sales[i]
	}
	data, err := export.Sales(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales export: %w", err)
	}
	return &ExportFile{
		Filename:    export.Filename("ventes", from, to),
		ContentType: export.ContentType,
		Data:        data,
	}, nil
}

// Invoice renders the PDF invoice of a sale
func (s *SaleService) Invoice(ctx context.Context, tenantID, saleID uuid.UUID) (*ExportFile, error) {
	if s.printer == nil {
		return nil, errPrintingDisabled
	}
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, sale.ClientID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	data, err := s.printer.SaleInvoice(ctx, sale, company, client)
	if err != nil {
		logger.L(ctx).Error("Failed to render invoice", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return &ExportFile{
		Filename:    sale.Number() + ".pdf",
		ContentType: pdfContentType,
		Data:        data,
	}, nil
}

const pdfContentType = "application/pdf"

var errPrintingDisabled = shared.NewDomainError("PRINTING_UNAVAILABLE", "PDF rendering is not configured")

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
