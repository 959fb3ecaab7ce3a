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

// PurchaseService handles purchase business operations
type PurchaseService struct {
	purchaseRepo    trade.PurchaseRepository
	supplierRepo    partner.SupplierRepository
	productRepo     catalog.ProductRepository
	paymentRepo     finance.PurchasePaymentRepository
	ledger          *appinventory.Ledger
	locker          lock.Locker
	printer         DocumentPrinter
	companyRepo     identity.CompanyRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo trade.PurchaseRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	paymentRepo finance.PurchasePaymentRepository,
	ledger *appinventory.Ledger,
	locker lock.Locker,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		ledger:       ledger,
		locker:       locker,
	}
}

// SetPrinter enables PDF purchase vouchers
func (s *PurchaseService) SetPrinter(printer DocumentPrinter, companyRepo identity.CompanyRepository) {
	s.printer = printer
	s.companyRepo = companyRepo
}

// SetBusinessMetrics sets the business metrics recorder
func (s *PurchaseService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create saves the purchase, charges the unpaid part to the supplier's debt,
// records the initial payment and puts the goods into stock
func (s *PurchaseService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	var purchase *trade.Purchase
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.CodeNotFound, "Fournisseur introuvable")
			}
			return err
		}
		lines := toLineInputs(req.Items)
		if err := s.resolveProducts(ctx, tenantID, lines); err != nil {
			return err
		}

		purchase, err = trade.NewPurchase(tenantID, supplier.ID, supplier.Name, lines, orZero(req.InitialPayment), req.Notes)
		if err != nil {
			return err
		}
		purchase.SetCreatedBy(userID)
		if req.PaymentMethod != "" {
			for i := range purchase.Installments {
				purchase.Installments[i].Method = req.PaymentMethod
			}
		}

		if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
			return err
		}

		s.moveDebt(ctx, tenantID, supplier.ID, purchase.Remaining)
		if inst, ok := purchase.InitialInstallment(); ok {
			if err := s.writePayment(ctx, purchase, inst, userID); err != nil {
				logger.L(ctx).Error("Failed to record initial purchase payment",
					zap.String("purchase_id", purchase.ID.String()),
					zap.Error(err))
			}
		}

		note := "Achat #" + purchase.Number()
		for _, item := range purchase.Items {
			_, err := s.ledger.Receive(ctx, tenantID, appinventory.Entry{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				Source:      inventory.MovementSourcePurchase,
				ReferenceID: &purchase.ID,
				Notes:       note,
				CreatedBy:   userID,
			})
			if err != nil {
				logger.L(ctx).Error("Failed to receive purchased stock",
					zap.String("purchase_id", purchase.ID.String()),
					zap.String("product_id", item.ProductID.String()),
					zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPurchase(ctx, tenantID, purchase.TotalTTC)
		if inst, ok := purchase.InitialInstallment(); ok {
			s.businessMetrics.RecordPayment(ctx, tenantID, telemetry.PaymentKindPurchase, inst.Method, inst.Amount)
		}
	}
	logger.L(ctx).Info("Purchase created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("supplier_id", purchase.SupplierID.String()),
		zap.String("total_ttc", purchase.TotalTTC.String()))

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// resolveProducts checks that every purchased product exists and fills
// empty line names from the catalogue
func (s *PurchaseService) resolveProducts(ctx context.Context, tenantID uuid.UUID, lines []trade.LineInput) error {
	for i := range lines {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, lines[i].ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Produit introuvable: %s", lines[i].ProductID))
			}
			return err
		}
		if lines[i].ProductName == "" {
			lines[i].ProductName = product.Name
		}
	}
	return nil
}

// moveDebt shifts the supplier's outstanding debt. Failures are logged.
// moveDebt applies delta to the supplier's debt. A supplier edited since it
// was read is reloaded and the delta applied again.
func (s *PurchaseService) moveDebt(ctx context.Context, tenantID, supplierID uuid.UUID, delta decimal.Decimal) {
	if delta.IsZero() {
		return
	}
	err := lock.RetryConflicts(ctx, func(ctx context.Context) error {
		supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
		if err != nil {
			return err
		}
		supplier.UpdateDebt(delta)
		return s.supplierRepo.Save(ctx, supplier)
	})
	if err != nil {
		logger.L(ctx).Error("Failed to update supplier debt",
			zap.String("supplier_id", supplierID.String()),
			zap.String("delta", delta.String()),
			zap.Error(err))
	}
}

func (s *PurchaseService) writePayment(ctx context.Context, purchase *trade.Purchase, inst trade.Installment, userID uuid.UUID) error {
	payment, err := finance.NewPurchasePayment(purchase.TenantID, inst.ID, purchase.SupplierID, &purchase.ID, inst.Amount, inst.Note, inst.Method)
	if err != nil {
		return err
	}
	payment.Date = inst.Date
	payment.SetCreatedBy(userID)
	return s.paymentRepo.Save(ctx, payment)
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
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
	if filter.SupplierID != nil {
		domainFilter.Filters[trade.FilterSupplierID] = *filter.SupplierID
	}
	if filter.From != nil {
		domainFilter.From = *filter.From
	}
	if filter.To != nil {
		domainFilter.To = *filter.To
	}

	purchases, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseResponses(purchases), total, nil
}

// BySupplier returns the latest purchases from a supplier
func (s *PurchaseService) BySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.FindBySupplier(ctx, tenantID, supplierID, ClientSalesLimit)
	if err != nil {
		return nil, err
	}
	return ToPurchaseResponses(purchases), nil
}

// AddPayment records an installment paid to the supplier and lowers the
// debt, under the company key
func (s *PurchaseService) AddPayment(ctx context.Context, tenantID, userID, purchaseID uuid.UUID, req AddPaymentRequest) (*PurchaseResponse, error) {
	var (
		purchase *trade.Purchase
		inst     trade.Installment
	)
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		if purchase, err = s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID); err != nil {
			return err
		}
		if inst, err = purchase.AddPayment(req.Amount, req.Note, req.Method); err != nil {
			return err
		}
		if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
			return err
		}
		s.moveDebt(ctx, tenantID, purchase.SupplierID, inst.Amount.Neg())
		if err := s.writePayment(ctx, purchase, inst, userID); err != nil {
			logger.L(ctx).Error("Failed to record purchase payment",
				zap.String("purchase_id", purchase.ID.String()),
				zap.String("payment_id", inst.ID.String()),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, tenantID, telemetry.PaymentKindPurchase, inst.Method, inst.Amount)
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// RemovePayment cancels an installment; its amount goes back onto the debt
func (s *PurchaseService) RemovePayment(ctx context.Context, tenantID, purchaseID, paymentID uuid.UUID) (*PurchaseResponse, error) {
	var purchase *trade.Purchase
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		if purchase, err = s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID); err != nil {
			return err
		}
		inst, err := purchase.RemovePayment(paymentID)
		if err != nil {
			return err
		}
		if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
			return err
		}
		s.moveDebt(ctx, tenantID, purchase.SupplierID, inst.Amount)
		if err := s.paymentRepo.DeleteForTenant(ctx, tenantID, paymentID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			logger.L(ctx).Error("Failed to delete purchase payment",
				zap.String("purchase_id", purchase.ID.String()),
				zap.String("payment_id", paymentID.String()),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// Delete cancels a purchase: the goods leave stock (clamped at zero), the
// unpaid part is taken off the supplier's debt, then the purchase is removed
func (s *PurchaseService) Delete(ctx context.Context, tenantID, userID, purchaseID uuid.UUID) error {
	return s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
		if err != nil {
			return err
		}

		note := "Annulation achat #" + purchase.Number()
		for _, item := range purchase.Items {
			_, err := s.ledger.Withdraw(ctx, tenantID, appinventory.Entry{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				Source:      inventory.MovementSourceReturn,
				ReferenceID: &purchase.ID,
				Notes:       note,
				CreatedBy:   userID,
			})
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				logger.L(ctx).Error("Failed to withdraw stock of cancelled purchase",
					zap.String("purchase_id", purchase.ID.String()),
					zap.String("product_id", item.ProductID.String()),
					zap.Error(err))
			}
		}

		s.moveDebt(ctx, tenantID, purchase.SupplierID, purchase.Remaining.Neg())
		if err := s.paymentRepo.DeleteByPurchase(ctx, tenantID, purchase.ID); err != nil {
			logger.L(ctx).Error("Failed to delete payments of cancelled purchase",
				zap.String("purchase_id", purchase.ID.String()),
				zap.Error(err))
		}
		if err := s.purchaseRepo.DeleteForTenant(ctx, tenantID, purchase.ID); err != nil {
			return err
		}

		logger.L(ctx).Info("Purchase deleted", zap.String("purchase_id", purchase.ID.String()))
		return nil
	})
}

// Export builds the Excel workbook of the purchases dated in the window
func (s *PurchaseService) Export(ctx context.Context, tenantID uuid.UUID, filter ExportFilter) (*ExportFile, error) {
	from, to := exportWindow(filter)
	purchases, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, shared.Filter{
		OrderBy:  "created_at",
		OrderDir: "asc",
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*trade.Purchase, len(purchases))
	for i := range purchases {
		docs[i] = &purchases[i]
	}
	data, err := export.Purchases(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to build purchases export: %w", err)
	}
	return &ExportFile{
		Filename:    export.Filename("achats", from, to),
		ContentType: export.ContentType,
		Data:        data,
	}, nil
}

// Voucher renders the PDF purchase voucher
func (s *PurchaseService) Voucher(ctx context.Context, tenantID, purchaseID uuid.UUID) (*ExportFile, error) {
	if s.printer == nil {
		return nil, errPrintingDisabled
	}
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, purchase.SupplierID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	data, err := s.printer.PurchaseOrder(ctx, purchase, company, supplier)
	if err != nil {
		return nil, fmt.Errorf("failed to render purchase voucher: %w", err)
	}
	return &ExportFile{
		Filename:    purchase.Number() + ".pdf",
		ContentType: pdfContentType,
		Data:        data,
	}, nil
}
