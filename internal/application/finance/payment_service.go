package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"github.com/tunerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SalePaymentService handles client payments (paiements clients)
type SalePaymentService struct {
	paymentRepo     finance.SalePaymentRepository
	clientRepo      partner.ClientRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewSalePaymentService creates a new SalePaymentService
func NewSalePaymentService(paymentRepo finance.SalePaymentRepository, clientRepo partner.ClientRepository) *SalePaymentService {
	return &SalePaymentService{paymentRepo: paymentRepo, clientRepo: clientRepo}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *SalePaymentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create records a standalone client payment
func (s *SalePaymentService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSalePaymentRequest) (*SalePaymentResponse, error) {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Client introuvable")
		}
		return nil, err
	}

	in := finance.SalePaymentInput{
		ClientID: req.ClientID,
		SaleID:   req.SaleID,
		Amount:   req.Amount,
		Note:     req.Note,
		Method:   req.Method,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}
	payment, err := finance.NewSalePayment(tenantID, in)
	if err != nil {
		return nil, err
	}
	payment.SetCreatedBy(userID)
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, tenantID, telemetry.PaymentKindSale, payment.Method, payment.Amount)
	}
	logger.L(ctx).Info("Client payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("client_id", payment.ClientID.String()),
		zap.String("amount", payment.Amount.String()))

	response := ToSalePaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a client payment by ID
func (s *SalePaymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*SalePaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToSalePaymentResponse(payment)
	return &response, nil
}

// List retrieves client payments, newest date first
func (s *SalePaymentService) List(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]SalePaymentResponse, int64, error) {
	domainFilter := paymentFilter(filter)
	if filter.ClientID != nil {
		domainFilter.Filters[finance.FilterClientID] = *filter.ClientID
	}
	if filter.SaleID != nil {
		domainFilter.Filters[finance.FilterSaleID] = *filter.SaleID
	}

	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSalePaymentResponses(payments), total, nil
}

// Update changes amount, note or date of a client payment
func (s *SalePaymentService) Update(ctx context.Context, tenantID, paymentID uuid.UUID, req UpdateSalePaymentRequest) (*SalePaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if err := payment.Update(req.Amount, req.Note, req.Date); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	response := ToSalePaymentResponse(payment)
	return &response, nil
}

// Delete deletes a client payment
func (s *SalePaymentService) Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	return s.paymentRepo.DeleteForTenant(ctx, tenantID, paymentID)
}

// ByClient lists every payment of a client
func (s *SalePaymentService) ByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]SalePaymentResponse, error) {
	payments, err := s.paymentRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	return ToSalePaymentResponses(payments), nil
}

// BySale lists the payments attached to a sale
func (s *SalePaymentService) BySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]SalePaymentResponse, error) {
	payments, err := s.paymentRepo.FindBySale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	return ToSalePaymentResponses(payments), nil
}

// ClientStats returns the total paid, count and last payment date of a client
func (s *SalePaymentService) ClientStats(ctx context.Context, tenantID, clientID uuid.UUID) (*PaymentStatsResponse, error) {
	stats, err := s.paymentRepo.StatsByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	return &PaymentStatsResponse{
		TotalPaid:   stats.TotalPaid,
		Count:       stats.Count,
		LastPayment: stats.LastPayment,
	}, nil
}

// PurchasePaymentService lists and removes supplier payments
type PurchasePaymentService struct {
	paymentRepo finance.PurchasePaymentRepository
}

// NewPurchasePaymentService creates a new PurchasePaymentService
func NewPurchasePaymentService(paymentRepo finance.PurchasePaymentRepository) *PurchasePaymentService {
	return &PurchasePaymentService{paymentRepo: paymentRepo}
}

// List retrieves supplier payments, newest date first
func (s *PurchasePaymentService) List(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PurchasePaymentResponse, int64, error) {
	domainFilter := paymentFilter(filter)
	if filter.SupplierID != nil {
		domainFilter.Filters[finance.FilterSupplierID] = *filter.SupplierID
	}
	if filter.PurchaseID != nil {
		domainFilter.Filters[finance.FilterPurchaseID] = *filter.PurchaseID
	}

	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchasePaymentResponses(payments), total, nil
}

// Delete deletes a supplier payment
func (s *PurchasePaymentService) Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	return s.paymentRepo.DeleteForTenant(ctx, tenantID, paymentID)
}

func paymentFilter(filter PaymentListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "date",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.From != nil {
		domainFilter.From = *filter.From
	}
	if filter.To != nil {
		domainFilter.To = *filter.To
	}
	return domainFilter
}
