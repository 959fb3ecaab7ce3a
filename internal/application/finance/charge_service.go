package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/export"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"github.com/tunerp/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

const receiptFolder = "receipts"

var receiptContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// ChargeService handles operating expenses (charges)
type ChargeService struct {
	chargeRepo finance.ChargeRepository
	storage    storage.ObjectStorage
}

// NewChargeService creates a new ChargeService
func NewChargeService(chargeRepo finance.ChargeRepository, objectStorage storage.ObjectStorage) *ChargeService {
	return &ChargeService{chargeRepo: chargeRepo, storage: objectStorage}
}

// Create creates a charge, storing the receipt first when one is attached
func (s *ChargeService) Create(ctx context.Context, tenantID, userID uuid.UUID, req ChargeRequest, receipt *ReceiptUpload) (*ChargeResponse, error) {
	charge, err := finance.NewCharge(tenantID, toChargeDetails(req))
	if err != nil {
		return nil, err
	}
	charge.SetCreatedBy(userID)

	if receipt != nil {
		url, err := s.storeReceipt(ctx, tenantID, receipt)
		if err != nil {
			return nil, err
		}
		charge.AttachReceipt(url)
	}

	if err := s.chargeRepo.Save(ctx, charge); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Charge created",
		zap.String("charge_id", charge.ID.String()),
		zap.String("type", string(charge.Type)),
		zap.String("amount", charge.Amount.String()))

	response := ToChargeResponse(charge)
	return &response, nil
}

// GetByID retrieves a charge by ID
func (s *ChargeService) GetByID(ctx context.Context, tenantID, chargeID uuid.UUID) (*ChargeResponse, error) {
	charge, err := s.chargeRepo.FindByIDForTenant(ctx, tenantID, chargeID)
	if err != nil {
		return nil, err
	}
	response := ToChargeResponse(charge)
	return &response, nil
}

// List retrieves charges, newest date first by default
func (s *ChargeService) List(ctx context.Context, tenantID uuid.UUID, filter ChargeListFilter) ([]ChargeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
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
	if filter.Type != "" {
		domainFilter.Filters[finance.FilterType] = filter.Type
	}
	if filter.From != nil {
		domainFilter.From = *filter.From
	}
	if filter.To != nil {
		domainFilter.To = *filter.To
	}

	charges, err := s.chargeRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.chargeRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToChargeResponses(charges), total, nil
}

// Update replaces a charge
func (s *ChargeService) Update(ctx context.Context, tenantID, chargeID uuid.UUID, req ChargeRequest) (*ChargeResponse, error) {
	charge, err := s.chargeRepo.FindByIDForTenant(ctx, tenantID, chargeID)
	if err != nil {
		return nil, err
	}
	details := toChargeDetails(req)
	if details.Date.IsZero() {
		details.Date = charge.Date
	}
	if err := charge.Update(details); err != nil {
		return nil, err
	}
	if err := s.chargeRepo.Save(ctx, charge); err != nil {
		return nil, err
	}
	response := ToChargeResponse(charge)
	return &response, nil
}

// Delete deletes a charge
func (s *ChargeService) Delete(ctx context.Context, tenantID, chargeID uuid.UUID) error {
	return s.chargeRepo.DeleteForTenant(ctx, tenantID, chargeID)
}

// UploadReceipt stores a receipt image and links it to the charge
func (s *ChargeService) UploadReceipt(ctx context.Context, tenantID, chargeID uuid.UUID, receipt ReceiptUpload) (*ChargeResponse, error) {
	charge, err := s.chargeRepo.FindByIDForTenant(ctx, tenantID, chargeID)
	if err != nil {
		return nil, err
	}
	url, err := s.storeReceipt(ctx, tenantID, &receipt)
	if err != nil {
		return nil, err
	}
	charge.AttachReceipt(url)
	if err := s.chargeRepo.Save(ctx, charge); err != nil {
		return nil, err
	}
	response := ToChargeResponse(charge)
	return &response, nil
}

func (s *ChargeService) storeReceipt(ctx context.Context, tenantID uuid.UUID, receipt *ReceiptUpload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(receipt.ContentType))
	if !receiptContentTypes[contentType] {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Format de justificatif non supporté: "+receipt.ContentType)
	}
	if len(receipt.Data) == 0 {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Justificatif vide")
	}

	key := storage.ObjectKey(tenantID, receiptFolder, receipt.Filename)
	url, err := s.storage.Put(ctx, key, receipt.Data, contentType)
	if err != nil {
		logger.L(ctx).Error("Failed to store receipt", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}
	return url, nil
}

// Export builds the Excel workbook of the charges dated in the window
func (s *ChargeService) Export(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (*ExportFile, error) {
	filter := shared.Filter{OrderBy: "date", OrderDir: "asc"}
	if from != nil {
		filter.From = *from
	}
	if to != nil {
		filter.To = *to
	}

	charges, err := s.chargeRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*finance.Charge, len(charges))
	for i := range charges {
		items[i] = &charges[i]
	}
	data, err := export.Charges(items)
	if err != nil {
		return nil, fmt.Errorf("failed to build charges export: %w", err)
	}
	return &ExportFile{
		Filename:    export.Filename("charges", filter.From, filter.To),
		ContentType: export.ContentType,
		Data:        data,
	}, nil
}
