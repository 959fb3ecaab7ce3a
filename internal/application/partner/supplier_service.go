package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SupplierService handles supplier business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create creates a new supplier with an optional hand-entered catalogue
func (s *SupplierService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(tenantID, partner.SupplierDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		return nil, err
	}
	supplier.SetCreatedBy(userID)
	if len(req.Products) > 0 {
		supplier.ReplaceProducts(toSupplierProducts(req.Products))
	}

	if err := s.checkPhone(ctx, tenantID, supplier.Phone, nil); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Supplier created", zap.String("supplier_id", supplier.ID.String()))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with search and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
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
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Update updates a supplier. A products list replaces the whole catalogue.
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	details := partner.SupplierDetails{
		Name:    supplier.Name,
		Phone:   supplier.Phone,
		Email:   supplier.Email,
		Address: supplier.Address,
		Notes:   supplier.Notes,
	}
	if req.Name != nil {
		details.Name = *req.Name
	}
	if req.Phone != nil {
		details.Phone = *req.Phone
	}
	if req.Email != nil {
		details.Email = *req.Email
	}
	if req.Address != nil {
		details.Address = *req.Address
	}
	if req.Notes != nil {
		details.Notes = *req.Notes
	}

	previousPhone := supplier.Phone
	if err := supplier.Update(details); err != nil {
		return nil, err
	}
	if supplier.Phone != previousPhone {
		if err := s.checkPhone(ctx, tenantID, supplier.Phone, &supplier.ID); err != nil {
			return nil, err
		}
	}
	if req.Products != nil {
		supplier.ReplaceProducts(toSupplierProducts(*req.Products))
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete deletes a supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	return s.supplierRepo.DeleteForTenant(ctx, tenantID, supplierID)
}

// UpdateDebt moves the outstanding debt by delta
func (s *SupplierService) UpdateDebt(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateBalanceRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	supplier.UpdateDebt(req.Delta)
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

func (s *SupplierService) checkPhone(ctx context.Context, tenantID uuid.UUID, phone string, excludeID *uuid.UUID) error {
	exists, err := s.supplierRepo.ExistsByPhone(ctx, tenantID, phone, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return partner.ErrPhoneTaken
	}
	return nil
}
