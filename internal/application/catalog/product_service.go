package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/lock"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProductService handles product business operations and keeps the
// catalogues of linked suppliers in sync
type ProductService struct {
	productRepo    catalog.ProductRepository
	supplierRepo   partner.SupplierRepository
	movementRepo   inventory.StockMovementRepository
	locker         lock.Locker
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	movementRepo inventory.StockMovementRepository,
	locker lock.Locker,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		locker:       locker,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(tenantID, req.Name, req.Unit, orZero(req.TVA))
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.SetCreatedBy(userID)

	if err := product.SetPrices(orZero(req.PurchasePrice), orZero(req.SalePrice)); err != nil {
		return nil, err
	}
	if err := product.SetStockThreshold(orZero(req.StockThreshold)); err != nil {
		return nil, err
	}
	if err := product.SetInitialStock(orZero(req.StockQuantity)); err != nil {
		return nil, err
	}
	if err := s.checkSuppliers(ctx, tenantID, req.SupplierIDs); err != nil {
		return nil, err
	}
	change := product.SetSuppliers(req.SupplierIDs)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if product.StockQuantity.IsPositive() {
		s.recordInitialStock(ctx, product, userID)
	}
	s.syncSupplierCatalogues(ctx, product, change)
	s.publishEvents(ctx, product)

	logger.L(ctx).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product with its suppliers
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)

	if len(product.SupplierIDs) > 0 {
		suppliers, err := s.supplierRepo.FindByIDs(ctx, tenantID, product.SupplierIDs)
		if err != nil {
			return nil, err
		}
		for _, sup := range suppliers {
			response.Suppliers = append(response.Suppliers, SupplierRef{ID: sup.ID, Name: sup.Name, Phone: sup.Phone})
		}
	}
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
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
	if filter.SupplierID != nil {
		domainFilter.Filters[catalog.FilterSupplierID] = *filter.SupplierID
	}
	if filter.LowStock {
		domainFilter.Filters[catalog.FilterLowStock] = true
	}
	if filter.IsActive != nil {
		domainFilter.Filters[catalog.FilterIsActive] = *filter.IsActive
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update updates a product. Supplier catalogues are refreshed when the
// supplier set, name, unit, TVA or purchase price changed. The product is
// read and written under the company key so the edit cannot carry a stock
// quantity that a concurrent sale or purchase has since moved.
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var (
		product *catalog.Product
		change  catalog.SupplierChange
	)
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		if product, err = s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
			return err
		}
		if change, err = s.applyUpdate(ctx, tenantID, product, req); err != nil {
			return err
		}
		return s.productRepo.Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	s.syncSupplierCatalogues(ctx, product, change)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) applyUpdate(ctx context.Context, tenantID uuid.UUID, product *catalog.Product, req UpdateProductRequest) (catalog.SupplierChange, error) {
	var none catalog.SupplierChange
	if req.Name != nil || req.Description != nil || req.Unit != nil || req.TVA != nil {
		name, description, unit, tva := product.Name, product.Description, product.Unit, product.TVA
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Unit != nil {
			unit = *req.Unit
		}
		if req.TVA != nil {
			tva = *req.TVA
		}
		if err := product.Update(name, description, unit, tva); err != nil {
			return none, err
		}
	}

	if req.PurchasePrice != nil || req.SalePrice != nil {
		purchase, sale := product.PurchasePrice, product.SalePrice
		if req.PurchasePrice != nil {
			purchase = *req.PurchasePrice
		}
		if req.SalePrice != nil {
			sale = *req.SalePrice
		}
		if err := product.SetPrices(purchase, sale); err != nil {
			return none, err
		}
	}

	if req.StockThreshold != nil {
		if err := product.SetStockThreshold(*req.StockThreshold); err != nil {
			return none, err
		}
	}
	if req.IsActive != nil {
		product.SetActive(*req.IsActive)
	}

	// without a new supplier set every current supplier gets a refreshed snapshot
	if req.SupplierIDs == nil {
		return catalog.SupplierChange{Kept: product.SupplierIDs}, nil
	}
	if err := s.checkSuppliers(ctx, tenantID, *req.SupplierIDs); err != nil {
		return none, err
	}
	return product.SetSuppliers(*req.SupplierIDs), nil
}

// Delete deletes a product and drops it from its suppliers' catalogues
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	var product *catalog.Product
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		if product, err = s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
			return err
		}
		return s.productRepo.DeleteForTenant(ctx, tenantID, productID)
	})
	if err != nil {
		return err
	}
	s.syncSupplierCatalogues(ctx, product, catalog.SupplierChange{Removed: product.SupplierIDs})
	return nil
}

// LowStock lists products at or below their enabled threshold
func (s *ProductService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// OutOfStock lists products with nothing on hand
func (s *ProductService) OutOfStock(ctx context.Context, tenantID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindOutOfStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// BySupplier lists the products provided by a supplier
func (s *ProductService) BySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

func (s *ProductService) checkSuppliers(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.supplierRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, sup := range found {
		known[sup.ID] = true
	}
	for _, id := range ids {
		if id != uuid.Nil && !known[id] {
			return shared.NewDomainError(shared.CodeNotFound, "Fournisseur introuvable (id: "+id.String()+")")
		}
	}
	return nil
}

// syncSupplierCatalogues upserts the product snapshot into added and kept
// suppliers and removes it from dropped ones. Failures are logged only.
func (s *ProductService) syncSupplierCatalogues(ctx context.Context, product *catalog.Product, change catalog.SupplierChange) {
	ids := make([]uuid.UUID, 0, len(change.Added)+len(change.Kept)+len(change.Removed))
	ids = append(ids, change.Added...)
	ids = append(ids, change.Kept...)
	ids = append(ids, change.Removed...)
	if len(ids) == 0 {
		return
	}

	log := logger.L(ctx)
	suppliers, err := s.supplierRepo.FindByIDs(ctx, product.TenantID, ids)
	if err != nil {
		log.Error("Failed to load suppliers for catalogue sync",
			zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}

	removed := make(map[uuid.UUID]bool, len(change.Removed))
	for _, id := range change.Removed {
		removed[id] = true
	}

	tva := product.TVA
	for i := range suppliers {
		sup := &suppliers[i]
		if !removed[sup.ID] {
			productID := product.ID
			sup.UpsertProduct(partner.NewSupplierProduct(&productID, product.Name, product.Unit, product.PurchasePrice, &tva))
		} else if !sup.RemoveProduct(product.ID) {
			continue
		}
		if err := s.supplierRepo.Save(ctx, sup); err != nil {
			log.Error("Failed to sync supplier catalogue",
				zap.String("product_id", product.ID.String()),
				zap.String("supplier_id", sup.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *ProductService) recordInitialStock(ctx context.Context, product *catalog.Product, userID uuid.UUID) {
	movement, err := inventory.NewStockMovement(product.TenantID, inventory.MovementInput{
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        inventory.MovementTypeIn,
		Source:      inventory.MovementSourceManual,
		Quantity:    product.StockQuantity,
		StockBefore: decimal.Zero,
		StockAfter:  product.StockQuantity,
		Notes:       "Stock initial",
		CreatedBy:   userID,
	})
	if err == nil {
		err = s.movementRepo.Create(ctx, movement)
	}
	if err != nil {
		logger.L(ctx).Error("Failed to record initial stock movement",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("Failed to publish product events",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
