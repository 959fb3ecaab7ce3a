package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Preload("Suppliers").
		Where("company_id = ?", tenantID)
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	return r.find(r.scoped(ctx, tenantID).Where("id IN ?", ids))
}

// FindAllForTenant lists products. Search matches the name.
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	query := r.applyFilter(r.scoped(ctx, tenantID), filter)
	return r.find(paginate(query, filter, productSortFields, "created_at"))
}

// CountForTenant counts products matching the filter
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("company_id = ?", tenantID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindLowStock finds products whose enabled threshold has been reached
func (r *GormProductRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	return r.find(r.scoped(ctx, tenantID).
		Where("stock_threshold > 0 AND stock_quantity <= stock_threshold").
		Order("stock_quantity ASC"))
}

// FindOutOfStock finds products with nothing on hand
func (r *GormProductRepository) FindOutOfStock(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	return r.find(r.scoped(ctx, tenantID).Where("stock_quantity <= 0").Order("name ASC"))
}

// FindBySupplier finds products provided by a supplier
func (r *GormProductRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]catalog.Product, error) {
	return r.find(r.scoped(ctx, tenantID).
		Where("id IN (?)", r.db.Model(&models.ProductSupplierModel{}).Select("product_id").Where("supplier_id = ?", supplierID)).
		Order("name ASC"))
}

// Save creates or updates a product and replaces its supplier links. The
// update only applies while the row still holds the loaded version, so an
// edit made from a stale copy cannot write back an old stock quantity.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	m := models.ProductModelFromDomain(product)
	return saveVersioned(ctx, r.db, m, m.ID, product, func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", m.ID).Delete(&models.ProductSupplierModel{}).Error; err != nil {
			return err
		}
		if len(m.Suppliers) == 0 {
			return nil
		}
		return tx.Create(&m.Suppliers).Error
	})
}

// DeleteForTenant deletes a product and its supplier links
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleted(tx.Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.ProductModel{})); err != nil {
			return err
		}
		return tx.Where("product_id = ?", id).Delete(&models.ProductSupplierModel{}).Error
	})
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name")
	for key, value := range filter.Filters {
		switch key {
		case catalog.FilterSupplierID:
			query = query.Where("id IN (?)", r.db.Model(&models.ProductSupplierModel{}).Select("product_id").Where("supplier_id = ?", value))
		case catalog.FilterIsActive:
			query = query.Where("is_active = ?", value)
		case catalog.FilterLowStock:
			if v, ok := value.(bool); ok && v {
				query = query.Where("stock_threshold > 0 AND stock_quantity <= stock_threshold")
			}
		}
	}
	return query
}

func (r *GormProductRepository) find(query *gorm.DB) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Ensure GormProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
