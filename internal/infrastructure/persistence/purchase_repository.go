package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements trade.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func (r *GormPurchaseRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PurchaseModel{}).Where("company_id = ?", tenantID)
}

func (r *GormPurchaseRepository) withLines(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") })
}

// FindByIDForTenant finds a purchase with its lines and installments
func (r *GormPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var m models.PurchaseModel
	if err := r.withLines(r.scoped(ctx, tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists purchases. Search matches the supplier name.
func (r *GormPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error) {
	query := paginate(applyDocumentFilter(r.scoped(ctx, tenantID), filter, "supplier_name"), filter, documentSortFields, "created_at")
	return r.find(r.withLines(query))
}

// CountForTenant counts purchases matching the filter
func (r *GormPurchaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "supplier_name").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySupplier returns the supplier's most recent purchases
func (r *GormPurchaseRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, limit int) ([]trade.Purchase, error) {
	query := r.scoped(ctx, tenantID).Where("supplier_id = ?", supplierID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(r.withLines(query))
}

// Save writes the purchase and replaces its lines and installments, under
// the same version check as sales
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	m := models.PurchaseModelFromDomain(purchase)
	return saveVersioned(ctx, r.db, m, m.ID, purchase, func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", m.ID).Delete(&models.PurchaseItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", m.ID).Delete(&models.PurchaseInstallmentModel{}).Error; err != nil {
			return err
		}
		if len(m.Items) > 0 {
			if err := tx.Create(&m.Items).Error; err != nil {
				return err
			}
		}
		if len(m.Installments) > 0 {
			return tx.Create(&m.Installments).Error
		}
		return nil
	})
}

// DeleteForTenant deletes a purchase with its lines and installments
func (r *GormPurchaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleted(tx.Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.PurchaseModel{})); err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&models.PurchaseItemModel{}).Error; err != nil {
			return err
		}
		return tx.Where("document_id = ?", id).Delete(&models.PurchaseInstallmentModel{}).Error
	})
}

func (r *GormPurchaseRepository) find(query *gorm.DB) ([]trade.Purchase, error) {
	var rows []models.PurchaseModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	purchases := make([]trade.Purchase, len(rows))
	for i := range rows {
		purchases[i] = *rows[i].ToDomain()
	}
	return purchases, nil
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
