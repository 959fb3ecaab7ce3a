package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuoteRepository implements trade.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

func (r *GormQuoteRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("company_id = ?", tenantID)
}

// FindByIDForTenant finds a quote by ID
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Quote, error) {
	var m models.QuoteModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists quotes. Search matches client name, phone and email.
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Quote, error) {
	var rows []models.QuoteModel
	query := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name", "phone", "email")
	if err := paginate(query, filter, documentSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	quotes := make([]trade.Quote, len(rows))
	for i := range rows {
		quotes[i] = *rows[i].ToDomain()
	}
	return quotes, nil
}

// CountForTenant counts quotes matching the filter
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name", "phone", "email").Count(&count).Error
	return count, err
}

// Save creates or updates a quote
func (r *GormQuoteRepository) Save(ctx context.Context, quote *trade.Quote) error {
	m := models.QuoteModelFromDomain(quote)
	return saveVersioned(ctx, r.db, m, m.ID, quote, nil)
}

// DeleteForTenant deletes a quote
func (r *GormQuoteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.QuoteModel{}))
}

// GormDeliveryRepository implements trade.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

func (r *GormDeliveryRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.DeliveryModel{}).Where("company_id = ?", tenantID)
}

// FindByIDForTenant finds a delivery by ID
func (r *GormDeliveryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Delivery, error) {
	var m models.DeliveryModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists deliveries. Search matches client name, phone and address.
func (r *GormDeliveryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Delivery, error) {
	var rows []models.DeliveryModel
	query := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name", "phone", "address")
	if err := paginate(query, filter, documentSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	deliveries := make([]trade.Delivery, len(rows))
	for i := range rows {
		deliveries[i] = *rows[i].ToDomain()
	}
	return deliveries, nil
}

// CountForTenant counts deliveries matching the filter
func (r *GormDeliveryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name", "phone", "address").Count(&count).Error
	return count, err
}

// Save creates or updates a delivery
func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *trade.Delivery) error {
	m := models.DeliveryModelFromDomain(delivery)
	return saveVersioned(ctx, r.db, m, m.ID, delivery, nil)
}

// DeleteForTenant deletes a delivery
func (r *GormDeliveryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.DeliveryModel{}))
}

// GormSaleReturnRepository implements trade.SaleReturnRepository using GORM
type GormSaleReturnRepository struct {
	db *gorm.DB
}

// NewGormSaleReturnRepository creates a new GormSaleReturnRepository
func NewGormSaleReturnRepository(db *gorm.DB) *GormSaleReturnRepository {
	return &GormSaleReturnRepository{db: db}
}

func (r *GormSaleReturnRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.SaleReturnModel{}).Where("company_id = ?", tenantID)
}

// FindByIDForTenant finds a return by ID
func (r *GormSaleReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SaleReturn, error) {
	var m models.SaleReturnModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists returns. Search matches client name and reason.
func (r *GormSaleReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SaleReturn, error) {
	var rows []models.SaleReturnModel
	query := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name", "reason")
	if err := paginate(query, filter, returnSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	returns := make([]trade.SaleReturn, len(rows))
	for i := range rows {
		returns[i] = *rows[i].ToDomain()
	}
	return returns, nil
}

// CountForTenant counts returns matching the filter
func (r *GormSaleReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name", "reason").Count(&count).Error
	return count, err
}

// Save creates or updates a return
func (r *GormSaleReturnRepository) Save(ctx context.Context, ret *trade.SaleReturn) error {
	m := models.SaleReturnModelFromDomain(ret)
	return saveVersioned(ctx, r.db, m, m.ID, ret, nil)
}

// DeleteForTenant deletes a return
func (r *GormSaleReturnRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.SaleReturnModel{}))
}

var (
	_ trade.QuoteRepository      = (*GormQuoteRepository)(nil)
	_ trade.DeliveryRepository   = (*GormDeliveryRepository)(nil)
	_ trade.SaleReturnRepository = (*GormSaleReturnRepository)(nil)
)
