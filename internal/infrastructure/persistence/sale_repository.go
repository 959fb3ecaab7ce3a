package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.SaleModel{}).Where("company_id = ?", tenantID)
}

func (r *GormSaleRepository) withLines(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") })
}

// FindByIDForTenant finds a sale with its lines and installments
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var m models.SaleModel
	if err := r.withLines(r.scoped(ctx, tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists sales. Search matches the client name.
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, error) {
	query := paginate(applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name"), filter, documentSortFields, "created_at")
	return r.find(r.withLines(query))
}

// CountForTenant counts sales matching the filter
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := applyDocumentFilter(r.scoped(ctx, tenantID), filter, "client_name").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByClient returns the client's most recent sales
func (r *GormSaleRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]trade.Sale, error) {
	query := r.scoped(ctx, tenantID).Where("client_id = ?", clientID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(r.withLines(query))
}

// TotalsByClient sums every sale of the client
func (r *GormSaleRepository) TotalsByClient(ctx context.Context, tenantID, clientID uuid.UUID) (trade.PartyTotals, error) {
	var row struct {
		Count     int64
		TotalTTC  decimal.NullDecimal
		TotalPaid decimal.NullDecimal
		Remaining decimal.NullDecimal
	}
	err := r.scoped(ctx, tenantID).
		Select("COUNT(*) AS count, SUM(total_ttc) AS total_ttc, SUM(amount_paid) AS total_paid, SUM(amount_remaining) AS remaining").
		Where("client_id = ?", clientID).
		Scan(&row).Error
	if err != nil {
		return trade.PartyTotals{}, err
	}
	return trade.PartyTotals{
		Count:     row.Count,
		TotalTTC:  row.TotalTTC.Decimal,
		TotalPaid: row.TotalPaid.Decimal,
		Remaining: row.Remaining.Decimal,
	}, nil
}

// Save writes the sale and replaces its lines and installments. A sale
// changed since it was loaded yields shared.ErrConcurrencyConflict.
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	m := models.SaleModelFromDomain(sale)
	return saveVersioned(ctx, r.db, m, m.ID, sale, func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", m.ID).Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", m.ID).Delete(&models.SaleInstallmentModel{}).Error; err != nil {
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

// DeleteForTenant deletes a sale with its lines and installments
func (r *GormSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleted(tx.Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.SaleModel{})); err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
		return tx.Where("document_id = ?", id).Delete(&models.SaleInstallmentModel{}).Error
	})
}

func (r *GormSaleRepository) find(query *gorm.DB) ([]trade.Sale, error) {
	var rows []models.SaleModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	sales := make([]trade.Sale, len(rows))
	for i := range rows {
		sales[i] = *rows[i].ToDomain()
	}
	return sales, nil
}

// applyDocumentFilter applies the filters shared by document tables
func applyDocumentFilter(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	query = searchAny(query, filter.Search, searchColumns...)
	query = dateRange(query, "created_at", filter.From, filter.To)
	for key, value := range filter.Filters {
		switch key {
		case trade.FilterStatus:
			query = query.Where("status = ?", value)
		case trade.FilterClientID:
			query = query.Where("client_id = ?", value)
		case trade.FilterSupplierID:
			query = query.Where("supplier_id = ?", value)
		case trade.FilterSaleID:
			query = query.Where("sale_id = ?", value)
		case trade.FilterCreatedBy:
			query = query.Where("created_by = ?", value)
		}
	}
	return query
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
