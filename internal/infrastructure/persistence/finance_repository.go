package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalePaymentRepository implements finance.SalePaymentRepository using GORM
type GormSalePaymentRepository struct {
	db *gorm.DB
}

// NewGormSalePaymentRepository creates a new GormSalePaymentRepository
func NewGormSalePaymentRepository(db *gorm.DB) *GormSalePaymentRepository {
	return &GormSalePaymentRepository{db: db}
}

func (r *GormSalePaymentRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.SalePaymentModel{}).Where("company_id = ?", tenantID)
}

func (r *GormSalePaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "note")
	query = dateRange(query, "date", filter.From, filter.To)
	for key, value := range filter.Filters {
		switch key {
		case finance.FilterClientID:
			query = query.Where("client_id = ?", value)
		case finance.FilterSaleID:
			query = query.Where("sale_id = ?", value)
		}
	}
	return query
}

// FindByIDForTenant finds a payment by ID
func (r *GormSalePaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.SalePayment, error) {
	var m models.SalePaymentModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists payments, newest date first
func (r *GormSalePaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.SalePayment, error) {
	if filter.OrderBy == "" || filter.OrderBy == "created_at" {
		filter.OrderBy = "date"
	}
	return r.find(paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, datedSortFields, "date"))
}

// CountForTenant counts payments matching the filter
func (r *GormSalePaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// FindByClient lists a client's payments, newest first
func (r *GormSalePaymentRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]finance.SalePayment, error) {
	return r.find(r.scoped(ctx, tenantID).Where("client_id = ?", clientID).Order("date DESC"))
}

// FindBySale lists the payments recorded against a sale
func (r *GormSalePaymentRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]finance.SalePayment, error) {
	return r.find(r.scoped(ctx, tenantID).Where("sale_id = ?", saleID).Order("date ASC"))
}

// StatsByClient sums a client's payments
func (r *GormSalePaymentRepository) StatsByClient(ctx context.Context, tenantID, clientID uuid.UUID) (finance.PaymentStats, error) {
	var row struct {
		TotalPaid decimal.NullDecimal
		Count     int64
	}
	query := r.scoped(ctx, tenantID).Where("client_id = ?", clientID)
	if err := query.Select("SUM(amount) AS total_paid, COUNT(*) AS count").Scan(&row).Error; err != nil {
		return finance.PaymentStats{}, err
	}
	stats := finance.PaymentStats{TotalPaid: row.TotalPaid.Decimal, Count: row.Count}
	if row.Count == 0 {
		return stats, nil
	}

	var last models.SalePaymentModel
	err := r.scoped(ctx, tenantID).Where("client_id = ?", clientID).Order("date DESC").First(&last).Error
	if err != nil {
		return stats, notFound(err)
	}
	stats.LastPayment = &last.Date
	return stats, nil
}

// Save creates or updates a payment
func (r *GormSalePaymentRepository) Save(ctx context.Context, payment *finance.SalePayment) error {
	m := models.SalePaymentModelFromDomain(payment)
	return saveVersioned(ctx, r.db, m, m.ID, payment, nil)
}

// DeleteForTenant deletes a payment
func (r *GormSalePaymentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.SalePaymentModel{}))
}

// DeleteBySale removes every payment of a sale. Matching nothing is not an error.
func (r *GormSalePaymentRepository) DeleteBySale(ctx context.Context, tenantID, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("company_id = ? AND sale_id = ?", tenantID, saleID).Delete(&models.SalePaymentModel{}).Error
}

func (r *GormSalePaymentRepository) find(query *gorm.DB) ([]finance.SalePayment, error) {
	var rows []models.SalePaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	payments := make([]finance.SalePayment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// GormPurchasePaymentRepository implements finance.PurchasePaymentRepository using GORM
type GormPurchasePaymentRepository struct {
	db *gorm.DB
}

// NewGormPurchasePaymentRepository creates a new GormPurchasePaymentRepository
func NewGormPurchasePaymentRepository(db *gorm.DB) *GormPurchasePaymentRepository {
	return &GormPurchasePaymentRepository{db: db}
}

func (r *GormPurchasePaymentRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PurchasePaymentModel{}).Where("company_id = ?", tenantID)
}

func (r *GormPurchasePaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "note")
	query = dateRange(query, "date", filter.From, filter.To)
	for key, value := range filter.Filters {
		switch key {
		case finance.FilterSupplierID:
			query = query.Where("supplier_id = ?", value)
		case finance.FilterPurchaseID:
			query = query.Where("purchase_id = ?", value)
		}
	}
	return query
}

// FindByIDForTenant finds a payment by ID
func (r *GormPurchasePaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.PurchasePayment, error) {
	var m models.PurchasePaymentModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists payments, newest date first
func (r *GormPurchasePaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.PurchasePayment, error) {
	if filter.OrderBy == "" || filter.OrderBy == "created_at" {
		filter.OrderBy = "date"
	}
	var rows []models.PurchasePaymentModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, datedSortFields, "date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	payments := make([]finance.PurchasePayment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// CountForTenant counts payments matching the filter
func (r *GormPurchasePaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a payment
func (r *GormPurchasePaymentRepository) Save(ctx context.Context, payment *finance.PurchasePayment) error {
	m := models.PurchasePaymentModelFromDomain(payment)
	return saveVersioned(ctx, r.db, m, m.ID, payment, nil)
}

// DeleteForTenant deletes a payment
func (r *GormPurchasePaymentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.PurchasePaymentModel{}))
}

// DeleteByPurchase removes every payment of a purchase
func (r *GormPurchasePaymentRepository) DeleteByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("company_id = ? AND purchase_id = ?", tenantID, purchaseID).Delete(&models.PurchasePaymentModel{}).Error
}

// GormChargeRepository implements finance.ChargeRepository using GORM
type GormChargeRepository struct {
	db *gorm.DB
}

// NewGormChargeRepository creates a new GormChargeRepository
func NewGormChargeRepository(db *gorm.DB) *GormChargeRepository {
	return &GormChargeRepository{db: db}
}

func (r *GormChargeRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ChargeModel{}).Where("company_id = ?", tenantID)
}

func (r *GormChargeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "description", "source")
	query = dateRange(query, "date", filter.From, filter.To)
	if value, ok := filter.Filters[finance.FilterType]; ok && value != "" {
		query = query.Where("type = ?", value)
	}
	return query
}

// FindByIDForTenant finds a charge by ID
func (r *GormChargeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Charge, error) {
	var m models.ChargeModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists charges, newest date first by default
func (r *GormChargeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Charge, error) {
	if filter.OrderBy == "" || filter.OrderBy == "created_at" {
		filter.OrderBy = "date"
	}
	var rows []models.ChargeModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, datedSortFields, "date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	charges := make([]finance.Charge, len(rows))
	for i := range rows {
		charges[i] = *rows[i].ToDomain()
	}
	return charges, nil
}

// CountForTenant counts charges matching the filter
func (r *GormChargeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// SumForTenant sums charge amounts dated within [from, to]
func (r *GormChargeRepository) SumForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	query := dateRange(r.scoped(ctx, tenantID), "date", from, to)
	if err := query.Select("SUM(amount) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total.Decimal, nil
}

// Save creates or updates a charge
func (r *GormChargeRepository) Save(ctx context.Context, charge *finance.Charge) error {
	m := models.ChargeModelFromDomain(charge)
	return saveVersioned(ctx, r.db, m, m.ID, charge, nil)
}

// DeleteForTenant deletes a charge
func (r *GormChargeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.ChargeModel{}))
}

var (
	_ finance.SalePaymentRepository     = (*GormSalePaymentRepository)(nil)
	_ finance.PurchasePaymentRepository = (*GormPurchasePaymentRepository)(nil)
	_ finance.ChargeRepository          = (*GormChargeRepository)(nil)
)
