package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/report"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with read-only aggregate queries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

type documentRow struct {
	ID            uuid.UUID
	PartyName     string
	TotalHT       decimal.Decimal
	TotalTTC      decimal.Decimal
	AmountPaid    decimal.Decimal
	Remaining     decimal.Decimal
	Status        string
	CreatedAt     time.Time
	CreatedByName *string
}

func (d documentRow) toReport() report.DocumentRow {
	row := report.DocumentRow{
		ID:         d.ID,
		PartyName:  d.PartyName,
		TotalHT:    d.TotalHT,
		TotalTTC:   d.TotalTTC,
		AmountPaid: d.AmountPaid,
		Remaining:  d.Remaining,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
	}
	if d.CreatedByName != nil {
		row.CreatedByName = *d.CreatedByName
	}
	return row
}

func (r *GormReportRepository) documentRows(ctx context.Context, table, party string, tenantID uuid.UUID, period report.Period) ([]report.DocumentRow, error) {
	query := r.db.WithContext(ctx).
		Table(table+" AS d").
		Select("d.id, d."+party+" AS party_name, d.total_ht, d.total_ttc, d.amount_paid, d.amount_remaining AS remaining, d.status, d.created_at, u.name AS created_by_name").
		Joins("LEFT JOIN users u ON u.id = d.created_by").
		Where("d.company_id = ?", tenantID)
	query = dateRange(query, "d.created_at", period.From, period.To)

	var rows []documentRow
	if err := query.Order("d.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]report.DocumentRow, len(rows))
	for i := range rows {
		result[i] = rows[i].toReport()
	}
	return result, nil
}

// SalesRows lists the sales of a period, newest first, with the creator's name
func (r *GormReportRepository) SalesRows(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.DocumentRow, error) {
	return r.documentRows(ctx, "sales", "client_name", tenantID, period)
}

// PurchaseRows lists the purchases of a period, newest first
func (r *GormReportRepository) PurchaseRows(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.DocumentRow, error) {
	return r.documentRows(ctx, "purchases", "supplier_name", tenantID, period)
}

// StockRows lists every product by ascending quantity
func (r *GormReportRepository) StockRows(ctx context.Context, tenantID uuid.UUID) ([]report.StockRow, error) {
	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", tenantID).
		Order("stock_quantity ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]report.StockRow, len(rows))
	for i, p := range rows {
		result[i] = report.StockRow{
			ProductID:      p.ID,
			Name:           p.Name,
			Unit:           p.Unit,
			StockQuantity:  p.StockQuantity,
			StockThreshold: p.StockThreshold,
			PurchasePrice:  p.PurchasePrice,
			StockValue:     p.StockQuantity.Mul(p.PurchasePrice),
		}
	}
	return result, nil
}

// ChargeRows lists the charges of a period, newest date first
func (r *GormReportRepository) ChargeRows(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.ChargeRow, error) {
	var rows []models.ChargeModel
	query := dateRange(r.db.WithContext(ctx).Where("company_id = ?", tenantID), "date", period.From, period.To)
	if err := query.Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]report.ChargeRow, len(rows))
	for i, c := range rows {
		result[i] = report.ChargeRow{
			ID:          c.ID,
			Description: c.Description,
			Type:        string(c.Type),
			Amount:      c.Amount,
			Date:        c.Date,
			Source:      c.Source,
		}
	}
	return result, nil
}

func (r *GormReportRepository) totals(ctx context.Context, table string, tenantID uuid.UUID, period report.Period) (finance.DocumentTotals, error) {
	var row struct {
		TotalHT     decimal.NullDecimal
		TotalTTC    decimal.NullDecimal
		Paid        decimal.NullDecimal
		Outstanding decimal.NullDecimal
		Count       int64
	}
	query := r.db.WithContext(ctx).Table(table).
		Select("SUM(total_ht) AS total_ht, SUM(total_ttc) AS total_ttc, SUM(amount_paid) AS paid, SUM(amount_remaining) AS outstanding, COUNT(*) AS count").
		Where("company_id = ?", tenantID)
	if err := dateRange(query, "created_at", period.From, period.To).Scan(&row).Error; err != nil {
		return finance.DocumentTotals{}, err
	}
	return finance.DocumentTotals{
		TotalHT:     row.TotalHT.Decimal,
		TotalTTC:    row.TotalTTC.Decimal,
		Paid:        row.Paid.Decimal,
		Outstanding: row.Outstanding.Decimal,
		Count:       row.Count,
	}, nil
}

// SalesTotals sums the sales of a period
func (r *GormReportRepository) SalesTotals(ctx context.Context, tenantID uuid.UUID, period report.Period) (finance.DocumentTotals, error) {
	return r.totals(ctx, "sales", tenantID, period)
}

// PurchaseTotals sums the purchases of a period
func (r *GormReportRepository) PurchaseTotals(ctx context.Context, tenantID uuid.UUID, period report.Period) (finance.DocumentTotals, error) {
	return r.totals(ctx, "purchases", tenantID, period)
}

// CountClients counts clients, optionally only active ones
func (r *GormReportRepository) CountClients(ctx context.Context, tenantID uuid.UUID, activeOnly bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).Where("company_id = ?", tenantID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *GormReportRepository) countProducts(ctx context.Context, tenantID uuid.UUID, cond string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("company_id = ?", tenantID)
	if cond != "" {
		query = query.Where(cond)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountProducts counts the catalogue
func (r *GormReportRepository) CountProducts(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countProducts(ctx, tenantID, "")
}

// CountLowStock counts products whose enabled threshold has been reached
func (r *GormReportRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countProducts(ctx, tenantID, "stock_threshold > 0 AND stock_quantity <= stock_threshold")
}

// CountOutOfStock counts products with nothing on hand
func (r *GormReportRepository) CountOutOfStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countProducts(ctx, tenantID, "stock_quantity <= 0")
}

// TopClients ranks clients by the TTC total of their sales
func (r *GormReportRepository) TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]report.ClientRevenue, error) {
	var rows []struct {
		ClientID   uuid.UUID
		ClientName string
		Revenue    decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("sales").
		Select("client_id, client_name, SUM(total_ttc) AS revenue").
		Where("company_id = ?", tenantID).
		Group("client_id, client_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]report.ClientRevenue, len(rows))
	for i, row := range rows {
		result[i] = report.ClientRevenue{ClientID: row.ClientID, ClientName: row.ClientName, Revenue: row.Revenue}
	}
	return result, nil
}

// MonthlySales buckets sales created since the given time by calendar month.
// Bucketing happens in Go so the query stays portable across dialects.
func (r *GormReportRepository) MonthlySales(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]report.MonthlyRevenue, error) {
	var rows []struct {
		CreatedAt time.Time
		TotalTTC  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("sales").
		Select("created_at, total_ttc").
		Where("company_id = ? AND created_at >= ?", tenantID, since).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var result []report.MonthlyRevenue
	index := make(map[[2]int]int)
	for _, row := range rows {
		t := row.CreatedAt.In(since.Location())
		key := [2]int{t.Year(), int(t.Month())}
		i, ok := index[key]
		if !ok {
			i = len(result)
			index[key] = i
			result = append(result, report.MonthlyRevenue{Year: key[0], Month: key[1], Revenue: decimal.Zero})
		}
		result[i].Revenue = result[i].Revenue.Add(row.TotalTTC)
		result[i].Count++
	}
	return result, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
