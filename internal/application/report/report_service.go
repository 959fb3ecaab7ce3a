package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/report"
	"github.com/tunerp/backend/internal/domain/trade"
)

// unassignedUser groups documents created before user tracking or by a deleted user
const unassignedUser = "Non attribué"

// PeriodFilter defines the optional date range of a report
type PeriodFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

func (f PeriodFilter) period() report.Period {
	var p report.Period
	if f.From != nil {
		p.From = *f.From
	}
	if f.To != nil {
		p.To = *f.To
	}
	return p
}

// ReportService builds the sales, purchases, stock and charges reports
type ReportService struct {
	reportRepo report.Repository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo report.Repository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// Sales returns the sales report of the period, grouped by status and by seller
func (s *ReportService) Sales(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter) (*report.SalesReport, error) {
	period := filter.period()
	rows, err := s.reportRepo.SalesRows(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	byUser := report.GroupDocuments(rows, func(r report.DocumentRow) string {
		if r.CreatedByName == "" {
			return unassignedUser
		}
		return r.CreatedByName
	})
	return &report.SalesReport{
		Period:   period,
		Totals:   report.SumDocuments(rows),
		Count:    len(rows),
		ByStatus: groupByStatus(rows),
		ByUser:   byUser,
		Sales:    rows,
	}, nil
}

// Purchases returns the purchases report of the period
func (s *ReportService) Purchases(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter) (*report.PurchasesReport, error) {
	period := filter.period()
	rows, err := s.reportRepo.PurchaseRows(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	return &report.PurchasesReport{
		Period:    period,
		Totals:    report.SumDocuments(rows),
		Count:     len(rows),
		ByStatus:  groupByStatus(rows),
		Purchases: rows,
	}, nil
}

// Stock returns every product by ascending quantity with the stock value
func (s *ReportService) Stock(ctx context.Context, tenantID uuid.UUID) (*report.StockReport, error) {
	rows, err := s.reportRepo.StockRows(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	low, err := s.reportRepo.CountLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out, err := s.reportRepo.CountOutOfStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	value := decimal.Zero
	for _, r := range rows {
		value = value.Add(r.StockValue)
	}
	return &report.StockReport{
		Products:        rows,
		Count:           len(rows),
		LowStockCount:   low,
		OutOfStockCount: out,
		TotalStockValue: value.Round(3),
	}, nil
}

// Charges returns the charges report of the period, grouped by type
func (s *ReportService) Charges(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter) (*report.ChargesReport, error) {
	period := filter.period()
	rows, err := s.reportRepo.ChargeRows(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	index := make(map[string]int)
	byType := make([]report.GroupTotal, 0)
	for _, r := range rows {
		total = total.Add(r.Amount)
		i, ok := index[r.Type]
		if !ok {
			i = len(byType)
			index[r.Type] = i
			byType = append(byType, report.GroupTotal{
				Key:   r.Type,
				Label: finance.ChargeType(r.Type).DisplayName(),
				Total: decimal.Zero,
			})
		}
		byType[i].Count++
		byType[i].Total = byType[i].Total.Add(r.Amount)
	}

	return &report.ChargesReport{
		Period:  period,
		Total:   total,
		Count:   len(rows),
		ByType:  byType,
		Charges: rows,
	}, nil
}

func groupByStatus(rows []report.DocumentRow) []report.GroupTotal {
	groups := report.GroupDocuments(rows, func(r report.DocumentRow) string { return r.Status })
	for i := range groups {
		groups[i].Label = statusLabel(trade.PaymentStatus(groups[i].Key))
	}
	return groups
}

func statusLabel(status trade.PaymentStatus) string {
	switch status {
	case trade.PaymentStatusPaid:
		return "Payé"
	case trade.PaymentStatusPartial:
		return "Partiel"
	case trade.PaymentStatusPending:
		return "En attente"
	default:
		return string(status)
	}
}
