package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/report"
)

const (
	dashboardTopClients  = 5
	dashboardRecentSales = 5
)

// DashboardService builds the home screen figures
type DashboardService struct {
	reportRepo report.Repository
	now        func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(reportRepo report.Repository) *DashboardService {
	return &DashboardService{reportRepo: reportRepo, now: time.Now}
}

// Get returns the dashboard of the company
func (s *DashboardService) Get(ctx context.Context, tenantID uuid.UUID) (*report.Dashboard, error) {
	now := s.now()
	month := report.Period{From: report.StartOfMonth(now)}

	overview, err := s.overview(ctx, tenantID, month)
	if err != nil {
		return nil, err
	}

	top, err := s.reportRepo.TopClients(ctx, tenantID, dashboardTopClients)
	if err != nil {
		return nil, err
	}

	recent, err := s.reportRepo.SalesRows(ctx, tenantID, report.Period{})
	if err != nil {
		return nil, err
	}
	if len(recent) > dashboardRecentSales {
		recent = recent[:dashboardRecentSales]
	}

	monthly, err := s.reportRepo.MonthlySales(ctx, tenantID, report.ChartStart(now))
	if err != nil {
		return nil, err
	}

	return &report.Dashboard{
		Overview:    overview,
		TopClients:  top,
		RecentSales: recent,
		Monthly:     report.FillMonths(now, monthly),
	}, nil
}

func (s *DashboardService) overview(ctx context.Context, tenantID uuid.UUID, month report.Period) (report.DashboardOverview, error) {
	var o report.DashboardOverview

	sales, err := s.reportRepo.SalesTotals(ctx, tenantID, report.Period{})
	if err != nil {
		return o, err
	}
	monthSales, err := s.reportRepo.SalesTotals(ctx, tenantID, month)
	if err != nil {
		return o, err
	}
	purchases, err := s.reportRepo.PurchaseTotals(ctx, tenantID, report.Period{})
	if err != nil {
		return o, err
	}
	monthPurchases, err := s.reportRepo.PurchaseTotals(ctx, tenantID, month)
	if err != nil {
		return o, err
	}

	o.TotalRevenue = sales.TotalTTC
	o.TotalRevenuePaid = sales.Paid
	o.MonthRevenue = monthSales.TotalTTC
	o.MonthRevenuePaid = monthSales.Paid
	o.TotalPurchases = purchases.TotalTTC
	o.MonthPurchases = monthPurchases.TotalTTC

	if o.TotalClients, err = s.reportRepo.CountClients(ctx, tenantID, false); err != nil {
		return o, err
	}
	if o.ActiveClients, err = s.reportRepo.CountClients(ctx, tenantID, true); err != nil {
		return o, err
	}
	if o.TotalProducts, err = s.reportRepo.CountProducts(ctx, tenantID); err != nil {
		return o, err
	}
	if o.LowStockCount, err = s.reportRepo.CountLowStock(ctx, tenantID); err != nil {
		return o, err
	}
	return o, nil
}
