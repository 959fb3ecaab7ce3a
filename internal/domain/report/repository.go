package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/finance"
)

// Repository runs the aggregate queries behind reports, the dashboard and
// the accounting summary. All queries are scoped to one company.
type Repository interface {
	SalesRows(ctx context.Context, tenantID uuid.UUID, period Period) ([]DocumentRow, error)
	PurchaseRows(ctx context.Context, tenantID uuid.UUID, period Period) ([]DocumentRow, error)
	StockRows(ctx context.Context, tenantID uuid.UUID) ([]StockRow, error)
	ChargeRows(ctx context.Context, tenantID uuid.UUID, period Period) ([]ChargeRow, error)

	SalesTotals(ctx context.Context, tenantID uuid.UUID, period Period) (finance.DocumentTotals, error)
	PurchaseTotals(ctx context.Context, tenantID uuid.UUID, period Period) (finance.DocumentTotals, error)

	CountClients(ctx context.Context, tenantID uuid.UUID, activeOnly bool) (int64, error)
	CountProducts(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountOutOfStock(ctx context.Context, tenantID uuid.UUID) (int64, error)
	TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]ClientRevenue, error)
	MonthlySales(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]MonthlyRevenue, error)
}
