package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardMonths is the length of the revenue chart
const DashboardMonths = 6

// DashboardOverview holds the headline figures of the dashboard
type DashboardOverview struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalRevenuePaid decimal.Decimal `json:"total_revenue_paid"`
	MonthRevenue     decimal.Decimal `json:"month_revenue"`
	MonthRevenuePaid decimal.Decimal `json:"month_revenue_paid"`
	TotalPurchases   decimal.Decimal `json:"total_purchases"`
	MonthPurchases   decimal.Decimal `json:"month_purchases"`
	TotalClients     int64           `json:"total_clients"`
	ActiveClients    int64           `json:"active_clients"`
	TotalProducts    int64           `json:"total_products"`
	LowStockCount    int64           `json:"low_stock_count"`
}

// ClientRevenue ranks a client by sales revenue
type ClientRevenue struct {
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// MonthlyRevenue is one point of the revenue chart
type MonthlyRevenue struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// Dashboard is the home screen read model
type Dashboard struct {
	Overview    DashboardOverview `json:"overview"`
	TopClients  []ClientRevenue   `json:"top_clients"`
	RecentSales []DocumentRow     `json:"recent_sales"`
	Monthly     []MonthlyRevenue  `json:"monthly_sales"`
}

// StartOfMonth returns midnight on the first day of t's month
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// ChartStart is the first day of the oldest month shown on the chart
func ChartStart(now time.Time) time.Time {
	return StartOfMonth(now).AddDate(0, -(DashboardMonths - 1), 0)
}

// FillMonths returns one entry per chart month, oldest first, with zero
// values for months that have no sales.
func FillMonths(now time.Time, points []MonthlyRevenue) []MonthlyRevenue {
	byKey := make(map[[2]int]MonthlyRevenue, len(points))
	for _, p := range points {
		byKey[[2]int{p.Year, p.Month}] = p
	}

	out := make([]MonthlyRevenue, 0, DashboardMonths)
	start := ChartStart(now)
	for i := 0; i < DashboardMonths; i++ {
		m := start.AddDate(0, i, 0)
		key := [2]int{m.Year(), int(m.Month())}
		if p, ok := byKey[key]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, MonthlyRevenue{Year: key[0], Month: key[1], Revenue: decimal.Zero})
	}
	return out
}
