package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(status string, ttc, paid int64) DocumentRow {
	return DocumentRow{
		Status:     status,
		TotalTTC:   decimal.NewFromInt(ttc),
		AmountPaid: decimal.NewFromInt(paid),
		Remaining:  decimal.NewFromInt(ttc - paid),
	}
}

func TestSumDocuments(t *testing.T) {
	rows := []DocumentRow{row("paid", 100, 100), row("partial", 50, 20), row("pending", 30, 0)}
	totals := SumDocuments(rows)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(180)))
	assert.True(t, totals.Paid.Equal(decimal.NewFromInt(120)))
	assert.True(t, totals.Remaining.Equal(decimal.NewFromInt(60)))

	empty := SumDocuments(nil)
	assert.True(t, empty.Total.IsZero())
}

func TestGroupDocuments(t *testing.T) {
	rows := []DocumentRow{row("paid", 100, 100), row("pending", 30, 0), row("paid", 40, 40)}
	groups := GroupDocuments(rows, func(r DocumentRow) string { return r.Status })
	require.Len(t, groups, 2)
	assert.Equal(t, "paid", groups[0].Key)
	assert.Equal(t, int64(2), groups[0].Count)
	assert.True(t, groups[0].Total.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, "pending", groups[1].Key)
}

func TestFillMonths(t *testing.T) {
	now := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), ChartStart(now))

	points := []MonthlyRevenue{{Year: 2023, Month: 11, Revenue: decimal.NewFromInt(500), Count: 3}}
	months := FillMonths(now, points)
	require.Len(t, months, DashboardMonths)
	assert.Equal(t, 2023, months[0].Year)
	assert.Equal(t, 9, months[0].Month)
	assert.Equal(t, int64(3), months[2].Count)
	assert.Equal(t, 2024, months[5].Year)
	assert.Equal(t, 2, months[5].Month)
	assert.True(t, months[5].Revenue.IsZero())
}
