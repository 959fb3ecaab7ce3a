package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period bounds a report. Zero values leave the bound open.
type Period struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// IsOpen returns true if neither bound is set
func (p Period) IsOpen() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// GroupTotal is a count and amount for one group key (status, user, type)
type GroupTotal struct {
	Key   string          `json:"key"`
	Label string          `json:"label,omitempty"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DocumentRow is one sale or purchase line of a report
type DocumentRow struct {
	ID            uuid.UUID       `json:"id"`
	PartyName     string          `json:"party_name"`
	TotalHT       decimal.Decimal `json:"total_ht"`
	TotalTTC      decimal.Decimal `json:"total_ttc"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedByName string          `json:"created_by_name,omitempty"`
}

// DocumentTotals sums the rows of a sales or purchases report
type DocumentTotals struct {
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// SalesReport summarizes the sales of a period
type SalesReport struct {
	Period   Period         `json:"period"`
	Totals   DocumentTotals `json:"totals"`
	Count    int            `json:"count"`
	ByStatus []GroupTotal   `json:"by_status"`
	ByUser   []GroupTotal   `json:"by_user"`
	Sales    []DocumentRow  `json:"sales"`
}

// PurchasesReport summarizes the purchases of a period
type PurchasesReport struct {
	Period    Period         `json:"period"`
	Totals    DocumentTotals `json:"totals"`
	Count     int            `json:"count"`
	ByStatus  []GroupTotal   `json:"by_status"`
	Purchases []DocumentRow  `json:"purchases"`
}

// StockRow is one product line of the stock report
type StockRow struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	StockQuantity  decimal.Decimal `json:"stock_quantity"`
	StockThreshold decimal.Decimal `json:"stock_threshold"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	StockValue     decimal.Decimal `json:"stock_value"`
}

// StockReport lists products by ascending quantity
type StockReport struct {
	Products        []StockRow      `json:"products"`
	Count           int             `json:"count"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
}

// ChargeRow is one charge line of the charges report
type ChargeRow struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Source      string          `json:"source,omitempty"`
}

// ChargesReport summarizes the charges of a period
type ChargesReport struct {
	Period  Period          `json:"period"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	ByType  []GroupTotal    `json:"by_type"`
	Charges []ChargeRow     `json:"charges"`
}

// SumDocuments totals report rows
func SumDocuments(rows []DocumentRow) DocumentTotals {
	t := DocumentTotals{Total: decimal.Zero, Paid: decimal.Zero, Remaining: decimal.Zero}
	for _, r := range rows {
		t.Total = t.Total.Add(r.TotalTTC)
		t.Paid = t.Paid.Add(r.AmountPaid)
		t.Remaining = t.Remaining.Add(r.Remaining)
	}
	return t
}

// GroupDocuments groups rows by the key returned by keyFn, in order of first appearance
func GroupDocuments(rows []DocumentRow, keyFn func(DocumentRow) string) []GroupTotal {
	index := make(map[string]int)
	groups := make([]GroupTotal, 0)
	for _, r := range rows {
		key := keyFn(r)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, GroupTotal{Key: key, Total: decimal.Zero})
		}
		groups[i].Count++
		groups[i].Total = groups[i].Total.Add(r.TotalTTC)
	}
	return groups
}
