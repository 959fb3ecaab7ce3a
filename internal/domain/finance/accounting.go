package finance

import (
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared/valueobject"
)

// DocumentTotals aggregates sales or purchases over a period
type DocumentTotals struct {
	TotalHT     decimal.Decimal
	TotalTTC    decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
	Count       int64
}

// TVAPosition is the VAT balance of the period.
// Exactly one of ToPay and ToRefund is non-zero unless the balance is zero.
type TVAPosition struct {
	Collected  decimal.Decimal
	Deductible decimal.Decimal
	Balance    decimal.Decimal
	ToPay      decimal.Decimal
	ToRefund   decimal.Decimal
}

// Profit of the period
type Profit struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
}

// AccountingSummary is the accounting overview of a period
type AccountingSummary struct {
	Revenue   DocumentTotals
	Purchases DocumentTotals
	Charges   decimal.Decimal
	TVA       TVAPosition
	Profit    Profit
}

// Summarize derives the VAT position and profit from the period totals
func Summarize(sales, purchases DocumentTotals, charges decimal.Decimal) AccountingSummary {
	collected := sales.TotalTTC.Sub(sales.TotalHT)
	deductible := purchases.TotalTTC.Sub(purchases.TotalHT)
	balance := collected.Sub(deductible)
	gross := sales.TotalHT.Sub(purchases.TotalHT)

	return AccountingSummary{
		Revenue:   sales,
		Purchases: purchases,
		Charges:   charges,
		TVA: TVAPosition{
			Collected:  collected,
			Deductible: deductible,
			Balance:    balance,
			ToPay:      valueobject.Max(balance, decimal.Zero),
			ToRefund:   valueobject.Max(balance.Neg(), decimal.Zero),
		},
		Profit: Profit{
			Gross: gross,
			Net:   gross.Sub(charges),
		},
	}
}
