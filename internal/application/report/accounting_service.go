package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/report"
)

// DocumentTotalsResponse is the revenue or purchases block of the accounting summary
type DocumentTotalsResponse struct {
	TotalHT     decimal.Decimal `json:"total_ht"`
	TotalTTC    decimal.Decimal `json:"total_ttc"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Count       int64           `json:"count"`
}

// TVAResponse is the VAT position of the period
type TVAResponse struct {
	Collected  decimal.Decimal `json:"collected"`
	Deductible decimal.Decimal `json:"deductible"`
	Balance    decimal.Decimal `json:"balance"`
	ToPay      decimal.Decimal `json:"to_pay"`
	ToRefund   decimal.Decimal `json:"to_refund"`
}

// ProfitResponse is the profit of the period
type ProfitResponse struct {
	Gross decimal.Decimal `json:"gross"`
	Net   decimal.Decimal `json:"net"`
}

// AccountingSummaryResponse represents the accounting overview
type AccountingSummaryResponse struct {
	Period    report.Period          `json:"period"`
	Revenue   DocumentTotalsResponse `json:"revenue"`
	Purchases DocumentTotalsResponse `json:"purchases"`
	Charges   decimal.Decimal        `json:"charges"`
	TVA       TVAResponse            `json:"tva"`
	Profit    ProfitResponse         `json:"profit"`
}

// AccountingService computes the VAT position and the profit of a period
type AccountingService struct {
	reportRepo report.Repository
	chargeRepo finance.ChargeRepository
}

// NewAccountingService creates a new AccountingService
func NewAccountingService(reportRepo report.Repository, chargeRepo finance.ChargeRepository) *AccountingService {
	return &AccountingService{reportRepo: reportRepo, chargeRepo: chargeRepo}
}

// Summary returns the accounting summary of the period
func (s *AccountingService) Summary(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter) (*AccountingSummaryResponse, error) {
	period := filter.period()

	sales, err := s.reportRepo.SalesTotals(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	purchases, err := s.reportRepo.PurchaseTotals(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	charges, err := s.chargeRepo.SumForTenant(ctx, tenantID, period.From, period.To)
	if err != nil {
		return nil, err
	}

	summary := finance.Summarize(sales, purchases, charges)
	return &AccountingSummaryResponse{
		Period:    period,
		Revenue:   toTotalsResponse(summary.Revenue),
		Purchases: toTotalsResponse(summary.Purchases),
		Charges:   summary.Charges,
		TVA: TVAResponse{
			Collected:  summary.TVA.Collected,
			Deductible: summary.TVA.Deductible,
			Balance:    summary.TVA.Balance,
			ToPay:      summary.TVA.ToPay,
			ToRefund:   summary.TVA.ToRefund,
		},
		Profit: ProfitResponse{
			Gross: summary.Profit.Gross,
			Net:   summary.Profit.Net,
		},
	}, nil
}

func toTotalsResponse(t finance.DocumentTotals) DocumentTotalsResponse {
	return DocumentTotalsResponse{
		TotalHT:     t.TotalHT,
		TotalTTC:    t.TotalTTC,
		Paid:        t.Paid,
		Outstanding: t.Outstanding,
		Count:       t.Count,
	}
}
