package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Payment kinds
const (
	PaymentKindSale     = "sale"
	PaymentKindPurchase = "purchase"
)

// BusinessMetrics counts sales, purchases, payments, stock alerts and OCR
// calls. A nil *BusinessMetrics records nothing.
type BusinessMetrics struct {
	salesCreated     *Counter
	salesAmount      *FloatCounter
	purchasesCreated *Counter
	purchasesAmount  *FloatCounter
	payments         *Counter
	paymentsAmount   *FloatCounter
	stockAlerts      *Counter
	ocrRequests      *Counter
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		bm  BusinessMetrics
		err error
	)
	if bm.salesCreated, err = NewCounter(meter, "erp_sale_created_total", "Total number of sales created", "{sales}"); err != nil {
		return nil, err
	}
	if bm.salesAmount, err = NewFloatCounter(meter, "erp_sale_amount_total", "Total TTC amount of sales", "TND"); err != nil {
		return nil, err
	}
	if bm.purchasesCreated, err = NewCounter(meter, "erp_purchase_created_total", "Total number of purchases created", "{purchases}"); err != nil {
		return nil, err
	}
	if bm.purchasesAmount, err = NewFloatCounter(meter, "erp_purchase_amount_total", "Total TTC amount of purchases", "TND"); err != nil {
		return nil, err
	}
	if bm.payments, err = NewCounter(meter, "erp_payment_total", "Total number of installments recorded", "{payments}"); err != nil {
		return nil, err
	}
	if bm.paymentsAmount, err = NewFloatCounter(meter, "erp_payment_amount_total", "Total amount of installments recorded", "TND"); err != nil {
		return nil, err
	}
	if bm.stockAlerts, err = NewCounter(meter, "erp_stock_alert_total", "Total number of low-stock alerts raised", "{alerts}"); err != nil {
		return nil, err
	}
	if bm.ocrRequests, err = NewCounter(meter, "erp_ocr_request_total", "Total number of OCR analyses", "{requests}"); err != nil {
		return nil, err
	}
	return &bm, nil
}

// RecordSale counts a created sale and its TTC total
func (bm *BusinessMetrics) RecordSale(ctx context.Context, companyID uuid.UUID, total decimal.Decimal) {
	if bm == nil {
		return
	}
	attr := AttrCompanyID.String(companyID.String())
	bm.salesCreated.Inc(ctx, attr)
	bm.salesAmount.Add(ctx, total.InexactFloat64(), attr)
}

// RecordPurchase counts a created purchase and its TTC total
func (bm *BusinessMetrics) RecordPurchase(ctx context.Context, companyID uuid.UUID, total decimal.Decimal) {
	if bm == nil {
		return
	}
	attr := AttrCompanyID.String(companyID.String())
	bm.purchasesCreated.Inc(ctx, attr)
	bm.purchasesAmount.Add(ctx, total.InexactFloat64(), attr)
}

// RecordPayment counts an installment of the given kind (sale or purchase)
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, companyID uuid.UUID, kind, method string, amount decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrCompanyID.String(companyID.String()),
		AttrPaymentKind.String(kind),
		AttrPaymentMethod.String(method),
	}
	bm.payments.Inc(ctx, attrs...)
	bm.paymentsAmount.Add(ctx, amount.InexactFloat64(), attrs...)
}

// RecordStockAlert counts a low-stock alert
func (bm *BusinessMetrics) RecordStockAlert(ctx context.Context, companyID uuid.UUID) {
	if bm == nil {
		return
	}
	bm.stockAlerts.Inc(ctx, AttrCompanyID.String(companyID.String()))
}

// RecordOCR counts an OCR analysis by outcome (success, error, quota_exceeded)
func (bm *BusinessMetrics) RecordOCR(ctx context.Context, companyID uuid.UUID, result string) {
	if bm == nil {
		return
	}
	bm.ocrRequests.Inc(ctx, AttrCompanyID.String(companyID.String()), AttrOCRResult.String(result))
}
