package notification

import (
	"context"
	"fmt"

	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/notification"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StockAlertHandler turns product stock alerts into low_stock notifications
type StockAlertHandler struct {
	repo            notification.Repository
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewStockAlertHandler creates a new handler for stock alert events
func NewStockAlertHandler(repo notification.Repository, logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{repo: repo, logger: logger}
}

// SetBusinessMetrics sets the business metrics collector
func (h *StockAlertHandler) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	h.businessMetrics = bm
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockAlert}
}

// Handle creates the notification. Failures are logged and swallowed so a
// missing notification never fails the document that lowered the stock.
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*catalog.StockAlertEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeStockAlert, event.EventType())
	}

	title, message := alertText(alert)
	n, err := notification.New(event.CompanyID(), title, message, notification.TypeLowStock, notification.ProductsLink)
	if err != nil {
		return err
	}
	if err := h.repo.Create(ctx, n); err != nil {
		h.logger.Error("failed to create stock notification",
			zap.String("product_id", alert.ProductID.String()),
			zap.String("level", string(alert.Level)),
			zap.Error(err))
		return nil
	}

	if h.businessMetrics != nil {
		h.businessMetrics.RecordStockAlert(ctx, event.CompanyID())
	}
	h.logger.Info("stock alert notification created",
		zap.String("product_id", alert.ProductID.String()),
		zap.String("level", string(alert.Level)),
		zap.String("quantity", alert.Quantity.String()))
	return nil
}

func alertText(alert *catalog.StockAlertEvent) (string, string) {
	if alert.Level == catalog.StockLevelOut {
		return "🚨 Rupture de stock",
			fmt.Sprintf("Le produit \"%s\" est en rupture de stock (stock = %s).", alert.ProductName, alert.Quantity.String())
	}
	return "⚠️ Stock faible",
		fmt.Sprintf("Le produit \"%s\" est proche du seuil minimal (%s/%s).",
			alert.ProductName, alert.Quantity.String(), alert.Threshold.String())
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
