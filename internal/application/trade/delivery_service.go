package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
)

// DeliveryService handles delivery notes (bons de livraison)
type DeliveryService struct {
	deliveryRepo trade.DeliveryRepository
	now          func() time.Time
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(deliveryRepo trade.DeliveryRepository) *DeliveryService {
	return &DeliveryService{deliveryRepo: deliveryRepo, now: time.Now}
}

// Create creates a pending delivery
func (s *DeliveryService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateDeliveryRequest) (*DeliveryResponse, error) {
	items := make([]trade.DeliveryItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = trade.DeliveryItem{ProductName: item.ProductName, Quantity: item.Quantity}
	}
	delivery, err := trade.NewDelivery(tenantID, req.SaleID, req.ClientName, req.Phone, req.Address, items, req.Notes)
	if err != nil {
		return nil, err
	}
	delivery.SetCreatedBy(userID)
	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// GetByID retrieves a delivery by ID
func (s *DeliveryService) GetByID(ctx context.Context, tenantID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByIDForTenant(ctx, tenantID, deliveryID)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// List retrieves deliveries, newest first
func (s *DeliveryService) List(ctx context.Context, tenantID uuid.UUID, filter DeliveryListFilter) ([]DeliveryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters[trade.FilterStatus] = filter.Status
	}
	if filter.SaleID != nil {
		domainFilter.Filters[trade.FilterSaleID] = *filter.SaleID
	}

	deliveries, err := s.deliveryRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.deliveryRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToDeliveryResponses(deliveries), total, nil
}

// MarkDelivered closes a pending delivery
func (s *DeliveryService) MarkDelivered(ctx context.Context, tenantID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	return s.transition(ctx, tenantID, deliveryID, func(d *trade.Delivery) error {
		return d.MarkDelivered(s.now())
	})
}

// Cancel cancels a pending delivery
func (s *DeliveryService) Cancel(ctx context.Context, tenantID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	return s.transition(ctx, tenantID, deliveryID, func(d *trade.Delivery) error {
		return d.Cancel()
	})
}

func (s *DeliveryService) transition(ctx context.Context, tenantID, deliveryID uuid.UUID, change func(*trade.Delivery) error) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByIDForTenant(ctx, tenantID, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := change(delivery); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// Delete deletes a delivery
func (s *DeliveryService) Delete(ctx context.Context, tenantID, deliveryID uuid.UUID) error {
	return s.deliveryRepo.DeleteForTenant(ctx, tenantID, deliveryID)
}
