package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// DeliveryStatus represents the status of a delivery (bon de livraison)
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// DeliveryItem is a product and quantity to deliver
type DeliveryItem struct {
	ProductName string
	Quantity    decimal.Decimal
}

// Delivery tracks shipping goods to a client
type Delivery struct {
	shared.TenantAggregateRoot
	SaleID      *uuid.UUID
	ClientName  string
	Phone       string
	Address     string
	Items       []DeliveryItem
	Status      DeliveryStatus
	DeliveredAt *time.Time
	Notes       string
}

// NewDelivery creates a pending delivery
func NewDelivery(tenantID uuid.UUID, saleID *uuid.UUID, clientName, phone, address string, items []DeliveryItem, notes string) (*Delivery, error) {
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if strings.TrimSpace(address) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery address cannot be empty")
	}
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("item %d: quantity must be positive", i+1))
		}
	}
	if saleID != nil && *saleID == uuid.Nil {
		saleID = nil
	}
	return &Delivery{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		ClientName:          strings.TrimSpace(clientName),
		Phone:               phone,
		Address:             address,
		Items:               items,
		Status:              DeliveryStatusPending,
		Notes:               notes,
	}, nil
}

// MarkDelivered closes a pending delivery
func (d *Delivery) MarkDelivered(at time.Time) error {
	if d.Status != DeliveryStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot deliver in %s status", d.Status))
	}
	d.Status = DeliveryStatusDelivered
	d.DeliveredAt = &at
	d.touch()
	return nil
}

// Cancel cancels a pending delivery
func (d *Delivery) Cancel() error {
	if d.Status != DeliveryStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot cancel delivery in %s status", d.Status))
	}
	d.Status = DeliveryStatusCancelled
	d.touch()
	return nil
}

func (d *Delivery) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
