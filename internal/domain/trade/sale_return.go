package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// ReturnStatus represents the status of a sale return
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRefunded ReturnStatus = "refunded"
	ReturnStatusRejected ReturnStatus = "rejected"
)

// IsValid returns true if the status is known
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRefunded, ReturnStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusPending:
		return target == ReturnStatusApproved || target == ReturnStatusRejected
	case ReturnStatusApproved:
		return target == ReturnStatusRefunded
	}
	return false
}

// SaleReturn records goods brought back by a client
type SaleReturn struct {
	shared.TenantAggregateRoot
	SaleID      uuid.UUID
	ClientID    *uuid.UUID
	ClientName  string
	Reason      string
	Items       []LineItem
	TotalRefund decimal.Decimal
	Status      ReturnStatus
}

// NewSaleReturn prices the returned lines; TotalRefund is the sum of their TTC
func NewSaleReturn(tenantID, saleID uuid.UUID, clientID *uuid.UUID, clientName, reason string, lines []LineInput) (*SaleReturn, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Return reason cannot be empty")
	}
	items, totals, err := PriceLines(lines)
	if err != nil {
		return nil, err
	}
	return &SaleReturn{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		ClientID:            clientID,
		ClientName:          clientName,
		Reason:              reason,
		Items:               items,
		TotalRefund:         totals.TTC,
		Status:              ReturnStatusPending,
	}, nil
}

// ChangeStatus moves the return along its lifecycle. It reports whether the
// returned goods must go back into stock.
func (r *SaleReturn) ChangeStatus(target ReturnStatus) (restock bool, err error) {
	if !target.IsValid() {
		return false, shared.NewDomainError(shared.CodeInvalidInput, "Invalid return status: "+string(target))
	}
	if !r.Status.CanTransitionTo(target) {
		return false, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot change return from %s to %s", r.Status, target))
	}
	r.Status = target
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return target == ReturnStatusApproved, nil
}
