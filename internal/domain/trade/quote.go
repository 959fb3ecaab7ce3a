package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// QuoteStatus represents the status of a quote (devis)
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// IsValid returns true if the status is known
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent || target == QuoteStatusAccepted ||
			target == QuoteStatusRejected || target == QuoteStatusExpired
	case QuoteStatusSent:
		return target == QuoteStatusAccepted || target == QuoteStatusRejected || target == QuoteStatusExpired
	case QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return false
	}
	return false
}

// Quote is a priced offer to a client or a prospect. ClientID is nil for prospects.
type Quote struct {
	shared.TenantAggregateRoot
	ClientID        *uuid.UUID
	ClientName      string
	Phone           string
	Email           string
	Items           []LineItem
	TotalHT         decimal.Decimal
	TotalTVA        decimal.Decimal
	TotalTTC        decimal.Decimal
	Status          QuoteStatus
	ValidUntil      *time.Time
	Notes           string
	ConvertedSaleID *uuid.UUID
}

// QuoteDetails carries the editable part of a quote
type QuoteDetails struct {
	ClientID   *uuid.UUID
	ClientName string
	Phone      string
	Email      string
	Lines      []LineInput
	ValidUntil *time.Time
	Notes      string
}

// NewQuote creates a draft quote
func NewQuote(tenantID uuid.UUID, details QuoteDetails) (*Quote, error) {
	q := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              QuoteStatusDraft,
	}
	if err := q.apply(details); err != nil {
		return nil, err
	}
	return q, nil
}

// Update replaces the quote content. Only draft and sent quotes can change.
func (q *Quote) Update(details QuoteDetails) error {
	if q.Status != QuoteStatusDraft && q.Status != QuoteStatusSent {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot modify quote in %s status", q.Status))
	}
	if err := q.apply(details); err != nil {
		return err
	}
	q.touch()
	return nil
}

func (q *Quote) apply(details QuoteDetails) error {
	if strings.TrimSpace(details.ClientName) == "" {
		return shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	items, totals, err := PriceLines(details.Lines)
	if err != nil {
		return err
	}
	if details.ClientID != nil && *details.ClientID == uuid.Nil {
		details.ClientID = nil
	}
	q.ClientID = details.ClientID
	q.ClientName = strings.TrimSpace(details.ClientName)
	q.Phone = details.Phone
	q.Email = details.Email
	q.Items = items
	q.TotalHT = totals.HT
	q.TotalTVA = totals.TVA
	q.TotalTTC = totals.TTC
	q.ValidUntil = details.ValidUntil
	q.Notes = details.Notes
	return nil
}

// ChangeStatus moves the quote along its lifecycle
func (q *Quote) ChangeStatus(target QuoteStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid quote status: "+string(target))
	}
	if q.Status == target {
		return nil
	}
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot change quote from %s to %s", q.Status, target))
	}
	q.Status = target
	q.touch()
	return nil
}

// IsExpiredAt reports whether the validity date has passed
func (q *Quote) IsExpiredAt(now time.Time) bool {
	return q.ValidUntil != nil && now.After(shared.EndOfDay(*q.ValidUntil))
}

// CheckConvertible returns an error when the quote cannot become a sale
func (q *Quote) CheckConvertible(now time.Time) error {
	if q.ConvertedSaleID != nil {
		return shared.NewDomainError(shared.CodeInvalidState, "Quote has already been converted")
	}
	if q.Status == QuoteStatusRejected || q.Status == QuoteStatusExpired || q.IsExpiredAt(now) {
		return shared.NewDomainError(shared.CodeInvalidState, "Ce devis ne peut pas être converti")
	}
	if q.ClientID == nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Le devis doit être associé à un client existant")
	}
	return nil
}

// SaleLines returns the quote lines as sale input
func (q *Quote) SaleLines() []LineInput {
	lines := make([]LineInput, 0, len(q.Items))
	for _, item := range q.Items {
		lines = append(lines, LineInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TVA:         item.TVA,
		})
	}
	return lines
}

// MarkConverted accepts the quote and links the sale created from it
func (q *Quote) MarkConverted(saleID uuid.UUID) {
	q.Status = QuoteStatusAccepted
	q.ConvertedSaleID = &saleID
	q.touch()
}

func (q *Quote) touch() {
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}
