package trade

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/shared/valueobject"
)

// PaymentStatus is the tri-state settlement status of a document
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid returns true if the status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// Settlement tracks what has been paid against a document total.
// Paid + Remaining == Total within valueobject.PaymentTolerance.
type Settlement struct {
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Status    PaymentStatus
}

// NewSettlement opens a settlement with an optional initial payment
func NewSettlement(total, initialPayment decimal.Decimal) (Settlement, error) {
	if initialPayment.IsNegative() {
		return Settlement{}, shared.NewDomainError(shared.CodeInvalidInput, "Initial payment cannot be negative")
	}
	if valueobject.ExceedsBy(initialPayment, total) {
		return Settlement{}, exceedsError(initialPayment, total)
	}

	s := Settlement{
		Total:     total,
		Paid:      initialPayment,
		Remaining: valueobject.Max(total.Sub(initialPayment), decimal.Zero),
	}
	switch {
	case initialPayment.GreaterThanOrEqual(total):
		s.Status = PaymentStatusPaid
	case initialPayment.IsPositive():
		s.Status = PaymentStatusPartial
	default:
		s.Status = PaymentStatusPending
	}
	return s, nil
}

// Apply records a payment of amount and returns the new settlement
func (s Settlement) Apply(amount decimal.Decimal) (Settlement, error) {
	if !amount.IsPositive() {
		return s, shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be positive")
	}
	if valueobject.ExceedsBy(amount, s.Remaining) {
		return s, exceedsError(amount, s.Remaining)
	}

	next := s
	next.Paid = s.Paid.Add(amount)
	next.Remaining = valueobject.Max(s.Total.Sub(next.Paid), decimal.Zero)
	switch {
	case !next.Remaining.IsPositive():
		next.Status = PaymentStatusPaid
	case next.Paid.IsPositive():
		next.Status = PaymentStatusPartial
	default:
		next.Status = PaymentStatusPending
	}
	return next, nil
}

// Revert cancels a previously applied payment of amount
func (s Settlement) Revert(amount decimal.Decimal) Settlement {
	next := s
	next.Paid = s.Paid.Sub(amount)
	next.Remaining = s.Total.Sub(next.Paid)
	switch {
	case !next.Paid.IsPositive():
		next.Status = PaymentStatusPending
	case !next.Remaining.IsPositive():
		next.Status = PaymentStatusPaid
	default:
		next.Status = PaymentStatusPartial
	}
	return next
}

func exceedsError(amount, remaining decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError(shared.CodePaymentExceedsBalance,
		fmt.Sprintf("Le montant (%s) dépasse le reste à payer (%s)", amount.StringFixed(valueobject.Scale), remaining.StringFixed(valueobject.Scale)))
}
