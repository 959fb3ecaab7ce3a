package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// DefaultPaymentMethod is used when an installment is recorded without a method
const DefaultPaymentMethod = "cash"

// InitialPaymentNote labels the installment recorded at document creation
const InitialPaymentNote = "Paiement initial"

// Installment is one payment recorded against a sale or purchase
type Installment struct {
	ID     uuid.UUID
	Amount decimal.Decimal
	Date   time.Time
	Note   string
	Method string
}

// NewInstallment builds an installment dated now
func NewInstallment(amount decimal.Decimal, note, method string) Installment {
	method = strings.TrimSpace(method)
	if method == "" {
		method = DefaultPaymentMethod
	}
	return Installment{
		ID:     uuid.New(),
		Amount: amount,
		Date:   time.Now(),
		Note:   note,
		Method: method,
	}
}

// SettledDocument is the priced and settled part shared by sales and purchases
type SettledDocument struct {
	Items        []LineItem
	TotalHT      decimal.Decimal
	TotalTVA     decimal.Decimal
	TotalTTC     decimal.Decimal
	AmountPaid   decimal.Decimal
	Remaining    decimal.Decimal
	Status       PaymentStatus
	Installments []Installment
	Notes        string
}

func newSettledDocument(lines []LineInput, initialPayment decimal.Decimal, notes string) (SettledDocument, error) {
	items, totals, err := PriceLines(lines)
	if err != nil {
		return SettledDocument{}, err
	}
	settlement, err := NewSettlement(totals.TTC, initialPayment)
	if err != nil {
		return SettledDocument{}, err
	}

	doc := SettledDocument{
		Items:        items,
		TotalHT:      totals.HT,
		TotalTVA:     totals.TVA,
		TotalTTC:     totals.TTC,
		Installments: []Installment{},
		Notes:        notes,
	}
	doc.setSettlement(settlement)
	if initialPayment.IsPositive() {
		doc.Installments = append(doc.Installments, NewInstallment(initialPayment, InitialPaymentNote, DefaultPaymentMethod))
	}
	return doc, nil
}

// Settlement returns the current settlement state
func (d *SettledDocument) Settlement() Settlement {
	return Settlement{Total: d.TotalTTC, Paid: d.AmountPaid, Remaining: d.Remaining, Status: d.Status}
}

func (d *SettledDocument) setSettlement(s Settlement) {
	d.AmountPaid = s.Paid
	d.Remaining = s.Remaining
	d.Status = s.Status
}

// InitialInstallment returns the installment recorded at creation, if any
func (d *SettledDocument) InitialInstallment() (Installment, bool) {
	if len(d.Installments) > 0 && d.Installments[0].Note == InitialPaymentNote {
		return d.Installments[0], true
	}
	return Installment{}, false
}

// addInstallment applies amount to the settlement and records it
func (d *SettledDocument) addInstallment(amount decimal.Decimal, note, method string) (Installment, error) {
	next, err := d.Settlement().Apply(amount)
	if err != nil {
		return Installment{}, err
	}
	inst := NewInstallment(amount, note, method)
	d.setSettlement(next)
	d.Installments = append(d.Installments, inst)
	return inst, nil
}

// removeInstallment reverts and drops the installment with the given ID
func (d *SettledDocument) removeInstallment(id uuid.UUID) (Installment, error) {
	for i, inst := range d.Installments {
		if inst.ID != id {
			continue
		}
		d.setSettlement(d.Settlement().Revert(inst.Amount))
		d.Installments = append(d.Installments[:i], d.Installments[i+1:]...)
		return inst, nil
	}
	return Installment{}, shared.NewDomainError(shared.CodeNotFound, "Paiement introuvable")
}

// Printable number prefixes
const (
	SaleNumberPrefix     = "FAC"
	PurchaseNumberPrefix = "BA"
	QuoteNumberPrefix    = "DEV"
	DeliveryNumberPrefix = "BL"
)

// DocumentNumber derives a short printable number from a document ID,
// e.g. FAC-1A2B3C4D
func DocumentNumber(prefix string, id uuid.UUID) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
