package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Purchase (achat) is a priced supply from a supplier. Its remaining balance
// is carried as supplier debt.
type Purchase struct {
	shared.TenantAggregateRoot
	SettledDocument
	SupplierID   uuid.UUID
	SupplierName string
}

// NewPurchase prices the lines and opens the settlement with initialPayment
func NewPurchase(tenantID, supplierID uuid.UUID, supplierName string, lines []LineInput, initialPayment decimal.Decimal, notes string) (*Purchase, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}

	doc, err := newSettledDocument(lines, initialPayment, notes)
	if err != nil {
		return nil, err
	}

	return &Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SettledDocument:     doc,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
	}, nil
}

// AddPayment records an installment paid to the supplier
func (p *Purchase) AddPayment(amount decimal.Decimal, note, method string) (Installment, error) {
	inst, err := p.addInstallment(amount, note, method)
	if err != nil {
		return Installment{}, err
	}
	p.touch()
	return inst, nil
}

// RemovePayment cancels an installment
func (p *Purchase) RemovePayment(installmentID uuid.UUID) (Installment, error) {
	inst, err := p.removeInstallment(installmentID)
	if err != nil {
		return Installment{}, err
	}
	p.touch()
	return inst, nil
}

func (p *Purchase) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Number is the printable purchase voucher number
func (p *Purchase) Number() string {
	return DocumentNumber(PurchaseNumberPrefix, p.ID)
}
