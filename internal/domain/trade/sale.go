package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSale     = "Sale"
	AggregateTypePurchase = "Purchase"
)

// Sale (vente) is a priced sale to a client, settled in one or more installments
type Sale struct {
	shared.TenantAggregateRoot
	SettledDocument
	ClientID   uuid.UUID
	ClientName string
}

// NewSale prices the lines and opens the settlement with initialPayment
func NewSale(tenantID, clientID uuid.UUID, clientName string, lines []LineInput, initialPayment decimal.Decimal, notes string) (*Sale, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}

	doc, err := newSettledDocument(lines, initialPayment, notes)
	if err != nil {
		return nil, err
	}

	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SettledDocument:     doc,
		ClientID:            clientID,
		ClientName:          clientName,
	}, nil
}

// AddPayment records an installment against the remaining balance
func (s *Sale) AddPayment(amount decimal.Decimal, note, method string) (Installment, error) {
	inst, err := s.addInstallment(amount, note, method)
	if err != nil {
		return Installment{}, err
	}
	s.touch()
	return inst, nil
}

// RemovePayment cancels an installment
func (s *Sale) RemovePayment(installmentID uuid.UUID) (Installment, error) {
	inst, err := s.removeInstallment(installmentID)
	if err != nil {
		return Installment{}, err
	}
	s.touch()
	return inst, nil
}

func (s *Sale) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Number is the printable invoice number
func (s *Sale) Number() string {
	return DocumentNumber(SaleNumberPrefix, s.ID)
}
