package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/lock"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Service exposes the stock movement log, manual adjustments and alerts
type Service struct {
	products  catalog.ProductRepository
	movements inventory.StockMovementRepository
	ledger    *Ledger
	locker    lock.Locker
}

// NewService creates a new inventory Service
func NewService(
	products catalog.ProductRepository,
	movements inventory.StockMovementRepository,
	ledger *Ledger,
	locker lock.Locker,
) *Service {
	return &Service{
		products:  products,
		movements: movements,
		ledger:    ledger,
		locker:    locker,
	}
}

// ListMovements returns the newest movements matching filter
func (s *Service) ListMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, error) {
	domainFilter := inventory.MovementFilter{
		Type:      inventory.MovementType(filter.Type),
		ProductID: filter.ProductID,
		Limit:     filter.Limit,
	}
	if filter.From != nil {
		domainFilter.From = *filter.From
	}
	if filter.To != nil {
		domainFilter.To = shared.EndOfDay(*filter.To)
	}

	movements, err := s.movements.FindForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// Adjust sets the counted quantity of a product with an ADJUSTMENT/MANUAL movement
func (s *Service) Adjust(ctx context.Context, tenantID, userID uuid.UUID, req AdjustStockRequest) (*MovementResponse, error) {
	var movement *inventory.StockMovement
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		movement, err = s.ledger.Adjust(ctx, tenantID, Entry{
			ProductID: req.ProductID,
			Quantity:  req.NewQuantity,
			Source:    inventory.MovementSourceManual,
			Notes:     req.Notes,
			CreatedBy: userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Stock adjusted",
		zap.String("product_id", req.ProductID.String()),
		zap.String("before", movement.StockBefore.String()),
		zap.String("after", movement.StockAfter.String()))
	resp := ToMovementResponse(movement)
	return &resp, nil
}

// UpdateStock adds to or subtracts from a product's stock. A subtraction
// larger than the stock on hand is rejected.
func (s *Service) UpdateStock(ctx context.Context, tenantID, userID, productID uuid.UUID, req UpdateStockRequest) (*MovementResponse, error) {
	entry := Entry{
		ProductID: productID,
		Quantity:  req.Quantity,
		Source:    inventory.MovementSourceManual,
		Notes:     req.Notes,
		CreatedBy: userID,
	}

	var movement *inventory.StockMovement
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		var err error
		switch req.Operation {
		case OperationAdd:
			movement, err = s.ledger.Receive(ctx, tenantID, entry)
		case OperationSubtract:
			movement, err = s.ledger.Issue(ctx, tenantID, entry)
		default:
			err = shared.NewDomainError(shared.CodeInvalidInput, "Operation must be add or subtract")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToMovementResponse(movement)
	return &resp, nil
}

// Alerts lists the products at or below their threshold and those out of stock
func (s *Service) Alerts(ctx context.Context, tenantID uuid.UUID) (*AlertsResponse, error) {
	low, err := s.products.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out, err := s.products.FindOutOfStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	onlyLow := make([]catalog.Product, 0, len(low))
	for _, p := range low {
		if !p.IsOutOfStock() {
			onlyLow = append(onlyLow, p)
		}
	}

	return &AlertsResponse{
		LowStock:   toAlertProducts(onlyLow),
		OutOfStock: toAlertProducts(out),
		Total:      len(onlyLow) + len(out),
	}, nil
}
