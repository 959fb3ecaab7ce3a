package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appinventory "github.com/tunerp/backend/internal/application/inventory"
	"github.com/tunerp/backend/internal/domain/inventory"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/lock"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ReturnService handles goods brought back by clients
type ReturnService struct {
	returnRepo trade.SaleReturnRepository
	saleRepo   trade.SaleRepository
	ledger     *appinventory.Ledger
	locker     lock.Locker
}

// NewReturnService creates a new ReturnService
func NewReturnService(returnRepo trade.SaleReturnRepository, saleRepo trade.SaleRepository, ledger *appinventory.Ledger, locker lock.Locker) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		saleRepo:   saleRepo,
		ledger:     ledger,
		locker:     locker,
	}
}

// Create records a pending return against a sale
func (s *ReturnService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, req.SaleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Vente introuvable")
		}
		return nil, err
	}

	lines := toLineInputs(req.Items)
	for i := range lines {
		if lines[i].ProductName != "" {
			continue
		}
		for _, item := range sale.Items {
			if item.ProductID == lines[i].ProductID {
				lines[i].ProductName = item.ProductName
				break
			}
		}
	}

	ret, err := trade.NewSaleReturn(tenantID, sale.ID, &sale.ClientID, sale.ClientName, req.Reason, lines)
	if err != nil {
		return nil, err
	}
	ret.SetCreatedBy(userID)
	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Sale return created",
		zap.String("return_id", ret.ID.String()),
		zap.String("sale_id", sale.ID.String()))
	response := ToReturnResponse(ret)
	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, tenantID, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

// List retrieves returns, newest first
func (s *ReturnService) List(ctx context.Context, tenantID uuid.UUID, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
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

	returns, err := s.returnRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.returnRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReturnResponses(returns), total, nil
}

// UpdateStatus moves the return along its lifecycle. Approval puts the
// returned quantities back into stock.
func (s *ReturnService) UpdateStatus(ctx context.Context, tenantID, userID, returnID uuid.UUID, req UpdateReturnStatusRequest) (*ReturnResponse, error) {
	var ret *trade.SaleReturn
	err := s.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		found, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		ret = found

		restock, err := ret.ChangeStatus(trade.ReturnStatus(req.Status))
		if err != nil {
			return err
		}
		if err := s.returnRepo.Save(ctx, ret); err != nil {
			return err
		}
		if restock {
			s.restock(ctx, ret, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

func (s *ReturnService) restock(ctx context.Context, ret *trade.SaleReturn, userID uuid.UUID) {
	note := "Retour client " + ret.ClientName
	for _, item := range ret.Items {
		_, err := s.ledger.Receive(ctx, ret.TenantID, appinventory.Entry{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Source:      inventory.MovementSourceReturn,
			ReferenceID: &ret.ID,
			Notes:       note,
			CreatedBy:   userID,
		})
		if err != nil {
			logger.L(ctx).Error("Failed to restock returned goods",
				zap.String("return_id", ret.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
		}
	}
}

// Delete deletes a return
func (s *ReturnService) Delete(ctx context.Context, tenantID, returnID uuid.UUID) error {
	return s.returnRepo.DeleteForTenant(ctx, tenantID, returnID)
}
