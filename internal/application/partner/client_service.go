package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const recentSalesLimit = 5

// ClientService handles client business operations
type ClientService struct {
	clientRepo partner.ClientRepository
	saleRepo   trade.SaleRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, saleRepo trade.SaleRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		saleRepo:   saleRepo,
	}
}

// Create creates a new client. The phone number must be unused in the company.
func (s *ClientService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(tenantID, partner.ClientDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Sector:  req.Sector,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		return nil, err
	}
	client.SetCreatedBy(userID)

	if req.CreditLimit != nil {
		if err := client.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.checkPhone(ctx, tenantID, client.Phone, nil); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Client created", zap.String("client_id", client.ID.String()))
	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter ClientListFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Sector != "" {
		domainFilter.Filters[partner.FilterSector] = filter.Sector
	}
	if filter.IsActive != nil {
		domainFilter.Filters[partner.FilterIsActive] = *filter.IsActive
	}

	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToClientResponses(clients), total, nil
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, tenantID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	details := partner.ClientDetails{
		Name:    client.Name,
		Phone:   client.Phone,
		Email:   client.Email,
		Sector:  client.Sector,
		Address: client.Address,
		Notes:   client.Notes,
	}
	if req.Name != nil {
		details.Name = *req.Name
	}
	if req.Phone != nil {
		details.Phone = *req.Phone
	}
	if req.Email != nil {
		details.Email = *req.Email
	}
	if req.Sector != nil {
		details.Sector = *req.Sector
	}
	if req.Address != nil {
		details.Address = *req.Address
	}
	if req.Notes != nil {
		details.Notes = *req.Notes
	}

	previousPhone := client.Phone
	if err := client.Update(details); err != nil {
		return nil, err
	}
	if client.Phone != previousPhone {
		if err := s.checkPhone(ctx, tenantID, client.Phone, &client.ID); err != nil {
			return nil, err
		}
	}

	if req.CreditLimit != nil {
		if err := client.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		client.SetActive(*req.IsActive)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// Delete deletes a client
func (s *ClientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	return s.clientRepo.DeleteForTenant(ctx, tenantID, clientID)
}

// UpdateCredit moves the used credit by delta; the result never drops below zero
func (s *ClientService) UpdateCredit(ctx context.Context, tenantID, clientID uuid.UUID, req UpdateBalanceRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	client.UpdateCredit(req.Delta)
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// Stats aggregates the client's sales: revenue, paid, outstanding and the
// latest sales
func (s *ClientService) Stats(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientStatsResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	totals, err := s.saleRepo.TotalsByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	recent, err := s.saleRepo.FindByClient(ctx, tenantID, clientID, recentSalesLimit)
	if err != nil {
		return nil, err
	}

	return &ClientStatsResponse{
		Client:          ToClientResponse(client),
		CreditAvailable: client.CreditAvailable(),
		TotalRevenue:    totals.TotalTTC,
		TotalPaid:       totals.TotalPaid,
		TotalCredit:     totals.Remaining,
		SalesCount:      totals.Count,
		RecentSales:     toRecentSales(recent),
	}, nil
}

func (s *ClientService) checkPhone(ctx context.Context, tenantID uuid.UUID, phone string, excludeID *uuid.UUID) error {
	exists, err := s.clientRepo.ExistsByPhone(ctx, tenantID, phone, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return partner.ErrPhoneTaken
	}
	return nil
}
