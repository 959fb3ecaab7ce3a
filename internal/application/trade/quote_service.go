package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/tunerp/backend/internal/infrastructure/lock"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// QuoteService handles quotes (devis) and their conversion into sales
type QuoteService struct {
	quoteRepo trade.QuoteRepository
	sales     *SaleService
	now       func() time.Time
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo trade.QuoteRepository, sales *SaleService) *QuoteService {
	return &QuoteService{
		quoteRepo: quoteRepo,
		sales:     sales,
		now:       time.Now,
	}
}

// Create creates a draft quote
func (s *QuoteService) Create(ctx context.Context, tenantID, userID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	quote, err := trade.NewQuote(tenantID, toQuoteDetails(req))
	if err != nil {
		return nil, err
	}
	quote.SetCreatedBy(userID)
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, tenantID uuid.UUID, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters[trade.FilterStatus] = filter.Status
	}
	if filter.ClientID != nil {
		domainFilter.Filters[trade.FilterClientID] = *filter.ClientID
	}

	quotes, err := s.quoteRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quoteRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToQuoteResponses(quotes), total, nil
}

// withQuote loads a quote and runs fn under the company key, the key quote
// conversion holds, so edits and conversions never interleave
func (s *QuoteService) withQuote(ctx context.Context, tenantID, quoteID uuid.UUID, fn func(ctx context.Context, quote *trade.Quote) error) error {
	return s.sales.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}
		return fn(ctx, quote)
	})
}

// Update replaces the content of a draft or sent quote
func (s *QuoteService) Update(ctx context.Context, tenantID, quoteID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	var response QuoteResponse
	err := s.withQuote(ctx, tenantID, quoteID, func(ctx context.Context, quote *trade.Quote) error {
		if err := quote.Update(toQuoteDetails(req)); err != nil {
			return err
		}
		if err := s.quoteRepo.Save(ctx, quote); err != nil {
			return err
		}
		response = ToQuoteResponse(quote)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateStatus moves a quote along its lifecycle
func (s *QuoteService) UpdateStatus(ctx context.Context, tenantID, quoteID uuid.UUID, req UpdateQuoteStatusRequest) (*QuoteResponse, error) {
	var response QuoteResponse
	err := s.withQuote(ctx, tenantID, quoteID, func(ctx context.Context, quote *trade.Quote) error {
		if err := quote.ChangeStatus(trade.QuoteStatus(req.Status)); err != nil {
			return err
		}
		if err := s.quoteRepo.Save(ctx, quote); err != nil {
			return err
		}
		response = ToQuoteResponse(quote)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete deletes a quote
func (s *QuoteService) Delete(ctx context.Context, tenantID, quoteID uuid.UUID) error {
	return s.sales.locker.WithLock(ctx, lock.CompanyKey(tenantID), func(ctx context.Context) error {
		return s.quoteRepo.DeleteForTenant(ctx, tenantID, quoteID)
	})
}

// Convert turns the quote into a sale through the regular sale flow, then
// marks the quote accepted and links the sale. The quote is read and checked
// under the same company key as the sale, so a quote converts at most once.
func (s *QuoteService) Convert(ctx context.Context, tenantID, userID, quoteID uuid.UUID, req ConvertQuoteRequest) (*ConvertQuoteResponse, error) {
	var (
		quote *trade.Quote
		sale  *trade.Sale
	)
	err := s.withQuote(ctx, tenantID, quoteID, func(ctx context.Context, q *trade.Quote) error {
		quote = q
		if err := quote.CheckConvertible(s.now()); err != nil {
			return err
		}

		var err error
		sale, err = s.sales.placeLocked(ctx, tenantID, userID, saleInput{
			ClientID:       *quote.ClientID,
			Lines:          quote.SaleLines(),
			InitialPayment: orZero(req.InitialPayment),
			PaymentMethod:  req.PaymentMethod,
			Notes:          quote.Notes,
		})
		if err != nil {
			return err
		}

		quote.MarkConverted(sale.ID)
		if err := s.quoteRepo.Save(ctx, quote); err != nil {
			logger.L(ctx).Error("Failed to mark quote converted",
				zap.String("quote_id", quote.ID.String()),
				zap.String("sale_id", sale.ID.String()),
				zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.sales.placed(ctx, sale)

	logger.L(ctx).Info("Quote converted to sale",
		zap.String("quote_id", quote.ID.String()),
		zap.String("sale_id", sale.ID.String()))
	return &ConvertQuoteResponse{
		Quote: ToQuoteResponse(quote),
		Sale:  ToSaleResponse(sale),
	}, nil
}

func toQuoteDetails(req QuoteRequest) trade.QuoteDetails {
	return trade.QuoteDetails{
		ClientID:   req.ClientID,
		ClientName: req.ClientName,
		Phone:      req.Phone,
		Email:      req.Email,
		Lines:      toLineInputs(req.Items),
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
	}
}
