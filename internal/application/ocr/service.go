package ocr

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/identity"
	domainocr "github.com/tunerp/backend/internal/domain/ocr"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/lock"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"github.com/tunerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var (
	errUnavailable = shared.NewDomainError("OCR_UNAVAILABLE", "Le service OCR n'est pas configuré")
	errUnreadable  = shared.NewDomainError(shared.CodeInvalidInput, "Impossible d'analyser le document")
	errNoImage     = shared.NewDomainError(shared.CodeInvalidInput, "Une image (base64) ou une URL est requise")
)

// AnalyzeRequest carries either an inline image or a public URL
type AnalyzeRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url" binding:"omitempty,url"`
}

// SuggestionResponse is the charge pre-fill proposed to the user
type SuggestionResponse struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	AmountHT    *decimal.Decimal `json:"amount_ht,omitempty"`
	TVA         *int             `json:"tva,omitempty"`
	Date        string           `json:"date,omitempty"`
	Source      string           `json:"source,omitempty"`
	Type        string           `json:"type"`
}

// AnalyzeResponse is the OCR output
type AnalyzeResponse struct {
	RawText      string             `json:"raw_text"`
	Suggestion   SuggestionResponse `json:"suggestion"`
	AttemptsLeft int                `json:"attempts_left"`
}

// StatusResponse describes the monthly quota of a company
type StatusResponse struct {
	AttemptsLeft    int        `json:"attempts_left"`
	Limit           int        `json:"limit"`
	ResetAt         *time.Time `json:"reset_at,omitempty"`
	NextResetInDays int        `json:"next_reset_in_days"`
}

// Service reads charge receipts within each company's monthly quota
type Service struct {
	companyRepo     identity.CompanyRepository
	recognizer      domainocr.Recognizer
	businessMetrics *telemetry.BusinessMetrics
	now             func() time.Time
}

// NewService creates an OCR service. A nil recognizer disables analysis.
func NewService(companyRepo identity.CompanyRepository, recognizer domainocr.Recognizer) *Service {
	return &Service{
		companyRepo: companyRepo,
		recognizer:  recognizer,
		now:         time.Now,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Analyze consumes one attempt then extracts a charge suggestion.
// The attempt stays consumed when the provider fails.
func (s *Service) Analyze(ctx context.Context, companyID uuid.UUID, req AnalyzeRequest) (*AnalyzeResponse, error) {
	if s.recognizer == nil {
		return nil, errUnavailable
	}
	if req.Image == "" && req.URL == "" {
		return nil, errNoImage
	}

	company, err := s.consumeAttempt(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrQuotaExceeded) {
			s.record(ctx, companyID, "quota_exceeded")
		}
		return nil, err
	}

	var text string
	if req.Image != "" {
		text, err = s.recognizer.RecognizeBase64(ctx, req.Image, req.MimeType)
	} else {
		text, err = s.recognizer.RecognizeURL(ctx, req.URL)
	}
	if err != nil {
		s.record(ctx, companyID, "error")
		logger.L(ctx).Error("OCR analysis failed",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, errUnreadable
	}

	analysis := domainocr.ExtractCharge(text)
	s.record(ctx, companyID, "success")
	logger.L(ctx).Info("OCR analysis done",
		zap.String("company_id", companyID.String()),
		zap.Int("attempts_left", company.OCRAttemptsLeft),
		zap.Bool("amount_found", analysis.Suggestion.Amount != nil))

	sug := analysis.Suggestion
	return &AnalyzeResponse{
		RawText: analysis.RawText,
		Suggestion: SuggestionResponse{
			Description: sug.Description,
			Amount:      sug.Amount,
			AmountHT:    sug.AmountHT,
			TVA:         sug.TVA,
			Date:        sug.Date,
			Source:      sug.Source,
			Type:        string(sug.Type),
		},
		AttemptsLeft: company.OCRAttemptsLeft,
	}, nil
}

// consumeAttempt takes one attempt off the company's quota. Two analyses
// started together both read the same counter; the loser of the version
// check reloads the company and consumes again.
func (s *Service) consumeAttempt(ctx context.Context, companyID uuid.UUID) (*identity.Company, error) {
	var company *identity.Company
	err := lock.RetryConflicts(ctx, func(ctx context.Context) error {
		var err error
		if company, err = s.companyRepo.FindByID(ctx, companyID); err != nil {
			return err
		}
		if err := company.ConsumeOCRAttempt(s.now()); err != nil {
			return err
		}
		return s.companyRepo.Save(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) record(ctx context.Context, companyID uuid.UUID, outcome string) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOCR(ctx, companyID, outcome)
	}
}

// Status reports the quota, applying a pending monthly reset first
func (s *Service) Status(ctx context.Context, companyID uuid.UUID) (*StatusResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if company.RefreshOCRQuota(now) {
		if err := s.companyRepo.Save(ctx, company); err != nil {
			return nil, err
		}
	}
	return &StatusResponse{
		AttemptsLeft:    company.OCRAttemptsLeft,
		Limit:           company.OCRLimitPerMonth,
		ResetAt:         company.OCRResetAt,
		NextResetInDays: identity.DaysUntilOCRReset(now),
	}, nil
}
