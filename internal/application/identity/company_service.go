package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"github.com/tunerp/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

const logoFolder = "logo"

var logoContentTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// CompanyService manages the caller's company and, for the system
// administrator, every company on the platform
type CompanyService struct {
	companyRepo identity.CompanyRepository
	userRepo    identity.UserRepository
	users       *UserService
	storage     storage.ObjectStorage
	now         func() time.Time
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo identity.CompanyRepository,
	userRepo identity.UserRepository,
	users *UserService,
	objectStorage storage.ObjectStorage,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		users:       users,
		storage:     objectStorage,
		now:         time.Now,
	}
}

// Get returns a company
func (s *CompanyService) Get(ctx context.Context, companyID uuid.UUID) (*CompanyResponse, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// Update replaces the company profile
func (s *CompanyService) Update(ctx context.Context, companyID uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := company.UpdateProfile(req.toProfile()); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// UploadLogo stores the company logo shown on printed documents
func (s *CompanyService) UploadLogo(ctx context.Context, companyID uuid.UUID, upload LogoUpload) (*CompanyResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if !logoContentTypes[contentType] {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Format de logo non supporté: "+upload.ContentType)
	}
	if len(upload.Data) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Logo vide")
	}

	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey(companyID, logoFolder, upload.Filename)
	url, err := s.storage.Put(ctx, key, upload.Data, contentType)
	if err != nil {
		logger.L(ctx).Error("Failed to store logo", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}
	company.SetLogo(url)
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// =============================================================================
// System administration
// =============================================================================

// CreateWithAdmin creates a company and its first administrator with a temporary password
func (s *CompanyService) CreateWithAdmin(ctx context.Context, req CreateCompanyRequest) (*CompanyCreatedResponse, error) {
	if err := s.users.ensureEmailFree(ctx, req.AdminEmail, nil); err != nil {
		return nil, err
	}

	company, err := identity.NewCompany(req.toProfile(), req.OCRLimit)
	if err != nil {
		return nil, err
	}

	adminName := strings.TrimSpace(req.AdminName)
	if adminName == "" {
		adminName = "Admin " + company.Name
	}
	admin, temp, err := identity.NewUserWithTempPassword(&company.ID, adminName, req.AdminEmail, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if company.Phone != "" {
		if err := admin.UpdateProfile(admin.Name, company.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("admin_id", admin.ID.String()))

	return &CompanyCreatedResponse{
		Company:      ToCompanyResponse(company),
		Admin:        ToUserResponse(admin),
		TempPassword: temp,
	}, nil
}

// List returns companies, newest first
func (s *CompanyService) List(ctx context.Context, filter CompanyListFilter) ([]CompanyResponse, int64, error) {
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
	if filter.IsActive != nil {
		domainFilter.Filters[identity.FilterIsActive] = *filter.IsActive
	}

	companies, err := s.companyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.companyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCompanyResponses(companies), total, nil
}

// Detail returns a company with its users
func (s *CompanyService) Detail(ctx context.Context, companyID uuid.UUID) (*CompanyDetailResponse, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &CompanyDetailResponse{
		CompanyResponse: ToCompanyResponse(company),
		Users:           ToUserResponses(users),
	}, nil
}

// Suspend disables a company and ends the sessions of its users
func (s *CompanyService) Suspend(ctx context.Context, companyID uuid.UUID) (*CompanyResponse, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	company.Suspend()
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindByCompany(ctx, companyID)
	if err != nil {
		logger.L(ctx).Error("Failed to load users of suspended company", zap.String("company_id", companyID.String()), zap.Error(err))
	}
	for i := range users {
		s.users.revokeSessions(ctx, users[i].ID)
	}

	logger.L(ctx).Info("Company suspended", zap.String("company_id", companyID.String()))
	response := ToCompanyResponse(company)
	return &response, nil
}

// Reactivate re-enables a suspended company
func (s *CompanyService) Reactivate(ctx context.Context, companyID uuid.UUID) (*CompanyResponse, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	company.Reactivate()
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Company reactivated", zap.String("company_id", companyID.String()))
	response := ToCompanyResponse(company)
	return &response, nil
}

// SetOCRLimit changes the monthly OCR quota
func (s *CompanyService) SetOCRLimit(ctx context.Context, companyID uuid.UUID, req OCRLimitRequest) (*CompanyResponse, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := company.SetOCRLimit(req.Limit); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// ResetOCR restores the full monthly OCR quota
func (s *CompanyService) ResetOCR(ctx context.Context, companyID uuid.UUID) (*CompanyResponse, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	company.ResetOCR(s.now())
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// ToggleUser enables or disables any company user
func (s *CompanyService) ToggleUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsSystemAdmin() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Impossible de modifier un administrateur système")
	}
	user.SetActive(!user.IsActive)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if !user.IsActive {
		s.users.revokeSessions(ctx, user.ID)
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ResetUserPassword gives any company user a new temporary password
func (s *CompanyService) ResetUserPassword(ctx context.Context, userID uuid.UUID) (*TempPasswordResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsSystemAdmin() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Impossible de modifier un administrateur système")
	}
	return s.users.resetPassword(ctx, user)
}

// BootstrapSystemAdmin creates the platform administrator if the email is not taken yet.
// It reports whether an account was created.
func (s *CompanyService) BootstrapSystemAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	_, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}

	admin, err := identity.NewUser(nil, name, email, password, identity.RoleSystemAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return false, err
	}
	logger.L(ctx).Info("System administrator created", zap.String("user_id", admin.ID.String()))
	return true, nil
}

func (s *CompanyService) find(ctx context.Context, companyID uuid.UUID) (*identity.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Entreprise introuvable")
		}
		return nil, err
	}
	return company, nil
}
