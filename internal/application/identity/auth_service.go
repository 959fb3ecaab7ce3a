package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Email ou mot de passe incorrect")
	errAccountDisabled    = shared.NewDomainError(shared.CodeUnauthorized, "Compte désactivé")
	errCompanySuspended   = shared.NewDomainError(shared.CodeUnauthorized, "Entreprise suspendue. Contactez le support.")
	errSessionExpired     = shared.NewDomainError(shared.CodeUnauthorized, "Session expirée, veuillez vous reconnecter")
)

// AuthService handles login, token refresh, logout and password changes
type AuthService struct {
	userRepo    identity.UserRepository
	companyRepo identity.CompanyRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationStore
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	companyRepo identity.CompanyRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
	}
}

// Login authenticates a user by email and password and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := identity.NormalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}

	company, err := s.checkAccess(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return loginResponse(pair, user, company), nil
}

// Refresh exchanges a refresh token for a new token pair. The presented
// refresh token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, errSessionExpired
	}

	revoked, err := s.isRevoked(ctx, claims)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errSessionExpired
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, errSessionExpired
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errSessionExpired
		}
		return nil, err
	}

	company, err := s.checkAccess(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.revocations.RevokeToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return loginResponse(pair, user, company), nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if err := s.revocations.RevokeToken(ctx, access.ID, access.RemainingTTL()); err != nil {
		return err
	}
	if refreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil && claims.UserID == access.UserID {
			if err := s.revocations.RevokeToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				s.logger.Error("Failed to revoke refresh token", zap.String("user_id", access.UserID), zap.Error(err))
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", access.UserID))
	return nil
}

// ChangePassword replaces the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// IsRevoked reports whether a validated token was revoked by logout,
// refresh rotation, a password reset or a deactivation
func (s *AuthService) IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	return s.isRevoked(ctx, claims)
}

func (s *AuthService) isRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	return s.revocations.Revoked(ctx, claims.ID, claims.UserID, claims.IssuedAtTime())
}

// checkAccess rejects disabled users and users of a suspended company.
// It returns the user's company, nil for the system administrator.
func (s *AuthService) checkAccess(ctx context.Context, user *identity.User) (*identity.Company, error) {
	if !user.IsActive {
		return nil, errAccountDisabled
	}
	if user.CompanyID == nil {
		return nil, nil
	}
	company, err := s.companyRepo.FindByID(ctx, *user.CompanyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errCompanySuspended
		}
		return nil, err
	}
	if !company.IsActive {
		return nil, errCompanySuspended
	}
	return company, nil
}

func (s *AuthService) issueTokens(user *identity.User) (*auth.TokenPair, error) {
	pair, err := s.jwtService.Issue(auth.Identity{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Email:     user.Email,
		Role:      string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return pair, nil
}

func loginResponse(pair *auth.TokenPair, user *identity.User, company *identity.Company) *LoginResponse {
	resp := &LoginResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}
	if company != nil {
		resp.Company = &CompanySummary{
			ID:              company.ID,
			Name:            company.Name,
			PrimaryColor:    company.PrimaryColor,
			LogoURL:         company.LogoURL,
			OCRAttemptsLeft: company.OCRAttemptsLeft,
		}
	}
	return resp
}
