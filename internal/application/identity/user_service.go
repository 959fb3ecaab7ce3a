package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/auth"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errEmailTaken = shared.NewDomainError(shared.CodeAlreadyExists, "Email déjà utilisé")

// UserService manages the users of a company and the caller's own profile
type UserService struct {
	userRepo    identity.UserRepository
	revocations auth.RevocationStore
	tokenTTL    time.Duration
}

// NewUserService creates a new UserService. tokenTTL is the longest token
// lifetime; revocations are kept that long.
func NewUserService(userRepo identity.UserRepository, revocations auth.RevocationStore, tokenTTL time.Duration) *UserService {
	return &UserService{userRepo: userRepo, revocations: revocations, tokenTTL: tokenTTL}
}

// List returns the users of the company
func (s *UserService) List(ctx context.Context, companyID uuid.UUID) ([]UserResponse, error) {
	users, err := s.userRepo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// Create adds a user with a temporary password to the company
func (s *UserService) Create(ctx context.Context, companyID uuid.UUID, req CreateUserRequest) (*TempPasswordResponse, error) {
	if err := s.ensureEmailFree(ctx, req.Email, nil); err != nil {
		return nil, err
	}

	role := identity.RoleUser
	if req.Role != "" {
		role = identity.Role(req.Role)
	}
	if role == identity.RoleSystemAdmin {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Rôle non autorisé")
	}

	user, temp, err := identity.NewUserWithTempPassword(&companyID, req.Name, req.Email, role)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.UpdateProfile(user.Name, req.Phone); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("role", string(user.Role)))

	return &TempPasswordResponse{User: ToUserResponse(user), TempPassword: temp}, nil
}

// Update changes a user of the company
func (s *UserService) Update(ctx context.Context, companyID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.companyUser(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Phone != nil {
		name, phone := user.Name, user.Phone
		if req.Name != nil {
			name = *req.Name
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := user.UpdateProfile(name, phone); err != nil {
			return nil, err
		}
	}
	if req.Email != nil && identity.NormalizeEmail(*req.Email) != user.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, &user.ID); err != nil {
			return nil, err
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}

	deactivated := false
	if req.IsActive != nil && *req.IsActive != user.IsActive {
		user.SetActive(*req.IsActive)
		deactivated = !*req.IsActive
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if deactivated {
		s.revokeSessions(ctx, user.ID)
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user of the company. Administrators and the caller cannot be deleted.
func (s *UserService) Delete(ctx context.Context, companyID, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return shared.NewDomainError(shared.CodeForbidden, "Vous ne pouvez pas supprimer votre propre compte")
	}
	user, err := s.companyUser(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if user.Role == identity.RoleAdmin {
		return shared.NewDomainError(shared.CodeForbidden, "Impossible de supprimer un administrateur")
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.revokeSessions(ctx, user.ID)
	logger.L(ctx).Info("User deleted", zap.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword gives a company user a new temporary password and ends their sessions
func (s *UserService) ResetPassword(ctx context.Context, companyID, userID uuid.UUID) (*TempPasswordResponse, error) {
	user, err := s.companyUser(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	return s.resetPassword(ctx, user)
}

func (s *UserService) resetPassword(ctx context.Context, user *identity.User) (*TempPasswordResponse, error) {
	temp, err := user.ResetPassword()
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user.ID)
	logger.L(ctx).Info("Password reset", zap.String("user_id", user.ID.String()))
	return &TempPasswordResponse{User: ToUserResponse(user), TempPassword: temp}, nil
}

// GetMe returns the caller's profile
func (s *UserService) GetMe(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdateMe changes the caller's name and phone. Role and company are not editable here.
func (s *UserService) UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateMeRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.Name, req.Phone); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// companyUser loads a user and hides users of other companies
func (s *UserService) companyUser(ctx context.Context, companyID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.BelongsTo(companyID) {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Utilisateur introuvable")
	}
	return user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, excludeID *uuid.UUID) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, identity.NormalizeEmail(email), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errEmailTaken
	}
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if err := s.revocations.RevokeUser(ctx, userID.String(), s.tokenTTL); err != nil {
		logger.L(ctx).Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
