package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/auth"
)

func newCompanyUser(t *testing.T, companyID uuid.UUID, email string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(&companyID, "Utilisateur", email, testPassword, role)
	require.NoError(t, err)
	return u
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("temporary password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)
		users.On("ExistsByEmail", ctx, "caisse@carthage.tn", (*uuid.UUID)(nil)).Return(false, nil)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Create(ctx, companyID, CreateUserRequest{Name: "Caissière", Email: "Caisse@Carthage.tn", Phone: "20 123 456"})
		require.NoError(t, err)
		assert.Len(t, resp.TempPassword, 10)
		assert.Equal(t, "user", resp.User.Role)
		assert.True(t, resp.User.MustChangePassword)
		assert.Equal(t, companyID, *resp.User.CompanyID)
		assert.Equal(t, "20 123 456", resp.User.Phone)
	})

	t.Run("email already used", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)
		users.On("ExistsByEmail", ctx, "caisse@carthage.tn", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, companyID, CreateUserRequest{Name: "Caissière", Email: "caisse@carthage.tn"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUserService_Update_DeactivationRevokesSessions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	users := new(MockUserRepository)
	revocations := auth.NewMemoryRevocationStore()
	svc := NewUserService(users, revocations, time.Hour)

	user := newCompanyUser(t, companyID, "vendeur@carthage.tn", identity.RoleUser)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	issuedAt := time.Now().Add(-time.Minute)
	active := false
	resp, err := svc.Update(ctx, companyID, user.ID, UpdateUserRequest{IsActive: &active})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	invalidated, err := revocations.Revoked(ctx, "", user.ID.String(), issuedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_Update_OtherCompany(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)

	user := newCompanyUser(t, uuid.New(), "autre@societe.tn", identity.RoleUser)
	users.On("FindByID", ctx, user.ID).Return(user, nil)

	name := "Pirate"
	_, err := svc.Update(ctx, uuid.New(), user.ID, UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("regular user", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)
		user := newCompanyUser(t, companyID, "stagiaire@carthage.tn", identity.RoleUser)
		users.On("FindByID", ctx, user.ID).Return(user, nil)
		users.On("Delete", ctx, user.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, companyID, uuid.New(), user.ID))
		users.AssertExpectations(t)
	})

	t.Run("admin cannot be deleted", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)
		admin := newCompanyUser(t, companyID, "gerant@carthage.tn", identity.RoleAdmin)
		users.On("FindByID", ctx, admin.ID).Return(admin, nil)

		err := svc.Delete(ctx, companyID, uuid.New(), admin.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("cannot delete self", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)
		id := uuid.New()

		err := svc.Delete(ctx, companyID, id, id)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	users := new(MockUserRepository)
	svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)

	user := newCompanyUser(t, companyID, "vendeur@carthage.tn", identity.RoleUser)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	resp, err := svc.ResetPassword(ctx, companyID, user.ID)
	require.NoError(t, err)
	assert.True(t, resp.User.MustChangePassword)
	assert.True(t, user.VerifyPassword(resp.TempPassword))
	assert.False(t, user.VerifyPassword(testPassword))
}

func TestUserService_UpdateMe(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, auth.NewMemoryRevocationStore(), time.Hour)

	user := newCompanyUser(t, uuid.New(), "moi@carthage.tn", identity.RoleUser)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	resp, err := svc.UpdateMe(ctx, user.ID, UpdateMeRequest{Name: "Nouveau Nom", Phone: "98 765 432"})
	require.NoError(t, err)
	assert.Equal(t, "Nouveau Nom", resp.Name)
	assert.Equal(t, "user", resp.Role)
}
