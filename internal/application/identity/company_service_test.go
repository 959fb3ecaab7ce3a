package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/auth"
	"github.com/tunerp/backend/internal/infrastructure/storage"
)

type companyFixture struct {
	svc         *CompanyService
	companies   *MockCompanyRepository
	users       *MockUserRepository
	revocations *auth.MemoryRevocationStore
	storage     *storage.MemoryStorage
}

func newCompanyFixture() *companyFixture {
	f := &companyFixture{
		companies:   new(MockCompanyRepository),
		users:       new(MockUserRepository),
		revocations: auth.NewMemoryRevocationStore(),
		storage:     storage.NewMemoryStorage("https://files.test"),
	}
	userSvc := NewUserService(f.users, f.revocations, time.Hour)
	f.svc = NewCompanyService(f.companies, f.users, userSvc, f.storage)
	return f
}

func newTestCompany(t *testing.T) *identity.Company {
	t.Helper()
	c, err := identity.NewCompany(identity.CompanyProfile{Name: "Quincaillerie Sfax", Phone: "74 123 456"}, 0)
	require.NoError(t, err)
	return c
}

func TestCompanyService_CreateWithAdmin(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture()

	f.users.On("ExistsByEmail", ctx, "patron@quincaillerie.tn", (*uuid.UUID)(nil)).Return(false, nil)
	f.companies.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)
	f.users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	resp, err := f.svc.CreateWithAdmin(ctx, CreateCompanyRequest{
		CompanyRequest: CompanyRequest{Name: "Quincaillerie Sfax", Phone: "74 123 456"},
		AdminEmail:     "patron@quincaillerie.tn",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tunisie", resp.Company.Country)
	assert.Equal(t, identity.DefaultOCRLimitPerMonth, resp.Company.OCRLimitPerMonth)
	assert.Equal(t, "Admin Quincaillerie Sfax", resp.Admin.Name)
	assert.Equal(t, "admin", resp.Admin.Role)
	assert.Equal(t, resp.Company.ID, *resp.Admin.CompanyID)
	assert.True(t, resp.Admin.MustChangePassword)
	assert.NotEmpty(t, resp.TempPassword)
}

func TestCompanyService_CreateWithAdmin_EmailTaken(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture()
	f.users.On("ExistsByEmail", ctx, "patron@quincaillerie.tn", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := f.svc.CreateWithAdmin(ctx, CreateCompanyRequest{
		CompanyRequest: CompanyRequest{Name: "Doublon"},
		AdminEmail:     "patron@quincaillerie.tn",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	f.companies.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_Suspend_RevokesUsers(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture()
	company := newTestCompany(t)
	member := newCompanyUser(t, company.ID, "caisse@sfax.tn", identity.RoleUser)

	f.companies.On("FindByID", ctx, company.ID).Return(company, nil)
	f.companies.On("Save", ctx, company).Return(nil)
	f.users.On("FindByCompany", ctx, company.ID).Return([]identity.User{*member}, nil)

	issuedAt := time.Now().Add(-time.Minute)
	resp, err := f.svc.Suspend(ctx, company.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	invalidated, err := f.revocations.Revoked(ctx, "", member.ID.String(), issuedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)

	resp, err = f.svc.Reactivate(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestCompanyService_OCRQuota(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture()
	company := newTestCompany(t)
	f.companies.On("FindByID", ctx, company.ID).Return(company, nil)
	f.companies.On("Save", ctx, company).Return(nil)

	resp, err := f.svc.SetOCRLimit(ctx, company.ID, OCRLimitRequest{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.OCRLimitPerMonth)
	assert.Equal(t, 50, resp.OCRAttemptsLeft)

	company.OCRAttemptsLeft = 3
	resetAt := time.Date(2024, 9, 14, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return resetAt }

	resp, err = f.svc.ResetOCR(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.OCRAttemptsLeft)
	assert.Equal(t, resetAt, *resp.OCRResetAt)
}

func TestCompanyService_UnknownCompany(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture()
	id := uuid.New()
	f.companies.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Get(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCompanyService_UploadLogo(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture()
	company := newTestCompany(t)
	f.companies.On("FindByID", ctx, company.ID).Return(company, nil)
	f.companies.On("Save", ctx, company).Return(nil)

	resp, err := f.svc.UploadLogo(ctx, company.ID, LogoUpload{Filename: "logo.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.LogoURL, "https://files.test/companies/"+company.ID.String()+"/logo/"))

	_, err = f.svc.UploadLogo(ctx, company.ID, LogoUpload{Filename: "logo.gif", ContentType: "image/gif", Data: []byte{1}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCompanyService_BootstrapSystemAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when missing", func(t *testing.T) {
		f := newCompanyFixture()
		f.users.On("FindByEmail", ctx, "root@tunerp.tn").Return(nil, shared.ErrNotFound)
		f.users.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.IsSystemAdmin() && u.CompanyID == nil
		})).Return(nil)

		created, err := f.svc.BootstrapSystemAdmin(ctx, "Root", "Root@TunERP.tn", "change-me-please")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("idempotent", func(t *testing.T) {
		f := newCompanyFixture()
		existing, err := identity.NewUser(nil, "Root", "root@tunerp.tn", testPassword, identity.RoleSystemAdmin)
		require.NoError(t, err)
		f.users.On("FindByEmail", ctx, "root@tunerp.tn").Return(existing, nil)

		created, err := f.svc.BootstrapSystemAdmin(ctx, "Root", "root@tunerp.tn", "change-me-please")
		require.NoError(t, err)
		assert.False(t, created)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCompanyService_ToggleUser(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture()

	root, err := identity.NewUser(nil, "Root", "root@tunerp.tn", testPassword, identity.RoleSystemAdmin)
	require.NoError(t, err)
	f.users.On("FindByID", ctx, root.ID).Return(root, nil)

	_, err = f.svc.ToggleUser(ctx, root.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	member := newCompanyUser(t, uuid.New(), "caisse@sfax.tn", identity.RoleUser)
	f.users.On("FindByID", ctx, member.ID).Return(member, nil)
	f.users.On("Save", ctx, member).Return(nil)

	resp, err := f.svc.ToggleUser(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}
