package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createTestUser(t *testing.T) *User {
	t.Helper()
	companyID := uuid.New()
	user, err := NewUser(&companyID, "Amine Ben Salah", " Amine@Example.TN ", "motdepasse1", RoleUser)
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	user := createTestUser(t)
	assert.Equal(t, "amine@example.tn", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.MustChangePassword)
	assert.True(t, user.VerifyPassword("motdepasse1"))

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
}

func TestNewUser_Validation(t *testing.T) {
	companyID := uuid.New()
	tests := []struct {
		name     string
		company  *uuid.UUID
		email    string
		password string
		role     Role
	}{
		{"short password", &companyID, "a@b.tn", "court", RoleUser},
		{"bad email", &companyID, "not-an-email", "motdepasse1", RoleUser},
		{"unknown role", &companyID, "a@b.tn", "motdepasse1", "owner"},
		{"company user without company", nil, "a@b.tn", "motdepasse1", RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.company, "Name", tt.email, tt.password, tt.role)
			assert.Error(t, err)
		})
	}

	admin, err := NewUser(nil, "Root", "root@tunerp.tn", "motdepasse1", RoleSystemAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsSystemAdmin())
}

func TestNewUserWithTempPassword(t *testing.T) {
	companyID := uuid.New()
	user, temp, err := NewUserWithTempPassword(&companyID, "Sonia", "sonia@example.tn", RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, temp, tempPasswordLength)
	assert.True(t, user.MustChangePassword)
	assert.True(t, user.VerifyPassword(temp))
	assert.True(t, user.BelongsTo(companyID))
}

func TestUser_ChangePassword(t *testing.T) {
	user := createTestUser(t)
	user.MustChangePassword = true

	assert.Error(t, user.ChangePassword("wrong-password", "nouveaupass1"))
	assert.Error(t, user.ChangePassword("motdepasse1", "court"))

	require.NoError(t, user.ChangePassword("motdepasse1", "nouveaupass1"))
	assert.False(t, user.MustChangePassword)
	assert.True(t, user.VerifyPassword("nouveaupass1"))
}

func TestUser_ResetPassword(t *testing.T) {
	user := createTestUser(t)
	temp, err := user.ResetPassword()
	require.NoError(t, err)
	assert.True(t, user.MustChangePassword)
	assert.True(t, user.VerifyPassword(temp))
	assert.False(t, user.VerifyPassword("motdepasse1"))
}

func TestUser_SetRole(t *testing.T) {
	user := createTestUser(t)
	require.NoError(t, user.SetRole(RoleAdmin))
	assert.Error(t, user.SetRole(RoleSystemAdmin))
}
