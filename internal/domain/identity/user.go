package identity

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a user
type Role string

const (
	RoleSystemAdmin Role = "system_admin"
	RoleAdmin       Role = "admin"
	RoleUser        Role = "user"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	return r == RoleSystemAdmin || r == RoleAdmin || r == RoleUser
}

// Password cost for bcrypt
const bcryptCost = 12

// MinPasswordLength is the minimum length of a user-chosen password
const MinPasswordLength = 8

const tempPasswordLength = 10

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an account. CompanyID is nil for system administrators.
type User struct {
	shared.BaseAggregateRoot
	CompanyID          *uuid.UUID
	Name               string
	Email              string
	Phone              string
	PasswordHash       string
	Role               Role
	IsActive           bool
	MustChangePassword bool
	LastLoginAt        *time.Time
}

// NewUser creates an active user with the given password
func NewUser(companyID *uuid.UUID, name, email, password string, role Role) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	if role != RoleSystemAdmin && companyID == nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company users must belong to a company")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		Name:              strings.TrimSpace(name),
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		IsActive:          true,
	}, nil
}

// NewUserWithTempPassword creates a user with a generated password that
// must be changed at first login. The clear password is returned once.
func NewUserWithTempPassword(companyID *uuid.UUID, name, email string, role Role) (*User, string, error) {
	temp, err := GenerateTempPassword()
	if err != nil {
		return nil, "", err
	}
	user, err := NewUser(companyID, name, email, temp, role)
	if err != nil {
		return nil, "", err
	}
	user.MustChangePassword = true
	return user, temp, nil
}

// UpdateProfile changes the user's name and phone
func (u *User) UpdateProfile(name, phone string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	u.Name = strings.TrimSpace(name)
	u.Phone = strings.TrimSpace(phone)
	u.touch()
	return nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.touch()
	return nil
}

// SetRole changes the role within the company. System admin cannot be granted here.
func (u *User) SetRole(role Role) error {
	if role != RoleAdmin && role != RoleUser {
		return shared.NewDomainError("INVALID_ROLE", "Role must be admin or user")
	}
	u.Role = role
	u.touch()
	return nil
}

// SetActive enables or disables the account
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.touch()
}

// ChangePassword changes the user's password
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Mot de passe actuel incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.MustChangePassword = false
	u.touch()
	return nil
}

// ResetPassword replaces the password with a temporary one and returns it
func (u *User) ResetPassword() (string, error) {
	temp, err := GenerateTempPassword()
	if err != nil {
		return "", err
	}
	if err := u.SetPassword(temp); err != nil {
		return "", err
	}
	u.MustChangePassword = true
	return temp, nil
}

// VerifyPassword checks a clear password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// IsSystemAdmin reports whether the user administers the platform
func (u *User) IsSystemAdmin() bool {
	return u.Role == RoleSystemAdmin
}

// BelongsTo reports whether the user is a member of the company
func (u *User) BelongsTo(companyID uuid.UUID) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateTempPassword returns a random password with letters and digits
func GenerateTempPassword() (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	alphabet := letters + digits

	buf := make([]byte, tempPasswordLength)
	for i := range buf {
		set := alphabet
		switch i {
		case 0:
			set = letters
		case tempPasswordLength - 1:
			set = digits
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return "", err
		}
		buf[i] = set[n.Int64()]
	}
	return string(buf), nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Le mot de passe doit contenir au moins 8 caractères")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
