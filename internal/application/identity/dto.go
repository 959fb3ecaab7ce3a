package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/identity"
)

// LoginRequest represents the login input
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change by the user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// CompanySummary is the company block returned at login
type CompanySummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	PrimaryColor    string    `json:"primary_color,omitempty"`
	LogoURL         string    `json:"logo_url,omitempty"`
	OCRAttemptsLeft int       `json:"ocr_attempts_left"`
}

// LoginResponse contains the token pair and the logged-in user
type LoginResponse struct {
	AccessToken           string          `json:"access_token"`
	RefreshToken          string          `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time       `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time       `json:"refresh_token_expires_at"`
	TokenType             string          `json:"token_type"`
	User                  UserResponse    `json:"user"`
	Company               *CompanySummary `json:"company,omitempty"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	CompanyID          *uuid.UUID `json:"company_id,omitempty"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone,omitempty"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"is_active"`
	MustChangePassword bool       `json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// CreateUserRequest adds a user to the caller's company
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
	Role  string `json:"role" binding:"omitempty,oneof=admin user"`
}

// UpdateUserRequest changes a company user. Nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin user"`
	IsActive *bool   `json:"is_active"`
}

// UpdateMeRequest changes the caller's own profile
type UpdateMeRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
}

// TempPasswordResponse returns a generated password once
type TempPasswordResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password"`
}

// CompanyRequest represents the editable company profile
type CompanyRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Email           string `json:"email" binding:"omitempty,email"`
	Phone           string `json:"phone" binding:"omitempty,max=30"`
	Address         string `json:"address" binding:"max=500"`
	City            string `json:"city" binding:"max=100"`
	Country         string `json:"country" binding:"max=100"`
	MatriculeFiscal string `json:"matricule_fiscal" binding:"max=50"`
	RNE             string `json:"rne" binding:"max=50"`
	FiscalRegime    string `json:"fiscal_regime" binding:"max=100"`
	ActivityType    string `json:"activity_type" binding:"max=100"`
	PrimaryColor    string `json:"primary_color" binding:"omitempty,hexcolor"`
}

// CreateCompanyRequest creates a company together with its first administrator
type CreateCompanyRequest struct {
	CompanyRequest
	AdminName  string `json:"admin_name" binding:"max=100"`
	AdminEmail string `json:"admin_email" binding:"required,email"`
	OCRLimit   int    `json:"ocr_limit" binding:"omitempty,min=0"`
}

// CompanyListFilter represents filter options for the admin company list
type CompanyListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OCRLimitRequest changes the monthly OCR quota of a company
type OCRLimitRequest struct {
	Limit int `json:"limit" binding:"min=0"`
}

// LogoUpload is a logo image sent by the company admin
type LogoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	Country          string     `json:"country"`
	MatriculeFiscal  string     `json:"matricule_fiscal,omitempty"`
	RNE              string     `json:"rne,omitempty"`
	FiscalRegime     string     `json:"fiscal_regime,omitempty"`
	ActivityType     string     `json:"activity_type,omitempty"`
	PrimaryColor     string     `json:"primary_color,omitempty"`
	LogoURL          string     `json:"logo_url,omitempty"`
	IsActive         bool       `json:"is_active"`
	OCRLimitPerMonth int        `json:"ocr_limit_per_month"`
	OCRAttemptsLeft  int        `json:"ocr_attempts_left"`
	OCRResetAt       *time.Time `json:"ocr_reset_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CompanyDetailResponse is a company with its users, for the system administrator
type CompanyDetailResponse struct {
	CompanyResponse
	Users []UserResponse `json:"users"`
}

// CompanyCreatedResponse returns the new company, its admin and the admin's temporary password
type CompanyCreatedResponse struct {
	Company      CompanyResponse `json:"company"`
	Admin        UserResponse    `json:"admin"`
	TempPassword string          `json:"temp_password"`
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		CompanyID:          u.CompanyID,
		Name:               u.Name,
		Email:              u.Email,
		Phone:              u.Phone,
		Role:               string(u.Role),
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}

// ToCompanyResponse converts a domain company to a response DTO
func ToCompanyResponse(c *identity.Company) CompanyResponse {
	return CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		City:             c.City,
		Country:          c.Country,
		MatriculeFiscal:  c.MatriculeFiscal,
		RNE:              c.RNE,
		FiscalRegime:     c.FiscalRegime,
		ActivityType:     c.ActivityType,
		PrimaryColor:     c.PrimaryColor,
		LogoURL:          c.LogoURL,
		IsActive:         c.IsActive,
		OCRLimitPerMonth: c.OCRLimitPerMonth,
		OCRAttemptsLeft:  c.OCRAttemptsLeft,
		OCRResetAt:       c.OCRResetAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ToCompanyResponses converts a slice of domain companies
func ToCompanyResponses(companies []identity.Company) []CompanyResponse {
	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses
}

func (r CompanyRequest) toProfile() identity.CompanyProfile {
	return identity.CompanyProfile{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Address:         r.Address,
		City:            r.City,
		Country:         r.Country,
		MatriculeFiscal: r.MatriculeFiscal,
		RNE:             r.RNE,
		FiscalRegime:    r.FiscalRegime,
		ActivityType:    r.ActivityType,
		PrimaryColor:    r.PrimaryColor,
	}
}
