package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	AggregateModel
	CompanyID          *uuid.UUID    `gorm:"type:uuid;index"`
	Name               string        `gorm:"type:varchar(200);not null"`
	Email              string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone              string        `gorm:"type:varchar(30)"`
	PasswordHash       string        `gorm:"type:varchar(255);not null"`
	Role               identity.Role `gorm:"type:varchar(20);not null"`
	IsActive           bool          `gorm:"not null;default:true"`
	MustChangePassword bool          `gorm:"not null;default:false"`
	LastLoginAt        *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot:  m.aggregate(),
		CompanyID:          m.CompanyID,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		PasswordHash:       m.PasswordHash,
		Role:               m.Role,
		IsActive:           m.IsActive,
		MustChangePassword: m.MustChangePassword,
		LastLoginAt:        m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		CompanyID:          u.CompanyID,
		Name:               u.Name,
		Email:              u.Email,
		Phone:              u.Phone,
		PasswordHash:       u.PasswordHash,
		Role:               u.Role,
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
	}
	m.fromAggregate(u.BaseAggregateRoot)
	return m
}

// CompanyModel is the persistence model for the Company aggregate.
type CompanyModel struct {
	AggregateModel
	Name             string `gorm:"type:varchar(200);not null"`
	Email            string `gorm:"type:varchar(200)"`
	Phone            string `gorm:"type:varchar(30)"`
	Address          string `gorm:"type:text"`
	City             string `gorm:"type:varchar(100)"`
	Country          string `gorm:"type:varchar(100);not null"`
	MatriculeFiscal  string `gorm:"type:varchar(50)"`
	RNE              string `gorm:"column:rne;type:varchar(50)"`
	FiscalRegime     string `gorm:"type:varchar(50)"`
	ActivityType     string `gorm:"type:varchar(100)"`
	PrimaryColor     string `gorm:"type:varchar(20)"`
	LogoURL          string `gorm:"type:varchar(1000)"`
	IsActive         bool   `gorm:"not null;default:true"`
	OCRLimitPerMonth int    `gorm:"column:ocr_limit_per_month;not null"`
	OCRAttemptsLeft  int    `gorm:"column:ocr_attempts_left;not null"`
	OCRResetAt       *time.Time
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *identity.Company {
	return &identity.Company{
		BaseAggregateRoot: m.aggregate(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		City:              m.City,
		Country:           m.Country,
		MatriculeFiscal:   m.MatriculeFiscal,
		RNE:               m.RNE,
		FiscalRegime:      m.FiscalRegime,
		ActivityType:      m.ActivityType,
		PrimaryColor:      m.PrimaryColor,
		LogoURL:           m.LogoURL,
		IsActive:          m.IsActive,
		OCRLimitPerMonth:  m.OCRLimitPerMonth,
		OCRAttemptsLeft:   m.OCRAttemptsLeft,
		OCRResetAt:        m.OCRResetAt,
	}
}

// CompanyModelFromDomain creates a persistence model from a domain Company.
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{
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
	}
	m.fromAggregate(c.BaseAggregateRoot)
	return m
}
