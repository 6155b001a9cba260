package organization

import (
	"time"
)

// Organization represents the organizations table
type Organization struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone         string    `gorm:"size:20" json:"phone"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	LogoURL       string    `gorm:"size:512" json:"logo_url"`
	Description   string    `gorm:"type:text" json:"description"`
	EmailVerified bool      `gorm:"default:false" json:"email_verified"`
	MFAEnabled    bool      `gorm:"default:false" json:"mfa_enabled"`
	Status        string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for Organization
func (Organization) TableName() string {
	return "organizations"
}

// CreateOrganizationRequest represents the payload for registering an organization
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Password    string `json:"password" binding:"required,min=8"`
	Description string `json:"description"`
}

// UpdateOrganizationRequest represents the payload for updating an organization profile
type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	MFAEnabled  *bool   `json:"mfa_enabled"`
}
