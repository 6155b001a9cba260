package user

import (
	"time"
)

// User represents the users table. Users are identified by phone number
// and created lazily on first OTP verification.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	FCMToken  string    `gorm:"size:512" json:"-"`
	Status    string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for User
func (User) TableName() string {
	return "users"
}

// UpdateProfileRequest represents the payload for updating a user profile
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// RegisterFCMTokenRequest represents the payload for registering a push token
type RegisterFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
