package auth

import (
	"time"
)

// RequestOTPRequest starts the phone login flow
type RequestOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyOTPRequest completes the phone login flow
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,len=6"`
}

// OrgLoginRequest is the email/password login for organizations
type OrgLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MFAVerifyRequest completes an MFA-gated organization login
type MFAVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AdminLoginRequest is the admin portal login
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	IsNewUser bool      `json:"is_new_user,omitempty"`
}

// MFARequiredResponse tells the client to follow up with the texted code
type MFARequiredResponse struct {
	MFARequired bool   `json:"mfa_required"`
	Message     string `json:"message"`
}
