package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/organization"
	"github.com/zawaditap/zawaditap-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RequestOTP godoc
// @Summary Request a phone login code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "Phone number"
// @Success 200 {object} map[string]string
// @Router /auth/otp/request [post]
func (h *Handler) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// VerifyOTP godoc
// @Summary Verify a phone login code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Phone and code"
// @Success 200 {object} TokenResponse
// @Router /auth/otp/verify [post]
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.VerifyOTP(c.Request.Context(), req.Phone, req.Code, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterOrganization godoc
// @Summary Register an organization
// @Tags auth
// @Accept json
// @Produce json
// @Param request body organization.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} organization.Organization
// @Router /auth/org/register [post]
func (h *Handler) RegisterOrganization(c *gin.Context) {
	var req organization.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.service.RegisterOrganization(c.Request.Context(), req, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, org)
}

// LoginOrganization godoc
// @Summary Organization login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OrgLoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Router /auth/org/login [post]
func (h *Handler) LoginOrganization(c *gin.Context) {
	var req OrgLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, mfa, err := h.service.LoginOrganization(c.Request.Context(), req.Email, req.Password, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	if mfa != nil {
		c.JSON(http.StatusOK, mfa)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyMFA godoc
// @Summary Complete an MFA-gated login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body MFAVerifyRequest true "Email and code"
// @Success 200 {object} TokenResponse
// @Router /auth/org/mfa [post]
func (h *Handler) VerifyMFA(c *gin.Context) {
	var req MFAVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.VerifyMFA(c.Request.Context(), req.Email, req.Code, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyEmail godoc
// @Summary Verify an organization email
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} map[string]string
// @Router /auth/verify-email [get]
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), token); err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified, you can now log in"})
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Email"
// @Success 200 {object} map[string]string
// @Router /auth/org/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_ = h.service.ForgotPassword(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset link has been sent"})
}

// ResetPassword godoc
// @Summary Reset a password with a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} map[string]string
// @Router /auth/org/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// LoginAdmin godoc
// @Summary Admin portal login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Router /auth/admin/login [post]
func (h *Handler) LoginAdmin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.LoginAdmin(c.Request.Context(), req.Email, req.Password, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
