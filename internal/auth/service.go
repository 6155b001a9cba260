package auth

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/zawaditap/zawaditap-backend/config"
	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/internal/organization"
	"github.com/zawaditap/zawaditap-backend/internal/user"
	"github.com/zawaditap/zawaditap-backend/middleware"
	"github.com/zawaditap/zawaditap-backend/utils"
)

const (
	otpTTL         = 5 * time.Minute
	mfaTTL         = 10 * time.Minute
	resetTTL       = 1 * time.Hour
	verifyEmailTTL = 24 * time.Hour
)

type Service interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code, ip string) (*TokenResponse, error)
	RegisterOrganization(ctx context.Context, req organization.CreateOrganizationRequest, ip string) (*organization.Organization, error)
	LoginOrganization(ctx context.Context, email, password, ip string) (*TokenResponse, *MFARequiredResponse, error)
	VerifyMFA(ctx context.Context, email, code, ip string) (*TokenResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	LoginAdmin(ctx context.Context, email, password, ip string) (*TokenResponse, error)
}

type service struct {
	cfg   *config.Config
	users user.Service
	orgs  organization.Service
	audit auditlog.Service
}

func NewService(cfg *config.Config, users user.Service, orgs organization.Service, audit auditlog.Service) Service {
	return &service{cfg: cfg, users: users, orgs: orgs, audit: audit}
}

func sixDigitCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// issueToken signs an HS256 access token for the given identity.
func (s *service) issueToken(id uint, role, phone, email string) (*TokenResponse, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWTAccessTTLHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   float64(id),
		"role":  role,
		"phone": phone,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: signed, Role: role, ExpiresAt: expiresAt}, nil
}

// RequestOTP sends a one-time code to the phone via SMS and caches it in
// Redis for the verification step.
func (s *service) RequestOTP(ctx context.Context, phone string) error {
	code := sixDigitCode()
	if err := utils.SetToken("otp:"+phone, code, otpTTL); err != nil {
		return err
	}

	message := fmt.Sprintf("Your ZawadiTap verification code is %s. It expires in 5 minutes.", code)
	if err := utils.SendSMS(phone, message); err != nil {
		log.Printf("❌ Failed to send OTP to %s: %v", phone, err)
		return fmt.Errorf("failed to send verification code")
	}
	log.Printf("📧 OTP sent to %s", phone)
	return nil
}

// VerifyOTP checks the code, creates the user on first login, and issues a
// token. Codes are single-use: the cache entry is deleted on success.
func (s *service) VerifyOTP(ctx context.Context, phone, code, ip string) (*TokenResponse, error) {
	stored, err := utils.GetToken("otp:" + phone)
	if err != nil || stored == "" {
		return nil, fmt.Errorf("%w: verification code expired or not requested", apperr.ErrUnauthorized)
	}
	if stored != code {
		return nil, fmt.Errorf("%w: invalid verification code", apperr.ErrUnauthorized)
	}
	_ = utils.DeleteToken("otp:" + phone)

	u, created, err := s.users.GetOrCreateByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueToken(u.ID, middleware.RoleUser, u.Phone, u.Email)
	if err != nil {
		return nil, err
	}
	resp.IsNewUser = created

	s.audit.LogAction(ctx, &u.ID, nil, "auth.otp_login", fmt.Sprintf("user:%d", u.ID), nil, ip)
	return resp, nil
}

// RegisterOrganization creates the organization and sends the email
// verification link.
func (s *service) RegisterOrganization(ctx context.Context, req organization.CreateOrganizationRequest, ip string) (*organization.Organization, error) {
	org, err := s.orgs.CreateOrganization(ctx, req, ip)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	if err := utils.SetToken("verify:"+token, fmt.Sprintf("%d", org.ID), verifyEmailTTL); err != nil {
		log.Printf("⚠️ Could not store verification token for org %d: %v", org.ID, err)
	} else if err := utils.SendVerificationEmail(org.Email, org.Name, token); err != nil {
		log.Printf("⚠️ Could not send verification email to %s: %v", org.Email, err)
	}

	return org, nil
}

func (s *service) LoginOrganization(ctx context.Context, email, password, ip string) (*TokenResponse, *MFARequiredResponse, error) {
	org, err := s.orgs.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(org.PasswordHash), []byte(password)); err != nil {
		s.audit.LogAction(ctx, nil, &org.ID, "auth.org_login_failed", fmt.Sprintf("organization:%d", org.ID), nil, ip)
		return nil, nil, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}
	if !org.EmailVerified {
		return nil, nil, fmt.Errorf("%w: email address not verified", apperr.ErrForbidden)
	}

	if org.MFAEnabled {
		code := sixDigitCode()
		if err := utils.SetToken("mfa:"+email, code, mfaTTL); err != nil {
			return nil, nil, err
		}
		if org.Phone != "" {
			if err := utils.SendSMS(org.Phone, fmt.Sprintf("Your ZawadiTap login code is %s.", code)); err != nil {
				log.Printf("⚠️ MFA SMS failed for org %d: %v", org.ID, err)
			}
		}
		return nil, &MFARequiredResponse{MFARequired: true, Message: "Verification code sent"}, nil
	}

	resp, err := s.issueToken(org.ID, middleware.RoleOrganization, org.Phone, org.Email)
	if err != nil {
		return nil, nil, err
	}
	s.audit.LogAction(ctx, nil, &org.ID, "auth.org_login", fmt.Sprintf("organization:%d", org.ID), nil, ip)
	return resp, nil, nil
}

func (s *service) VerifyMFA(ctx context.Context, email, code, ip string) (*TokenResponse, error) {
	stored, err := utils.GetToken("mfa:" + email)
	if err != nil || stored == "" {
		return nil, fmt.Errorf("%w: code expired, log in again", apperr.ErrUnauthorized)
	}
	if stored != code {
		return nil, fmt.Errorf("%w: invalid code", apperr.ErrUnauthorized)
	}
	_ = utils.DeleteToken("mfa:" + email)

	org, err := s.orgs.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization not found", apperr.ErrUnauthorized)
	}

	resp, err := s.issueToken(org.ID, middleware.RoleOrganization, org.Phone, org.Email)
	if err != nil {
		return nil, err
	}
	s.audit.LogAction(ctx, nil, &org.ID, "auth.org_login_mfa", fmt.Sprintf("organization:%d", org.ID), nil, ip)
	return resp, nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	stored, err := utils.GetToken("verify:" + token)
	if err != nil || stored == "" {
		return fmt.Errorf("%w: verification link expired or invalid", apperr.ErrBadRequest)
	}

	var orgID uint
	if _, err := fmt.Sscanf(stored, "%d", &orgID); err != nil {
		return fmt.Errorf("%w: verification link invalid", apperr.ErrBadRequest)
	}
	if err := s.orgs.MarkEmailVerified(ctx, orgID); err != nil {
		return err
	}
	_ = utils.DeleteToken("verify:" + token)

	log.Printf("✅ Email verified for organization %d", orgID)
	return nil
}

// ForgotPassword always succeeds from the caller's perspective so the
// endpoint cannot be used to probe which emails are registered.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	org, err := s.orgs.GetByEmail(ctx, email)
	if err != nil || org == nil {
		return nil
	}

	token := uuid.NewString()
	if err := utils.SetToken("reset:"+token, fmt.Sprintf("%d", org.ID), resetTTL); err != nil {
		return nil
	}
	if err := utils.SendResetLink(org.Email, token); err != nil {
		log.Printf("⚠️ Could not send reset email to %s: %v", org.Email, err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	stored, err := utils.GetToken("reset:" + token)
	if err != nil || stored == "" {
		return fmt.Errorf("%w: reset link expired or invalid", apperr.ErrBadRequest)
	}

	var orgID uint
	if _, err := fmt.Sscanf(stored, "%d", &orgID); err != nil {
		return fmt.Errorf("%w: reset link invalid", apperr.ErrBadRequest)
	}
	if err := s.orgs.UpdatePassword(ctx, orgID, newPassword); err != nil {
		return err
	}
	_ = utils.DeleteToken("reset:" + token)

	log.Printf("✅ Password reset for organization %d", orgID)
	return nil
}

// LoginAdmin authenticates against the configured portal credentials.
func (s *service) LoginAdmin(ctx context.Context, email, password, ip string) (*TokenResponse, error) {
	if s.cfg.AdminEmail == "" || email != s.cfg.AdminEmail || password != s.cfg.AdminPassword {
		s.audit.LogAction(ctx, nil, nil, "auth.admin_login_failed", "admin", map[string]interface{}{"email": email}, ip)
		return nil, fmt.Errorf("%w: invalid admin credentials", apperr.ErrUnauthorized)
	}

	resp, err := s.issueToken(0, middleware.RoleAdmin, "", email)
	if err != nil {
		return nil, err
	}
	s.audit.LogAction(ctx, nil, nil, "auth.admin_login", "admin", nil, ip)
	return resp, nil
}
