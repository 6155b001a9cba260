package organization

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	"github.com/zawaditap/zawaditap-backend/config"
	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
)

type Service interface {
	CreateOrganization(ctx context.Context, req CreateOrganizationRequest, ip string) (*Organization, error)
	GetOrganization(ctx context.Context, id uint) (*Organization, error)
	GetByEmail(ctx context.Context, email string) (*Organization, error)
	UpdateOrganization(ctx context.Context, id uint, req UpdateOrganizationRequest, ip string) (*Organization, error)
	ListOrganizations(ctx context.Context, limit, offset int) ([]Organization, int64, error)
	SaveLogo(ctx context.Context, id uint, file *multipart.FileHeader, save func(*multipart.FileHeader, string) error) (string, error)
	MarkEmailVerified(ctx context.Context, id uint) error
	UpdatePassword(ctx context.Context, id uint, newPassword string) error
}

type service struct {
	repo  Repository
	audit auditlog.Service
}

func NewService(repo Repository, audit auditlog.Service) Service {
	return &service{repo: repo, audit: audit}
}

func (s *service) CreateOrganization(ctx context.Context, req CreateOrganizationRequest, ip string) (*Organization, error) {
	existing, err := s.repo.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: organization with email %s already exists", apperr.ErrConflict, req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	org := &Organization{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Description:  req.Description,
		Status:       "active",
	}
	if err := s.repo.Create(org); err != nil {
		return nil, err
	}

	log.Printf("✅ Organization registered: %s (ID %d)", org.Name, org.ID)
	s.audit.LogAction(ctx, nil, &org.ID, "organization.register", fmt.Sprintf("organization:%d", org.ID), map[string]interface{}{
		"name":  org.Name,
		"email": org.Email,
	}, ip)

	return org, nil
}

func (s *service) GetOrganization(ctx context.Context, id uint) (*Organization, error) {
	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %d", apperr.ErrNotFound, id)
	}
	return org, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*Organization, error) {
	return s.repo.GetByEmail(email)
}

func (s *service) UpdateOrganization(ctx context.Context, id uint, req UpdateOrganizationRequest, ip string) (*Organization, error) {
	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Phone != nil {
		org.Phone = *req.Phone
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.MFAEnabled != nil {
		org.MFAEnabled = *req.MFAEnabled
	}

	if err := s.repo.Update(org); err != nil {
		return nil, err
	}

	s.audit.LogAction(ctx, nil, &org.ID, "organization.update", fmt.Sprintf("organization:%d", org.ID), nil, ip)
	return org, nil
}

func (s *service) ListOrganizations(ctx context.Context, limit, offset int) ([]Organization, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(limit, offset)
}

// SaveLogo stores an uploaded logo under the upload path and records the
// public URL on the organization. The save callback is gin's SaveUploadedFile.
func (s *service) SaveLogo(ctx context.Context, id uint, file *multipart.FileHeader, save func(*multipart.FileHeader, string) error) (string, error) {
	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".svg":
	default:
		return "", fmt.Errorf("%w: unsupported logo format %s", apperr.ErrBadRequest, ext)
	}

	dir := filepath.Join(config.UploadPath, "logos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("org_%d%s", id, ext)
	if err := save(file, filepath.Join(dir, filename)); err != nil {
		return "", err
	}

	org.LogoURL = fmt.Sprintf("%s/uploads/logos/%s", config.BaseURL, filename)
	if err := s.repo.Update(org); err != nil {
		return "", err
	}

	log.Printf("✅ Logo updated for organization %d", id)
	return org.LogoURL, nil
}

func (s *service) MarkEmailVerified(ctx context.Context, id uint) error {
	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return err
	}
	org.EmailVerified = true
	return s.repo.Update(org)
}

func (s *service) UpdatePassword(ctx context.Context, id uint, newPassword string) error {
	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	org.PasswordHash = string(hash)
	return s.repo.Update(org)
}
