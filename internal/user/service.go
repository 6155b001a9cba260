package user

import (
	"context"
	"fmt"
	"log"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
)

type Service interface {
	GetOrCreateByPhone(ctx context.Context, phone string) (*User, bool, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, req UpdateProfileRequest, ip string) (*User, error)
	RegisterFCMToken(ctx context.Context, id uint, token string) error
	ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error)
}

type service struct {
	repo  Repository
	audit auditlog.Service
}

func NewService(repo Repository, audit auditlog.Service) Service {
	return &service{repo: repo, audit: audit}
}

// GetOrCreateByPhone returns the user for a phone number, creating the record
// on first sight. The second return reports whether a new user was created.
func (s *service) GetOrCreateByPhone(ctx context.Context, phone string) (*User, bool, error) {
	u, err := s.repo.GetByPhone(phone)
	if err != nil {
		return nil, false, err
	}
	if u != nil {
		return u, false, nil
	}

	u = &User{Phone: phone, Status: "active"}
	if err := s.repo.Create(u); err != nil {
		return nil, false, err
	}
	log.Printf("✅ New user created for phone %s (ID %d)", phone, u.ID)
	s.audit.LogAction(ctx, &u.ID, nil, "user.register", fmt.Sprintf("user:%d", u.ID), map[string]interface{}{"phone": phone}, "")
	return u, true, nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uint, req UpdateProfileRequest, ip string) (*User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	s.audit.LogAction(ctx, &u.ID, nil, "user.update", fmt.Sprintf("user:%d", u.ID), nil, ip)
	return u, nil
}

func (s *service) RegisterFCMToken(ctx context.Context, id uint, token string) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	u.FCMToken = token
	return s.repo.Update(u)
}

func (s *service) ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(limit, offset)
}
