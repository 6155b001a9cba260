package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
)

type Service interface {
	GetSystemOverview(ctx context.Context) (*SystemOverview, error)
	GetOrganizationDashboard(ctx context.Context, orgID uint) (*OrganizationDashboard, error)
	GetEventAnalytics(ctx context.Context, eventID uint) (*EventAnalytics, error)
	GetUserAnalytics(ctx context.Context, userID uint) (*UserAnalytics, error)
	Search(ctx context.Context, query string) (*SearchResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetSystemOverview(ctx context.Context) (*SystemOverview, error) {
	return s.repo.Overview()
}

func (s *service) GetOrganizationDashboard(ctx context.Context, orgID uint) (*OrganizationDashboard, error) {
	d, err := s.repo.OrganizationDashboard(orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: organization %d", apperr.ErrNotFound, orgID)
	}
	return d, err
}

func (s *service) GetEventAnalytics(ctx context.Context, eventID uint) (*EventAnalytics, error) {
	a, err := s.repo.EventAnalytics(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: event %d", apperr.ErrNotFound, eventID)
	}
	return a, err
}

func (s *service) GetUserAnalytics(ctx context.Context, userID uint) (*UserAnalytics, error) {
	return s.repo.UserAnalytics(userID)
}

func (s *service) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", apperr.ErrBadRequest)
	}
	return s.repo.Search(query, 20)
}
