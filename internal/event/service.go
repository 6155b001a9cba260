package event

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zawaditap/zawaditap-backend/config"
	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/utils"
)

type Service interface {
	CreateEvent(ctx context.Context, orgID uint, req CreateEventRequest, ip string) (*Event, error)
	GetEvent(ctx context.Context, id uint) (*Event, error)
	UpdateEvent(ctx context.Context, orgID, id uint, req UpdateEventRequest, ip string) (*Event, error)
	UpdateStatus(ctx context.Context, orgID, id uint, status string, ip string) (*Event, error)
	ListEvents(ctx context.Context, status string, limit, offset int) ([]Event, int64, error)
	ListOrganizationEvents(ctx context.Context, orgID uint) ([]Event, error)
	GetEventStats(ctx context.Context, orgID, id uint) (*EventStats, error)
}

type service struct {
	repo             Repository
	audit            auditlog.Service
	defaultTileCount int
}

func NewService(repo Repository, audit auditlog.Service, defaultTileCount int) Service {
	if defaultTileCount <= 0 {
		defaultTileCount = 3
	}
	return &service{repo: repo, audit: audit, defaultTileCount: defaultTileCount}
}

func (s *service) CreateEvent(ctx context.Context, orgID uint, req CreateEventRequest, ip string) (*Event, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperr.ErrBadRequest)
	}

	tileCount := req.RequiredTileCount
	if tileCount <= 0 {
		tileCount = s.defaultTileCount
	}

	e := &Event{
		OrganizationID:    orgID,
		Name:              req.Name,
		Description:       req.Description,
		Terms:             req.Terms,
		Location:          req.Location,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Status:            StatusDraft,
		RequiredTileCount: tileCount,
	}
	if err := s.repo.Create(e); err != nil {
		return nil, err
	}

	// The QR payload is the join URL the mobile client opens when scanned.
	joinURL := fmt.Sprintf("%s/events/%d/join", config.BaseURL, e.ID)
	e.QRCodeData = utils.RenderQRCode(joinURL)
	if err := s.repo.Update(e); err != nil {
		return nil, err
	}

	log.Printf("✅ Event created: %s (ID %d) by organization %d", e.Name, e.ID, orgID)
	s.audit.LogAction(ctx, nil, &orgID, "event.create", fmt.Sprintf("event:%d", e.ID), map[string]interface{}{
		"name": e.Name,
	}, ip)

	return e, nil
}

func (s *service) GetEvent(ctx context.Context, id uint) (*Event, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: event %d", apperr.ErrNotFound, id)
	}
	return e, nil
}

// owned fetches an event and verifies the caller's organization owns it.
func (s *service) owned(ctx context.Context, orgID, id uint) (*Event, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: event %d belongs to another organization", apperr.ErrForbidden, id)
	}
	return e, nil
}

func (s *service) UpdateEvent(ctx context.Context, orgID, id uint, req UpdateEventRequest, ip string) (*Event, error) {
	e, err := s.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Terms != nil {
		e.Terms = *req.Terms
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = *req.EndDate
	}
	if req.RequiredTileCount != nil && *req.RequiredTileCount > 0 {
		e.RequiredTileCount = *req.RequiredTileCount
	}
	if !e.EndDate.After(e.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperr.ErrBadRequest)
	}

	if err := s.repo.Update(e); err != nil {
		return nil, err
	}
	s.audit.LogAction(ctx, nil, &orgID, "event.update", fmt.Sprintf("event:%d", e.ID), nil, ip)
	return e, nil
}

func (s *service) UpdateStatus(ctx context.Context, orgID, id uint, status string, ip string) (*Event, error) {
	e, err := s.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case StatusDraft, StatusActive, StatusEnded:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrBadRequest, status)
	}
	if e.Status == StatusEnded && status != StatusEnded {
		return nil, fmt.Errorf("%w: ended events cannot be reopened", apperr.ErrBadRequest)
	}

	e.Status = status
	if err := s.repo.Update(e); err != nil {
		return nil, err
	}

	log.Printf("🔄 Event %d status changed to %s", e.ID, status)
	s.audit.LogAction(ctx, nil, &orgID, "event.status_change", fmt.Sprintf("event:%d", e.ID), map[string]interface{}{
		"status": status,
	}, ip)
	return e, nil
}

func (s *service) ListEvents(ctx context.Context, status string, limit, offset int) ([]Event, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(status, limit, offset)
}

func (s *service) ListOrganizationEvents(ctx context.Context, orgID uint) ([]Event, error) {
	return s.repo.ListByOrganization(orgID)
}

func (s *service) GetEventStats(ctx context.Context, orgID, id uint) (*EventStats, error) {
	e, err := s.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	stats := &EventStats{
		EventID:           e.ID,
		Name:              e.Name,
		TotalParticipants: e.TotalParticipants,
		TotalCompleted:    e.TotalCompleted,
		TotalTiles:        e.TotalTiles,
		GiftsRedeemed:     e.GiftsRedeemed,
		GiftsUnredeemed:   e.GiftsUnredeemed,
	}
	if e.TotalParticipants > 0 {
		stats.CompletionRate = float64(e.TotalCompleted) / float64(e.TotalParticipants)
	}
	return stats, nil
}

// IsOpen reports whether an event accepts participation right now.
func IsOpen(e *Event, now time.Time) bool {
	return e.Status == StatusActive && !now.Before(e.StartDate) && now.Before(e.EndDate)
}
