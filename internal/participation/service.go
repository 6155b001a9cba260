package participation

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/internal/event"
	"github.com/zawaditap/zawaditap-backend/utils"
)

// Notifier delivers a completion push to the user's device. The notification
// package provides the real implementation; tests pass nil.
type Notifier interface {
	NotifyCompletion(ctx context.Context, userID uint, eventName string)
}

type Service interface {
	Start(ctx context.Context, userID, eventID uint, ip string) (*StatusResponse, error)
	AcceptTerms(ctx context.Context, userID, eventID uint, ip string) (*StatusResponse, error)
	InteractTiles(ctx context.Context, userID, eventID uint, count int, ip string) (*StatusResponse, error)
	Complete(ctx context.Context, userID, eventID uint, ip string) (*StatusResponse, error)
	GetStatus(ctx context.Context, userID, eventID uint) (*StatusResponse, error)
	ListUserHistory(ctx context.Context, userID uint) ([]Participation, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	events   event.Service
	audit    auditlog.Service
	notifier Notifier
}

func NewService(db *gorm.DB, repo Repository, events event.Service, audit auditlog.Service, notifier Notifier) Service {
	return &service{db: db, repo: repo, events: events, audit: audit, notifier: notifier}
}

// openEvent fetches the event and rejects participation outside its window.
func (s *service) openEvent(ctx context.Context, eventID uint) (*event.Event, error) {
	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsOpen(e, time.Now()) {
		return nil, fmt.Errorf("%w: event %d is not open for participation", apperr.ErrBadRequest, eventID)
	}
	return e, nil
}

func (s *service) status(p *Participation, e *event.Event) *StatusResponse {
	resp := &StatusResponse{
		EventID:       e.ID,
		Stage:         DeriveStage(p, e.RequiredTileCount),
		TilesRequired: e.RequiredTileCount,
	}
	if p != nil {
		resp.TermsAccepted = p.TermsAccepted
		resp.TilesInteracted = p.TilesInteracted
		resp.Completed = p.CompletedAt != nil
	}
	return resp
}

// Start creates the participation row. Starting twice is rejected: the row is
// the single source of truth for "has participated".
func (s *service) Start(ctx context.Context, userID, eventID uint, ip string) (*StatusResponse, error) {
	e, err := s.openEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var p *Participation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.Get(tx, eventID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: user %d already participated in event %d", apperr.ErrConflict, userID, eventID)
		}

		p = &Participation{EventID: eventID, UserID: userID, StartedAt: time.Now()}
		if err := s.repo.Create(tx, p); err != nil {
			return err
		}
		return event.ApplyCounterDeltas(tx, eventID, event.CounterDeltas{Participants: 1})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User %d started event %d", userID, eventID)
	s.audit.LogAction(ctx, &userID, nil, "participation.start", fmt.Sprintf("event:%d", eventID), nil, ip)

	resp := s.status(p, e)
	resp.Message = fmt.Sprintf("Welcome to %s! Accept the terms to begin.", e.Name)
	return resp, nil
}

// AcceptTerms is idempotent: accepting again is a no-op, and accepting before
// an explicit start creates the row on the fly.
func (s *service) AcceptTerms(ctx context.Context, userID, eventID uint, ip string) (*StatusResponse, error) {
	e, err := s.openEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var p *Participation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err = s.repo.Get(tx, eventID, userID)
		if err != nil {
			return err
		}
		if p == nil {
			now := time.Now()
			p = &Participation{EventID: eventID, UserID: userID, StartedAt: now, TermsAccepted: true, TermsAcceptedAt: &now}
			if err := s.repo.Create(tx, p); err != nil {
				return err
			}
			return event.ApplyCounterDeltas(tx, eventID, event.CounterDeltas{Participants: 1})
		}
		if p.TermsAccepted {
			return nil
		}
		now := time.Now()
		p.TermsAccepted = true
		p.TermsAcceptedAt = &now
		return s.repo.Update(tx, p)
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAction(ctx, &userID, nil, "participation.accept_terms", fmt.Sprintf("event:%d", eventID), nil, ip)

	resp := s.status(p, e)
	resp.Terms = e.Terms
	resp.Message = "Terms accepted. Start interacting with tiles to unlock your gift."
	return resp, nil
}

// InteractTiles records count tile interactions for the user on this event.
// The event's tile counter moves at completion, not per interaction.
func (s *service) InteractTiles(ctx context.Context, userID, eventID uint, count int, ip string) (*StatusResponse, error) {
	if count <= 0 {
		count = 1
	}
	if count > 100 {
		return nil, fmt.Errorf("%w: tile count %d exceeds the per-request limit", apperr.ErrBadRequest, count)
	}

	e, err := s.openEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var p *Participation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err = s.repo.Get(tx, eventID, userID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: user %d has not started event %d", apperr.ErrBadRequest, userID, eventID)
		}
		if !p.TermsAccepted {
			return fmt.Errorf("%w: terms must be accepted before interacting with tiles", apperr.ErrBadRequest)
		}
		if p.CompletedAt != nil {
			return fmt.Errorf("%w: event already completed", apperr.ErrConflict)
		}

		p.TilesInteracted += count
		return s.repo.Update(tx, p)
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAction(ctx, &userID, nil, "participation.interact_tiles", fmt.Sprintf("event:%d", eventID), map[string]interface{}{
		"count": count,
		"total": p.TilesInteracted,
	}, ip)

	resp := s.status(p, e)
	if p.TilesInteracted >= e.RequiredTileCount {
		resp.Message = "You're ready to complete the event!"
	} else {
		resp.Message = fmt.Sprintf("%d of %d tiles done. Keep going!", p.TilesInteracted, e.RequiredTileCount)
	}
	return resp, nil
}

// Complete finishes the flow once enough tiles have been interacted with.
func (s *service) Complete(ctx context.Context, userID, eventID uint, ip string) (*StatusResponse, error) {
	e, err := s.openEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var p *Participation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err = s.repo.Get(tx, eventID, userID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: user %d has not started event %d", apperr.ErrBadRequest, userID, eventID)
		}
		if p.CompletedAt != nil {
			return fmt.Errorf("%w: event already completed", apperr.ErrConflict)
		}
		if !p.TermsAccepted {
			return fmt.Errorf("%w: terms must be accepted before completing", apperr.ErrBadRequest)
		}
		if p.TilesInteracted < e.RequiredTileCount {
			return fmt.Errorf("%w: %d of %d required tiles interacted", apperr.ErrBadRequest, p.TilesInteracted, e.RequiredTileCount)
		}

		now := time.Now()
		p.CompletedAt = &now
		if err := s.repo.Update(tx, p); err != nil {
			return err
		}
		return event.ApplyCounterDeltas(tx, eventID, event.CounterDeltas{Completed: 1, Tiles: 1})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User %d completed event %d", userID, eventID)
	s.audit.LogAction(ctx, &userID, nil, "participation.complete", fmt.Sprintf("event:%d", eventID), map[string]interface{}{
		"tiles_interacted": p.TilesInteracted,
		"completed_at":     p.CompletedAt,
	}, ip)
	if s.notifier != nil {
		s.notifier.NotifyCompletion(ctx, userID, e.Name)
	}

	resp := s.status(p, e)
	resp.QRCode = utils.RenderQRCode(fmt.Sprintf("completion:%d:%d", eventID, userID))
	resp.Message = fmt.Sprintf("Congratulations! You completed %s.", e.Name)
	return resp, nil
}

func (s *service) GetStatus(ctx context.Context, userID, eventID uint) (*StatusResponse, error) {
	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(nil, eventID, userID)
	if err != nil {
		return nil, err
	}
	return s.status(p, e), nil
}

func (s *service) ListUserHistory(ctx context.Context, userID uint) ([]Participation, error) {
	return s.repo.ListByUser(userID)
}
