package gift

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/internal/event"
	"github.com/zawaditap/zawaditap-backend/utils"
)

// Notifier delivers a claim confirmation push. Tests pass nil.
type Notifier interface {
	NotifyGiftClaimed(ctx context.Context, userID uint, giftName string)
}

type Service interface {
	CreateGift(ctx context.Context, orgID, eventID uint, req CreateGiftRequest, ip string) (*Gift, error)
	BulkIngest(ctx context.Context, orgID, eventID uint, file *multipart.FileHeader, ip string) (*BulkIngestResult, error)
	Claim(ctx context.Context, userID, giftID uint, ip string) (*ClaimResponse, error)
	Redeem(ctx context.Context, orgID, giftID uint, ip string) (*Gift, error)
	GetVoucherQR(ctx context.Context, userID, giftID uint) (string, error)
	ListEventGifts(ctx context.Context, orgID, eventID uint, limit, offset int) ([]Gift, int64, error)
	ListMyGifts(ctx context.Context, userID uint) ([]Gift, error)
	GetEventGiftStats(ctx context.Context, orgID, eventID uint) (*EventGiftStats, error)
	GetOrganizationGiftStats(ctx context.Context, orgID uint) ([]OrganizationEventGiftStats, error)
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

// ownedEvent fetches the event and verifies the organization owns it.
func (s *service) ownedEvent(ctx context.Context, orgID, eventID uint) (*event.Event, error) {
	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: event %d belongs to another organization", apperr.ErrForbidden, eventID)
	}
	return e, nil
}

// qrPayload is the string encoded in the redemption QR. Organizations scan
// it and post the gift ID back.
func qrPayload(giftID uint) string {
	return fmt.Sprintf("gift:%d", giftID)
}

func (s *service) CreateGift(ctx context.Context, orgID, eventID uint, req CreateGiftRequest, ip string) (*Gift, error) {
	if _, err := s.ownedEvent(ctx, orgID, eventID); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", apperr.ErrBadRequest)
	}

	g := &Gift{
		EventID:        eventID,
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		Quantity:       req.Quantity,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		return event.ApplyCounterDeltas(tx, eventID, event.CounterDeltas{Tiles: req.Quantity, GiftsUnredeemed: req.Quantity})
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAction(ctx, nil, &orgID, "gift.create", fmt.Sprintf("gift:%d", g.ID), map[string]interface{}{
		"event_id": eventID,
		"name":     req.Name,
		"quantity": req.Quantity,
	}, ip)
	return g, nil
}

// BulkIngest reads an XLSX sheet of (name, description, quantity) rows. Rows
// missing a name or a quantity are skipped silently, matching the manual
// upload flow the dashboards were built around. The event's tile and
// unredeemed gift counters both move by the summed quantity of the ingested
// rows.
func (s *service) BulkIngest(ctx context.Context, orgID, eventID uint, file *multipart.FileHeader, ip string) (*BulkIngestResult, error) {
	if _, err := s.ownedEvent(ctx, orgID, eventID); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open upload: %v", apperr.ErrBadRequest, err)
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid spreadsheet: %v", apperr.ErrBadRequest, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no sheets", apperr.ErrBadRequest)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet: %v", apperr.ErrBadRequest, err)
	}

	result := &BulkIngestResult{}
	var gifts []Gift
	totalUnits := 0

	for i, row := range rows {
		if i == 0 {
			continue // header row: name, description, quantity
		}
		result.RowsRead++

		var name, description, rawQuantity string
		if len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			description = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			rawQuantity = strings.TrimSpace(row[2])
		}

		// both name and quantity are required; incomplete rows are skipped
		if name == "" || rawQuantity == "" {
			result.RowsSkipped++
			continue
		}
		quantity, err := strconv.Atoi(rawQuantity)
		if err != nil || quantity <= 0 {
			result.RowsSkipped++
			continue
		}

		gifts = append(gifts, Gift{
			EventID:        eventID,
			OrganizationID: orgID,
			Name:           name,
			Description:    description,
			Quantity:       quantity,
		})
		totalUnits += quantity
	}

	if len(gifts) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.CreateBatch(tx, gifts); err != nil {
				return err
			}
			return event.ApplyCounterDeltas(tx, eventID, event.CounterDeltas{Tiles: totalUnits, GiftsUnredeemed: totalUnits})
		})
		if err != nil {
			return nil, err
		}
	}

	result.GiftsCreated = len(gifts)
	result.UnitsIngested = totalUnits
	log.Printf("✅ Bulk ingested %d gifts (%d units) for event %d, %d rows skipped", len(gifts), totalUnits, eventID, result.RowsSkipped)
	s.audit.LogAction(ctx, nil, &orgID, "gift.bulk_ingest", fmt.Sprintf("event:%d", eventID), map[string]interface{}{
		"gifts_created":  len(gifts),
		"units_ingested": totalUnits,
		"rows_skipped":   result.RowsSkipped,
	}, ip)
	return result, nil
}

// Claim assigns an unclaimed gift to a user. The assignment is a conditional
// update, so two racing claims on the same gift resolve to exactly one
// winner. Any authenticated user may claim; the completion flow only gates
// when users learn a gift exists, not the claim itself.
func (s *service) Claim(ctx context.Context, userID, giftID uint, ip string) (*ClaimResponse, error) {
	g, err := s.repo.GetByID(giftID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: gift %d", apperr.ErrNotFound, giftID)
	}

	claimed, err := s.repo.ClaimIfUnclaimed(nil, giftID, userID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: gift %d is already claimed", apperr.ErrConflict, giftID)
	}

	g, err = s.repo.GetByID(giftID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Gift %d claimed by user %d", giftID, userID)
	s.audit.LogAction(ctx, &userID, nil, "gift.claim", fmt.Sprintf("gift:%d", giftID), map[string]interface{}{
		"event_id": g.EventID,
	}, ip)
	if s.notifier != nil {
		s.notifier.NotifyGiftClaimed(ctx, userID, g.Name)
	}
	return &ClaimResponse{Gift: g, QRCode: utils.RenderQRCode(qrPayload(giftID))}, nil
}

// Redeem marks a claimed gift as collected and moves the event's gift
// counters, all inside one transaction.
func (s *service) Redeem(ctx context.Context, orgID, giftID uint, ip string) (*Gift, error) {
	var g *Gift
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = s.repo.GetByID(giftID)
		if err != nil {
			return err
		}
		if g == nil {
			return fmt.Errorf("%w: gift %d", apperr.ErrNotFound, giftID)
		}
		if g.OrganizationID != orgID {
			return fmt.Errorf("%w: gift belongs to another organization", apperr.ErrForbidden)
		}
		if !g.Claimed {
			return fmt.Errorf("%w: gift has not been claimed", apperr.ErrBadRequest)
		}
		if g.CollectedAt != nil {
			return fmt.Errorf("%w: gift already redeemed", apperr.ErrConflict)
		}

		ok, err := s.repo.MarkRedeemed(tx, giftID, orgID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: gift already redeemed", apperr.ErrConflict)
		}
		return event.ApplyCounterDeltas(tx, g.EventID, event.CounterDeltas{GiftsRedeemed: 1, GiftsUnredeemed: -1})
	})
	if err != nil {
		return nil, err
	}

	g, err = s.repo.GetByID(giftID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Gift %d redeemed by organization %d", giftID, orgID)
	s.audit.LogAction(ctx, g.ClaimedByUserID, &orgID, "gift.redeem", fmt.Sprintf("gift:%d", giftID), map[string]interface{}{
		"event_id": g.EventID,
	}, ip)
	return g, nil
}

// GetVoucherQR re-renders the QR image the claimer presents at the stand.
func (s *service) GetVoucherQR(ctx context.Context, userID, giftID uint) (string, error) {
	g, err := s.repo.GetByID(giftID)
	if err != nil {
		return "", err
	}
	if g == nil {
		return "", fmt.Errorf("%w: gift %d", apperr.ErrNotFound, giftID)
	}
	if g.ClaimedByUserID == nil || *g.ClaimedByUserID != userID {
		return "", fmt.Errorf("%w: gift is not claimed by this user", apperr.ErrForbidden)
	}
	return utils.RenderQRCode(qrPayload(giftID)), nil
}

func (s *service) ListEventGifts(ctx context.Context, orgID, eventID uint, limit, offset int) ([]Gift, int64, error) {
	if _, err := s.ownedEvent(ctx, orgID, eventID); err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByEvent(eventID, limit, offset)
}

func (s *service) ListMyGifts(ctx context.Context, userID uint) ([]Gift, error) {
	return s.repo.ListClaimedByUser(userID)
}

func (s *service) GetEventGiftStats(ctx context.Context, orgID, eventID uint) (*EventGiftStats, error) {
	if _, err := s.ownedEvent(ctx, orgID, eventID); err != nil {
		return nil, err
	}
	return s.repo.StatsByEvent(eventID)
}

// GetOrganizationGiftStats returns one breakdown row per owned event. Events
// with no gifts still get a row so the dashboard table stays complete.
func (s *service) GetOrganizationGiftStats(ctx context.Context, orgID uint) ([]OrganizationEventGiftStats, error) {
	events, err := s.events.ListOrganizationEvents(ctx, orgID)
	if err != nil {
		return nil, err
	}

	rows := make([]OrganizationEventGiftStats, 0, len(events))
	for _, e := range events {
		stats, err := s.repo.StatsByEvent(e.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, OrganizationEventGiftStats{
			EventGiftStats: *stats,
			EventName:      e.Name,
			EventStartDate: e.StartDate,
		})
	}
	return rows, nil
}
