package gift

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/internal/event"
)

const (
	orgID   = uint(1)
	otherID = uint(2)
)

type fixture struct {
	db      *gorm.DB
	svc     Service
	events  event.Service
	eventID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&event.Event{}, &Gift{}, &auditlog.AuditLog{}))

	audit := auditlog.NewService(auditlog.NewRepository(db))
	events := event.NewService(event.NewRepository(db), audit, 3)
	svc := NewService(db, NewRepository(db), events, audit, nil)

	ctx := context.Background()
	e, err := events.CreateEvent(ctx, orgID, event.CreateEventRequest{
		Name:      "Expo",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}, "")
	require.NoError(t, err)
	_, err = events.UpdateStatus(ctx, orgID, e.ID, event.StatusActive, "")
	require.NoError(t, err)

	return &fixture{db: db, svc: svc, events: events, eventID: e.ID}
}

func (f *fixture) reloadEvent(t *testing.T) *event.Event {
	t.Helper()
	e, err := f.events.GetEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	return e
}

func TestCreateGiftMovesBothCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := f.reloadEvent(t)

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Tote Bag", Quantity: 5}, "")
	require.NoError(t, err)
	require.Equal(t, 5, g.Quantity)
	require.False(t, g.Claimed)

	after := f.reloadEvent(t)
	require.Equal(t, before.GiftsUnredeemed+5, after.GiftsUnredeemed)
	require.Equal(t, before.TotalTiles+5, after.TotalTiles)
}

func TestCreateGiftRequiresOwnership(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateGift(context.Background(), otherID, f.eventID, CreateGiftRequest{Name: "Mug", Quantity: 1}, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestClaimNeedsOnlyAnUnclaimedGift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Cap", Quantity: 1}, "")
	require.NoError(t, err)

	// no participation record is required: any authenticated user can claim
	resp, err := f.svc.Claim(ctx, 50, g.ID, "")
	require.NoError(t, err)
	require.True(t, resp.Gift.Claimed)
	require.Equal(t, uint(50), *resp.Gift.ClaimedByUserID)
	require.NotNil(t, resp.Gift.ClaimedAt)
	require.True(t, strings.HasPrefix(resp.QRCode, "data:image/png;base64,"))

	_, err = f.svc.Claim(ctx, 50, 9999, "")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestClaimIsFirstComeFirstServed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Sticker", Quantity: 1}, "")
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, 60, g.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, 61, g.ID, "")
	require.ErrorIs(t, err, apperr.ErrConflict)

	// claimedBy never changes hands
	reloaded, err := NewRepository(f.db).GetByID(g.ID)
	require.NoError(t, err)
	require.Equal(t, uint(60), *reloaded.ClaimedByUserID)
}

func TestRedeemFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Voucher", Quantity: 2}, "")
	require.NoError(t, err)

	// unclaimed gifts cannot be redeemed
	_, err = f.svc.Redeem(ctx, orgID, g.ID, "")
	require.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = f.svc.Claim(ctx, 70, g.ID, "")
	require.NoError(t, err)

	before := f.reloadEvent(t)
	redeemed, err := f.svc.Redeem(ctx, orgID, g.ID, "")
	require.NoError(t, err)
	require.NotNil(t, redeemed.CollectedAt)
	require.Equal(t, orgID, *redeemed.RedeemedByOrgID)

	after := f.reloadEvent(t)
	require.Equal(t, before.GiftsRedeemed+1, after.GiftsRedeemed)
	require.Equal(t, before.GiftsUnredeemed-1, after.GiftsUnredeemed)

	// redemption is single-use
	_, err = f.svc.Redeem(ctx, orgID, g.ID, "")
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRedeemChecksOwnershipAndExistence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Pen", Quantity: 1}, "")
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, 80, g.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Redeem(ctx, otherID, g.ID, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Redeem(ctx, orgID, 9999, "")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestVoucherQROnlyForClaimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Shirt", Quantity: 1}, "")
	require.NoError(t, err)

	_, err = f.svc.GetVoucherQR(ctx, 90, g.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Claim(ctx, 90, g.ID, "")
	require.NoError(t, err)

	qr, err := f.svc.GetVoucherQR(ctx, 90, g.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))

	_, err = f.svc.GetVoucherQR(ctx, 91, g.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestEventGiftStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// empty event tolerates zero rows
	stats, err := f.svc.GetEventGiftStats(ctx, orgID, f.eventID)
	require.NoError(t, err)
	require.Zero(t, stats.Total)
	require.Zero(t, stats.Unclaimed)

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Band", Quantity: 4}, "")
	require.NoError(t, err)
	_, err = f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Hat", Quantity: 2}, "")
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, 100, g.ID, "")
	require.NoError(t, err)
	_, err = f.svc.Redeem(ctx, orgID, g.ID, "")
	require.NoError(t, err)

	stats, err = f.svc.GetEventGiftStats(ctx, orgID, f.eventID)
	require.NoError(t, err)
	require.Equal(t, int64(6), stats.Total) // sum of quantities
	require.Equal(t, int64(1), stats.Claimed)
	require.Equal(t, int64(5), stats.Unclaimed)
	require.Equal(t, int64(1), stats.Redeemed)
	require.Equal(t, int64(0), stats.Unredeemed)
}

func TestOrganizationGiftStatsCoversEveryEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// a second owned event that never receives gifts
	empty, err := f.events.CreateEvent(ctx, orgID, event.CreateEventRequest{
		Name:      "Quiet Meetup",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}, "")
	require.NoError(t, err)

	// another organization's event must not appear
	_, err = f.events.CreateEvent(ctx, otherID, event.CreateEventRequest{
		Name:      "Rival Expo",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}, "")
	require.NoError(t, err)

	g, err := f.svc.CreateGift(ctx, orgID, f.eventID, CreateGiftRequest{Name: "Band", Quantity: 3}, "")
	require.NoError(t, err)
	_, err = f.svc.Claim(ctx, 110, g.ID, "")
	require.NoError(t, err)

	rows, err := f.svc.GetOrganizationGiftStats(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byEvent := make(map[uint]OrganizationEventGiftStats, len(rows))
	for _, row := range rows {
		byEvent[row.EventID] = row
	}

	stocked := byEvent[f.eventID]
	require.Equal(t, "Expo", stocked.EventName)
	require.Equal(t, int64(3), stocked.Total)
	require.Equal(t, int64(1), stocked.Claimed)
	require.Equal(t, int64(2), stocked.Unclaimed)

	// the gift-less event still gets a row, all zeros
	blank := byEvent[empty.ID]
	require.Equal(t, "Quiet Meetup", blank.EventName)
	require.Zero(t, blank.Total)
	require.Zero(t, blank.Claimed)
	require.Zero(t, blank.Unredeemed)
}
