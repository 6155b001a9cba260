package event

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
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}, &auditlog.AuditLog{}))

	audit := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(NewRepository(db), audit, 3), db
}

func validRequest() CreateEventRequest {
	return CreateEventRequest{
		Name:      "Product Demo",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(48 * time.Hour),
	}
}

func TestCreateEventDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	e, err := svc.CreateEvent(context.Background(), 1, validRequest(), "")
	require.NoError(t, err)
	require.Equal(t, StatusDraft, e.Status)
	require.Equal(t, 3, e.RequiredTileCount)
	require.True(t, strings.HasPrefix(e.QRCodeData, "data:image/png;base64,"))
	require.Zero(t, e.TotalParticipants)
}

func TestCreateEventRejectsBadDates(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	req.EndDate = req.StartDate.Add(-time.Minute)
	_, err := svc.CreateEvent(context.Background(), 1, req, "")
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestStatusTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, 1, validRequest(), "")
	require.NoError(t, err)

	e, err = svc.UpdateStatus(ctx, 1, e.ID, StatusActive, "")
	require.NoError(t, err)
	require.True(t, IsOpen(e, time.Now()))

	e, err = svc.UpdateStatus(ctx, 1, e.ID, StatusEnded, "")
	require.NoError(t, err)
	require.False(t, IsOpen(e, time.Now()))

	_, err = svc.UpdateStatus(ctx, 1, e.ID, StatusActive, "")
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestUpdateStatusChecksOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, 1, validRequest(), "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, 2, e.ID, StatusActive, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestIsOpenRespectsWindow(t *testing.T) {
	now := time.Now()
	e := &Event{Status: StatusActive, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}

	require.True(t, IsOpen(e, now))
	require.False(t, IsOpen(e, now.Add(-2*time.Hour)))
	require.False(t, IsOpen(e, now.Add(2*time.Hour)))

	e.Status = StatusDraft
	require.False(t, IsOpen(e, now))
}

func TestApplyCounterDeltas(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, 1, validRequest(), "")
	require.NoError(t, err)

	require.NoError(t, ApplyCounterDeltas(db, e.ID, CounterDeltas{Participants: 2, Tiles: 5, GiftsUnredeemed: 5}))
	require.NoError(t, ApplyCounterDeltas(db, e.ID, CounterDeltas{GiftsRedeemed: 1, GiftsUnredeemed: -1}))

	stats, err := svc.GetEventStats(ctx, 1, e.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalParticipants)
	require.Equal(t, 5, stats.TotalTiles)
	require.Equal(t, 1, stats.GiftsRedeemed)
	require.Equal(t, 4, stats.GiftsUnredeemed)
}

func TestGetEventStatsZeroParticipants(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, 1, validRequest(), "")
	require.NoError(t, err)

	stats, err := svc.GetEventStats(ctx, 1, e.ID)
	require.NoError(t, err)
	require.Zero(t, stats.CompletionRate)
}
