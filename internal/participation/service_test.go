package participation

import (
	"context"
	"fmt"
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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&event.Event{}, &Participation{}, &auditlog.AuditLog{}))
	return db
}

type fixture struct {
	db      *gorm.DB
	svc     Service
	events  event.Service
	eventID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	audit := auditlog.NewService(auditlog.NewRepository(db))
	events := event.NewService(event.NewRepository(db), audit, 3)
	svc := NewService(db, NewRepository(db), events, audit, nil)

	ctx := context.Background()
	e, err := events.CreateEvent(ctx, 1, event.CreateEventRequest{
		Name:      "Launch Party",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}, "")
	require.NoError(t, err)
	_, err = events.UpdateStatus(ctx, 1, e.ID, event.StatusActive, "")
	require.NoError(t, err)

	return &fixture{db: db, svc: svc, events: events, eventID: e.ID}
}

func (f *fixture) reloadEvent(t *testing.T) *event.Event {
	t.Helper()
	e, err := f.events.GetEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	return e
}

func TestDeriveStage(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		row  *Participation
		want string
	}{
		{"no row", nil, StageNotStarted},
		{"started only", &Participation{}, StageTerms},
		{"terms accepted", &Participation{TermsAccepted: true}, StageTiles},
		{"some tiles", &Participation{TermsAccepted: true, TilesInteracted: 2}, StageTiles},
		{"enough tiles", &Participation{TermsAccepted: true, TilesInteracted: 3}, StageReadyToComplete},
		{"extra tiles", &Participation{TermsAccepted: true, TilesInteracted: 7}, StageReadyToComplete},
		{"completed", &Participation{TermsAccepted: true, TilesInteracted: 5, CompletedAt: &now}, StageCompleted},
		{"completed wins over counts", &Participation{CompletedAt: &now}, StageCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DeriveStage(tc.row, 3))
		})
	}
}

func TestFullParticipationFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const userID = 42

	resp, err := f.svc.Start(ctx, userID, f.eventID, "")
	require.NoError(t, err)
	require.Equal(t, StageTerms, resp.Stage)
	require.Equal(t, 1, f.reloadEvent(t).TotalParticipants)

	resp, err = f.svc.AcceptTerms(ctx, userID, f.eventID, "")
	require.NoError(t, err)
	require.Equal(t, StageTiles, resp.Stage)
	require.True(t, resp.TermsAccepted)

	resp, err = f.svc.InteractTiles(ctx, userID, f.eventID, 2, "")
	require.NoError(t, err)
	require.Equal(t, StageTiles, resp.Stage)
	require.Equal(t, 2, resp.TilesInteracted)

	resp, err = f.svc.InteractTiles(ctx, userID, f.eventID, 1, "")
	require.NoError(t, err)
	require.Equal(t, StageReadyToComplete, resp.Stage)
	require.Equal(t, 0, f.reloadEvent(t).TotalTiles, "event tile counter moves at completion, not per interaction")

	resp, err = f.svc.Complete(ctx, userID, f.eventID, "")
	require.NoError(t, err)
	require.Equal(t, StageCompleted, resp.Stage)
	require.True(t, resp.Completed)
	require.NotEmpty(t, resp.QRCode)
	require.Equal(t, 1, f.reloadEvent(t).TotalCompleted)
	require.Equal(t, 1, f.reloadEvent(t).TotalTiles)

	// the completion audit entry snapshots the tile count and timestamp
	var entry auditlog.AuditLog
	require.NoError(t, f.db.Where("action = ?", "participation.complete").First(&entry).Error)
	require.Contains(t, string(entry.Metadata), `"tiles_interacted":3`)
	require.Contains(t, string(entry.Metadata), `"completed_at"`)
}

func TestStartTwiceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, 7, f.eventID, "")
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, 7, f.eventID, "")
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.Equal(t, 1, f.reloadEvent(t).TotalParticipants)
}

func TestAcceptTermsCreatesRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.AcceptTerms(ctx, 9, f.eventID, "")
	require.NoError(t, err)
	require.Equal(t, StageTiles, resp.Stage)
	require.Equal(t, 1, f.reloadEvent(t).TotalParticipants)

	// accepting again is a no-op
	resp, err = f.svc.AcceptTerms(ctx, 9, f.eventID, "")
	require.NoError(t, err)
	require.Equal(t, StageTiles, resp.Stage)
	require.Equal(t, 1, f.reloadEvent(t).TotalParticipants)
}

func TestTilesRequireTerms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.InteractTiles(ctx, 3, f.eventID, 1, "")
	require.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = f.svc.Start(ctx, 3, f.eventID, "")
	require.NoError(t, err)
	_, err = f.svc.InteractTiles(ctx, 3, f.eventID, 1, "")
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestCompleteNeedsEnoughTiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const userID = 5

	_, err := f.svc.AcceptTerms(ctx, userID, f.eventID, "")
	require.NoError(t, err)
	_, err = f.svc.InteractTiles(ctx, userID, f.eventID, 2, "")
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, userID, f.eventID, "")
	require.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = f.svc.InteractTiles(ctx, userID, f.eventID, 1, "")
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, userID, f.eventID, "")
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, userID, f.eventID, "")
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.svc.InteractTiles(ctx, userID, f.eventID, 1, "")
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestParticipationNeedsOpenEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.events.UpdateStatus(ctx, 1, f.eventID, event.StatusEnded, "")
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, 11, f.eventID, "")
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestStatusForUnknownUser(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetStatus(context.Background(), 999, f.eventID)
	require.NoError(t, err)
	require.Equal(t, StageNotStarted, resp.Stage)
	require.Equal(t, 3, resp.TilesRequired)
	require.False(t, resp.Completed)
}

func TestTileCounterScopedPerEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const userID = 21

	second, err := f.events.CreateEvent(ctx, 1, event.CreateEventRequest{
		Name:      "Second Event",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}, "")
	require.NoError(t, err)
	_, err = f.events.UpdateStatus(ctx, 1, second.ID, event.StatusActive, "")
	require.NoError(t, err)

	_, err = f.svc.AcceptTerms(ctx, userID, f.eventID, "")
	require.NoError(t, err)
	_, err = f.svc.AcceptTerms(ctx, userID, second.ID, "")
	require.NoError(t, err)

	_, err = f.svc.InteractTiles(ctx, userID, f.eventID, 3, "")
	require.NoError(t, err)

	// progress on one event does not leak into the other
	resp, err := f.svc.GetStatus(ctx, userID, second.ID)
	require.NoError(t, err)
	require.Equal(t, 0, resp.TilesInteracted)
	require.Equal(t, StageTiles, resp.Stage)

	resp, err = f.svc.GetStatus(ctx, userID, f.eventID)
	require.NoError(t, err)
	require.Equal(t, StageReadyToComplete, resp.Stage)
}
