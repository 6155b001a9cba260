package admin

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
	"github.com/zawaditap/zawaditap-backend/internal/event"
	"github.com/zawaditap/zawaditap-backend/internal/gift"
	"github.com/zawaditap/zawaditap-backend/internal/organization"
	"github.com/zawaditap/zawaditap-backend/internal/participation"
	"github.com/zawaditap/zawaditap-backend/internal/user"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&organization.Organization{},
		&user.User{},
		&event.Event{},
		&participation.Participation{},
		&gift.Gift{},
	))
	return db
}

func TestOverviewToleratesEmptyDatabase(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)))

	o, err := svc.GetSystemOverview(context.Background())
	require.NoError(t, err)
	require.Zero(t, o.TotalUsers)
	require.Zero(t, o.TotalEvents)
	require.Zero(t, o.CompletionRate)
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now()

	require.NoError(t, db.Create(&organization.Organization{Name: "Acme Events", Email: "hello@acme.test", PasswordHash: "x"}).Error)
	require.NoError(t, db.Create(&user.User{Phone: "+254700000001", Name: "Wanjiku"}).Error)
	require.NoError(t, db.Create(&user.User{Phone: "+254700000002"}).Error)

	require.NoError(t, db.Create(&event.Event{
		OrganizationID: 1, Name: "Expo", Status: event.StatusActive,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
	}).Error)

	require.NoError(t, db.Create(&participation.Participation{EventID: 1, UserID: 1, TermsAccepted: true, TilesInteracted: 4, StartedAt: now, CompletedAt: &now}).Error)
	require.NoError(t, db.Create(&participation.Participation{EventID: 1, UserID: 2, TermsAccepted: true, TilesInteracted: 1, StartedAt: now}).Error)

	userID := uint(1)
	require.NoError(t, db.Create(&gift.Gift{EventID: 1, OrganizationID: 1, Name: "Tote", Quantity: 3, Claimed: true, ClaimedByUserID: &userID, ClaimedAt: &now, CollectedAt: &now}).Error)
	require.NoError(t, db.Create(&gift.Gift{EventID: 1, OrganizationID: 1, Name: "Mug", Quantity: 1}).Error)
}

func TestOverviewAggregates(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	svc := NewService(NewRepository(db))

	o, err := svc.GetSystemOverview(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), o.TotalUsers)
	require.Equal(t, int64(1), o.TotalOrganizations)
	require.Equal(t, int64(1), o.ActiveEvents)
	require.Equal(t, int64(2), o.TotalParticipations)
	require.Equal(t, int64(1), o.TotalCompletions)
	require.InDelta(t, 0.5, o.CompletionRate, 1e-9)
	require.Equal(t, int64(4), o.TotalGifts) // sum of quantities
	require.Equal(t, int64(1), o.GiftsClaimed)
	require.Equal(t, int64(1), o.GiftsRedeemed)
}

func TestOrganizationDashboard(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	svc := NewService(NewRepository(db))

	d, err := svc.GetOrganizationDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Acme Events", d.Name)
	require.Equal(t, int64(1), d.TotalEvents)
	require.Equal(t, int64(2), d.TotalParticipations)
	require.Equal(t, int64(1), d.GiftsRedeemed)

	_, err = svc.GetOrganizationDashboard(context.Background(), 404)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEventAndUserAnalytics(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	svc := NewService(NewRepository(db))

	ea, err := svc.GetEventAnalytics(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), ea.TotalParticipants)
	require.Equal(t, int64(1), ea.TotalCompleted)
	require.Equal(t, int64(5), ea.TotalTiles)
	require.Equal(t, int64(1), ea.GiftsRedeemed)

	ua, err := svc.GetUserAnalytics(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), ua.EventsCompleted)
	require.Equal(t, int64(4), ua.TilesInteracted)
	require.Equal(t, int64(1), ua.GiftsClaimed)
}

func TestSearch(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	svc := NewService(NewRepository(db))

	result, err := svc.Search(context.Background(), "Acme")
	require.NoError(t, err)
	require.Len(t, result.Organizations, 1)
	require.Empty(t, result.Events)

	result, err = svc.Search(context.Background(), "Expo")
	require.NoError(t, err)
	require.Len(t, result.Events, 1)

	_, err = svc.Search(context.Background(), "a")
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}
