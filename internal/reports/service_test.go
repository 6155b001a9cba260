package reports

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
	"github.com/zawaditap/zawaditap-backend/internal/gift"
	"github.com/zawaditap/zawaditap-backend/internal/participation"
)

func newFixture(t *testing.T) (Service, uint) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&event.Event{}, &participation.Participation{}, &gift.Gift{}, &auditlog.AuditLog{}))

	audit := auditlog.NewService(auditlog.NewRepository(db))
	events := event.NewService(event.NewRepository(db), audit, 3)
	svc := NewService(events, participation.NewRepository(db), gift.NewRepository(db))

	ctx := context.Background()
	e, err := events.CreateEvent(ctx, 1, event.CreateEventRequest{
		Name:      "Annual Fair",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
	}, "")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, db.Create(&participation.Participation{EventID: e.ID, UserID: 1, TermsAccepted: true, TilesInteracted: 3, StartedAt: now, CompletedAt: &now}).Error)
	require.NoError(t, db.Create(&participation.Participation{EventID: e.ID, UserID: 2, StartedAt: now}).Error)
	require.NoError(t, db.Create(&gift.Gift{EventID: e.ID, OrganizationID: 1, Name: "Tote", Quantity: 1}).Error)

	return svc, e.ID
}

func TestExportCSV(t *testing.T) {
	svc, eventID := newFixture(t)

	report, err := svc.ExportEventReport(context.Background(), 1, eventID, FormatCSV)
	require.NoError(t, err)
	require.Equal(t, "text/csv", report.ContentType)
	require.True(t, strings.HasSuffix(report.Filename, ".csv"))

	body := string(report.Data)
	require.Contains(t, body, "Annual Fair")
	require.Contains(t, body, "User ID")
	require.Contains(t, body, "Gifts total,1")
}

func TestExportXLSX(t *testing.T) {
	svc, eventID := newFixture(t)

	report, err := svc.ExportEventReport(context.Background(), 1, eventID, FormatXLSX)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(report.Filename, ".xlsx"))
	require.NotEmpty(t, report.Data)
	// XLSX files are zip archives
	require.Equal(t, "PK", string(report.Data[:2]))
}

func TestExportPDF(t *testing.T) {
	svc, eventID := newFixture(t)

	report, err := svc.ExportEventReport(context.Background(), 1, eventID, FormatPDF)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", report.ContentType)
	require.True(t, strings.HasPrefix(string(report.Data), "%PDF"))
}

func TestExportChecksOwnershipAndFormat(t *testing.T) {
	svc, eventID := newFixture(t)
	ctx := context.Background()

	_, err := svc.ExportEventReport(ctx, 2, eventID, FormatCSV)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.ExportEventReport(ctx, 1, eventID, "docx")
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}
