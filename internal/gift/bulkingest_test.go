package gift

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
)

// buildUpload renders rows into an XLSX file and wraps it in a multipart
// form the way gin's FormFile would deliver it.
func buildUpload(t *testing.T, rows [][]interface{}) *multipart.FileHeader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	var xlsxBuf bytes.Buffer
	require.NoError(t, f.Write(&xlsxBuf))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "gifts.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsxBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, header, err := req.FormFile("file")
	require.NoError(t, err)
	return header
}

func TestBulkIngestSkipsIncompleteRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	upload := buildUpload(t, [][]interface{}{
		{"Name", "Description", "Quantity"},
		{"Tote Bag", "canvas", 5}, // valid
		{"Mystery Box", "", ""},   // missing quantity
		{"", "orphan", 3},         // missing name
	})

	before := f.reloadEvent(t)
	result, err := f.svc.BulkIngest(ctx, orgID, f.eventID, upload, "")
	require.NoError(t, err)

	require.Equal(t, 3, result.RowsRead)
	require.Equal(t, 1, result.GiftsCreated)
	require.Equal(t, 5, result.UnitsIngested)
	require.Equal(t, 2, result.RowsSkipped)

	// both counters move by the summed quantity of valid rows only
	after := f.reloadEvent(t)
	require.Equal(t, before.TotalTiles+5, after.TotalTiles)
	require.Equal(t, before.GiftsUnredeemed+5, after.GiftsUnredeemed)

	gifts, total, err := f.svc.ListEventGifts(ctx, orgID, f.eventID, 50, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Tote Bag", gifts[0].Name)
	require.Equal(t, 5, gifts[0].Quantity)
}

func TestBulkIngestAllRowsInvalid(t *testing.T) {
	f := newFixture(t)

	upload := buildUpload(t, [][]interface{}{
		{"Name", "Description", "Quantity"},
		{"", "", ""},
		{"Ghost", "", "zero"},
	})

	before := f.reloadEvent(t)
	result, err := f.svc.BulkIngest(context.Background(), orgID, f.eventID, upload, "")
	require.NoError(t, err)
	require.Zero(t, result.GiftsCreated)
	require.Equal(t, 2, result.RowsSkipped)

	after := f.reloadEvent(t)
	require.Equal(t, before.TotalTiles, after.TotalTiles)
}

func TestBulkIngestChecksOwnership(t *testing.T) {
	f := newFixture(t)

	upload := buildUpload(t, [][]interface{}{
		{"Name", "Description", "Quantity"},
		{"Tote", "", 1},
	})

	_, err := f.svc.BulkIngest(context.Background(), otherID, f.eventID, upload, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)
}
