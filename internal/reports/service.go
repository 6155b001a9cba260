package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/event"
	"github.com/zawaditap/zawaditap-backend/internal/gift"
	"github.com/zawaditap/zawaditap-backend/internal/participation"
)

// Report formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Report is a rendered export ready to stream to the client
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Service interface {
	ExportEventReport(ctx context.Context, orgID, eventID uint, format string) (*Report, error)
}

type service struct {
	events         event.Service
	participations participation.Repository
	gifts          gift.Repository
}

func NewService(events event.Service, participations participation.Repository, gifts gift.Repository) Service {
	return &service{events: events, participations: participations, gifts: gifts}
}

type reportData struct {
	event     *event.Event
	rows      []participation.Participation
	giftStats *gift.EventGiftStats
}

func (s *service) gather(ctx context.Context, orgID, eventID uint) (*reportData, error) {
	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: event %d belongs to another organization", apperr.ErrForbidden, eventID)
	}

	rows, _, err := s.participations.ListByEvent(eventID, 10000, 0)
	if err != nil {
		return nil, err
	}
	giftStats, err := s.gifts.StatsByEvent(eventID)
	if err != nil {
		return nil, err
	}
	return &reportData{event: e, rows: rows, giftStats: giftStats}, nil
}

func (s *service) ExportEventReport(ctx context.Context, orgID, eventID uint, format string) (*Report, error) {
	data, err := s.gather(ctx, orgID, eventID)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("event_%d_report_%s", eventID, time.Now().Format("20060102"))
	switch format {
	case FormatCSV:
		buf, err := renderCSV(data)
		if err != nil {
			return nil, err
		}
		return &Report{Filename: base + ".csv", ContentType: "text/csv", Data: buf}, nil
	case FormatXLSX:
		buf, err := renderXLSX(data)
		if err != nil {
			return nil, err
		}
		return &Report{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf,
		}, nil
	case FormatPDF:
		buf, err := renderPDF(data)
		if err != nil {
			return nil, err
		}
		return &Report{Filename: base + ".pdf", ContentType: "application/pdf", Data: buf}, nil
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", apperr.ErrBadRequest, format)
	}
}

func participationHeader() []string {
	return []string{"User ID", "Started At", "Terms Accepted", "Tiles Interacted", "Completed At"}
}

func participationRow(p participation.Participation) []string {
	completed := ""
	if p.CompletedAt != nil {
		completed = p.CompletedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.FormatUint(uint64(p.UserID), 10),
		p.StartedAt.Format(time.RFC3339),
		strconv.FormatBool(p.TermsAccepted),
		strconv.Itoa(p.TilesInteracted),
		completed,
	}
}

func summaryPairs(d *reportData) [][2]string {
	return [][2]string{
		{"Event", d.event.Name},
		{"Status", d.event.Status},
		{"Participants", strconv.Itoa(d.event.TotalParticipants)},
		{"Completed", strconv.Itoa(d.event.TotalCompleted)},
		{"Total tiles", strconv.Itoa(d.event.TotalTiles)},
		{"Gifts total", strconv.FormatInt(d.giftStats.Total, 10)},
		{"Gifts claimed", strconv.FormatInt(d.giftStats.Claimed, 10)},
		{"Gifts redeemed", strconv.FormatInt(d.giftStats.Redeemed, 10)},
	}
}

func renderCSV(d *reportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, pair := range summaryPairs(d) {
		if err := w.Write([]string{pair[0], pair[1]}); err != nil {
			return nil, err
		}
	}
	if err := w.Write(nil); err != nil {
		return nil, err
	}
	if err := w.Write(participationHeader()); err != nil {
		return nil, err
	}
	for _, p := range d.rows {
		if err := w.Write(participationRow(p)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderXLSX(d *reportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Report"
	f.SetSheetName("Sheet1", sheet)

	row := 1
	for _, pair := range summaryPairs(d) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pair[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pair[1])
		row++
	}
	row++ // blank separator

	for col, title := range participationHeader() {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, title)
	}
	row++

	for _, p := range d.rows {
		for col, value := range participationRow(p) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, value)
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(d *reportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Event Report: "+d.event.Name)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	for _, pair := range summaryPairs(d) {
		pdf.CellFormat(50, 7, pair[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, pair[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	widths := []float64{25, 45, 30, 35, 45}
	for i, title := range participationHeader() {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, p := range d.rows {
		for i, value := range participationRow(p) {
			pdf.CellFormat(widths[i], 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
