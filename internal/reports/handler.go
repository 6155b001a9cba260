package reports

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ExportEventReport godoc
// @Summary Export an event report
// @Description Streams the report as CSV, XLSX or PDF depending on the format query
// @Tags reports
// @Produce octet-stream
// @Param eventId path int true "Event ID"
// @Param format query string false "csv, xlsx, or pdf (default csv)"
// @Success 200 {file} binary
// @Router /reports/events/{eventId} [get]
func (h *Handler) ExportEventReport(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}
	format := c.DefaultQuery("format", FormatCSV)

	report, err := h.service.ExportEventReport(c.Request.Context(), identity.ID, uint(eventID), format)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
