package gift

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

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// CreateGift godoc
// @Summary Create a gift entry for an event
// @Tags gifts
// @Accept json
// @Produce json
// @Param eventId path int true "Event ID"
// @Param request body CreateGiftRequest true "Gift details"
// @Success 201 {object} Gift
// @Router /gifts/event/{eventId} [post]
func (h *Handler) CreateGift(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := paramID(c, "eventId")
	if !ok {
		return
	}

	var req CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.service.CreateGift(c.Request.Context(), identity.ID, eventID, req, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, g)
}

// BulkIngest godoc
// @Summary Bulk upload gifts from a spreadsheet
// @Description Accepts an XLSX file with name, description and quantity columns; rows missing name or quantity are skipped
// @Tags gifts
// @Accept multipart/form-data
// @Produce json
// @Param eventId path int true "Event ID"
// @Param file formData file true "XLSX file"
// @Success 200 {object} BulkIngestResult
// @Router /gifts/upload/{eventId} [post]
func (h *Handler) BulkIngest(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := paramID(c, "eventId")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Spreadsheet file is required"})
		return
	}

	result, err := h.service.BulkIngest(c.Request.Context(), identity.ID, eventID, file, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Claim godoc
// @Summary Claim a gift
// @Description Claims an unclaimed gift for the authenticated user; returns the redemption QR
// @Tags gifts
// @Produce json
// @Param id path int true "Gift ID"
// @Success 200 {object} ClaimResponse
// @Router /gifts/{id}/claim [post]
func (h *Handler) Claim(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	giftID, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Claim(c.Request.Context(), identity.ID, giftID, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Redeem godoc
// @Summary Redeem a claimed gift
// @Description Organizations scan the user's QR, which encodes the gift ID
// @Tags gifts
// @Produce json
// @Param id path int true "Gift ID"
// @Success 200 {object} Gift
// @Router /gifts/{id}/redeem [post]
func (h *Handler) Redeem(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	giftID, ok := paramID(c, "id")
	if !ok {
		return
	}

	g, err := h.service.Redeem(c.Request.Context(), identity.ID, giftID, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetVoucherQR godoc
// @Summary QR code for a claimed gift
// @Tags gifts
// @Produce json
// @Param id path int true "Gift ID"
// @Success 200 {object} map[string]string
// @Router /gifts/{id}/qr [get]
func (h *Handler) GetVoucherQR(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	giftID, ok := paramID(c, "id")
	if !ok {
		return
	}

	qr, err := h.service.GetVoucherQR(c.Request.Context(), identity.ID, giftID)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr_code": qr})
}

// ListEventGifts godoc
// @Summary List gifts for an event (owning organization only)
// @Tags gifts
// @Produce json
// @Param eventId path int true "Event ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /gifts/event/{eventId} [get]
func (h *Handler) ListEventGifts(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := paramID(c, "eventId")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	gifts, total, err := h.service.ListEventGifts(c.Request.Context(), identity.ID, eventID, limit, offset)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts, "total": total})
}

// ListMyGifts godoc
// @Summary Gifts claimed by the authenticated user
// @Tags gifts
// @Produce json
// @Success 200 {array} Gift
// @Router /gifts/mine [get]
func (h *Handler) ListMyGifts(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	gifts, err := h.service.ListMyGifts(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gifts"})
		return
	}
	c.JSON(http.StatusOK, gifts)
}

// GetEventGiftStats godoc
// @Summary Gift breakdown for an event
// @Tags gifts
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {object} EventGiftStats
// @Router /gifts/event/{eventId}/stats [get]
func (h *Handler) GetEventGiftStats(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := paramID(c, "eventId")
	if !ok {
		return
	}

	stats, err := h.service.GetEventGiftStats(c.Request.Context(), identity.ID, eventID)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetOrganizationGiftStats godoc
// @Summary Gift breakdown for every event the organization owns
// @Tags gifts
// @Produce json
// @Success 200 {array} OrganizationEventGiftStats
// @Router /gifts/stats [get]
func (h *Handler) GetOrganizationGiftStats(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	rows, err := h.service.GetOrganizationGiftStats(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
