package participation

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

func (h *Handler) eventID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return 0, false
	}
	return uint(id), true
}

// Start godoc
// @Summary Start participating in an event
// @Tags participation
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {object} StatusResponse
// @Router /event-participation/{eventId}/start [post]
func (h *Handler) Start(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	resp, err := h.service.Start(c.Request.Context(), identity.ID, eventID, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AcceptTerms godoc
// @Summary Accept the event terms
// @Tags participation
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {object} StatusResponse
// @Router /event-participation/{eventId}/accept-terms [post]
func (h *Handler) AcceptTerms(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	resp, err := h.service.AcceptTerms(c.Request.Context(), identity.ID, eventID, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InteractTiles godoc
// @Summary Record tile interactions
// @Tags participation
// @Accept json
// @Produce json
// @Param eventId path int true "Event ID"
// @Param request body InteractTilesRequest false "Tile count (defaults to 1)"
// @Success 200 {object} StatusResponse
// @Router /event-participation/{eventId}/interact-tiles [post]
func (h *Handler) InteractTiles(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	var req InteractTilesRequest
	// body is optional, a bare POST counts one tile
	_ = c.ShouldBindJSON(&req)

	resp, err := h.service.InteractTiles(c.Request.Context(), identity.ID, eventID, req.Count, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Complete godoc
// @Summary Complete the event flow
// @Tags participation
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {object} StatusResponse
// @Router /event-participation/{eventId}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), identity.ID, eventID, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStatus godoc
// @Summary Current participation stage for the authenticated user
// @Tags participation
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {object} StatusResponse
// @Router /event-participation/{eventId}/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetStatus(c.Request.Context(), identity.ID, eventID)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListHistory godoc
// @Summary Participation history for the authenticated user
// @Tags participation
// @Produce json
// @Success 200 {array} Participation
// @Router /event-participation/history [get]
func (h *Handler) ListHistory(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	rows, err := h.service.ListUserHistory(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
