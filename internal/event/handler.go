package event

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

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a draft event with an embedded join QR code (organization only)
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event details"
// @Success 201 {object} Event
// @Router /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.service.CreateEvent(c.Request.Context(), identity.ID, req, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} Event
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body UpdateEventRequest true "Fields to update"
// @Success 200 {object} Event
// @Router /events/{id} [put]
func (h *Handler) UpdateEvent(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.service.UpdateEvent(c.Request.Context(), identity.ID, id, req, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// UpdateStatus godoc
// @Summary Change an event's status
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Event
// @Router /events/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.service.UpdateStatus(c.Request.Context(), identity.ID, id, req.Status, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListEvents godoc
// @Summary List events
// @Tags events
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, total, err := h.service.ListEvents(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "total": total})
}

// ListMyEvents godoc
// @Summary List the authenticated organization's events
// @Tags events
// @Produce json
// @Success 200 {array} Event
// @Router /organizations/me/events [get]
func (h *Handler) ListMyEvents(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	events, err := h.service.ListOrganizationEvents(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEventStats godoc
// @Summary Per-event statistics for the owning organization
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} EventStats
// @Router /events/{id}/stats [get]
func (h *Handler) GetEventStats(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.service.GetEventStats(c.Request.Context(), identity.ID, id)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
