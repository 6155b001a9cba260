package admin

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

// GetSystemOverview godoc
// @Summary System-wide statistics
// @Tags admin
// @Produce json
// @Success 200 {object} SystemOverview
// @Router /admin/overview [get]
func (h *Handler) GetSystemOverview(c *gin.Context) {
	overview, err := h.service.GetSystemOverview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build overview"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetOrganizationDashboard godoc
// @Summary Per-organization rollup
// @Description Admins can view any organization; organizations only their own
// @Tags admin
// @Produce json
// @Param id path int true "Organization ID"
// @Success 200 {object} OrganizationDashboard
// @Router /admin/organizations/{id}/dashboard [get]
func (h *Handler) GetOrganizationDashboard(c *gin.Context) {
	orgID, ok := paramID(c, "id")
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if identity.Role == middleware.RoleOrganization && identity.ID != orgID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view another organization's dashboard"})
		return
	}

	dashboard, err := h.service.GetOrganizationDashboard(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetEventAnalytics godoc
// @Summary Admin analytics for an event
// @Tags admin
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} EventAnalytics
// @Router /admin/events/{id}/analytics [get]
func (h *Handler) GetEventAnalytics(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}

	analytics, err := h.service.GetEventAnalytics(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetUserAnalytics godoc
// @Summary Admin analytics for a user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserAnalytics
// @Router /admin/users/{id}/analytics [get]
func (h *Handler) GetUserAnalytics(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	analytics, err := h.service.GetUserAnalytics(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// Search godoc
// @Summary Search organizations, events and users
// @Tags admin
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} SearchResult
// @Router /admin/search [get]
func (h *Handler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
