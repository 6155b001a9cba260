package organization

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

// GetOrganization godoc
// @Summary Get organization profile
// @Tags organizations
// @Produce json
// @Param id path int true "Organization ID"
// @Success 200 {object} Organization
// @Router /organizations/{id} [get]
func (h *Handler) GetOrganization(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	org, err := h.service.GetOrganization(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, org)
}

// UpdateOrganization godoc
// @Summary Update organization profile
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path int true "Organization ID"
// @Param request body UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} Organization
// @Router /organizations/{id} [put]
func (h *Handler) UpdateOrganization(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if identity.Role == middleware.RoleOrganization && identity.ID != uint(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify another organization"})
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.service.UpdateOrganization(c.Request.Context(), uint(id), req, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, org)
}

// ListOrganizations godoc
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /organizations [get]
func (h *Handler) ListOrganizations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orgs, total, err := h.service.ListOrganizations(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs, "total": total})
}

// UploadLogo godoc
// @Summary Upload organization logo
// @Tags organizations
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Organization ID"
// @Param logo formData file true "Logo image"
// @Success 200 {object} map[string]string
// @Router /organizations/{id}/logo [post]
func (h *Handler) UploadLogo(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if identity.Role == middleware.RoleOrganization && identity.ID != uint(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify another organization"})
		return
	}

	file, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Logo file is required"})
		return
	}

	url, err := h.service.SaveLogo(c.Request.Context(), uint(id), file, c.SaveUploadedFile)
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}
