package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs godoc
// @Summary Query audit logs
// @Description Returns audit log entries filtered by action, actor, target and date range (admin only)
// @Tags audit
// @Produce json
// @Param action query string false "Action name"
// @Param user_id query int false "User ID"
// @Param organization_id query int false "Organization ID"
// @Param target query string false "Target entity"
// @Param from query string false "From date (RFC3339)"
// @Param to query string false "To date (RFC3339)"
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {array} AuditLog
// @Router /admin/audit-logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		Action: c.Query("action"),
		Target: c.Query("target"),
	}

	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if v := c.Query("organization_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			oid := uint(id)
			filter.OrganizationID = &oid
		}
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.FromDate = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.ToDate = &t
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	logs, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
