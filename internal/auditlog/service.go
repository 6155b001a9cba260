package auditlog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gorm.io/datatypes"

	"github.com/zawaditap/zawaditap-backend/utils"
)

type Service interface {
	LogAction(ctx context.Context, userID *uint, orgID *uint, action, target string, metadata map[string]interface{}, ip string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction persists an audit entry and ships it to the audit-events topic.
// A failed write is logged but never propagated: audit trouble must not abort
// the business operation that triggered it.
func (s *service) LogAction(ctx context.Context, userID *uint, orgID *uint, action, target string, metadata map[string]interface{}, ip string) error {
	metadataJSON := datatypes.JSON("{}")
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = datatypes.JSON(b)
		}
	}

	entry := &AuditLog{
		Action:         action,
		UserID:         userID,
		OrganizationID: orgID,
		Target:         target,
		Metadata:       metadataJSON,
		IPAddress:      ip,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(entry); err != nil {
		log.Printf("❌ Failed to write audit log for action %s: %v", action, err)
		return nil
	}

	event := AuditEvent{
		Action:         action,
		UserID:         userID,
		OrganizationID: orgID,
		Target:         target,
		Metadata:       metadata,
		CreatedAt:      entry.CreatedAt,
	}
	if payload, err := json.Marshal(event); err == nil {
		if err := utils.PublishAuditEvent(ctx, action, payload); err != nil {
			log.Printf("⚠️ Audit event publish failed for %s: %v", action, err)
		}
	}

	return nil
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLog, error) {
	return s.repo.Find(filter)
}
