package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/utils"
)

// StartAuditConsumer drains the audit-events topic in the background and
// reacts to events that warrant a notification. It returns immediately when
// Kafka is not configured and stops when the context is cancelled.
func StartAuditConsumer(ctx context.Context, svc *Service) {
	reader := utils.NewAuditReader("zawaditap-notifications")
	if reader == nil {
		return
	}

	go func() {
		defer reader.Close()
		log.Println("🔄 Audit event consumer started")

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					log.Println("🔄 Audit event consumer stopped")
					return
				}
				log.Printf("⚠️ Audit consumer read error: %v", err)
				continue
			}

			var event auditlog.AuditEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("⚠️ Skipping malformed audit event: %v", err)
				continue
			}

			// Redeems are the only consumer-driven pushes for now; the rest of
			// the pushes are sent inline by the services that own the action.
			if event.Action == "gift.redeem" && event.UserID != nil {
				svc.push(ctx, *event.UserID, "Gift redeemed", "Your gift was redeemed. Enjoy!")
			}
		}
	}()
}
