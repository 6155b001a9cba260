package notification

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/zawaditap/zawaditap-backend/internal/user"
	"github.com/zawaditap/zawaditap-backend/utils"
)

// Service sends push notifications to user devices over FCM. Delivery is
// best-effort: a missing token or an FCM outage never fails the caller.
type Service struct {
	users user.Service
}

func NewService(users user.Service) *Service {
	return &Service{users: users}
}

// NotifyCompletion congratulates a user who finished an event flow.
func (s *Service) NotifyCompletion(ctx context.Context, userID uint, eventName string) {
	s.push(ctx, userID, "Congratulations! 🎉",
		"You completed "+eventName+". Claim your gift in the app!")
}

// NotifyGiftClaimed confirms a claim and reminds the user to redeem it.
func (s *Service) NotifyGiftClaimed(ctx context.Context, userID uint, giftName string) {
	s.push(ctx, userID, "Gift claimed",
		"You claimed "+giftName+". Show your QR code at the stand to redeem it.")
}

func (s *Service) push(ctx context.Context, userID uint, title, body string) {
	if !utils.IsFCMEnabled() {
		return
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil || u.FCMToken == "" {
		return
	}

	client := utils.GetFCMClient()
	if client == nil {
		return
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if _, err := client.Send(ctx, msg); err != nil {
		log.Printf("⚠️ Push to user %d failed: %v", userID, err)
		return
	}
	log.Printf("📧 Push sent to user %d: %s", userID, title)
}
