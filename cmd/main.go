package main

import (
	"context"
	"log"

	"github.com/zawaditap/zawaditap-backend/config"
	"github.com/zawaditap/zawaditap-backend/database"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/internal/event"
	"github.com/zawaditap/zawaditap-backend/internal/gift"
	"github.com/zawaditap/zawaditap-backend/internal/notification"
	"github.com/zawaditap/zawaditap-backend/internal/organization"
	"github.com/zawaditap/zawaditap-backend/internal/participation"
	"github.com/zawaditap/zawaditap-backend/internal/user"
	"github.com/zawaditap/zawaditap-backend/routes"
	"github.com/zawaditap/zawaditap-backend/utils"
)

// @title ZawadiTap API
// @version 1.0
// @description Event promotion and gift redemption platform
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db := database.Connect(cfg)

	if err := db.AutoMigrate(
		&organization.Organization{},
		&user.User{},
		&event.Event{},
		&participation.Participation{},
		&gift.Gift{},
		&auditlog.AuditLog{},
	); err != nil {
		log.Fatalf("❌ Auto migration failed: %v", err)
	}
	log.Println("✅ Database migrated")

	if err := utils.InitRedis(); err != nil {
		log.Printf("⚠️ Redis unavailable, OTP login will not work: %v", err)
	}
	utils.InitializeKafka()
	defer utils.CloseKafka()

	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ FCM disabled: %v", err)
	}

	r, services := routes.Setup(cfg, db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notification.StartAuditConsumer(ctx, services.Notifications)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("✅ ZawadiTap API listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Server exited: %v", err)
	}
}
