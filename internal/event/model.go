package event

import (
	"time"
)

// Event statuses
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Event represents the events table. The counter columns are denormalized
// running totals maintained by the participation and gift services inside
// the same transaction as the write that moves them.
type Event struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID    uint      `gorm:"not null;index" json:"organization_id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Description       string    `gorm:"type:text" json:"description"`
	Terms             string    `gorm:"type:text" json:"terms"`
	Location          string    `gorm:"size:255" json:"location"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Status            string    `gorm:"size:20;default:'draft';index" json:"status"`
	QRCodeData        string    `gorm:"type:text" json:"qr_code_data"`
	BannerURL         string    `gorm:"size:512" json:"banner_url"`
	RequiredTileCount int       `gorm:"default:3" json:"required_tile_count"`

	TotalParticipants int `gorm:"default:0" json:"total_participants"`
	TotalCompleted    int `gorm:"default:0" json:"total_completed"`
	TotalTiles        int `gorm:"default:0" json:"total_tiles"`
	GiftsRedeemed     int `gorm:"default:0" json:"gifts_redeemed"`
	GiftsUnredeemed   int `gorm:"default:0" json:"gifts_unredeemed"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for Event
func (Event) TableName() string {
	return "events"
}

// CounterDeltas names the counter columns a transition moves. Zero fields
// are skipped, negative values decrement.
type CounterDeltas struct {
	Participants    int
	Completed       int
	Tiles           int
	GiftsRedeemed   int
	GiftsUnredeemed int
}

// CreateEventRequest represents the payload for creating an event
type CreateEventRequest struct {
	Name              string    `json:"name" binding:"required"`
	Description       string    `json:"description"`
	Terms             string    `json:"terms"`
	Location          string    `json:"location"`
	StartDate         time.Time `json:"start_date" binding:"required"`
	EndDate           time.Time `json:"end_date" binding:"required"`
	RequiredTileCount int       `json:"required_tile_count"`
}

// UpdateEventRequest represents the payload for updating an event
type UpdateEventRequest struct {
	Name              *string    `json:"name"`
	Description       *string    `json:"description"`
	Terms             *string    `json:"terms"`
	Location          *string    `json:"location"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	RequiredTileCount *int       `json:"required_tile_count"`
}

// UpdateStatusRequest represents the payload for an event status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft active ended"`
}

// EventStats is the per-event aggregate returned to organizations
type EventStats struct {
	EventID           uint    `json:"event_id"`
	Name              string  `json:"name"`
	TotalParticipants int     `json:"total_participants"`
	TotalCompleted    int     `json:"total_completed"`
	CompletionRate    float64 `json:"completion_rate"`
	TotalTiles        int     `json:"total_tiles"`
	GiftsRedeemed     int     `json:"gifts_redeemed"`
	GiftsUnredeemed   int     `json:"gifts_unredeemed"`
}
