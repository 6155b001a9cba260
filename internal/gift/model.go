package gift

import (
	"time"
)

// Gift represents the gifts table. A row is one inventory entry with a
// quantity, claimed and redeemed as a unit. The claimed flag flips
// false→true exactly once, and CollectedAt is set exactly once after that.
type Gift struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID        uint   `gorm:"not null;index" json:"event_id"`
	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Description    string `gorm:"type:text" json:"description"`
	Quantity       int    `gorm:"not null;default:1" json:"quantity"`

	Claimed         bool       `gorm:"default:false;index" json:"claimed"`
	ClaimedByUserID *uint      `gorm:"index" json:"claimed_by_user_id"`
	ClaimedAt       *time.Time `json:"claimed_at"`
	RedeemedByOrgID *uint      `json:"redeemed_by_org_id"`
	CollectedAt     *time.Time `json:"collected_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for Gift
func (Gift) TableName() string {
	return "gifts"
}

// CreateGiftRequest represents the payload for creating a gift entry
type CreateGiftRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// ClaimResponse carries the claimed gift plus the QR the user presents at
// the stand
type ClaimResponse struct {
	Gift   *Gift  `json:"gift"`
	QRCode string `json:"qr_code"`
}

// EventGiftStats is the per-event gift breakdown. Total sums quantities
// while Claimed and Redeemed count entries, matching the dashboard contract.
type EventGiftStats struct {
	EventID    uint  `json:"event_id"`
	Total      int64 `json:"total_gifts"`
	Claimed    int64 `json:"claimed_gifts"`
	Redeemed   int64 `json:"redeemed_gifts"`
	Unclaimed  int64 `json:"unclaimed_gifts"`
	Unredeemed int64 `json:"unredeemed_gifts"`
}

// OrganizationEventGiftStats is one row of the organization-wide breakdown:
// the per-event stats annotated with the event they belong to.
type OrganizationEventGiftStats struct {
	EventGiftStats
	EventName      string    `json:"event_name"`
	EventStartDate time.Time `json:"event_start_date"`
}

// BulkIngestResult summarizes a spreadsheet upload
type BulkIngestResult struct {
	RowsRead      int `json:"rows_read"`
	GiftsCreated  int `json:"gifts_created"`
	UnitsIngested int `json:"units_ingested"`
	RowsSkipped   int `json:"rows_skipped"`
}
