package participation

import (
	"time"
)

// Participation stages, ordered from earliest to latest. A user's stage is
// derived from the row state, never stored directly.
const (
	StageNotStarted      = "not_started"
	StageTerms           = "terms"
	StageTiles           = "tiles"
	StageReadyToComplete = "ready_to_complete"
	StageCompleted       = "completed"
)

// Participation represents the event_participations table. One row per
// (event, user) pair, created when the user starts the event flow.
type Participation struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID         uint       `gorm:"not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID          uint       `gorm:"not null;uniqueIndex:idx_event_user" json:"user_id"`
	TermsAccepted   bool       `gorm:"default:false" json:"terms_accepted"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at"`
	TilesInteracted int        `gorm:"default:0" json:"tiles_interacted"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for Participation
func (Participation) TableName() string {
	return "event_participations"
}

// InteractTilesRequest represents the payload for recording tile interactions
type InteractTilesRequest struct {
	Count int `json:"count"`
}

// StatusResponse is returned by every participation endpoint. Message, Terms
// and QRCode are set only by the transition that produces them.
type StatusResponse struct {
	EventID         uint   `json:"event_id"`
	Stage           string `json:"stage"`
	TermsAccepted   bool   `json:"terms_accepted"`
	TilesInteracted int    `json:"tiles_interacted"`
	TilesRequired   int    `json:"tiles_required"`
	Completed       bool   `json:"completed"`
	Message         string `json:"message,omitempty"`
	Terms           string `json:"terms,omitempty"`
	QRCode          string `json:"qr_code,omitempty"`
}

// DeriveStage maps a participation row to its stage. Rules are evaluated in
// order and the first match wins; a nil row means the user never started.
func DeriveStage(p *Participation, tilesRequired int) string {
	switch {
	case p == nil:
		return StageNotStarted
	case p.CompletedAt != nil:
		return StageCompleted
	case p.TilesInteracted >= tilesRequired:
		return StageReadyToComplete
	case p.TilesInteracted > 0 || p.TermsAccepted:
		return StageTiles
	default:
		return StageTerms
	}
}
