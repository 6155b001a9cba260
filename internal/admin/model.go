package admin

// SystemOverview is the top-level admin dashboard payload
type SystemOverview struct {
	TotalUsers          int64   `json:"total_users"`
	TotalOrganizations  int64   `json:"total_organizations"`
	TotalEvents         int64   `json:"total_events"`
	ActiveEvents        int64   `json:"active_events"`
	TotalParticipations int64   `json:"total_participations"`
	TotalCompletions    int64   `json:"total_completions"`
	CompletionRate      float64 `json:"completion_rate"`
	TotalGifts          int64   `json:"total_gifts"`
	GiftsClaimed        int64   `json:"gifts_claimed"`
	GiftsRedeemed       int64   `json:"gifts_redeemed"`
}

// OrganizationDashboard is the per-organization rollup
type OrganizationDashboard struct {
	OrganizationID      uint    `json:"organization_id"`
	Name                string  `json:"name"`
	TotalEvents         int64   `json:"total_events"`
	TotalParticipations int64   `json:"total_participations"`
	TotalCompletions    int64   `json:"total_completions"`
	CompletionRate      float64 `json:"completion_rate"`
	TotalGifts          int64   `json:"total_gifts"`
	GiftsRedeemed       int64   `json:"gifts_redeemed"`
}

// EventAnalytics is the admin view of a single event
type EventAnalytics struct {
	EventID           uint    `json:"event_id"`
	Name              string  `json:"name"`
	OrganizationID    uint    `json:"organization_id"`
	Status            string  `json:"status"`
	TotalParticipants int64   `json:"total_participants"`
	TotalCompleted    int64   `json:"total_completed"`
	CompletionRate    float64 `json:"completion_rate"`
	TotalTiles        int64   `json:"total_tiles"`
	TotalGifts        int64   `json:"total_gifts"`
	GiftsClaimed      int64   `json:"gifts_claimed"`
	GiftsRedeemed     int64   `json:"gifts_redeemed"`
}

// UserAnalytics is the admin view of a single user
type UserAnalytics struct {
	UserID          uint  `json:"user_id"`
	EventsStarted   int64 `json:"events_started"`
	EventsCompleted int64 `json:"events_completed"`
	TilesInteracted int64 `json:"tiles_interacted"`
	GiftsClaimed    int64 `json:"gifts_claimed"`
	GiftsRedeemed   int64 `json:"gifts_redeemed"`
}

// SearchResult bundles matches across entity types
type SearchResult struct {
	Organizations []SearchHit `json:"organizations"`
	Events        []SearchHit `json:"events"`
	Users         []SearchHit `json:"users"`
}

// SearchHit is one match in a cross-entity search
type SearchHit struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}
