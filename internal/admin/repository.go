package admin

import (
	"gorm.io/gorm"

	"github.com/zawaditap/zawaditap-backend/internal/event"
	"github.com/zawaditap/zawaditap-backend/internal/gift"
	"github.com/zawaditap/zawaditap-backend/internal/organization"
	"github.com/zawaditap/zawaditap-backend/internal/participation"
	"github.com/zawaditap/zawaditap-backend/internal/user"
)

// Repository runs the cross-table aggregate queries behind the admin portal.
// All aggregates tolerate empty tables: a COUNT over zero rows is zero.
type Repository interface {
	Overview() (*SystemOverview, error)
	OrganizationDashboard(orgID uint) (*OrganizationDashboard, error)
	EventAnalytics(eventID uint) (*EventAnalytics, error)
	UserAnalytics(userID uint) (*UserAnalytics, error)
	Search(query string, limit int) (*SearchResult, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(model interface{}, dest *int64, conds ...interface{}) error {
	q := r.db.Model(model)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	return q.Count(dest).Error
}

func (r *repository) Overview() (*SystemOverview, error) {
	o := &SystemOverview{}

	steps := []error{
		r.count(&user.User{}, &o.TotalUsers),
		r.count(&organization.Organization{}, &o.TotalOrganizations),
		r.count(&event.Event{}, &o.TotalEvents),
		r.count(&event.Event{}, &o.ActiveEvents, "status = ?", event.StatusActive),
		r.count(&participation.Participation{}, &o.TotalParticipations),
		r.count(&participation.Participation{}, &o.TotalCompletions, "completed_at IS NOT NULL"),
		r.count(&gift.Gift{}, &o.GiftsClaimed, "claimed = ?", true),
		r.count(&gift.Gift{}, &o.GiftsRedeemed, "collected_at IS NOT NULL"),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	err := r.db.Model(&gift.Gift{}).Select("COALESCE(SUM(quantity), 0)").Scan(&o.TotalGifts).Error
	if err != nil {
		return nil, err
	}

	if o.TotalParticipations > 0 {
		o.CompletionRate = float64(o.TotalCompletions) / float64(o.TotalParticipations)
	}
	return o, nil
}

func (r *repository) OrganizationDashboard(orgID uint) (*OrganizationDashboard, error) {
	d := &OrganizationDashboard{OrganizationID: orgID}

	var org organization.Organization
	if err := r.db.First(&org, orgID).Error; err != nil {
		return nil, err
	}
	d.Name = org.Name

	if err := r.count(&event.Event{}, &d.TotalEvents, "organization_id = ?", orgID); err != nil {
		return nil, err
	}

	eventIDs := r.db.Model(&event.Event{}).Select("id").Where("organization_id = ?", orgID)
	steps := []error{
		r.count(&participation.Participation{}, &d.TotalParticipations, "event_id IN (?)", eventIDs),
		r.count(&participation.Participation{}, &d.TotalCompletions, "event_id IN (?) AND completed_at IS NOT NULL", eventIDs),
		r.count(&gift.Gift{}, &d.GiftsRedeemed, "organization_id = ? AND collected_at IS NOT NULL", orgID),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	err := r.db.Model(&gift.Gift{}).
		Where("organization_id = ?", orgID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&d.TotalGifts).Error
	if err != nil {
		return nil, err
	}

	if d.TotalParticipations > 0 {
		d.CompletionRate = float64(d.TotalCompletions) / float64(d.TotalParticipations)
	}
	return d, nil
}

func (r *repository) EventAnalytics(eventID uint) (*EventAnalytics, error) {
	var e event.Event
	if err := r.db.First(&e, eventID).Error; err != nil {
		return nil, err
	}

	a := &EventAnalytics{
		EventID:        e.ID,
		Name:           e.Name,
		OrganizationID: e.OrganizationID,
		Status:         e.Status,
	}

	steps := []error{
		r.count(&participation.Participation{}, &a.TotalParticipants, "event_id = ?", eventID),
		r.count(&participation.Participation{}, &a.TotalCompleted, "event_id = ? AND completed_at IS NOT NULL", eventID),
		r.count(&gift.Gift{}, &a.GiftsClaimed, "event_id = ? AND claimed = ?", eventID, true),
		r.count(&gift.Gift{}, &a.GiftsRedeemed, "event_id = ? AND collected_at IS NOT NULL", eventID),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	err := r.db.Model(&gift.Gift{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&a.TotalGifts).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&participation.Participation{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(SUM(tiles_interacted), 0)").
		Scan(&a.TotalTiles).Error
	if err != nil {
		return nil, err
	}

	if a.TotalParticipants > 0 {
		a.CompletionRate = float64(a.TotalCompleted) / float64(a.TotalParticipants)
	}
	return a, nil
}

func (r *repository) UserAnalytics(userID uint) (*UserAnalytics, error) {
	a := &UserAnalytics{UserID: userID}

	steps := []error{
		r.count(&participation.Participation{}, &a.EventsStarted, "user_id = ?", userID),
		r.count(&participation.Participation{}, &a.EventsCompleted, "user_id = ? AND completed_at IS NOT NULL", userID),
		r.count(&gift.Gift{}, &a.GiftsClaimed, "claimed_by_user_id = ?", userID),
		r.count(&gift.Gift{}, &a.GiftsRedeemed, "claimed_by_user_id = ? AND collected_at IS NOT NULL", userID),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	err := r.db.Model(&participation.Participation{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(tiles_interacted), 0)").
		Scan(&a.TilesInteracted).Error
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repository) Search(query string, limit int) (*SearchResult, error) {
	result := &SearchResult{
		Organizations: []SearchHit{},
		Events:        []SearchHit{},
		Users:         []SearchHit{},
	}
	pattern := "%" + query + "%"

	var orgs []organization.Organization
	if err := r.db.Where("name LIKE ? OR email LIKE ?", pattern, pattern).Limit(limit).Find(&orgs).Error; err != nil {
		return nil, err
	}
	for _, o := range orgs {
		result.Organizations = append(result.Organizations, SearchHit{ID: o.ID, Label: o.Name})
	}

	var events []event.Event
	if err := r.db.Where("name LIKE ?", pattern).Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	for _, e := range events {
		result.Events = append(result.Events, SearchHit{ID: e.ID, Label: e.Name})
	}

	var users []user.User
	if err := r.db.Where("phone LIKE ? OR name LIKE ?", pattern, pattern).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		label := u.Name
		if label == "" {
			label = u.Phone
		}
		result.Users = append(result.Users, SearchHit{ID: u.ID, Label: label})
	}

	return result, nil
}
