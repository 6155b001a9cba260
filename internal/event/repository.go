package event

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(e *Event) error
	GetByID(id uint) (*Event, error)
	Update(e *Event) error
	List(status string, limit, offset int) ([]Event, int64, error)
	ListByOrganization(orgID uint) ([]Event, error)
	Count() (int64, error)
	CountByOrganization(orgID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(e *Event) error {
	return r.db.Create(e).Error
}

func (r *repository) GetByID(id uint) (*Event, error) {
	var e Event
	err := r.db.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Update(e *Event) error {
	return r.db.Save(e).Error
}

func (r *repository) List(status string, limit, offset int) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.db.Model(&Event{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("start_date DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

func (r *repository) ListByOrganization(orgID uint) ([]Event, error) {
	var events []Event
	err := r.db.Where("organization_id = ?", orgID).Order("start_date DESC").Find(&events).Error
	return events, err
}

func (r *repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&Event{}).Count(&total).Error
	return total, err
}

func (r *repository) CountByOrganization(orgID uint) (int64, error) {
	var total int64
	err := r.db.Model(&Event{}).Where("organization_id = ?", orgID).Count(&total).Error
	return total, err
}

// ApplyCounterDeltas bumps the denormalized counters on an event row. It runs
// against whatever handle it is given so callers can include it in their own
// transaction.
func ApplyCounterDeltas(tx *gorm.DB, eventID uint, d CounterDeltas) error {
	updates := map[string]interface{}{}
	if d.Participants != 0 {
		updates["total_participants"] = gorm.Expr("total_participants + ?", d.Participants)
	}
	if d.Completed != 0 {
		updates["total_completed"] = gorm.Expr("total_completed + ?", d.Completed)
	}
	if d.Tiles != 0 {
		updates["total_tiles"] = gorm.Expr("total_tiles + ?", d.Tiles)
	}
	if d.GiftsRedeemed != 0 {
		updates["gifts_redeemed"] = gorm.Expr("gifts_redeemed + ?", d.GiftsRedeemed)
	}
	if d.GiftsUnredeemed != 0 {
		updates["gifts_unredeemed"] = gorm.Expr("gifts_unredeemed + ?", d.GiftsUnredeemed)
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&Event{}).Where("id = ?", eventID).Updates(updates).Error
}
