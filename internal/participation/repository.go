package participation

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Get(tx *gorm.DB, eventID, userID uint) (*Participation, error)
	Create(tx *gorm.DB, p *Participation) error
	Update(tx *gorm.DB, p *Participation) error
	ListByUser(userID uint) ([]Participation, error)
	ListByEvent(eventID uint, limit, offset int) ([]Participation, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// handle returns the transaction if one was supplied, the base DB otherwise.
func (r *repository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) Get(tx *gorm.DB, eventID, userID uint) (*Participation, error) {
	var p Participation
	err := r.handle(tx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(tx *gorm.DB, p *Participation) error {
	return r.handle(tx).Create(p).Error
}

func (r *repository) Update(tx *gorm.DB, p *Participation) error {
	return r.handle(tx).Save(p).Error
}

func (r *repository) ListByUser(userID uint) ([]Participation, error) {
	var rows []Participation
	err := r.db.Where("user_id = ?", userID).Order("started_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) ListByEvent(eventID uint, limit, offset int) ([]Participation, int64, error) {
	var rows []Participation
	var total int64

	query := r.db.Model(&Participation{}).Where("event_id = ?", eventID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("started_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}
