package organization

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(org *Organization) error
	GetByID(id uint) (*Organization, error)
	GetByEmail(email string) (*Organization, error)
	Update(org *Organization) error
	List(limit, offset int) ([]Organization, int64, error)
	Delete(id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(org *Organization) error {
	return r.db.Create(org).Error
}

func (r *repository) GetByID(id uint) (*Organization, error) {
	var org Organization
	err := r.db.First(&org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) GetByEmail(email string) (*Organization, error) {
	var org Organization
	err := r.db.Where("email = ?", email).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) Update(org *Organization) error {
	return r.db.Save(org).Error
}

func (r *repository) List(limit, offset int) ([]Organization, int64, error) {
	var orgs []Organization
	var total int64

	if err := r.db.Model(&Organization{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orgs).Error
	return orgs, total, err
}

func (r *repository) Delete(id uint) error {
	return r.db.Delete(&Organization{}, id).Error
}
