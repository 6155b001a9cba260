package user

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(u *User) error
	GetByID(id uint) (*User, error)
	GetByPhone(phone string) (*User, error)
	Update(u *User) error
	List(limit, offset int) ([]User, int64, error)
	Count() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(u *User) error {
	return r.db.Create(u).Error
}

func (r *repository) GetByID(id uint) (*User, error) {
	var u User
	err := r.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByPhone(phone string) (*User, error) {
	var u User
	err := r.db.Where("phone = ?", phone).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Update(u *User) error {
	return r.db.Save(u).Error
}

func (r *repository) List(limit, offset int) ([]User, int64, error) {
	var users []User
	var total int64

	if err := r.db.Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&User{}).Count(&total).Error
	return total, err
}
