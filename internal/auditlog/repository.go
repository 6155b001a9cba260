package auditlog

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(entry *AuditLog) error
	Find(filter AuditLogFilter) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(entry *AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *repository) Find(filter AuditLogFilter) ([]AuditLog, error) {
	var logs []AuditLog
	query := r.db.Model(&AuditLog{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.Target != "" {
		query = query.Where("target = ?", filter.Target)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
