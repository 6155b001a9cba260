package gift

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(tx *gorm.DB, gifts []Gift) error
	GetByID(id uint) (*Gift, error)
	ClaimIfUnclaimed(tx *gorm.DB, giftID, userID uint) (bool, error)
	MarkRedeemed(tx *gorm.DB, giftID, orgID uint) (bool, error)
	ListByEvent(eventID uint, limit, offset int) ([]Gift, int64, error)
	ListClaimedByUser(userID uint) ([]Gift, error)
	StatsByEvent(eventID uint) (*EventGiftStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) CreateBatch(tx *gorm.DB, gifts []Gift) error {
	return r.handle(tx).CreateInBatches(gifts, 200).Error
}

func (r *repository) GetByID(id uint) (*Gift, error) {
	var g Gift
	err := r.db.First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ClaimIfUnclaimed flips the claimed flag with a conditional update. The
// WHERE clause makes the claim a compare-and-swap: of two concurrent
// claimers exactly one sees RowsAffected == 1.
func (r *repository) ClaimIfUnclaimed(tx *gorm.DB, giftID, userID uint) (bool, error) {
	res := r.handle(tx).Model(&Gift{}).
		Where("id = ? AND claimed = ?", giftID, false).
		Updates(map[string]interface{}{
			"claimed":            true,
			"claimed_by_user_id": userID,
			"claimed_at":         time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// MarkRedeemed closes out a claimed gift, again guarded by a conditional
// update so a gift cannot be redeemed twice.
func (r *repository) MarkRedeemed(tx *gorm.DB, giftID, orgID uint) (bool, error) {
	res := r.handle(tx).Model(&Gift{}).
		Where("id = ? AND claimed = ? AND collected_at IS NULL", giftID, true).
		Updates(map[string]interface{}{
			"redeemed_by_org_id": orgID,
			"collected_at":       time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) ListByEvent(eventID uint, limit, offset int) ([]Gift, int64, error) {
	var gifts []Gift
	var total int64

	query := r.db.Model(&Gift{}).Where("event_id = ?", eventID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Limit(limit).Offset(offset).Find(&gifts).Error
	return gifts, total, err
}

func (r *repository) ListClaimedByUser(userID uint) ([]Gift, error) {
	var gifts []Gift
	err := r.db.Where("claimed_by_user_id = ?", userID).Order("claimed_at DESC").Find(&gifts).Error
	return gifts, err
}

// StatsByEvent tolerates events with no gifts: every aggregate is zero.
func (r *repository) StatsByEvent(eventID uint) (*EventGiftStats, error) {
	stats := &EventGiftStats{EventID: eventID}

	err := r.db.Model(&Gift{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&stats.Total).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(&Gift{}).Where("event_id = ? AND claimed = ?", eventID, true).Count(&stats.Claimed).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Gift{}).Where("event_id = ? AND collected_at IS NOT NULL", eventID).Count(&stats.Redeemed).Error; err != nil {
		return nil, err
	}

	stats.Unclaimed = stats.Total - stats.Claimed
	stats.Unredeemed = stats.Claimed - stats.Redeemed
	return stats, nil
}
