package repository

import (
	"context"

	"gorm.io/gorm"

	"ravintola/internal/domain"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// GetByCode matches case-insensitively.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.DeliveryCoupon, error) {
	var c domain.DeliveryCoupon
	err := r.db.WithContext(ctx).
		Where("lower(code) = lower(?)", code).
		First(&c).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*domain.DeliveryCoupon, error) {
	var c domain.DeliveryCoupon
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.DeliveryCoupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ConsumeUse increments used_count by one, guarded so the increment
// can never push past max_uses even under concurrent redemptions. The
// same statement works inside a caller-supplied transaction.
func ConsumeUse(tx *gorm.DB, couponID int64) error {
	res := tx.Model(&domain.DeliveryCoupon{}).
		Where("id = ?", couponID).
		Where("max_uses IS NULL OR used_count < max_uses").
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}

// FindPersonalForMonth returns the loyalty coupon already issued to a
// user for the given month ("2006-01"), if any.
func (r *CouponRepository) FindPersonalForMonth(ctx context.Context, userID int64, month string) (*domain.DeliveryCoupon, error) {
	var c domain.DeliveryCoupon
	err := r.db.WithContext(ctx).
		Where("is_personal = ? AND assigned_user_id = ? AND issued_month = ?", true, userID, month).
		First(&c).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}
