package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ravintola/internal/domain"
)

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// Latest returns the most recently created enabled promotion, or nil
// when none exists. Window checks are the evaluator's business.
func (r *PromotionRepository) Latest(ctx context.Context) (*domain.DeliveryPromotion, error) {
	var p domain.DeliveryPromotion
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepository) Create(ctx context.Context, p *domain.DeliveryPromotion) error {
	return r.db.WithContext(ctx).Create(p).Error
}
