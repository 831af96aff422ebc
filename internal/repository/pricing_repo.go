package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ravintola/internal/domain"
)

type FeePolicyRepository struct {
	db *gorm.DB
}

func NewFeePolicyRepository(db *gorm.DB) *FeePolicyRepository {
	return &FeePolicyRepository{db: db}
}

// Active returns the configured fee policy, falling back to the
// hard-coded defaults when none is active.
func (r *FeePolicyRepository) Active(ctx context.Context) (domain.FeePolicy, error) {
	var p domain.FeePolicy
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultFeePolicy(), nil
	}
	if err != nil {
		return domain.DefaultFeePolicy(), err
	}
	return p, nil
}

func (r *FeePolicyRepository) Create(ctx context.Context, p *domain.FeePolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}
