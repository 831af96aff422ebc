package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ravintola/internal/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems persists the order, its line snapshots and, when a
// coupon was consumed, the guarded used_count increment in one
// transaction. ErrCouponExhausted aborts the whole order.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *domain.DeliveryOrder, items []domain.DeliveryOrderItem, couponID *int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			order.Items = items
		}
		if couponID != nil {
			if err := ConsumeUse(tx, *couponID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.DeliveryOrder, error) {
	var o domain.DeliveryOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &o, nil
}

type OrderFilter struct {
	Status domain.OrderStatus
	UserID int64
	Limit  int
}

func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]domain.DeliveryOrder, error) {
	q := r.db.WithContext(ctx).Model(&domain.DeliveryOrder{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}

	var out []domain.DeliveryOrder
	err := q.Order("created_at desc").Limit(limit).Find(&out).Error
	return out, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.DeliveryOrder{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountDeliveredInMonth counts a user's delivered orders created
// inside [monthStart, monthEnd).
func (r *OrderRepository) CountDeliveredInMonth(ctx context.Context, userID int64, monthStart, monthEnd time.Time) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.DeliveryOrder{}).
		Where("user_id = ?", userID).
		Where("status = ?", domain.OrderDelivered).
		Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
		Count(&n).Error
	return int(n), err
}
