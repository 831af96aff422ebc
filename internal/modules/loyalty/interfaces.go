package loyalty

import (
	"context"
	"time"

	"ravintola/internal/domain"
)

type OrderCounter interface {
	CountDeliveredInMonth(ctx context.Context, userID int64, monthStart, monthEnd time.Time) (int, error)
}

type CouponRepository interface {
	Create(ctx context.Context, c *domain.DeliveryCoupon) error
	FindPersonalForMonth(ctx context.Context, userID int64, month string) (*domain.DeliveryCoupon, error)
}
