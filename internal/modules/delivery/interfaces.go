package delivery

import (
	"context"

	"ravintola/internal/domain"
	"ravintola/internal/geocode"
	"ravintola/internal/repository"
)

type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *domain.DeliveryOrder, items []domain.DeliveryOrderItem, couponID *int64) error
	GetByID(ctx context.Context, id int64) (*domain.DeliveryOrder, error)
	List(ctx context.Context, f repository.OrderFilter) ([]domain.DeliveryOrder, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type CouponReader interface {
	GetByCode(ctx context.Context, code string) (*domain.DeliveryCoupon, error)
}

type PromotionReader interface {
	Latest(ctx context.Context) (*domain.DeliveryPromotion, error)
}

type FeePolicyReader interface {
	Active(ctx context.Context) (domain.FeePolicy, error)
}

type CatalogReader interface {
	GetVisibleByIDs(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error)
}

type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocode.Result, bool)
	Reverse(ctx context.Context, lat, lng float64) (string, bool)
}

// LoyaltyAccruer is invoked synchronously whenever an order reaches
// the delivered status.
type LoyaltyAccruer interface {
	EnsureReward(ctx context.Context, userID int64) (*domain.DeliveryCoupon, error)
}
