package loyalty

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ravintola/internal/domain"
	"ravintola/internal/repository"
)

// Service issues one personal reward coupon per calendar month to
// customers who reach the delivered-order target. Issuing is
// idempotent: a partial unique index on (assigned user, issued month)
// makes concurrent accruals collapse into a single coupon.
type Service struct {
	orders  OrderCounter
	coupons CouponRepository

	targetOrders  int
	rewardPercent int
	now           func() time.Time
}

func NewService(orders OrderCounter, coupons CouponRepository, targetOrders, rewardPercent int) *Service {
	return &Service{
		orders:        orders,
		coupons:       coupons,
		targetOrders:  targetOrders,
		rewardPercent: rewardPercent,
		now:           time.Now,
	}
}

// Status is the customer-facing progress view for the current month.
type Status struct {
	Month           string                 `json:"month"`
	DeliveredOrders int                    `json:"delivered_orders"`
	TargetOrders    int                    `json:"target_orders"`
	RewardPercent   int                    `json:"reward_percent"`
	Reward          *domain.DeliveryCoupon `json:"reward,omitempty"`
}

// EnsureReward checks the user's delivered-order count for the current
// month and issues the reward coupon once the target is reached. It
// returns the coupon when one exists (freshly issued or earlier), nil
// otherwise.
func (s *Service) EnsureReward(ctx context.Context, userID int64) (*domain.DeliveryCoupon, error) {
	now := s.now()
	month := now.Format("2006-01")
	monthStart, monthEnd := monthBounds(now)

	if existing, err := s.coupons.FindPersonalForMonth(ctx, userID, month); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	delivered, err := s.orders.CountDeliveredInMonth(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	if delivered < s.targetOrders {
		return nil, nil
	}

	one := 1
	coupon := &domain.DeliveryCoupon{
		Code:           rewardCode(),
		IsActive:       true,
		DiscountType:   domain.DiscountPercent,
		DiscountValue:  decimal.NewFromInt(int64(s.rewardPercent)),
		StartAt:        &monthStart,
		EndAt:          &monthEnd,
		MaxUses:        &one,
		IsPersonal:     true,
		AssignedUserID: &userID,
		IssuedMonth:    month,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost the race to a concurrent accrual.
			return s.coupons.FindPersonalForMonth(ctx, userID, month)
		}
		return nil, err
	}
	return coupon, nil
}

// StatusFor reports the user's progress toward this month's reward
// without issuing anything.
func (s *Service) StatusFor(ctx context.Context, userID int64) (Status, error) {
	now := s.now()
	month := now.Format("2006-01")
	monthStart, monthEnd := monthBounds(now)

	delivered, err := s.orders.CountDeliveredInMonth(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return Status{}, err
	}

	st := Status{
		Month:           month,
		DeliveredOrders: delivered,
		TargetOrders:    s.targetOrders,
		RewardPercent:   s.rewardPercent,
	}
	if reward, err := s.coupons.FindPersonalForMonth(ctx, userID, month); err == nil {
		st.Reward = reward
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Status{}, err
	}
	return st, nil
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

func rewardCode() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("LOYAL-%s", hex.EncodeToString(buf))
}
