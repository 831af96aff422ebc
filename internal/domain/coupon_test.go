package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCouponIsCurrent(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	c := DeliveryCoupon{IsActive: true}
	assert.True(t, c.IsCurrent(now))

	c.IsActive = false
	assert.False(t, c.IsCurrent(now))

	c = DeliveryCoupon{IsActive: true, StartAt: &future}
	assert.False(t, c.IsCurrent(now))

	c = DeliveryCoupon{IsActive: true, EndAt: &past}
	assert.False(t, c.IsCurrent(now))

	one := 1
	c = DeliveryCoupon{IsActive: true, MaxUses: &one, UsedCount: 1}
	assert.False(t, c.IsCurrent(now), "exhausted coupon is never current")

	c.UsedCount = 0
	assert.True(t, c.IsCurrent(now))
}

func TestCouponAuthorizedFor(t *testing.T) {
	public := DeliveryCoupon{}
	assert.True(t, public.AuthorizedFor(0))
	assert.True(t, public.AuthorizedFor(7))

	owner := int64(7)
	personal := DeliveryCoupon{IsPersonal: true, AssignedUserID: &owner}
	assert.False(t, personal.AuthorizedFor(0), "anonymous cannot redeem personal coupons")
	assert.False(t, personal.AuthorizedFor(8))
	assert.True(t, personal.AuthorizedFor(7))
}

func TestComputeDiscount_Percent(t *testing.T) {
	c := DeliveryCoupon{DiscountType: DiscountPercent, DiscountValue: decimal.NewFromInt(10)}

	got := c.ComputeDiscount(decimal.NewFromInt(50))
	assert.True(t, got.Equal(decimal.NewFromInt(5)), "got %s", got)
}

func TestComputeDiscount_FixedClamped(t *testing.T) {
	c := DeliveryCoupon{DiscountType: DiscountFixed, DiscountValue: decimal.NewFromInt(20)}

	got := c.ComputeDiscount(decimal.NewFromInt(12))
	assert.True(t, got.Equal(decimal.NewFromInt(12)), "discount clamps to subtotal, got %s", got)
}

func TestComputeDiscount_BelowMinimum(t *testing.T) {
	c := DeliveryCoupon{
		DiscountType:  DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
		MinSubtotal:   decimal.NewFromInt(30),
	}

	assert.True(t, c.ComputeDiscount(decimal.NewFromInt(20)).IsZero())
	assert.True(t, c.ComputeDiscount(decimal.NewFromInt(30)).Equal(decimal.NewFromInt(3)))
}

func TestComputeDiscount_FreeDeliveryNeverDiscountsSubtotal(t *testing.T) {
	c := DeliveryCoupon{DiscountType: DiscountFreeDelivery, MinSubtotal: decimal.NewFromInt(20)}

	assert.True(t, c.ComputeDiscount(decimal.NewFromInt(50)).IsZero())
	assert.False(t, c.GrantsFreeDelivery(decimal.NewFromInt(19)))
	assert.True(t, c.GrantsFreeDelivery(decimal.NewFromInt(20)))
}
