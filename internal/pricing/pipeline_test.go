package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ravintola/internal/domain"
)

var quoteNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func lineFor(id int64, qty int, unit float64) CartLine {
	price := decimal.NewFromFloat(unit)
	return CartLine{
		MenuItemID: id,
		Qty:        qty,
		UnitPrice:  price,
		LineTotal:  price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestQuote_NoExtras(t *testing.T) {
	lines := []CartLine{lineFor(1, 2, 11.90), lineFor(2, 1, 5.90)}
	snap := Snapshot{
		Policy:     domain.DefaultFeePolicy(),
		DistanceKm: 5.0,
		Now:        quoteNow,
	}

	got := Quote(lines, snap)

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, "29.70", got.Subtotal.StringFixed(2))
	assert.Equal(t, "2.97", got.DeliveryFee.StringFixed(2))
	assert.Equal(t, "32.67", got.Total.StringFixed(2))
	assert.False(t, got.Promo.Active)
	assert.False(t, got.Coupon.Selected)
}

func TestQuote_PromotionWaivesFeeAtMinimum(t *testing.T) {
	promo := &domain.DeliveryPromotion{
		IsActive:     true,
		Title:        "Free delivery over 30",
		FreeDelivery: true,
		MinSubtotal:  decimal.NewFromInt(30),
	}
	snap := Snapshot{
		Policy:     domain.DefaultFeePolicy(),
		Promotion:  promo,
		DistanceKm: 5.0,
		Now:        quoteNow,
	}

	// below the minimum the fee stays
	below := Quote([]CartLine{lineFor(1, 1, 20)}, snap)
	assert.True(t, below.Promo.Active)
	assert.False(t, below.Promo.FreeDelivery)
	assert.Equal(t, "2.97", below.DeliveryFee.StringFixed(2))

	// at the minimum the fee is waived
	above := Quote([]CartLine{lineFor(1, 2, 20)}, snap)
	assert.True(t, above.Promo.FreeDelivery)
	assert.Equal(t, "0.00", above.DeliveryFee.StringFixed(2))
	assert.Equal(t, "40.00", above.Total.StringFixed(2))
}

func TestQuote_PercentCoupon(t *testing.T) {
	coupon := &domain.DeliveryCoupon{
		Code:          "PERCENT10",
		IsActive:      true,
		DiscountType:  domain.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
	}
	snap := Snapshot{
		Policy:     domain.DefaultFeePolicy(),
		Coupon:     coupon,
		CouponCode: "PERCENT10",
		DistanceKm: 5.0,
		Now:        quoteNow,
	}

	got := Quote([]CartLine{lineFor(1, 1, 50)}, snap)

	assert.True(t, got.Coupon.Applied)
	assert.Equal(t, "5.00", got.CouponDiscount.StringFixed(2))
	// total = (50 - 5) + 2.97
	assert.Equal(t, "47.97", got.Total.StringFixed(2))
}

func TestQuote_FreeDeliveryCouponGatedOnMinimum(t *testing.T) {
	coupon := &domain.DeliveryCoupon{
		Code:         "FREESHIP",
		IsActive:     true,
		DiscountType: domain.DiscountFreeDelivery,
		MinSubtotal:  decimal.NewFromInt(30),
	}
	snap := Snapshot{
		Policy:     domain.DefaultFeePolicy(),
		Coupon:     coupon,
		CouponCode: "FREESHIP",
		DistanceKm: 5.0,
		Now:        quoteNow,
	}

	below := Quote([]CartLine{lineFor(1, 1, 20)}, snap)
	assert.True(t, below.Coupon.Selected)
	assert.False(t, below.Coupon.Applied, "below the minimum the coupon stays selected but inert")
	assert.Equal(t, "2.97", below.DeliveryFee.StringFixed(2))

	above := Quote([]CartLine{lineFor(1, 2, 20)}, snap)
	assert.True(t, above.Coupon.Applied)
	assert.True(t, above.Coupon.FreeDelivery)
	assert.Equal(t, "0.00", above.DeliveryFee.StringFixed(2))
	assert.Equal(t, "40.00", above.Total.StringFixed(2))
}

func TestQuote_CouponWinsOverPromotionForFee(t *testing.T) {
	promo := &domain.DeliveryPromotion{
		IsActive:     true,
		FreeDelivery: true,
		MinSubtotal:  decimal.NewFromInt(100), // promotion not reachable
	}
	coupon := &domain.DeliveryCoupon{
		Code:         "FREESHIP",
		IsActive:     true,
		DiscountType: domain.DiscountFreeDelivery,
	}
	snap := Snapshot{
		Policy:     domain.DefaultFeePolicy(),
		Promotion:  promo,
		Coupon:     coupon,
		CouponCode: "FREESHIP",
		DistanceKm: 5.0,
		Now:        quoteNow,
	}

	got := Quote([]CartLine{lineFor(1, 1, 20)}, snap)

	assert.True(t, got.Promo.Active, "promotion terms still reported")
	assert.True(t, got.Coupon.FreeDelivery)
	assert.Equal(t, "0.00", got.DeliveryFee.StringFixed(2))
}

func TestQuote_EmptyCartZeroesMoneyButKeepsSelection(t *testing.T) {
	coupon := &domain.DeliveryCoupon{
		Code:          "PERCENT10",
		IsActive:      true,
		DiscountType:  domain.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
	}
	snap := Snapshot{
		Policy:     domain.DefaultFeePolicy(),
		Coupon:     coupon,
		CouponCode: "PERCENT10",
		DistanceKm: 5.0,
		Now:        quoteNow,
	}

	got := Quote(nil, snap)

	assert.Equal(t, 0, got.Count)
	assert.Equal(t, "0.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", got.DeliveryFee.StringFixed(2))
	assert.Equal(t, "0.00", got.Total.StringFixed(2))
	assert.True(t, got.Coupon.Selected, "selection survives an emptied cart")
	assert.False(t, got.Coupon.Applied)
	assert.NotNil(t, got.Lines)
}

func TestQuote_DiscountNeverExceedsSubtotal(t *testing.T) {
	coupon := &domain.DeliveryCoupon{
		Code:          "BIGFIX",
		IsActive:      true,
		DiscountType:  domain.DiscountFixed,
		DiscountValue: decimal.NewFromInt(100),
	}
	snap := Snapshot{
		Policy:     domain.DefaultFeePolicy(),
		Coupon:     coupon,
		CouponCode: "BIGFIX",
		DistanceKm: 5.0,
		Now:        quoteNow,
	}

	got := Quote([]CartLine{lineFor(1, 1, 10)}, snap)

	assert.Equal(t, "10.00", got.CouponDiscount.StringFixed(2))
	// only the fee remains payable
	assert.Equal(t, "2.97", got.Total.StringFixed(2))
}

func TestQuote_Idempotent(t *testing.T) {
	lines := []CartLine{lineFor(1, 2, 11.90)}
	snap := Snapshot{Policy: domain.DefaultFeePolicy(), DistanceKm: 4.2, Now: quoteNow}

	first := Quote(lines, snap)
	second := Quote(lines, snap)

	assert.Equal(t, first.Total.StringFixed(2), second.Total.StringFixed(2))
	assert.Equal(t, first.DeliveryFee.StringFixed(2), second.DeliveryFee.StringFixed(2))
}
