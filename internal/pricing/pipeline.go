package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"ravintola/internal/domain"
)

// CartLine is one priced cart entry built from live catalog data.
type CartLine struct {
	MenuItemID int64           `json:"id"`
	Name       string          `json:"name"`
	Qty        int             `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// CouponInfo reports the state of the selected coupon. A coupon stays
// selected for display even when the current subtotal makes it
// ineffective.
type CouponInfo struct {
	Selected     bool                `json:"selected"`
	Applied      bool                `json:"applied"`
	Code         string              `json:"code,omitempty"`
	Type         domain.DiscountType `json:"type,omitempty"`
	Value        decimal.Decimal     `json:"value,omitempty"`
	MinSubtotal  decimal.Decimal     `json:"min_subtotal,omitempty"`
	Discount     decimal.Decimal     `json:"discount,omitempty"`
	FreeDelivery bool                `json:"free_delivery,omitempty"`
}

// Totals is the full result of one pricing pass.
type Totals struct {
	Lines          []CartLine      `json:"lines"`
	Count          int             `json:"count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	BaseFee        decimal.Decimal `json:"base_delivery_fee"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	Total          decimal.Decimal `json:"total"`
	Promo          PromoInfo       `json:"promo"`
	Coupon         CouponInfo      `json:"coupon"`
}

// Snapshot is the read-only configuration injected into one pricing
// pass: fee policy, the candidate promotion, the selected coupon (nil
// when none or not redeemable) and the stored delivery distance.
type Snapshot struct {
	Policy     domain.FeePolicy
	Promotion  *domain.DeliveryPromotion
	Coupon     *domain.DeliveryCoupon
	CouponCode string
	DistanceKm float64
	Now        time.Time
}

// Quote composes the fee schedule, promotion and coupon in fixed
// precedence order:
//
//  1. subtotal from the priced lines,
//  2. base fee from distance,
//  3. promotion may waive the fee,
//  4. coupon discounts the subtotal; a free-delivery coupon overrides
//     the fee to zero (coupon wins over promotion, both are reported),
//  5. total = max(0, subtotal − discount) + fee.
//
// An empty cart forces subtotal, fee and discount to zero while the
// coupon selection stays visible.
func Quote(lines []CartLine, snap Snapshot) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
		count += l.Qty
	}
	subtotal = subtotal.Round(2)

	baseFee := FeeForDistance(snap.DistanceKm, snap.Policy)
	fee, promoInfo := ApplyPromotion(baseFee, subtotal, snap.Promotion, snap.Now)

	discount := decimal.Zero
	couponInfo := CouponInfo{}
	if snap.CouponCode != "" {
		couponInfo.Selected = true
		couponInfo.Code = snap.CouponCode
	}
	if snap.Coupon != nil {
		c := snap.Coupon
		couponInfo.Selected = true
		couponInfo.Code = c.Code
		couponInfo.Type = c.DiscountType
		couponInfo.Value = c.DiscountValue
		couponInfo.MinSubtotal = c.MinSubtotal

		discount = c.ComputeDiscount(subtotal)
		if c.GrantsFreeDelivery(subtotal) {
			fee = decimal.Zero.Round(2)
			couponInfo.FreeDelivery = true
		}
		couponInfo.Applied = discount.IsPositive() || couponInfo.FreeDelivery
		couponInfo.Discount = discount
	}

	if count <= 0 {
		subtotal = decimal.Zero.Round(2)
		fee = decimal.Zero.Round(2)
		baseFee = decimal.Zero.Round(2)
		discount = decimal.Zero
		couponInfo.Applied = false
		couponInfo.Discount = decimal.Zero
		couponInfo.FreeDelivery = false
	}

	payable := subtotal.Sub(discount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	total := payable.Add(fee).Round(2)

	if lines == nil {
		lines = []CartLine{}
	}
	return Totals{
		Lines:          lines,
		Count:          count,
		Subtotal:       subtotal,
		BaseFee:        baseFee,
		DeliveryFee:    fee,
		CouponDiscount: discount.Round(2),
		Total:          total,
		Promo:          promoInfo,
		Coupon:         couponInfo,
	}
}
