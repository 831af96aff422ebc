package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"ravintola/internal/domain"
)

// PromoInfo reports the active promotion's terms for display,
// independent of whether it changed the fee.
type PromoInfo struct {
	Active       bool            `json:"active"`
	Title        string          `json:"title,omitempty"`
	FreeDelivery bool            `json:"free_delivery,omitempty"`
	MinSubtotal  decimal.Decimal `json:"min_subtotal,omitempty"`
}

// ApplyPromotion adjusts the delivery fee under the given promotion.
// A nil or non-current promotion passes the fee through. A current
// free-delivery promotion zeroes the fee once the subtotal reaches its
// minimum; otherwise the fee is unchanged but the terms are still
// reported.
func ApplyPromotion(fee, subtotal decimal.Decimal, promo *domain.DeliveryPromotion, now time.Time) (decimal.Decimal, PromoInfo) {
	if promo == nil || !promo.IsCurrent(now) {
		return fee, PromoInfo{Active: false}
	}

	info := PromoInfo{
		Active:      true,
		Title:       promo.Title,
		MinSubtotal: promo.MinSubtotal,
	}
	if promo.FreeDelivery && !subtotal.LessThan(promo.MinSubtotal) {
		info.FreeDelivery = true
		return decimal.Zero.Round(2), info
	}
	return fee, info
}
