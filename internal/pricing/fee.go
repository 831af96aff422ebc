package pricing

import (
	"github.com/shopspring/decimal"

	"ravintola/internal/domain"
)

// FeeForDistance maps a delivery distance to a fee under the given
// policy: flat base fee up to BaseKm, then PerKmFee per extra
// kilometer, capped at MaxFee. Non-positive distance is free.
func FeeForDistance(distanceKm float64, policy domain.FeePolicy) decimal.Decimal {
	if distanceKm <= 0 {
		return decimal.Zero.Round(2)
	}

	fee := policy.BaseFee
	if distanceKm > policy.BaseKm {
		extraKm := decimal.NewFromFloat(distanceKm - policy.BaseKm)
		fee = fee.Add(extraKm.Mul(policy.PerKmFee))
	}
	if fee.GreaterThan(policy.MaxFee) {
		fee = policy.MaxFee
	}
	return fee.Round(2)
}
