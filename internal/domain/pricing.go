package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeePolicy parameterizes the distance-based delivery fee schedule.
// The active database record wins; DefaultFeePolicy applies when none
// is configured.
type FeePolicy struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	BaseKm    float64         `json:"base_km" gorm:"default:2"`
	BaseFee   decimal.Decimal `json:"base_fee" gorm:"type:decimal(8,2);default:0"`
	PerKmFee  decimal.Decimal `json:"per_km_fee" gorm:"type:decimal(8,2);default:0.99"`
	MaxFee    decimal.Decimal `json:"max_fee" gorm:"type:decimal(8,2);default:8.99"`
	IsActive  bool            `json:"is_active" gorm:"default:false"`
	CreatedAt time.Time       `json:"created_at"`
}

func (FeePolicy) TableName() string { return "fee_policies" }

func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		BaseKm:   2.0,
		BaseFee:  decimal.Zero,
		PerKmFee: decimal.NewFromFloat(0.99),
		MaxFee:   decimal.NewFromFloat(8.99),
	}
}
