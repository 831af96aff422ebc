package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryPromotion is a code-less, schedule-bound delivery fee waiver.
// At most one promotion is treated as "the" active one; ties are broken
// by recency.
type DeliveryPromotion struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	Title        string          `json:"title" gorm:"size:120;default:'Free Delivery'"`
	IsActive     bool            `json:"is_active" gorm:"default:false"`
	StartAt      *time.Time      `json:"start_at,omitempty"`
	EndAt        *time.Time      `json:"end_at,omitempty"`
	MinSubtotal  decimal.Decimal `json:"min_subtotal" gorm:"type:decimal(8,2);default:0"`
	FreeDelivery bool            `json:"free_delivery" gorm:"default:true"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (DeliveryPromotion) TableName() string { return "delivery_promotions" }

func (p *DeliveryPromotion) IsCurrent(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartAt != nil && now.Before(*p.StartAt) {
		return false
	}
	if p.EndAt != nil && now.After(*p.EndAt) {
		return false
	}
	return true
}
