package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent      DiscountType = "percent"
	DiscountFixed        DiscountType = "fixed"
	DiscountFreeDelivery DiscountType = "free_delivery"
)

// DeliveryCoupon is a redeemable discount code. Codes are stored
// upper-cased and matched case-insensitively. Personal coupons are
// issued by the loyalty accrual and usable only by their assigned user.
type DeliveryCoupon struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	Code          string          `json:"code" gorm:"size:32;uniqueIndex;not null"`
	IsActive      bool            `json:"is_active" gorm:"default:true"`
	DiscountType  DiscountType    `json:"discount_type" gorm:"size:16;default:percent"`
	DiscountValue decimal.Decimal `json:"discount_value" gorm:"type:decimal(10,2);default:0"`
	MinSubtotal   decimal.Decimal `json:"min_subtotal" gorm:"type:decimal(10,2);default:0"`
	StartAt       *time.Time      `json:"start_at,omitempty"`
	EndAt         *time.Time      `json:"end_at,omitempty"`
	MaxUses       *int            `json:"max_uses,omitempty"` // nil = unlimited
	UsedCount     int             `json:"used_count" gorm:"default:0"`

	IsPersonal     bool   `json:"is_personal" gorm:"default:false;uniqueIndex:idx_personal_coupon_month,where:is_personal"`
	AssignedUserID *int64 `json:"assigned_user_id,omitempty" gorm:"uniqueIndex:idx_personal_coupon_month,where:is_personal"`
	IssuedMonth    string `json:"issued_month,omitempty" gorm:"size:7;uniqueIndex:idx_personal_coupon_month,where:is_personal"` // "2006-01"

	CreatedAt time.Time `json:"created_at"`
}

func (DeliveryCoupon) TableName() string { return "delivery_coupons" }

// IsCurrent reports whether the coupon can be redeemed at the given
// moment: active, inside its window, and not exhausted.
func (c *DeliveryCoupon) IsCurrent(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.StartAt != nil && now.Before(*c.StartAt) {
		return false
	}
	if c.EndAt != nil && now.After(*c.EndAt) {
		return false
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false
	}
	return true
}

// AuthorizedFor reports whether the requesting user may redeem this
// coupon. Public coupons are open to everyone; personal coupons
// require the assigned user. userID 0 means anonymous.
func (c *DeliveryCoupon) AuthorizedFor(userID int64) bool {
	if !c.IsPersonal {
		return true
	}
	if userID == 0 {
		return false
	}
	return c.AssignedUserID == nil || *c.AssignedUserID == userID
}

// ComputeDiscount returns the subtotal discount for this coupon,
// clamped to [0, subtotal]. Free-delivery coupons never discount the
// subtotal; they zero the fee in the pricing pipeline instead. Below
// the minimum subtotal the discount is zero but the coupon stays
// selected for display.
func (c *DeliveryCoupon) ComputeDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(c.MinSubtotal) {
		return decimal.Zero
	}
	var disc decimal.Decimal
	switch c.DiscountType {
	case DiscountFixed:
		disc = c.DiscountValue
	case DiscountPercent:
		disc = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	default:
		return decimal.Zero
	}
	if disc.IsNegative() {
		return decimal.Zero
	}
	if disc.GreaterThan(subtotal) {
		return subtotal
	}
	return disc.Round(2)
}

// GrantsFreeDelivery reports whether this coupon waives the delivery
// fee at the given subtotal.
func (c *DeliveryCoupon) GrantsFreeDelivery(subtotal decimal.Decimal) bool {
	return c.DiscountType == DiscountFreeDelivery && !subtotal.LessThan(c.MinSubtotal)
}
