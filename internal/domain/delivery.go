package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderAccepted       OrderStatus = "accepted"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

var orderStatusRank = map[OrderStatus]int{
	OrderPending:        0,
	OrderAccepted:       1,
	OrderPreparing:      2,
	OrderOutForDelivery: 3,
	OrderDelivered:      4,
}

// ValidOrderStatus reports whether s is a known delivery order status.
func ValidOrderStatus(s OrderStatus) bool {
	if s == OrderCancelled {
		return true
	}
	_, ok := orderStatusRank[s]
	return ok
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// DeliveryOrder is a placed delivery order. Money, promotion and coupon
// fields are snapshots taken at checkout; later catalog or coupon edits
// never alter historical orders.
type DeliveryOrder struct {
	ID        int64       `json:"id" gorm:"primaryKey"`
	UserID    *int64      `json:"user_id,omitempty" gorm:"index"`
	Status    OrderStatus `json:"status" gorm:"size:32;default:pending;index"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`

	CustomerName  string        `json:"customer_name" gorm:"size:120;not null"`
	CustomerPhone string        `json:"customer_phone" gorm:"size:40;not null"`
	CustomerNote  string        `json:"customer_note" gorm:"type:text"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"size:20;default:cash"`

	AddressLabel string  `json:"address_label" gorm:"size:255"`
	AddressExtra string  `json:"address_extra" gorm:"size:255"`
	Lat          float64 `json:"lat" gorm:"not null"`
	Lng          float64 `json:"lng" gorm:"not null"`
	DistanceKm   float64 `json:"distance_km" gorm:"default:0"`

	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);default:0"`
	DeliveryFee decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(10,2);default:0"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(10,2);default:0"`

	PromoTitle        string          `json:"promo_title" gorm:"size:120"`
	PromoFreeDelivery bool            `json:"promo_free_delivery" gorm:"default:false"`
	PromoMinSubtotal  decimal.Decimal `json:"promo_min_subtotal" gorm:"type:decimal(10,2);default:0"`

	CouponCode     string          `json:"coupon_code" gorm:"size:32"`
	CouponDiscount decimal.Decimal `json:"coupon_discount" gorm:"type:decimal(10,2);default:0"`

	Items []DeliveryOrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (DeliveryOrder) TableName() string { return "delivery_orders" }

// CanTransition reports whether the order status may change to the
// target. Statuses only move forward; cancellation is possible until
// the order is delivered.
func (o *DeliveryOrder) CanTransition(to OrderStatus) bool {
	if o.Status == OrderCancelled || o.Status == OrderDelivered {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	fromRank, ok := orderStatusRank[o.Status]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// DeliveryOrderItem is a line snapshot (name, qty, unit price) owned by
// one order, independent of the live catalog item.
type DeliveryOrderItem struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	OrderID   int64           `json:"order_id" gorm:"index;not null"`
	Name      string          `json:"name" gorm:"size:200;not null"`
	Qty       int             `json:"qty" gorm:"not null;default:1"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(8,2);default:0"`
}

func (DeliveryOrderItem) TableName() string { return "delivery_order_items" }

func (it *DeliveryOrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty)))
}
