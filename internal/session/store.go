package session

import "context"

// Cart is the ephemeral per-session selection of catalog items. It is
// a plain serializable mapping reconstructed on every read; prices are
// never stored here.
type Cart struct {
	Items map[int64]int `json:"items"` // menu item id -> quantity
}

func NewCart() Cart {
	return Cart{Items: make(map[int64]int)}
}

// Set stores a quantity, dropping the line at qty <= 0.
func (c *Cart) Set(itemID int64, qty int) {
	if c.Items == nil {
		c.Items = make(map[int64]int)
	}
	if qty <= 0 {
		delete(c.Items, itemID)
		return
	}
	c.Items[itemID] = qty
}

func (c *Cart) Add(itemID int64, qty int) {
	if c.Items == nil {
		c.Items = make(map[int64]int)
	}
	c.Items[itemID] += qty
	if c.Items[itemID] <= 0 {
		delete(c.Items, itemID)
	}
}

func (c *Cart) IsEmpty() bool {
	for _, q := range c.Items {
		if q > 0 {
			return false
		}
	}
	return true
}

// DeliveryContext is the pending checkout state for one session.
type DeliveryContext struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	DistanceKm   float64 `json:"distance_km"`
	AddressLabel string  `json:"address_label"`
	AddressExtra string  `json:"address_extra"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerNote  string `json:"customer_note"`
	PaymentMethod string `json:"payment_method"`

	CouponCode string `json:"coupon_code"`
}

func (d *DeliveryContext) HasLocation() bool {
	return d.Lat != 0 || d.Lng != 0
}

// Store keeps carts and checkout contexts keyed by session id. The
// core owns neither durability nor expiry policy; a missing session
// reads back as empty.
type Store interface {
	Cart(ctx context.Context, sessionID string) (Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart Cart) error
	ClearCart(ctx context.Context, sessionID string) error

	DeliveryContext(ctx context.Context, sessionID string) (DeliveryContext, error)
	SaveDeliveryContext(ctx context.Context, sessionID string, dc DeliveryContext) error
}
