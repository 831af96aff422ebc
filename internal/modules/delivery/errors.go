package delivery

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrNoLocation        = errors.New("delivery location not set")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCouponInvalid     = errors.New("invalid or expired coupon")
	ErrCouponNotYours    = errors.New("coupon belongs to another customer")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
