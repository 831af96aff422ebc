package delivery

type SetLocationRequest struct {
	Lat          float64 `json:"lat" binding:"required"`
	Lng          float64 `json:"lng" binding:"required"`
	AddressLabel string  `json:"address_label"`
	AddressExtra string  `json:"address_extra"`
}

type CartItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Qty        int   `json:"qty"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type CheckoutDetailsRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Note          string `json:"note"`
	AddressExtra  string `json:"address_extra"`
	PaymentMethod string `json:"payment_method"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BulkStatusRequest struct {
	OrderIDs []int64 `json:"order_ids" binding:"required"`
	Status   string  `json:"status" binding:"required"`
}
