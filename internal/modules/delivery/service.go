package delivery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ravintola/internal/domain"
	"ravintola/internal/notify"
	"ravintola/internal/pkg/geo"
	"ravintola/internal/pricing"
	"ravintola/internal/repository"
	"ravintola/internal/session"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,}$`)

// Origin is the restaurant's own coordinate and the delivery radius.
type Origin struct {
	Lat         float64
	Lng         float64
	MaxRadiusKm float64
}

type Service struct {
	orders   OrderRepository
	coupons  CouponReader
	promos   PromotionReader
	policies FeePolicyReader
	catalog  CatalogReader
	sessions session.Store
	geocoder Geocoder
	notifier notify.Notifier
	loyalty  LoyaltyAccruer
	hub      *StatusHub
	origin   Origin
	now      func() time.Time
}

func NewService(
	orders OrderRepository,
	coupons CouponReader,
	promos PromotionReader,
	policies FeePolicyReader,
	catalog CatalogReader,
	sessions session.Store,
	geocoder Geocoder,
	notifier notify.Notifier,
	loyalty LoyaltyAccruer,
	hub *StatusHub,
	origin Origin,
) *Service {
	return &Service{
		orders:   orders,
		coupons:  coupons,
		promos:   promos,
		policies: policies,
		catalog:  catalog,
		sessions: sessions,
		geocoder: geocoder,
		notifier: notifier,
		loyalty:  loyalty,
		hub:      hub,
		origin:   origin,
		now:      time.Now,
	}
}

// SetLocation stores the delivery point for the session and returns a
// fresh quote. The distance is computed once here and reused by every
// later pricing pass.
func (s *Service) SetLocation(ctx context.Context, sessionID string, req SetLocationRequest) (pricing.Totals, error) {
	distance := geo.HaversineKm(s.origin.Lat, s.origin.Lng, req.Lat, req.Lng)
	if distance > s.origin.MaxRadiusKm {
		return pricing.Totals{}, domain.NewFieldError("location",
			"sorry, we deliver only within %.0f km", s.origin.MaxRadiusKm)
	}

	label := req.AddressLabel
	if label == "" && s.geocoder != nil {
		if resolved, ok := s.geocoder.Reverse(ctx, req.Lat, req.Lng); ok {
			label = resolved
		}
	}

	dc, err := s.sessions.DeliveryContext(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	dc.Lat = req.Lat
	dc.Lng = req.Lng
	dc.DistanceKm = roundKm(distance)
	dc.AddressLabel = label
	if req.AddressExtra != "" {
		dc.AddressExtra = req.AddressExtra
	}
	if err := s.sessions.SaveDeliveryContext(ctx, sessionID, dc); err != nil {
		return pricing.Totals{}, err
	}

	return s.quote(ctx, sessionID, dc, 0)
}

// Totals reprices the session cart from live catalog data. Pure with
// respect to current state: repeated calls yield identical results.
func (s *Service) Totals(ctx context.Context, sessionID string, userID int64) (pricing.Totals, error) {
	dc, err := s.sessions.DeliveryContext(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	return s.quote(ctx, sessionID, dc, userID)
}

func (s *Service) CartAdd(ctx context.Context, sessionID string, userID int64, req CartItemRequest) (pricing.Totals, error) {
	if req.Qty <= 0 {
		req.Qty = 1
	}
	if _, err := s.visibleItem(ctx, req.MenuItemID); err != nil {
		return pricing.Totals{}, err
	}

	cart, err := s.sessions.Cart(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	cart.Add(req.MenuItemID, req.Qty)
	if err := s.sessions.SaveCart(ctx, sessionID, cart); err != nil {
		return pricing.Totals{}, err
	}
	return s.Totals(ctx, sessionID, userID)
}

func (s *Service) CartSet(ctx context.Context, sessionID string, userID, itemID int64, qty int) (pricing.Totals, error) {
	if qty > 0 {
		if _, err := s.visibleItem(ctx, itemID); err != nil {
			return pricing.Totals{}, err
		}
	}

	cart, err := s.sessions.Cart(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	cart.Set(itemID, qty)
	if err := s.sessions.SaveCart(ctx, sessionID, cart); err != nil {
		return pricing.Totals{}, err
	}
	return s.Totals(ctx, sessionID, userID)
}

func (s *Service) visibleItem(ctx context.Context, itemID int64) (*domain.MenuItem, error) {
	visible, err := s.catalog.GetVisibleByIDs(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}
	item, ok := visible[itemID]
	if !ok {
		return nil, domain.NewFieldError("menu_item_id", "this item is not available")
	}
	return &item, nil
}

// ApplyCoupon validates a code against its window, usage cap,
// ownership and minimum subtotal, then remembers the selection in the
// session. Nothing is consumed until an order is placed.
func (s *Service) ApplyCoupon(ctx context.Context, sessionID string, userID int64, code string) (pricing.Totals, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return pricing.Totals{}, domain.NewFieldError("coupon_code", "please enter a coupon code")
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return pricing.Totals{}, ErrCouponInvalid
		}
		return pricing.Totals{}, err
	}
	if !coupon.IsCurrent(s.now()) {
		return pricing.Totals{}, ErrCouponInvalid
	}
	if !coupon.AuthorizedFor(userID) {
		return pricing.Totals{}, ErrCouponNotYours
	}

	dc, err := s.sessions.DeliveryContext(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}

	totals, err := s.quote(ctx, sessionID, dc, userID)
	if err != nil {
		return pricing.Totals{}, err
	}
	if totals.Subtotal.LessThan(coupon.MinSubtotal) {
		return pricing.Totals{}, domain.NewFieldError("coupon_code",
			"coupon requires a minimum subtotal of %s", coupon.MinSubtotal.StringFixed(2))
	}

	dc.CouponCode = coupon.Code
	if err := s.sessions.SaveDeliveryContext(ctx, sessionID, dc); err != nil {
		return pricing.Totals{}, err
	}
	return s.quote(ctx, sessionID, dc, userID)
}

func (s *Service) RemoveCoupon(ctx context.Context, sessionID string, userID int64) (pricing.Totals, error) {
	dc, err := s.sessions.DeliveryContext(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	dc.CouponCode = ""
	if err := s.sessions.SaveDeliveryContext(ctx, sessionID, dc); err != nil {
		return pricing.Totals{}, err
	}
	return s.quote(ctx, sessionID, dc, userID)
}

// SaveCheckoutDetails keeps the customer contact fields with the
// pending checkout context.
func (s *Service) SaveCheckoutDetails(ctx context.Context, sessionID string, req CheckoutDetailsRequest) error {
	if !phonePattern.MatchString(strings.TrimSpace(req.Phone)) {
		return domain.NewFieldError("phone", "please enter a valid phone number")
	}
	method := req.PaymentMethod
	if method == "" {
		method = string(domain.PaymentCash)
	}
	if method != string(domain.PaymentCash) && method != string(domain.PaymentCard) {
		return domain.NewFieldError("payment_method", "payment must be cash or card")
	}

	dc, err := s.sessions.DeliveryContext(ctx, sessionID)
	if err != nil {
		return err
	}
	dc.CustomerName = strings.TrimSpace(req.Name)
	dc.CustomerPhone = strings.TrimSpace(req.Phone)
	dc.CustomerNote = strings.TrimSpace(req.Note)
	if req.AddressExtra != "" {
		dc.AddressExtra = strings.TrimSpace(req.AddressExtra)
	}
	dc.PaymentMethod = method
	return s.sessions.SaveDeliveryContext(ctx, sessionID, dc)
}

// PlaceOrder snapshots the cart, promotion and coupon into a durable
// order. The order row, its items and the coupon consumption commit in
// one transaction; a coupon that lost its last use to a concurrent
// order aborts with a field-level error and no state change.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, userID int64) (*domain.DeliveryOrder, error) {
	dc, err := s.sessions.DeliveryContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !dc.HasLocation() {
		return nil, ErrNoLocation
	}
	if dc.CustomerName == "" || dc.CustomerPhone == "" {
		return nil, domain.NewFieldError("name", "please enter your name and phone number")
	}

	totals, err := s.quote(ctx, sessionID, dc, userID)
	if err != nil {
		return nil, err
	}
	if totals.Count <= 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.DeliveryOrder{
		Status:        domain.OrderPending,
		CustomerName:  dc.CustomerName,
		CustomerPhone: dc.CustomerPhone,
		CustomerNote:  dc.CustomerNote,
		PaymentMethod: domain.PaymentMethod(dc.PaymentMethod),
		AddressLabel:  dc.AddressLabel,
		AddressExtra:  dc.AddressExtra,
		Lat:           dc.Lat,
		Lng:           dc.Lng,
		DistanceKm:    dc.DistanceKm,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,

		PromoTitle:        totals.Promo.Title,
		PromoFreeDelivery: totals.Promo.FreeDelivery,
		PromoMinSubtotal:  totals.Promo.MinSubtotal,

		CouponCode:     totals.Coupon.Code,
		CouponDiscount: totals.CouponDiscount,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = domain.PaymentCash
	}
	if userID != 0 {
		order.UserID = &userID
	}

	items := make([]domain.DeliveryOrderItem, 0, len(totals.Lines))
	for _, l := range totals.Lines {
		items = append(items, domain.DeliveryOrderItem{
			Name:      l.Name,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}

	// The coupon is consumed only when it changed the order.
	var couponID *int64
	if totals.Coupon.Applied {
		if coupon, cerr := s.coupons.GetByCode(ctx, totals.Coupon.Code); cerr == nil {
			couponID = &coupon.ID
		}
	}

	if err := s.orders.CreateWithItems(ctx, order, items, couponID); err != nil {
		if errors.Is(err, repository.ErrCouponExhausted) {
			return nil, domain.NewFieldError("coupon_code", "coupon is no longer available")
		}
		return nil, err
	}

	if err := s.sessions.ClearCart(ctx, sessionID); err != nil {
		log.Printf("order %d: clearing cart failed: %v", order.ID, err)
	}
	dc.CouponCode = ""
	if err := s.sessions.SaveDeliveryContext(ctx, sessionID, dc); err != nil {
		log.Printf("order %d: resetting coupon selection failed: %v", order.ID, err)
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, orderAlert(order)); err != nil {
			log.Printf("order %d: notification failed: %v", order.ID, err)
		}
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.DeliveryOrder, error) {
	o, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *Service) ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.DeliveryOrder, error) {
	return s.orders.List(ctx, f)
}

// UpdateStatus advances an order. Delivered orders trigger the loyalty
// accrual for their owner, and every transition is broadcast to the
// order's status stream.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.DeliveryOrder, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, domain.NewFieldError("status", "unknown order status")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !order.CanTransition(status) {
		return nil, ErrInvalidTransition
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	if status == domain.OrderDelivered && order.UserID != nil && s.loyalty != nil {
		if _, err := s.loyalty.EnsureReward(ctx, *order.UserID); err != nil {
			log.Printf("order %d: loyalty accrual failed: %v", orderID, err)
		}
	}
	if s.hub != nil {
		s.hub.Broadcast(orderID, StatusEvent{OrderID: orderID, Status: string(status)})
	}
	return order, nil
}

// UpdateStatusBulk applies one transition to many orders, skipping the
// ones whose current status does not allow it.
func (s *Service) UpdateStatusBulk(ctx context.Context, ids []int64, status domain.OrderStatus) (updated []int64, skipped []int64, err error) {
	for _, id := range ids {
		if _, uerr := s.UpdateStatus(ctx, id, status); uerr != nil {
			if errors.Is(uerr, ErrNotFound) || errors.Is(uerr, ErrInvalidTransition) {
				skipped = append(skipped, id)
				continue
			}
			return updated, skipped, uerr
		}
		updated = append(updated, id)
	}
	return updated, skipped, nil
}

func (s *Service) GeocodeSearch(ctx context.Context, query string) ([]geocodeResult, bool) {
	if s.geocoder == nil || strings.TrimSpace(query) == "" {
		return nil, false
	}
	hits, ok := s.geocoder.Search(ctx, query)
	if !ok {
		return nil, false
	}
	out := make([]geocodeResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, geocodeResult{Label: h.Label, Lat: h.Lat, Lng: h.Lng})
	}
	return out, true
}

func (s *Service) GeocodeReverse(ctx context.Context, lat, lng float64) (string, bool) {
	if s.geocoder == nil {
		return "", false
	}
	return s.geocoder.Reverse(ctx, lat, lng)
}

type geocodeResult struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// quote runs one full pricing pass for a session.
func (s *Service) quote(ctx context.Context, sessionID string, dc session.DeliveryContext, userID int64) (pricing.Totals, error) {
	cart, err := s.sessions.Cart(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	lines, err := s.buildLines(ctx, cart)
	if err != nil {
		return pricing.Totals{}, err
	}

	policy, err := s.policies.Active(ctx)
	if err != nil {
		log.Printf("fee policy lookup failed, using defaults: %v", err)
		policy = domain.DefaultFeePolicy()
	}
	promo, err := s.promos.Latest(ctx)
	if err != nil {
		return pricing.Totals{}, err
	}

	snap := pricing.Snapshot{
		Policy:     policy,
		Promotion:  promo,
		CouponCode: dc.CouponCode,
		DistanceKm: dc.DistanceKm,
		Now:        s.now(),
	}
	if dc.CouponCode != "" {
		coupon, cerr := s.coupons.GetByCode(ctx, dc.CouponCode)
		if cerr == nil && coupon.IsCurrent(s.now()) && coupon.AuthorizedFor(userID) {
			snap.Coupon = coupon
		} else if cerr != nil && !errors.Is(cerr, repository.ErrNotFound) {
			return pricing.Totals{}, cerr
		}
	}

	return pricing.Quote(lines, snap), nil
}

// buildLines prices the cart from live catalog data, dropping hidden
// and deleted items. Line order is stable by item id.
func (s *Service) buildLines(ctx context.Context, cart session.Cart) ([]pricing.CartLine, error) {
	ids := make([]int64, 0, len(cart.Items))
	for id, qty := range cart.Items {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	visible, err := s.catalog.GetVisibleByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.CartLine, 0, len(ids))
	for _, id := range ids {
		item, ok := visible[id]
		if !ok {
			continue
		}
		qty := cart.Items[id]
		lines = append(lines, pricing.CartLine{
			MenuItemID: id,
			Name:       item.Name,
			Qty:        qty,
			UnitPrice:  item.Price,
			LineTotal:  item.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return lines, nil
}

func orderAlert(o *domain.DeliveryOrder) string {
	return fmt.Sprintf(
		"New delivery order #%d\n%s (%s)\n%s\nTotal: %s (%s)\n%s",
		o.ID, o.CustomerName, o.CustomerPhone,
		o.AddressLabel, o.Total.StringFixed(2), o.PaymentMethod,
		notify.MapsLink(o.Lat, o.Lng),
	)
}

func roundKm(km float64) float64 {
	return float64(int64(km*100+0.5)) / 100
}
