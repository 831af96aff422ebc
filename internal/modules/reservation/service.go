package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"ravintola/internal/domain"
	"ravintola/internal/notify"
	"ravintola/internal/repository"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,}$`)

type Service struct {
	reservations ReservationRepository
	catalog      CatalogReader
	notifier     notify.Notifier
	now          func() time.Time
}

func NewService(reservations ReservationRepository, catalog CatalogReader, notifier notify.Notifier) *Service {
	return &Service{
		reservations: reservations,
		catalog:      catalog,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Create validates the requested slot and books it. Field checks fail
// fast in order: future, 30-minute grid, seating window, then the
// capacity aggregate inside the repository transaction.
func (s *Service) Create(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	res := &domain.Reservation{
		StartDatetime:  req.StartDatetime,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		PartySize:      req.PartySize,
		BabySeats:      req.BabySeats,
		PreferredTable: req.PreferredTable,
		Notes:          req.Notes,
		Status:         domain.ReservationPending,
	}
	if err := s.validateSlot(res); err != nil {
		return nil, err
	}

	items, err := s.snapshotPreorder(ctx, req.Preorder)
	if err != nil {
		return nil, err
	}

	if err := s.reservations.CreateInSlot(ctx, res, items); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, reservationAlert(res)); err != nil {
			log.Printf("reservation %d: notification failed: %v", res.ID, err)
		}
	}
	return res, nil
}

// Update re-validates an edited reservation; the slot aggregate
// excludes the reservation itself.
func (s *Service) Update(ctx context.Context, id int64, req UpdateReservationRequest) (*domain.Reservation, error) {
	existing, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing.StartDatetime = req.StartDatetime
	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.PartySize = req.PartySize
	existing.BabySeats = req.BabySeats
	existing.PreferredTable = req.PreferredTable
	existing.Notes = req.Notes

	if err := s.validateSlot(existing); err != nil {
		return nil, err
	}
	if err := s.reservations.UpdateInSlot(ctx, existing); err != nil {
		return nil, err
	}
	return s.reservations.GetByID(ctx, id)
}

func (s *Service) validateSlot(res *domain.Reservation) error {
	if res.PartySize < 1 {
		return domain.NewFieldError("party_size", "party size must be at least 1")
	}
	if res.BabySeats < 0 {
		return domain.NewFieldError("baby_seats", "baby seats cannot be negative")
	}
	if !phonePattern.MatchString(res.Phone) {
		return domain.NewFieldError("phone", "please enter a valid phone number")
	}

	t := res.StartDatetime
	if !t.After(s.now()) {
		return domain.NewFieldError("start_datetime", "please choose a future time")
	}
	if (t.Minute() != 0 && t.Minute() != domain.SlotMinutes) || t.Second() != 0 || t.Nanosecond() != 0 {
		return domain.NewFieldError("start_datetime", "bookings are available only in 30-minute intervals")
	}

	minutes := t.Hour()*60 + t.Minute()
	first := domain.OpeningHour * 60
	last := domain.LastSlotHour*60 + domain.LastSlotMinute
	if minutes < first || minutes > last {
		return domain.NewFieldError("start_datetime", "bookings are accepted between 10:00 and 21:30")
	}

	res.TablesNeeded = domain.ComputeTablesNeeded(res.PartySize)
	return nil
}

// snapshotPreorder prices pre-ordered items at booking time. Hidden or
// unknown items are skipped rather than failing the booking.
func (s *Service) snapshotPreorder(ctx context.Context, lines []PreorderLine) ([]domain.ReservationItem, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if l.Qty > 0 {
			ids = append(ids, l.MenuItemID)
		}
	}
	visible, err := s.catalog.GetVisibleByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var items []domain.ReservationItem
	for _, l := range lines {
		mi, ok := visible[l.MenuItemID]
		if !ok || l.Qty <= 0 {
			continue
		}
		items = append(items, domain.ReservationItem{
			MenuItemID: mi.ID,
			Qty:        l.Qty,
			UnitPrice:  mi.Price,
		})
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return res, err
}

func (s *Service) List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	return s.reservations.List(ctx, f)
}

// UpdateStatus applies a forward-only status transition.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !res.CanTransition(status) {
		return nil, ErrInvalidTransition
	}
	if err := s.reservations.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	res.Status = status
	return res, nil
}

// Availability lists every slot of the given day with its remaining
// capacity.
func (s *Service) Availability(ctx context.Context, day time.Time) ([]SlotAvailability, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	usage, err := s.reservations.SlotUsageBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	first := dayStart.Add(time.Duration(domain.OpeningHour) * time.Hour)
	last := dayStart.Add(time.Duration(domain.LastSlotHour)*time.Hour + time.Duration(domain.LastSlotMinute)*time.Minute)

	var out []SlotAvailability
	for slot := first; !slot.After(last); slot = slot.Add(domain.SlotMinutes * time.Minute) {
		u := usage[slot.UTC()]
		out = append(out, SlotAvailability{
			Start:              slot,
			ChairsRemaining:    domain.ChairsTotal - u.ChairsUsed,
			TablesRemaining:    domain.TablesTotal - u.TablesUsed,
			BabySeatsRemaining: domain.BabySeatsTotal - u.BabiesUsed,
		})
	}
	return out, nil
}

func reservationAlert(r *domain.Reservation) string {
	return fmt.Sprintf(
		"New reservation #%d\n%s, party of %d (%d baby seats)\n%s\nPhone: %s",
		r.ID, r.Name, r.PartySize, r.BabySeats,
		r.StartDatetime.Format("Mon 2 Jan 15:04"), r.Phone,
	)
}
