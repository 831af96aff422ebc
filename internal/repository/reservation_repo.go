package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ravintola/internal/domain"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// CreateInSlot validates capacity and persists the reservation with
// its pre-order items in one transaction. The slot is locked before
// aggregation so that two concurrent bookings cannot both pass the
// check and together overflow capacity.
func (r *ReservationRepository) CreateInSlot(ctx context.Context, res *domain.Reservation, items []domain.ReservationItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSlot(tx, res.StartDatetime); err != nil {
			return err
		}
		usage, err := slotUsage(tx, res.StartDatetime, 0)
		if err != nil {
			return err
		}
		if err := domain.CheckSlotCapacity(usage, res.PartySize, res.BabySeats, res.TablesNeeded); err != nil {
			return err
		}
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			for i := range items {
				items[i].ReservationID = res.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			res.Items = items
		}
		return nil
	})
}

// UpdateInSlot re-validates an edited reservation against its slot,
// excluding the reservation itself from the aggregate.
func (r *ReservationRepository) UpdateInSlot(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSlot(tx, res.StartDatetime); err != nil {
			return err
		}
		usage, err := slotUsage(tx, res.StartDatetime, res.ID)
		if err != nil {
			return err
		}
		if err := domain.CheckSlotCapacity(usage, res.PartySize, res.BabySeats, res.TablesNeeded); err != nil {
			return err
		}
		return tx.Model(&domain.Reservation{}).
			Where("id = ?", res.ID).
			Updates(map[string]any{
				"start_datetime":  res.StartDatetime,
				"name":            res.Name,
				"phone":           res.Phone,
				"email":           res.Email,
				"party_size":      res.PartySize,
				"baby_seats":      res.BabySeats,
				"preferred_table": res.PreferredTable,
				"tables_needed":   res.TablesNeeded,
				"notes":           res.Notes,
			}).Error
	})
}

// lockSlot serializes the allocators of one slot. Row locks cannot do
// this: a SELECT ... FOR UPDATE over sibling reservations matches no
// rows on an empty slot and never blocks a concurrent insert, so two
// bookings could both read a stale aggregate and overflow the slot.
// PostgreSQL gets a transaction-scoped advisory lock keyed on the slot
// timestamp, released automatically at commit or rollback. SQLite has
// a single writer, so its transactions already serialize.
func lockSlot(tx *gorm.DB, slot time.Time) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", slot.UTC().Unix()).Error
}

func slotUsage(tx *gorm.DB, slot time.Time, excludeID int64) (domain.SlotUsage, error) {
	q := tx.Model(&domain.Reservation{}).
		Where("start_datetime = ?", slot).
		Where("status <> ?", domain.ReservationCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var siblings []domain.Reservation
	if err := q.Find(&siblings).Error; err != nil {
		return domain.SlotUsage{}, err
	}

	var usage domain.SlotUsage
	for _, s := range siblings {
		usage.ChairsUsed += s.PartySize
		usage.BabiesUsed += s.BabySeats
		usage.TablesUsed += s.TablesNeeded
	}
	return usage, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.MenuItem").
		First(&res, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &res, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type ReservationFilter struct {
	Status domain.ReservationStatus
	From   time.Time
	To     time.Time
	Limit  int
}

func (r *ReservationRepository) List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error) {
	q := r.db.WithContext(ctx).Model(&domain.Reservation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("start_datetime >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("start_datetime < ?", f.To)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}

	var out []domain.Reservation
	err := q.Order("start_datetime desc, created_at desc").Limit(limit).Find(&out).Error
	return out, err
}

// SlotUsageBetween aggregates per-slot usage for availability display.
// This read path takes no locks; authoritative checks happen in
// CreateInSlot/UpdateInSlot.
func (r *ReservationRepository) SlotUsageBetween(ctx context.Context, from, to time.Time) (map[time.Time]domain.SlotUsage, error) {
	type row struct {
		StartDatetime time.Time
		Chairs        int
		Babies        int
		Tables        int
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Select("start_datetime, SUM(party_size) AS chairs, SUM(baby_seats) AS babies, SUM(tables_needed) AS tables").
		Where("start_datetime >= ? AND start_datetime < ?", from, to).
		Where("status <> ?", domain.ReservationCancelled).
		Group("start_datetime").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[time.Time]domain.SlotUsage, len(rows))
	for _, rw := range rows {
		out[rw.StartDatetime.UTC()] = domain.SlotUsage{
			ChairsUsed: rw.Chairs,
			BabiesUsed: rw.Babies,
			TablesUsed: rw.Tables,
		}
	}
	return out, nil
}
