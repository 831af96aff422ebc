package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Facility-wide capacity shared by every reservation in one 30-minute slot.
const (
	TablesTotal    = 14
	ChairsTotal    = 55
	BabySeatsTotal = 2
	SlotMinutes    = 30
)

// Seating window: first slot 10:00, last valid slot start 21:30
// (the restaurant closes at 22:00).
const (
	OpeningHour      = 10
	LastSlotHour     = 21
	LastSlotMinute   = 30
	SeatsPerTable    = 4
	DefaultPartySize = 2
)

type Reservation struct {
	ID            int64             `json:"id" gorm:"primaryKey"`
	StartDatetime time.Time         `json:"start_datetime" gorm:"index;not null"`
	Name          string            `json:"name" gorm:"size:120;not null"`
	Phone         string            `json:"phone" gorm:"size:40;not null"`
	Email         string            `json:"email" gorm:"size:255"`
	PartySize     int               `json:"party_size" gorm:"not null;default:2"`
	BabySeats     int               `json:"baby_seats" gorm:"not null;default:0"`
	PreferredTable *int             `json:"preferred_table,omitempty"`
	TablesNeeded  int               `json:"tables_needed" gorm:"not null;default:1"`
	Notes         string            `json:"notes" gorm:"type:text"`
	Status        ReservationStatus `json:"status" gorm:"size:20;default:pending"`
	CreatedAt     time.Time         `json:"created_at"`

	Items []ReservationItem `json:"items,omitempty" gorm:"foreignKey:ReservationID"`
}

func (Reservation) TableName() string { return "reservations" }

// ComputeTablesNeeded derives how many four-seat tables a party occupies.
// Never less than one.
func ComputeTablesNeeded(partySize int) int {
	if partySize <= 0 {
		return 1
	}
	n := int(math.Ceil(float64(partySize) / float64(SeatsPerTable)))
	if n < 1 {
		n = 1
	}
	return n
}

// PreorderTotal sums the snapshotted line totals of pre-ordered items.
func (r *Reservation) PreorderTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Items {
		total = total.Add(r.Items[i].LineTotal())
	}
	return total
}

// CanTransition reports whether a reservation status change is allowed.
// Transitions move forward only; cancellation is allowed until completion.
func (r *Reservation) CanTransition(to ReservationStatus) bool {
	switch r.Status {
	case ReservationPending:
		return to == ReservationConfirmed || to == ReservationCancelled
	case ReservationConfirmed:
		return to == ReservationCompleted || to == ReservationCancelled
	default:
		return false
	}
}

// SlotUsage is the aggregate of all non-cancelled reservations sharing
// one start datetime.
type SlotUsage struct {
	ChairsUsed int
	BabiesUsed int
	TablesUsed int
}

// CheckSlotCapacity applies the per-slot capacity rule to a candidate
// party on top of the current usage. It returns a field-addressable
// error naming the exhausted resource and the remaining capacity.
func CheckSlotCapacity(usage SlotUsage, partySize, babySeats, tablesNeeded int) error {
	if usage.ChairsUsed+partySize > ChairsTotal {
		return NewFieldError("party_size",
			"not enough seats left for this time (%d seats remaining)", ChairsTotal-usage.ChairsUsed)
	}
	if usage.BabiesUsed+babySeats > BabySeatsTotal {
		return NewFieldError("baby_seats",
			"not enough baby seats left for this time (%d remaining)", BabySeatsTotal-usage.BabiesUsed)
	}
	if usage.TablesUsed+tablesNeeded > TablesTotal {
		return NewFieldError("party_size",
			"not enough tables left for this time (%d tables remaining)", TablesTotal-usage.TablesUsed)
	}
	return nil
}

// ReservationItem is a pre-ordered dish attached to a reservation. The
// unit price is snapshotted at booking time and never follows later
// catalog changes.
type ReservationItem struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	ReservationID int64           `json:"reservation_id" gorm:"index;not null;uniqueIndex:idx_reservation_menu_item"`
	MenuItemID    int64           `json:"menu_item_id" gorm:"not null;uniqueIndex:idx_reservation_menu_item"`
	Qty           int             `json:"qty" gorm:"not null;default:1"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(8,2);not null"`

	MenuItem *MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
}

func (ReservationItem) TableName() string { return "reservation_items" }

func (it *ReservationItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty)))
}
