package reservation

import "time"

type PreorderLine struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Qty        int   `json:"qty" binding:"required"`
}

type CreateReservationRequest struct {
	StartDatetime  time.Time      `json:"start_datetime" binding:"required"`
	Name           string         `json:"name" binding:"required"`
	Phone          string         `json:"phone" binding:"required"`
	Email          string         `json:"email"`
	PartySize      int            `json:"party_size" binding:"required"`
	BabySeats      int            `json:"baby_seats"`
	PreferredTable *int           `json:"preferred_table"`
	Notes          string         `json:"notes"`
	Preorder       []PreorderLine `json:"preorder"`
}

type UpdateReservationRequest struct {
	StartDatetime  time.Time `json:"start_datetime" binding:"required"`
	Name           string    `json:"name" binding:"required"`
	Phone          string    `json:"phone" binding:"required"`
	Email          string    `json:"email"`
	PartySize      int       `json:"party_size" binding:"required"`
	BabySeats      int       `json:"baby_seats"`
	PreferredTable *int      `json:"preferred_table"`
	Notes          string    `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SlotAvailability reports the remaining capacity of one 30-minute slot.
type SlotAvailability struct {
	Start              time.Time `json:"start"`
	ChairsRemaining    int       `json:"chairs_remaining"`
	TablesRemaining    int       `json:"tables_remaining"`
	BabySeatsRemaining int       `json:"baby_seats_remaining"`
}
