package reservation

import (
	"context"
	"time"

	"ravintola/internal/domain"
	"ravintola/internal/repository"
)

// ReservationRepository is the persistence contract for the allocator.
// CreateInSlot and UpdateInSlot must run the capacity aggregate and
// the write atomically.
type ReservationRepository interface {
	CreateInSlot(ctx context.Context, res *domain.Reservation, items []domain.ReservationItem) error
	UpdateInSlot(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error)
	SlotUsageBetween(ctx context.Context, from, to time.Time) (map[time.Time]domain.SlotUsage, error)
}

// CatalogReader supplies live menu data for pre-order snapshots.
type CatalogReader interface {
	GetVisibleByIDs(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error)
}
