package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ravintola/internal/database"
	"ravintola/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "reservations.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	// One pooled connection keeps the file driver from returning
	// busy errors when many goroutines write at once.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func testReservation(slot time.Time, party, babySeats int) *domain.Reservation {
	return &domain.Reservation{
		StartDatetime: slot,
		Name:          "Testi Varaaja",
		Phone:         "+358 40 1234567",
		PartySize:     party,
		BabySeats:     babySeats,
		TablesNeeded:  domain.ComputeTablesNeeded(party),
		Status:        domain.ReservationPending,
	}
}

func TestCreateInSlotConcurrentBookingsNeverOverflow(t *testing.T) {
	repo := NewReservationRepository(newTestDB(t))
	slot := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

	// Each booking takes 2 of the 14 tables, so exactly 7 of the 20
	// racing attempts can fit.
	const attempts = 20
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CreateInSlot(context.Background(), testReservation(slot, 5, 0), nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var fieldErr *domain.FieldError
		assert.True(t, errors.As(err, &fieldErr), "losers must fail the capacity check, got %v", err)
	}
	assert.Equal(t, 7, succeeded)

	rows, err := repo.List(context.Background(), ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 7)

	chairs, tables := 0, 0
	for _, r := range rows {
		chairs += r.PartySize
		tables += r.TablesNeeded
	}
	assert.LessOrEqual(t, chairs, domain.ChairsTotal)
	assert.LessOrEqual(t, tables, domain.TablesTotal)
}

func TestCreateInSlotRejectsChairOverflow(t *testing.T) {
	repo := NewReservationRepository(newTestDB(t))
	slot := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateInSlot(context.Background(), testReservation(slot, 40, 0), nil))

	err := repo.CreateInSlot(context.Background(), testReservation(slot, 16, 0), nil)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "party_size", fieldErr.Field)
	assert.Contains(t, fieldErr.Message, "15 seats remaining")

	// A different slot is unaffected.
	other := slot.Add(30 * time.Minute)
	assert.NoError(t, repo.CreateInSlot(context.Background(), testReservation(other, 16, 0), nil))
}

func TestCreateInSlotRejectsBabySeatOverflow(t *testing.T) {
	repo := NewReservationRepository(newTestDB(t))
	slot := time.Date(2025, 6, 14, 13, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateInSlot(context.Background(), testReservation(slot, 4, 2), nil))

	err := repo.CreateInSlot(context.Background(), testReservation(slot, 2, 1), nil)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "baby_seats", fieldErr.Field)
}

func TestCreateInSlotCancelledRowsFreeCapacity(t *testing.T) {
	repo := NewReservationRepository(newTestDB(t))
	slot := time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC)

	first := testReservation(slot, 55, 0)
	require.NoError(t, repo.CreateInSlot(context.Background(), first, nil))
	require.Error(t, repo.CreateInSlot(context.Background(), testReservation(slot, 2, 0), nil))

	require.NoError(t, repo.UpdateStatus(context.Background(), first.ID, domain.ReservationCancelled))
	assert.NoError(t, repo.CreateInSlot(context.Background(), testReservation(slot, 2, 0), nil))
}

func TestUpdateInSlotExcludesItselfFromAggregate(t *testing.T) {
	repo := NewReservationRepository(newTestDB(t))
	slot := time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC)

	res := testReservation(slot, 40, 0)
	require.NoError(t, repo.CreateInSlot(context.Background(), res, nil))

	// Growing the same booking within capacity must not count the
	// booking's own old row against itself.
	res.PartySize = 44
	res.TablesNeeded = domain.ComputeTablesNeeded(44)
	require.NoError(t, repo.UpdateInSlot(context.Background(), res))

	res.PartySize = 56
	res.TablesNeeded = domain.ComputeTablesNeeded(56)
	err := repo.UpdateInSlot(context.Background(), res)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "party_size", fieldErr.Field)
}

func TestUpdateInSlotMoveToFullSlotRejected(t *testing.T) {
	repo := NewReservationRepository(newTestDB(t))
	full := time.Date(2025, 6, 14, 17, 0, 0, 0, time.UTC)
	quiet := full.Add(time.Hour)

	require.NoError(t, repo.CreateInSlot(context.Background(), testReservation(full, 52, 0), nil))

	res := testReservation(quiet, 6, 0)
	require.NoError(t, repo.CreateInSlot(context.Background(), res, nil))

	res.StartDatetime = full
	err := repo.UpdateInSlot(context.Background(), res)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)

	// The failed move left the booking in its original slot.
	got, err := repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, got.StartDatetime.Equal(quiet))
}
