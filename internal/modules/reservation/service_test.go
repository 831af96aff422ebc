package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ravintola/internal/domain"
	"ravintola/internal/repository"
)

type mockReservationRepo struct {
	mock.Mock
}

func (m *mockReservationRepo) CreateInSlot(ctx context.Context, res *domain.Reservation, items []domain.ReservationItem) error {
	args := m.Called(ctx, res, items)
	return args.Error(0)
}

func (m *mockReservationRepo) UpdateInSlot(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *mockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockReservationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockReservationRepo) List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *mockReservationRepo) SlotUsageBetween(ctx context.Context, from, to time.Time) (map[time.Time]domain.SlotUsage, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Time]domain.SlotUsage), args.Error(1)
}

type mockCatalogReader struct {
	mock.Mock
}

func (m *mockCatalogReader) GetVisibleByIDs(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.MenuItem), args.Error(1)
}

// fixed "current time" so slot validation is deterministic
var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func newTestService(repo *mockReservationRepo, catalog *mockCatalogReader) *Service {
	s := NewService(repo, catalog, nil)
	s.now = func() time.Time { return testNow }
	return s
}

func validRequest(start time.Time) CreateReservationRequest {
	return CreateReservationRequest{
		StartDatetime: start,
		Name:          "Test Guest",
		Phone:         "+358 40 123 4567",
		PartySize:     4,
	}
}

func TestCreate_Succeeds(t *testing.T) {
	repo := new(mockReservationRepo)
	catalog := new(mockCatalogReader)
	service := newTestService(repo, catalog)

	start := time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC)
	repo.On("CreateInSlot", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := service.Create(context.Background(), validRequest(start))

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, res.Status)
	assert.Equal(t, 1, res.TablesNeeded)
	repo.AssertExpectations(t)
}

func TestCreate_RejectsPastTime(t *testing.T) {
	service := newTestService(new(mockReservationRepo), new(mockCatalogReader))

	req := validRequest(testNow.Add(-time.Hour))
	_, err := service.Create(context.Background(), req)

	fieldErr, ok := err.(*domain.FieldError)
	assert.True(t, ok)
	assert.Equal(t, "start_datetime", fieldErr.Field)
}

func TestCreate_RejectsOffGridTime(t *testing.T) {
	service := newTestService(new(mockReservationRepo), new(mockCatalogReader))

	req := validRequest(time.Date(2025, 6, 10, 18, 45, 0, 0, time.UTC))
	_, err := service.Create(context.Background(), req)

	fieldErr, ok := err.(*domain.FieldError)
	assert.True(t, ok)
	assert.Equal(t, "start_datetime", fieldErr.Field)
	assert.Contains(t, fieldErr.Message, "30-minute")
}

func TestCreate_SeatingWindow(t *testing.T) {
	service := newTestService(new(mockReservationRepo), new(mockCatalogReader))

	// 22:00 is past the last bookable slot
	_, err := service.Create(context.Background(),
		validRequest(time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC)))
	fieldErr, ok := err.(*domain.FieldError)
	assert.True(t, ok)
	assert.Contains(t, fieldErr.Message, "10:00 and 21:30")

	// 09:30 is before opening
	_, err = service.Create(context.Background(),
		validRequest(time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)))
	assert.Error(t, err)
}

func TestCreate_LastSlotAccepted(t *testing.T) {
	repo := new(mockReservationRepo)
	service := newTestService(repo, new(mockCatalogReader))

	repo.On("CreateInSlot", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := service.Create(context.Background(),
		validRequest(time.Date(2025, 6, 10, 21, 30, 0, 0, time.UTC)))

	assert.NoError(t, err)
}

func TestCreate_ValidationOrder(t *testing.T) {
	service := newTestService(new(mockReservationRepo), new(mockCatalogReader))

	// party size is checked before the time fields
	req := validRequest(testNow.Add(-time.Hour))
	req.PartySize = 0
	_, err := service.Create(context.Background(), req)

	fieldErr, ok := err.(*domain.FieldError)
	assert.True(t, ok)
	assert.Equal(t, "party_size", fieldErr.Field)
}

func TestCreate_InvalidPhone(t *testing.T) {
	service := newTestService(new(mockReservationRepo), new(mockCatalogReader))

	req := validRequest(time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC))
	req.Phone = "not-a-phone"
	_, err := service.Create(context.Background(), req)

	fieldErr, ok := err.(*domain.FieldError)
	assert.True(t, ok)
	assert.Equal(t, "phone", fieldErr.Field)
}

func TestCreate_CapacityErrorPassesThrough(t *testing.T) {
	repo := new(mockReservationRepo)
	service := newTestService(repo, new(mockCatalogReader))

	capErr := domain.NewFieldError("party_size", "not enough seats left for this time (3 seats remaining)")
	repo.On("CreateInSlot", mock.Anything, mock.Anything, mock.Anything).Return(capErr)

	_, err := service.Create(context.Background(),
		validRequest(time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC)))

	fieldErr, ok := err.(*domain.FieldError)
	assert.True(t, ok)
	assert.Contains(t, fieldErr.Message, "seats remaining")
}

func TestCreate_PreorderSkipsHiddenItems(t *testing.T) {
	repo := new(mockReservationRepo)
	catalog := new(mockCatalogReader)
	service := newTestService(repo, catalog)

	catalog.On("GetVisibleByIDs", mock.Anything, []int64{1, 2}).Return(map[int64]domain.MenuItem{
		1: {ID: 1, Name: "Salmon Soup", Price: decimal.NewFromFloat(9.50)},
		// item 2 hidden: not returned
	}, nil)

	var captured []domain.ReservationItem
	repo.On("CreateInSlot", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]domain.ReservationItem)
		}).
		Return(nil)

	req := validRequest(time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC))
	req.Preorder = []PreorderLine{
		{MenuItemID: 1, Qty: 2},
		{MenuItemID: 2, Qty: 1},
	}

	_, err := service.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, captured, 1)
	assert.Equal(t, int64(1), captured[0].MenuItemID)
	assert.Equal(t, "9.50", captured[0].UnitPrice.StringFixed(2))
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	repo := new(mockReservationRepo)
	service := newTestService(repo, new(mockCatalogReader))

	repo.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationCompleted}, nil)

	_, err := service.UpdateStatus(context.Background(), 5, domain.ReservationCancelled)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_Succeeds(t *testing.T) {
	repo := new(mockReservationRepo)
	service := newTestService(repo, new(mockCatalogReader))

	repo.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationPending}, nil)
	repo.On("UpdateStatus", mock.Anything, int64(5), domain.ReservationConfirmed).Return(nil)

	res, err := service.UpdateStatus(context.Background(), 5, domain.ReservationConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, res.Status)
	repo.AssertExpectations(t)
}

func TestAvailability_ListsEverySlotWithRemaining(t *testing.T) {
	repo := new(mockReservationRepo)
	service := newTestService(repo, new(mockCatalogReader))

	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	busy := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	repo.On("SlotUsageBetween", mock.Anything, mock.Anything, mock.Anything).
		Return(map[time.Time]domain.SlotUsage{
			busy.UTC(): {ChairsUsed: 10, TablesUsed: 3, BabiesUsed: 1},
		}, nil)

	slots, err := service.Availability(context.Background(), day)

	assert.NoError(t, err)
	// 10:00 .. 21:30 inclusive, 30-minute steps
	assert.Len(t, slots, 24)
	assert.Equal(t, 10, slots[0].Start.Hour())
	assert.Equal(t, 21, slots[len(slots)-1].Start.Hour())
	assert.Equal(t, 30, slots[len(slots)-1].Start.Minute())

	for _, s := range slots {
		if s.Start.Equal(busy) {
			assert.Equal(t, domain.ChairsTotal-10, s.ChairsRemaining)
			assert.Equal(t, domain.TablesTotal-3, s.TablesRemaining)
			assert.Equal(t, domain.BabySeatsTotal-1, s.BabySeatsRemaining)
		} else {
			assert.Equal(t, domain.ChairsTotal, s.ChairsRemaining)
		}
	}
}
