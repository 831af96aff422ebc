package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ravintola/internal/domain"
	"ravintola/internal/repository"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCatalog) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCatalog) ListItems(ctx context.Context, f repository.ItemFilter) ([]domain.MenuItem, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

func (m *mockCatalog) GetItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MenuItem), args.Error(1)
}

func TestBrowse_FiltersByCategorySlug(t *testing.T) {
	catalog := new(mockCatalog)
	service := NewService(catalog)

	catalog.On("GetCategoryBySlug", mock.Anything, "pizza").
		Return(&domain.Category{ID: 3, Slug: "pizza"}, nil)
	catalog.On("ListItems", mock.Anything, repository.ItemFilter{CategoryID: 3, Query: "pepperoni"}).
		Return([]domain.MenuItem{{ID: 7, Name: "Pepperoni"}}, nil)

	items, err := service.Browse(context.Background(), "pizza", "pepperoni")

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	catalog.AssertExpectations(t)
}

func TestBrowse_UnknownCategory(t *testing.T) {
	catalog := new(mockCatalog)
	service := NewService(catalog)

	catalog.On("GetCategoryBySlug", mock.Anything, "nope").
		Return(nil, repository.ErrNotFound)

	_, err := service.Browse(context.Background(), "nope", "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemDetail_HiddenReadsAsNotFound(t *testing.T) {
	catalog := new(mockCatalog)
	service := NewService(catalog)

	catalog.On("GetItem", mock.Anything, int64(8)).
		Return(&domain.MenuItem{ID: 8, Status: domain.MenuItemHidden}, nil)

	_, err := service.ItemDetail(context.Background(), 8)

	assert.ErrorIs(t, err, ErrNotFound)
}
