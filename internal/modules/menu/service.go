package menu

import (
	"context"
	"errors"

	"ravintola/internal/domain"
	"ravintola/internal/repository"
)

var ErrNotFound = errors.New("menu item not found")

// CatalogRepository is the storefront read contract.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListItems(ctx context.Context, f repository.ItemFilter) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id int64) (*domain.MenuItem, error)
}

type Service struct {
	catalog CatalogRepository
}

func NewService(catalog CatalogRepository) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

// Browse lists visible items, optionally narrowed by category slug and
// a free-text query.
func (s *Service) Browse(ctx context.Context, categorySlug, query string) ([]domain.MenuItem, error) {
	f := repository.ItemFilter{Query: query}
	if categorySlug != "" {
		cat, err := s.catalog.GetCategoryBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		f.CategoryID = cat.ID
	}
	return s.catalog.ListItems(ctx, f)
}

// ItemDetail returns one visible item; hidden items read as not found.
func (s *Service) ItemDetail(ctx context.Context, id int64) (*domain.MenuItem, error) {
	item, err := s.catalog.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.Status == domain.MenuItemHidden {
		return nil, ErrNotFound
	}
	return item, nil
}
