package repository

import (
	"context"

	"gorm.io/gorm"

	"ravintola/internal/domain"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order, name").
		Find(&out).Error
	return out, err
}

func (r *MenuRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&c).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}

// ItemFilter narrows the storefront item listing. Hidden items are
// always excluded.
type ItemFilter struct {
	CategoryID int64
	Query      string
}

func (r *MenuRepository) ListItems(ctx context.Context, f ItemFilter) ([]domain.MenuItem, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("status <> ?", domain.MenuItemHidden)

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var out []domain.MenuItem
	err := q.Order("name").Find(&out).Error
	return out, err
}

func (r *MenuRepository) GetItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	var m domain.MenuItem
	err := r.db.WithContext(ctx).Preload("Category").First(&m, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &m, nil
}

// GetVisibleByIDs returns the non-hidden items among ids, keyed by id.
// Used by the pricing pipeline to price carts from live catalog data.
func (r *MenuRepository) GetVisibleByIDs(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	out := make(map[int64]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []domain.MenuItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("status <> ?", domain.MenuItemHidden).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}
