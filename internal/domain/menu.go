package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Slug     string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
	Order    int    `json:"order" gorm:"column:sort_order;default:0"`
}

func (Category) TableName() string { return "categories" }

type MenuItemStatus string

const (
	MenuItemActive  MenuItemStatus = "active"
	MenuItemHidden  MenuItemStatus = "hidden"
	MenuItemSoldOut MenuItemStatus = "sold_out"
)

// MenuItem is a single dish or drink. Tags and allergens are stored as
// comma separated strings to keep the catalog schema flat.
type MenuItem struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	CategoryID  int64           `json:"category_id" gorm:"index;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(8,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Tags        string          `json:"tags" gorm:"size:200"`
	Allergens   string          `json:"allergens" gorm:"size:200"`
	Status      MenuItemStatus  `json:"status" gorm:"size:20;default:active"`
	CreatedAt   time.Time       `json:"created_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (MenuItem) TableName() string { return "menu_items" }

func (m *MenuItem) TagList() []string      { return splitCSV(m.Tags) }
func (m *MenuItem) AllergenList() []string { return splitCSV(m.Allergens) }

func (m *MenuItem) IsPopular() bool {
	for _, t := range m.TagList() {
		if strings.EqualFold(t, "popular") {
			return true
		}
	}
	return false
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(value, ",") {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
