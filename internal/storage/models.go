package storage

import (
	"fmt"
	"strconv"
	"strings"

	"menu-service/internal/common/errors"
)

// Menu is a top-level menu with the number of submenus and dishes under it
type Menu struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	SubmenusCount int64  `json:"submenus_count"`
	DishesCount   int64  `json:"dishes_count"`
}

// Submenu belongs to a Menu and carries the number of its dishes
type Submenu struct {
	ID          string `json:"id"`
	MenuID      string `json:"menu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DishesCount int64  `json:"dishes_count"`
}

// Dish belongs to a Submenu. Price is a decimal string with two fractional digits.
type Dish struct {
	ID          string `json:"id"`
	MenuID      string `json:"menu_id"`
	SubmenuID   string `json:"submenu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// MenuInput creates a menu or submenu
type MenuInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// MenuPatch updates a menu or submenu; nil fields are left unchanged
type MenuPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// DishInput creates a dish
type DishInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Price       string `json:"price" validate:"required,price"`
}

// DishPatch updates a dish; nil fields are left unchanged
type DishPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *string `json:"price" validate:"omitempty,price"`
}

// DishRef identifies a dish removed by a cascading delete
type DishRef struct {
	ID        string
	SubmenuID string
}

// Descendants lists the rows removed together with a deleted parent
type Descendants struct {
	SubmenuIDs []string
	Dishes     []DishRef
}

// ParsePrice converts a non-negative decimal string with at most two
// fractional digits into cents.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || len(frac) > 2 || (hasFrac && frac == "") {
		return 0, errors.ValidationError("price must look like 12.50").WithContext("price", s)
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, errors.ValidationError("price must look like 12.50").WithContext("price", s)
		}
	}
	for len(frac) < 2 {
		frac += "0"
	}

	cents, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, errors.ValidationError("price is out of range").WithContext("price", s)
	}
	return cents, nil
}

// FormatPrice renders cents as a decimal string with two fractional digits
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
