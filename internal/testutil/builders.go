package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"menu-service/internal/storage"
)

// Tree is one seeded menu with everything under it
type Tree struct {
	Menu     storage.Menu
	Submenus []storage.Submenu
	// Dishes holds the dishes of Submenus[i] at index i
	Dishes [][]storage.Dish
}

// SeedTree writes a menu with submenus submenus of dishes dishes each,
// directly through the repository so no cache is involved.
func SeedTree(t *testing.T, db *storage.DB, submenus, dishes int) Tree {
	t.Helper()
	ctx := context.Background()
	repo := storage.NewRepository(db)

	var tree Tree
	err := storage.WithSession(ctx, db, func(s *storage.Session) error {
		var err error
		tree.Menu, err = repo.CreateMenu(ctx, s, storage.MenuInput{Title: "Menu"})
		if err != nil {
			return err
		}

		for i := 0; i < submenus; i++ {
			sub, err := repo.CreateSubmenu(ctx, s, tree.Menu.ID, storage.MenuInput{Title: fmt.Sprintf("Submenu %d", i+1)})
			if err != nil {
				return err
			}
			tree.Submenus = append(tree.Submenus, sub)

			var subDishes []storage.Dish
			for j := 0; j < dishes; j++ {
				dish, err := repo.CreateDish(ctx, s, tree.Menu.ID, sub.ID, storage.DishInput{
					Title: fmt.Sprintf("Dish %d.%d", i+1, j+1),
					Price: fmt.Sprintf("%d.50", j+1),
				})
				if err != nil {
					return err
				}
				subDishes = append(subDishes, dish)
			}
			tree.Dishes = append(tree.Dishes, subDishes)
		}
		return s.Commit()
	})
	require.NoError(t, err)
	return tree
}
