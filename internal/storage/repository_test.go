package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-service/internal/common/errors"
)

func strPtr(s string) *string { return &s }

func TestRepository_Menus(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	inTx(t, db, func(s *Session) {
		menus, err := repo.ListMenus(ctx, s)
		require.NoError(t, err)
		assert.NotNil(t, menus)
		assert.Empty(t, menus)
	})

	var menu Menu
	inTx(t, db, func(s *Session) {
		var err error
		menu, err = repo.CreateMenu(ctx, s, MenuInput{Title: "Menu 1", Description: "first"})
		require.NoError(t, err)
		assert.NotEmpty(t, menu.ID)
		_, err = repo.CreateMenu(ctx, s, MenuInput{Title: "Menu 2"})
		require.NoError(t, err)
	})

	inTx(t, db, func(s *Session) {
		got, found, err := repo.GetMenu(ctx, s, menu.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, menu, got)

		menus, err := repo.ListMenus(ctx, s)
		require.NoError(t, err)
		require.Len(t, menus, 2)
		assert.Equal(t, "Menu 1", menus[0].Title)
		assert.Equal(t, "Menu 2", menus[1].Title)

		_, found, err = repo.GetMenu(ctx, s, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.False(t, found)
	})

	inTx(t, db, func(s *Session) {
		updated, found, err := repo.UpdateMenu(ctx, s, menu.ID, MenuPatch{Title: strPtr("Renamed")})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, "first", updated.Description)

		unchanged, found, err := repo.UpdateMenu(ctx, s, menu.ID, MenuPatch{})
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, updated, unchanged)

		_, found, err = repo.UpdateMenu(ctx, s, "missing", MenuPatch{Title: strPtr("x")})
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRepository_CountsAndCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	var menu Menu
	var sub1, sub2 Submenu
	var dish1, dish2, dish3 Dish
	inTx(t, db, func(s *Session) {
		var err error
		menu, err = repo.CreateMenu(ctx, s, MenuInput{Title: "Menu"})
		require.NoError(t, err)
		sub1, err = repo.CreateSubmenu(ctx, s, menu.ID, MenuInput{Title: "Sub 1"})
		require.NoError(t, err)
		sub2, err = repo.CreateSubmenu(ctx, s, menu.ID, MenuInput{Title: "Sub 2"})
		require.NoError(t, err)
		dish1, err = repo.CreateDish(ctx, s, menu.ID, sub1.ID, DishInput{Title: "Dish 1", Price: "12.5"})
		require.NoError(t, err)
		dish2, err = repo.CreateDish(ctx, s, menu.ID, sub1.ID, DishInput{Title: "Dish 2", Price: "3"})
		require.NoError(t, err)
		dish3, err = repo.CreateDish(ctx, s, menu.ID, sub2.ID, DishInput{Title: "Dish 3", Price: "1.99"})
		require.NoError(t, err)
	})

	assert.Equal(t, "12.50", dish1.Price)
	assert.Equal(t, menu.ID, dish1.MenuID)

	inTx(t, db, func(s *Session) {
		got, _, err := repo.GetMenu(ctx, s, menu.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, got.SubmenusCount)
		assert.EqualValues(t, 3, got.DishesCount)

		sub, _, err := repo.GetSubmenu(ctx, s, sub1.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, sub.DishesCount)
		assert.Equal(t, menu.ID, sub.MenuID)

		dishes, err := repo.ListDishes(ctx, s, sub1.ID)
		require.NoError(t, err)
		require.Len(t, dishes, 2)
		assert.Equal(t, dish1, dishes[0])
		assert.Equal(t, dish2, dishes[1])

		submenus, err := repo.ListSubmenus(ctx, s, menu.ID)
		require.NoError(t, err)
		require.Len(t, submenus, 2)
		assert.EqualValues(t, 1, submenus[1].DishesCount)
	})

	inTx(t, db, func(s *Session) {
		desc, found, err := repo.DeleteSubmenu(ctx, s, menu.ID, sub1.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []DishRef{{ID: dish1.ID, SubmenuID: sub1.ID}, {ID: dish2.ID, SubmenuID: sub1.ID}}, desc.Dishes)

		_, found, err = repo.GetDish(ctx, s, dish1.ID)
		require.NoError(t, err)
		assert.False(t, found, "dishes cascade with their submenu")

		got, _, err := repo.GetMenu(ctx, s, menu.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, got.SubmenusCount)
		assert.EqualValues(t, 1, got.DishesCount)
	})

	inTx(t, db, func(s *Session) {
		desc, found, err := repo.DeleteMenu(ctx, s, menu.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []string{sub2.ID}, desc.SubmenuIDs)
		assert.Equal(t, []DishRef{{ID: dish3.ID, SubmenuID: sub2.ID}}, desc.Dishes)

		_, found, err = repo.GetSubmenu(ctx, s, sub2.ID)
		require.NoError(t, err)
		assert.False(t, found)
		_, found, err = repo.GetDish(ctx, s, dish3.ID)
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = repo.DeleteMenu(ctx, s, menu.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRepository_ParentChecks(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	var menuA, menuB Menu
	var subA Submenu
	var dish Dish
	inTx(t, db, func(s *Session) {
		var err error
		menuA, err = repo.CreateMenu(ctx, s, MenuInput{Title: "A"})
		require.NoError(t, err)
		menuB, err = repo.CreateMenu(ctx, s, MenuInput{Title: "B"})
		require.NoError(t, err)
		subA, err = repo.CreateSubmenu(ctx, s, menuA.ID, MenuInput{Title: "Sub A"})
		require.NoError(t, err)
		dish, err = repo.CreateDish(ctx, s, menuA.ID, subA.ID, DishInput{Title: "Dish", Price: "1.00"})
		require.NoError(t, err)
	})

	inTx(t, db, func(s *Session) {
		_, err := repo.CreateSubmenu(ctx, s, "missing", MenuInput{Title: "x"})
		assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
		assert.Equal(t, "menu not found", errors.PublicMessage(err))

		_, err = repo.CreateDish(ctx, s, menuB.ID, subA.ID, DishInput{Title: "x", Price: "1"})
		assert.True(t, errors.IsType(err, errors.ErrTypeNotFound), "submenu must belong to the menu")

		_, err = repo.CreateDish(ctx, s, menuA.ID, subA.ID, DishInput{Title: "x", Price: "abc"})
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

		_, found, err := repo.UpdateSubmenu(ctx, s, menuB.ID, subA.ID, MenuPatch{Title: strPtr("moved")})
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = repo.UpdateDish(ctx, s, menuB.ID, subA.ID, dish.ID, DishPatch{Price: strPtr("2")})
		require.NoError(t, err)
		assert.False(t, found)

		found, err = repo.DeleteDish(ctx, s, menuB.ID, subA.ID, dish.ID)
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = repo.DeleteSubmenu(ctx, s, menuB.ID, subA.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	inTx(t, db, func(s *Session) {
		updated, found, err := repo.UpdateDish(ctx, s, menuA.ID, subA.ID, dish.ID, DishPatch{Price: strPtr("150")})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "150.00", updated.Price)
		assert.Equal(t, "Dish", updated.Title)

		updatedSub, found, err := repo.UpdateSubmenu(ctx, s, menuA.ID, subA.ID, MenuPatch{Description: strPtr("desc")})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "desc", updatedSub.Description)
		assert.EqualValues(t, 1, updatedSub.DishesCount)

		found, err = repo.DeleteDish(ctx, s, menuA.ID, subA.ID, dish.ID)
		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestRepository_LockRows(t *testing.T) {
	selectMenu := func(r *Repository) string {
		query, _, err := r.lockRows(r.qb().Select("1").From("menus").Where(sq.Eq{"id": "m"})).Limit(1).ToSql()
		require.NoError(t, err)
		return query
	}

	pg := &Repository{db: &DB{dialect: Postgres, builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}}
	assert.Equal(t, "SELECT 1 FROM menus WHERE id = $1 LIMIT 1 FOR UPDATE", selectMenu(pg))

	lite := NewRepository(newTestDB(t))
	assert.Equal(t, "SELECT 1 FROM menus WHERE id = ? LIMIT 1", selectMenu(lite))
}

func TestQueryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorType
	}{
		{"bad connection", driver.ErrBadConn, errors.ErrTypeBackendUnavailable},
		{"connection done", sql.ErrConnDone, errors.ErrTypeBackendUnavailable},
		{"network", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, errors.ErrTypeBackendUnavailable},
		{"server shutdown", &pgconn.PgError{Code: "57P01"}, errors.ErrTypeBackendUnavailable},
		{"connection failure", &pgconn.PgError{Code: "08006"}, errors.ErrTypeBackendUnavailable},
		{"constraint", &pgconn.PgError{Code: "23503"}, errors.ErrTypeInternal},
		{"other", stderrors.New("syntax error"), errors.ErrTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := queryError("GetMenu", fmt.Errorf("wrapped: %w", tt.err))
			assert.Equal(t, tt.want, errors.GetType(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	err := queryError("GetMenu", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, errors.ErrTypeInternal, errors.GetType(err))
}
