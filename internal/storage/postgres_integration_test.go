//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newPostgresDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("menu"),
		tcpostgres.WithUsername("menu"),
		tcpostgres.WithPassword("menu"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, Config{Dialect: Postgres, DSN: dsn, MaxOpenConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(ctx)
	require.NoError(t, err)
	return db
}

func TestPostgres_Repository(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	var menu Menu
	var sub Submenu
	var dish Dish
	inTx(t, db, func(s *Session) {
		var err error
		menu, err = repo.CreateMenu(ctx, s, MenuInput{Title: "Menu"})
		require.NoError(t, err)
		sub, err = repo.CreateSubmenu(ctx, s, menu.ID, MenuInput{Title: "Sub"})
		require.NoError(t, err)
		dish, err = repo.CreateDish(ctx, s, menu.ID, sub.ID, DishInput{Title: "Dish", Price: "12.50"})
		require.NoError(t, err)
	})

	inTx(t, db, func(s *Session) {
		got, found, err := repo.GetMenu(ctx, s, menu.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.EqualValues(t, 1, got.SubmenusCount)
		assert.EqualValues(t, 1, got.DishesCount)

		gotDish, found, err := repo.GetDish(ctx, s, dish.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, dish, gotDish)

		desc, found, err := repo.DeleteMenu(ctx, s, menu.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []string{sub.ID}, desc.SubmenuIDs)
	})
}
