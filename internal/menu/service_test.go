package menu

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-service/internal/cache"
	"menu-service/internal/common/errors"
	"menu-service/internal/storage"
	"menu-service/internal/testutil"
)

type testEnv struct {
	svc   *Service
	db    *storage.DB
	store cache.Store
}

func newTestEnv(t *testing.T, store cache.Store) *testEnv {
	t.Helper()
	if store == nil {
		store = cache.NewLocalStore(time.Minute)
	}
	db := testutil.NewSQLiteDB(t)
	return &testEnv{svc: NewService(db, testutil.NewCoordinator(t, store), nil), db: db, store: store}
}

func (e *testEnv) cached(t *testing.T, key string) bool {
	t.Helper()
	_, found, err := e.store.Get(context.Background(), key)
	require.NoError(t, err)
	return found
}

// brokenDeletes accepts reads and writes but fails every invalidation
type brokenDeletes struct {
	*cache.LocalStore
}

func (brokenDeletes) DeleteMany(ctx context.Context, keys []string) (int64, error) {
	return 0, errors.BackendUnavailableError("test cache", stderrors.New("connection reset"))
}

func TestService_MenuListSeesCreate(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	menus, err := env.svc.ListMenus(ctx)
	require.NoError(t, err)
	assert.Empty(t, menus)
	assert.True(t, env.cached(t, cache.MenuListKey()), "empty lists are cached")

	m1, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "M1"})
	require.NoError(t, err)
	assert.False(t, env.cached(t, cache.MenuListKey()))

	menus, err = env.svc.ListMenus(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, m1.ID, menus[0].ID)
}

func TestService_CascadeDeleteHidesSubmenu(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	m1, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "M1"})
	require.NoError(t, err)
	s1, err := env.svc.CreateSubmenu(ctx, m1.ID, storage.MenuInput{Title: "S1"})
	require.NoError(t, err)
	d1, err := env.svc.CreateDish(ctx, m1.ID, s1.ID, storage.DishInput{Title: "D1", Price: "5"})
	require.NoError(t, err)

	// warm every level
	_, err = env.svc.GetSubmenu(ctx, m1.ID, s1.ID)
	require.NoError(t, err)
	_, err = env.svc.GetDish(ctx, m1.ID, s1.ID, d1.ID)
	require.NoError(t, err)
	subs, err := env.svc.ListSubmenus(ctx, m1.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	dishes, err := env.svc.ListDishes(ctx, m1.ID, s1.ID)
	require.NoError(t, err)
	require.Len(t, dishes, 1)

	require.NoError(t, env.svc.DeleteMenu(ctx, m1.ID))

	for _, key := range []string{
		cache.EntityKey(cache.KindSubmenu, s1.ID),
		cache.EntityKey(cache.KindDish, d1.ID),
		cache.ListKey(cache.KindSubmenu, m1.ID),
		cache.ListKey(cache.KindDish, s1.ID),
	} {
		assert.False(t, env.cached(t, key), key)
	}

	_, err = env.svc.GetSubmenu(ctx, m1.ID, s1.ID)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
	_, err = env.svc.GetDish(ctx, m1.ID, s1.ID, d1.ID)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
	_, err = env.svc.GetMenu(ctx, m1.ID)
	assert.Equal(t, "menu not found", errors.PublicMessage(err))

	subs, err = env.svc.ListSubmenus(ctx, m1.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestService_DishPriceUpdateVisibleInList(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	m1, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "M1"})
	require.NoError(t, err)
	s1, err := env.svc.CreateSubmenu(ctx, m1.ID, storage.MenuInput{Title: "S1"})
	require.NoError(t, err)
	d1, err := env.svc.CreateDish(ctx, m1.ID, s1.ID, storage.DishInput{Title: "D1", Price: "10.00"})
	require.NoError(t, err)

	dishes, err := env.svc.ListDishes(ctx, m1.ID, s1.ID)
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "10.00", dishes[0].Price)

	price := "12.5"
	updated, err := env.svc.UpdateDish(ctx, m1.ID, s1.ID, d1.ID, storage.DishPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "12.50", updated.Price)

	dishes, err = env.svc.ListDishes(ctx, m1.ID, s1.ID)
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "12.50", dishes[0].Price)

	got, err := env.svc.GetDish(ctx, m1.ID, s1.ID, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, "12.50", got.Price)
}

func TestService_CountsFollowChildWrites(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	m1, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "M1"})
	require.NoError(t, err)

	menu, err := env.svc.GetMenu(ctx, m1.ID)
	require.NoError(t, err)
	assert.Zero(t, menu.SubmenusCount)

	s1, err := env.svc.CreateSubmenu(ctx, m1.ID, storage.MenuInput{Title: "S1"})
	require.NoError(t, err)
	_, err = env.svc.CreateDish(ctx, m1.ID, s1.ID, storage.DishInput{Title: "D1", Price: "1"})
	require.NoError(t, err)

	menu, err = env.svc.GetMenu(ctx, m1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, menu.SubmenusCount)
	assert.EqualValues(t, 1, menu.DishesCount)

	menus, err := env.svc.ListMenus(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.EqualValues(t, 1, menus[0].DishesCount)

	sub, err := env.svc.GetSubmenu(ctx, m1.ID, s1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sub.DishesCount)

	require.NoError(t, env.svc.DeleteSubmenu(ctx, m1.ID, s1.ID))

	menu, err = env.svc.GetMenu(ctx, m1.ID)
	require.NoError(t, err)
	assert.Zero(t, menu.SubmenusCount)
	assert.Zero(t, menu.DishesCount)
}

func TestService_ScopeChecks(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	mA, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "A"})
	require.NoError(t, err)
	mB, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "B"})
	require.NoError(t, err)
	sA, err := env.svc.CreateSubmenu(ctx, mA.ID, storage.MenuInput{Title: "SA"})
	require.NoError(t, err)
	dA, err := env.svc.CreateDish(ctx, mA.ID, sA.ID, storage.DishInput{Title: "DA", Price: "1"})
	require.NoError(t, err)

	// a cached entry must not leak through another parent's path
	_, err = env.svc.GetSubmenu(ctx, mA.ID, sA.ID)
	require.NoError(t, err)
	_, err = env.svc.GetSubmenu(ctx, mB.ID, sA.ID)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	_, err = env.svc.GetDish(ctx, mA.ID, sA.ID, dA.ID)
	require.NoError(t, err)
	_, err = env.svc.GetDish(ctx, mB.ID, sA.ID, dA.ID)
	assert.Equal(t, "dish not found", errors.PublicMessage(err))

	dishes, err := env.svc.ListDishes(ctx, mB.ID, sA.ID)
	require.NoError(t, err)
	assert.Empty(t, dishes)

	_, err = env.svc.GetMenu(ctx, "not-a-uuid")
	assert.Equal(t, "menu not found", errors.PublicMessage(err))
	_, err = env.svc.GetDish(ctx, mA.ID, sA.ID, "42")
	assert.Equal(t, "dish not found", errors.PublicMessage(err))

	_, err = env.svc.CreateSubmenu(ctx, uuid.NewString(), storage.MenuInput{Title: "x"})
	assert.Equal(t, "menu not found", errors.PublicMessage(err))
	err = env.svc.DeleteSubmenu(ctx, mB.ID, sA.ID)
	assert.Equal(t, "submenu not found", errors.PublicMessage(err))

	title := "renamed"
	_, err = env.svc.UpdateMenu(ctx, uuid.NewString(), storage.MenuPatch{Title: &title})
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestService_IDSpellingsShareOneKey(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	m1, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "M1"})
	require.NoError(t, err)
	s1, err := env.svc.CreateSubmenu(ctx, m1.ID, storage.MenuInput{Title: "S1"})
	require.NoError(t, err)

	upper := strings.ToUpper(m1.ID)
	spellings := []string{
		upper,
		strings.ReplaceAll(m1.ID, "-", ""),
		"{" + m1.ID + "}",
		"urn:uuid:" + m1.ID,
	}
	for _, id := range spellings {
		t.Run(id, func(t *testing.T) {
			got, err := env.svc.GetMenu(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, m1.ID, got.ID)

			sub, err := env.svc.GetSubmenu(ctx, id, strings.ToUpper(s1.ID))
			require.NoError(t, err)
			assert.Equal(t, s1.ID, sub.ID)
		})
	}
	assert.True(t, env.cached(t, cache.EntityKey(cache.KindMenu, m1.ID)))
	assert.False(t, env.cached(t, cache.EntityKey(cache.KindMenu, upper)))

	// warm through the canonical id, write through another spelling
	_, err = env.svc.GetMenu(ctx, m1.ID)
	require.NoError(t, err)
	title := "renamed"
	_, err = env.svc.UpdateMenu(ctx, upper, storage.MenuPatch{Title: &title})
	require.NoError(t, err)
	assert.False(t, env.cached(t, cache.EntityKey(cache.KindMenu, m1.ID)))

	got, err := env.svc.GetMenu(ctx, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
}

func TestService_ServesHitsWithoutDatabase(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	m1, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "M1"})
	require.NoError(t, err)
	_, err = env.svc.GetMenu(ctx, m1.ID)
	require.NoError(t, err)

	require.NoError(t, env.db.Close())

	menu, err := env.svc.GetMenu(ctx, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, "M1", menu.Title)

	_, err = env.svc.ListMenus(ctx)
	assert.Error(t, err, "a miss still needs the database")
}

func TestService_WriteSurvivesInvalidationFailure(t *testing.T) {
	env := newTestEnv(t, brokenDeletes{cache.NewLocalStore(time.Minute)})
	ctx := context.Background()

	m1, err := env.svc.CreateMenu(ctx, storage.MenuInput{Title: "M1"})
	require.NoError(t, err)

	title := "M1 renamed"
	updated, err := env.svc.UpdateMenu(ctx, m1.ID, storage.MenuPatch{Title: &title})
	require.NoError(t, err, "the write committed even though invalidation failed")
	assert.Equal(t, title, updated.Title)

	require.NoError(t, env.svc.DeleteMenu(ctx, m1.ID))
}

func TestService_FailedWriteLeavesCacheAlone(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	menus, err := env.svc.ListMenus(ctx)
	require.NoError(t, err)
	assert.Empty(t, menus)

	_, err = env.svc.CreateDish(ctx, uuid.NewString(), uuid.NewString(), storage.DishInput{Title: "x", Price: "1"})
	require.Error(t, err)
	assert.True(t, env.cached(t, cache.MenuListKey()))
}

func TestService_RedisBackedReadThrough(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	env := newTestEnv(t, client)
	ctx := context.Background()
	tree := testutil.SeedTree(t, env.db, 2, 2)

	dishes, err := env.svc.ListDishes(ctx, tree.Menu.ID, tree.Submenus[0].ID)
	require.NoError(t, err)
	assert.Equal(t, tree.Dishes[0], dishes)
	assert.True(t, mr.Exists(cache.ListKey(cache.KindDish, tree.Submenus[0].ID)))

	ttl := mr.TTL(cache.ListKey(cache.KindDish, tree.Submenus[0].ID))
	assert.Equal(t, 60*time.Second, ttl)

	require.NoError(t, env.svc.DeleteSubmenu(ctx, tree.Menu.ID, tree.Submenus[0].ID))
	assert.False(t, mr.Exists(cache.ListKey(cache.KindDish, tree.Submenus[0].ID)))

	menu, err := env.svc.GetMenu(ctx, tree.Menu.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, menu.SubmenusCount)
	assert.EqualValues(t, 2, menu.DishesCount)

	mr.FastForward(61 * time.Second)
	assert.False(t, mr.Exists(cache.EntityKey(cache.KindMenu, tree.Menu.ID)), "entries expire after the TTL")
}
