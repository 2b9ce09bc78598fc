package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"menu-service/internal/common/errors"
)

const (
	submenusCountExpr = "(SELECT COUNT(*) FROM submenus s WHERE s.menu_id = m.id) AS submenus_count"
	menuDishesExpr    = "(SELECT COUNT(*) FROM dishes d JOIN submenus s ON d.submenu_id = s.id WHERE s.menu_id = m.id) AS dishes_count"
	submenuDishesExpr = "(SELECT COUNT(*) FROM dishes d WHERE d.submenu_id = s.id) AS dishes_count"
)

// Repository builds and runs the menu queries for one dialect
type Repository struct {
	db *DB
}

// NewRepository creates a repository bound to db's dialect
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) qb() sq.StatementBuilderType {
	return r.db.builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) queryRow(ctx context.Context, q Querier, op string, b sq.Sqlizer) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.InternalError("failed to build "+op+" query", err)
	}
	r.db.logSQL(op, query, args)
	return q.QueryRowContext(ctx, query, args...), nil
}

func (r *Repository) query(ctx context.Context, q Querier, op string, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.InternalError("failed to build "+op+" query", err)
	}
	r.db.logSQL(op, query, args)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryError(op, err)
	}
	return rows, nil
}

func (r *Repository) exec(ctx context.Context, q Querier, op string, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.InternalError("failed to build "+op+" query", err)
	}
	r.db.logSQL(op, query, args)
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, queryError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, queryError(op, err)
	}
	return n, nil
}

func queryError(op string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if connectionLost(err) {
		return errors.BackendUnavailableError("database", fmt.Errorf("%s: %w", op, err))
	}
	return errors.InternalError(op+" failed", err)
}

// connectionLost reports errors that mean the database could not be reached,
// as opposed to a query the database rejected.
func connectionLost(err error) bool {
	if stderrors.Is(err, driver.ErrBadConn) || stderrors.Is(err, sql.ErrConnDone) ||
		stderrors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if stderrors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		// class 08 is connection exception, 57P0x is server shutdown
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0")
	}
	var netErr net.Error
	return stderrors.As(err, &netErr)
}

// scanOne maps sql.ErrNoRows to found=false
func scanOne(op string, row *sql.Row, dest ...interface{}) (bool, error) {
	if err := row.Scan(dest...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, queryError(op, err)
	}
	return true, nil
}

func (r *Repository) menuSelect() sq.SelectBuilder {
	return r.qb().Select("m.id", "m.title", "m.description", submenusCountExpr, menuDishesExpr).From("menus m")
}

func scanMenu(row rowScanner, m *Menu) error {
	return row.Scan(&m.ID, &m.Title, &m.Description, &m.SubmenusCount, &m.DishesCount)
}

// GetMenu returns the menu with id
func (r *Repository) GetMenu(ctx context.Context, q Querier, id string) (Menu, bool, error) {
	row, err := r.queryRow(ctx, q, "GetMenu", r.menuSelect().Where(sq.Eq{"m.id": id}))
	if err != nil {
		return Menu{}, false, err
	}
	var m Menu
	found, err := scanOne("GetMenu", row, &m.ID, &m.Title, &m.Description, &m.SubmenusCount, &m.DishesCount)
	return m, found, err
}

// ListMenus returns every menu in creation order
func (r *Repository) ListMenus(ctx context.Context, q Querier) ([]Menu, error) {
	rows, err := r.query(ctx, q, "ListMenus", r.menuSelect().OrderBy("m.seq"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menus := []Menu{}
	for rows.Next() {
		var m Menu
		if err := scanMenu(rows, &m); err != nil {
			return nil, queryError("ListMenus", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("ListMenus", err)
	}
	return menus, nil
}

// CreateMenu inserts a menu and returns it
func (r *Repository) CreateMenu(ctx context.Context, q Querier, in MenuInput) (Menu, error) {
	id := uuid.NewString()
	_, err := r.exec(ctx, q, "CreateMenu", r.qb().Insert("menus").
		Columns("id", "title", "description").
		Values(id, in.Title, in.Description))
	if err != nil {
		return Menu{}, err
	}
	return Menu{ID: id, Title: in.Title, Description: in.Description}, nil
}

// UpdateMenu applies patch and returns the updated menu
func (r *Repository) UpdateMenu(ctx context.Context, q Querier, id string, patch MenuPatch) (Menu, bool, error) {
	set := textPatch(patch.Title, patch.Description)
	if len(set) > 0 {
		n, err := r.exec(ctx, q, "UpdateMenu", r.qb().Update("menus").SetMap(set).Where(sq.Eq{"id": id}))
		if err != nil || n == 0 {
			return Menu{}, false, err
		}
	}
	return r.GetMenu(ctx, q, id)
}

// DeleteMenu removes a menu with its submenus and dishes and reports what was removed.
// The menu and its submenus are locked first so no child can be added between
// collecting the descendants and the cascade.
func (r *Repository) DeleteMenu(ctx context.Context, q Querier, id string) (Descendants, bool, error) {
	var desc Descendants

	found, err := r.exists(ctx, q, "DeleteMenu.lock", r.lockRows(r.qb().Select("1").From("menus").
		Where(sq.Eq{"id": id})))
	if err != nil || !found {
		return desc, false, err
	}

	rows, err := r.query(ctx, q, "DeleteMenu.submenus", r.lockRows(r.qb().Select("id").From("submenus").
		Where(sq.Eq{"menu_id": id}).OrderBy("seq")))
	if err != nil {
		return desc, false, err
	}
	desc.SubmenuIDs, err = collectStrings(rows)
	if err != nil {
		return desc, false, queryError("DeleteMenu.submenus", err)
	}

	rows, err = r.query(ctx, q, "DeleteMenu.dishes", r.qb().Select("d.id", "d.submenu_id").
		From("dishes d").Join("submenus s ON d.submenu_id = s.id").
		Where(sq.Eq{"s.menu_id": id}).OrderBy("d.seq"))
	if err != nil {
		return desc, false, err
	}
	desc.Dishes, err = collectDishRefs(rows)
	if err != nil {
		return desc, false, queryError("DeleteMenu.dishes", err)
	}

	n, err := r.exec(ctx, q, "DeleteMenu", r.qb().Delete("menus").Where(sq.Eq{"id": id}))
	if err != nil || n == 0 {
		return Descendants{}, false, err
	}
	return desc, true, nil
}

func (r *Repository) submenuSelect() sq.SelectBuilder {
	return r.qb().Select("s.id", "s.menu_id", "s.title", "s.description", submenuDishesExpr).From("submenus s")
}

func scanSubmenu(row rowScanner, s *Submenu) error {
	return row.Scan(&s.ID, &s.MenuID, &s.Title, &s.Description, &s.DishesCount)
}

// GetSubmenu returns the submenu with id
func (r *Repository) GetSubmenu(ctx context.Context, q Querier, id string) (Submenu, bool, error) {
	row, err := r.queryRow(ctx, q, "GetSubmenu", r.submenuSelect().Where(sq.Eq{"s.id": id}))
	if err != nil {
		return Submenu{}, false, err
	}
	var s Submenu
	found, err := scanOne("GetSubmenu", row, &s.ID, &s.MenuID, &s.Title, &s.Description, &s.DishesCount)
	return s, found, err
}

// ListSubmenus returns the submenus of a menu in creation order
func (r *Repository) ListSubmenus(ctx context.Context, q Querier, menuID string) ([]Submenu, error) {
	rows, err := r.query(ctx, q, "ListSubmenus", r.submenuSelect().Where(sq.Eq{"s.menu_id": menuID}).OrderBy("s.seq"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submenus := []Submenu{}
	for rows.Next() {
		var s Submenu
		if err := scanSubmenu(rows, &s); err != nil {
			return nil, queryError("ListSubmenus", err)
		}
		submenus = append(submenus, s)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("ListSubmenus", err)
	}
	return submenus, nil
}

// CreateSubmenu inserts a submenu under an existing menu
func (r *Repository) CreateSubmenu(ctx context.Context, q Querier, menuID string, in MenuInput) (Submenu, error) {
	exists, err := r.exists(ctx, q, "CreateSubmenu.menu", r.qb().Select("1").From("menus").Where(sq.Eq{"id": menuID}))
	if err != nil {
		return Submenu{}, err
	}
	if !exists {
		return Submenu{}, errors.NotFoundError("menu")
	}

	id := uuid.NewString()
	_, err = r.exec(ctx, q, "CreateSubmenu", r.qb().Insert("submenus").
		Columns("id", "menu_id", "title", "description").
		Values(id, menuID, in.Title, in.Description))
	if err != nil {
		return Submenu{}, err
	}
	return Submenu{ID: id, MenuID: menuID, Title: in.Title, Description: in.Description}, nil
}

// UpdateSubmenu applies patch to a submenu of menuID
func (r *Repository) UpdateSubmenu(ctx context.Context, q Querier, menuID, id string, patch MenuPatch) (Submenu, bool, error) {
	set := textPatch(patch.Title, patch.Description)
	if len(set) > 0 {
		n, err := r.exec(ctx, q, "UpdateSubmenu", r.qb().Update("submenus").SetMap(set).
			Where(sq.Eq{"id": id, "menu_id": menuID}))
		if err != nil || n == 0 {
			return Submenu{}, false, err
		}
	}

	s, found, err := r.GetSubmenu(ctx, q, id)
	if err != nil || !found || s.MenuID != menuID {
		return Submenu{}, false, err
	}
	return s, true, nil
}

// DeleteSubmenu removes a submenu of menuID with its dishes and reports the removed dishes
func (r *Repository) DeleteSubmenu(ctx context.Context, q Querier, menuID, id string) (Descendants, bool, error) {
	found, err := r.exists(ctx, q, "DeleteSubmenu.lock", r.lockRows(r.qb().Select("1").From("submenus").
		Where(sq.Eq{"id": id, "menu_id": menuID})))
	if err != nil || !found {
		return Descendants{}, false, err
	}

	rows, err := r.query(ctx, q, "DeleteSubmenu.dishes", r.qb().Select("id", "submenu_id").From("dishes").
		Where(sq.Eq{"submenu_id": id}).OrderBy("seq"))
	if err != nil {
		return Descendants{}, false, err
	}
	dishes, err := collectDishRefs(rows)
	if err != nil {
		return Descendants{}, false, queryError("DeleteSubmenu.dishes", err)
	}

	n, err := r.exec(ctx, q, "DeleteSubmenu", r.qb().Delete("submenus").Where(sq.Eq{"id": id, "menu_id": menuID}))
	if err != nil || n == 0 {
		return Descendants{}, false, err
	}
	return Descendants{Dishes: dishes}, true, nil
}

func (r *Repository) dishSelect() sq.SelectBuilder {
	return r.qb().Select("d.id", "s.menu_id", "d.submenu_id", "d.title", "d.description", "d.price_cents").
		From("dishes d").Join("submenus s ON d.submenu_id = s.id")
}

func scanDish(row rowScanner, d *Dish) error {
	var cents int64
	if err := row.Scan(&d.ID, &d.MenuID, &d.SubmenuID, &d.Title, &d.Description, &cents); err != nil {
		return err
	}
	d.Price = FormatPrice(cents)
	return nil
}

// GetDish returns the dish with id
func (r *Repository) GetDish(ctx context.Context, q Querier, id string) (Dish, bool, error) {
	row, err := r.queryRow(ctx, q, "GetDish", r.dishSelect().Where(sq.Eq{"d.id": id}))
	if err != nil {
		return Dish{}, false, err
	}
	var d Dish
	if err := scanDish(row, &d); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return Dish{}, false, nil
		}
		return Dish{}, false, queryError("GetDish", err)
	}
	return d, true, nil
}

// ListDishes returns the dishes of a submenu in creation order
func (r *Repository) ListDishes(ctx context.Context, q Querier, submenuID string) ([]Dish, error) {
	rows, err := r.query(ctx, q, "ListDishes", r.dishSelect().Where(sq.Eq{"d.submenu_id": submenuID}).OrderBy("d.seq"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []Dish{}
	for rows.Next() {
		var d Dish
		if err := scanDish(rows, &d); err != nil {
			return nil, queryError("ListDishes", err)
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("ListDishes", err)
	}
	return dishes, nil
}

// CreateDish inserts a dish under a submenu that belongs to menuID
func (r *Repository) CreateDish(ctx context.Context, q Querier, menuID, submenuID string, in DishInput) (Dish, error) {
	cents, err := ParsePrice(in.Price)
	if err != nil {
		return Dish{}, err
	}

	exists, err := r.exists(ctx, q, "CreateDish.submenu", r.qb().Select("1").From("submenus").
		Where(sq.Eq{"id": submenuID, "menu_id": menuID}))
	if err != nil {
		return Dish{}, err
	}
	if !exists {
		return Dish{}, errors.NotFoundError("submenu")
	}

	id := uuid.NewString()
	_, err = r.exec(ctx, q, "CreateDish", r.qb().Insert("dishes").
		Columns("id", "submenu_id", "title", "description", "price_cents").
		Values(id, submenuID, in.Title, in.Description, cents))
	if err != nil {
		return Dish{}, err
	}
	return Dish{
		ID:          id,
		MenuID:      menuID,
		SubmenuID:   submenuID,
		Title:       in.Title,
		Description: in.Description,
		Price:       FormatPrice(cents),
	}, nil
}

// UpdateDish applies patch to a dish of submenuID under menuID
func (r *Repository) UpdateDish(ctx context.Context, q Querier, menuID, submenuID, id string, patch DishPatch) (Dish, bool, error) {
	set := textPatch(patch.Title, patch.Description)
	if patch.Price != nil {
		cents, err := ParsePrice(*patch.Price)
		if err != nil {
			return Dish{}, false, err
		}
		set["price_cents"] = cents
	}

	if len(set) > 0 {
		n, err := r.exec(ctx, q, "UpdateDish", r.qb().Update("dishes").SetMap(set).
			Where(sq.Eq{"id": id, "submenu_id": submenuID}).
			Where(sq.Expr("submenu_id IN (SELECT id FROM submenus WHERE menu_id = ?)", menuID)))
		if err != nil || n == 0 {
			return Dish{}, false, err
		}
	}

	d, found, err := r.GetDish(ctx, q, id)
	if err != nil || !found || d.MenuID != menuID || d.SubmenuID != submenuID {
		return Dish{}, false, err
	}
	return d, true, nil
}

// DeleteDish removes a dish of submenuID under menuID
func (r *Repository) DeleteDish(ctx context.Context, q Querier, menuID, submenuID, id string) (bool, error) {
	n, err := r.exec(ctx, q, "DeleteDish", r.qb().Delete("dishes").
		Where(sq.Eq{"id": id, "submenu_id": submenuID}).
		Where(sq.Expr("submenu_id IN (SELECT id FROM submenus WHERE menu_id = ?)", menuID)))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// lockRows holds the selected rows until the transaction ends. SQLite runs on
// a single connection, so its transactions are already serialized.
func (r *Repository) lockRows(b sq.SelectBuilder) sq.SelectBuilder {
	if r.db.dialect == Postgres {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

func (r *Repository) exists(ctx context.Context, q Querier, op string, b sq.SelectBuilder) (bool, error) {
	row, err := r.queryRow(ctx, q, op, b.Limit(1))
	if err != nil {
		return false, err
	}
	var one int
	return scanOne(op, row, &one)
}

func textPatch(title, description *string) map[string]interface{} {
	set := make(map[string]interface{})
	if title != nil {
		set["title"] = *title
	}
	if description != nil {
		set["description"] = *description
	}
	return set
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func collectDishRefs(rows *sql.Rows) ([]DishRef, error) {
	defer rows.Close()
	var out []DishRef
	for rows.Next() {
		var d DishRef
		if err := rows.Scan(&d.ID, &d.SubmenuID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
