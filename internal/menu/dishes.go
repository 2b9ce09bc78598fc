package menu

import (
	"context"

	"menu-service/internal/cache"
	"menu-service/internal/common/errors"
	"menu-service/internal/storage"
)

// ListDishes returns the dishes of a submenu of menuID. An unknown submenu has none.
func (s *Service) ListDishes(ctx context.Context, menuID, submenuID string) ([]storage.Dish, error) {
	if err := checkIDs(menuArg(&menuID), submenuArg(&submenuID)); err != nil {
		return nil, err
	}

	dishes, err := cache.ReadListThrough(ctx, s.cache, cache.KindDish, submenuID,
		func(ctx context.Context) (dishes []storage.Dish, err error) {
			err = s.read(ctx, func(q storage.Querier) error {
				dishes, err = s.repo.ListDishes(ctx, q, submenuID)
				return err
			})
			return dishes, err
		})
	if err != nil {
		return nil, err
	}

	scoped := make([]storage.Dish, 0, len(dishes))
	for _, d := range dishes {
		if d.MenuID == menuID {
			scoped = append(scoped, d)
		}
	}
	return scoped, nil
}

// GetDish returns a dish of submenuID under menuID
func (s *Service) GetDish(ctx context.Context, menuID, submenuID, id string) (storage.Dish, error) {
	if err := checkIDs(menuArg(&menuID), submenuArg(&submenuID), dishArg(&id)); err != nil {
		return storage.Dish{}, err
	}

	dish, found, err := cache.ReadThrough(ctx, s.cache, cache.KindDish, id,
		func(ctx context.Context) (d storage.Dish, found bool, err error) {
			err = s.read(ctx, func(q storage.Querier) error {
				d, found, err = s.repo.GetDish(ctx, q, id)
				return err
			})
			return d, found, err
		})
	if err != nil {
		return storage.Dish{}, err
	}
	if !found || dish.MenuID != menuID || dish.SubmenuID != submenuID {
		return storage.Dish{}, errors.NotFoundError("dish")
	}
	return dish, nil
}

// CreateDish stores a dish under a submenu of menuID
func (s *Service) CreateDish(ctx context.Context, menuID, submenuID string, in storage.DishInput) (storage.Dish, error) {
	if err := checkIDs(menuArg(&menuID), submenuArg(&submenuID)); err != nil {
		return storage.Dish{}, err
	}

	var dish storage.Dish
	err := s.write(ctx, func(q storage.Querier) (err error) {
		dish, err = s.repo.CreateDish(ctx, q, menuID, submenuID, in)
		return err
	})
	if err != nil {
		return storage.Dish{}, err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:   cache.OpCreate,
		Node: dishRef(menuID, submenuID, dish.ID),
	})
	return dish, nil
}

// UpdateDish applies patch to a dish
func (s *Service) UpdateDish(ctx context.Context, menuID, submenuID, id string, patch storage.DishPatch) (storage.Dish, error) {
	if err := checkIDs(menuArg(&menuID), submenuArg(&submenuID), dishArg(&id)); err != nil {
		return storage.Dish{}, err
	}

	var dish storage.Dish
	err := s.write(ctx, func(q storage.Querier) error {
		var (
			found bool
			err   error
		)
		dish, found, err = s.repo.UpdateDish(ctx, q, menuID, submenuID, id, patch)
		if err == nil && !found {
			err = errors.NotFoundError("dish")
		}
		return err
	})
	if err != nil {
		return storage.Dish{}, err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:   cache.OpUpdate,
		Node: dishRef(menuID, submenuID, id),
	})
	return dish, nil
}

// DeleteDish removes a dish
func (s *Service) DeleteDish(ctx context.Context, menuID, submenuID, id string) error {
	if err := checkIDs(menuArg(&menuID), submenuArg(&submenuID), dishArg(&id)); err != nil {
		return err
	}

	err := s.write(ctx, func(q storage.Querier) error {
		found, err := s.repo.DeleteDish(ctx, q, menuID, submenuID, id)
		if err == nil && !found {
			err = errors.NotFoundError("dish")
		}
		return err
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:   cache.OpDelete,
		Node: dishRef(menuID, submenuID, id),
	})
	return nil
}

func dishRef(menuID, submenuID, id string) cache.NodeRef {
	return cache.NodeRef{Kind: cache.KindDish, ID: id, MenuID: menuID, SubmenuID: submenuID}
}
