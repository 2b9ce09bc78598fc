package menu

import (
	"context"

	"menu-service/internal/cache"
	"menu-service/internal/common/errors"
	"menu-service/internal/storage"
)

// ListSubmenus returns the submenus of a menu. An unknown menu has none.
func (s *Service) ListSubmenus(ctx context.Context, menuID string) ([]storage.Submenu, error) {
	if err := checkIDs(menuArg(&menuID)); err != nil {
		return nil, err
	}

	return cache.ReadListThrough(ctx, s.cache, cache.KindSubmenu, menuID,
		func(ctx context.Context) (submenus []storage.Submenu, err error) {
			err = s.read(ctx, func(q storage.Querier) error {
				submenus, err = s.repo.ListSubmenus(ctx, q, menuID)
				return err
			})
			return submenus, err
		})
}

// GetSubmenu returns a submenu of menuID
func (s *Service) GetSubmenu(ctx context.Context, menuID, id string) (storage.Submenu, error) {
	if err := checkIDs(menuArg(&menuID), submenuArg(&id)); err != nil {
		return storage.Submenu{}, err
	}

	sub, found, err := cache.ReadThrough(ctx, s.cache, cache.KindSubmenu, id,
		func(ctx context.Context) (sub storage.Submenu, found bool, err error) {
			err = s.read(ctx, func(q storage.Querier) error {
				sub, found, err = s.repo.GetSubmenu(ctx, q, id)
				return err
			})
			return sub, found, err
		})
	if err != nil {
		return storage.Submenu{}, err
	}
	// Entries are keyed by id alone, so the parent is checked on every read.
	if !found || sub.MenuID != menuID {
		return storage.Submenu{}, errors.NotFoundError("submenu")
	}
	return sub, nil
}

// CreateSubmenu stores a submenu under an existing menu
func (s *Service) CreateSubmenu(ctx context.Context, menuID string, in storage.MenuInput) (storage.Submenu, error) {
	if err := checkIDs(menuArg(&menuID)); err != nil {
		return storage.Submenu{}, err
	}

	var sub storage.Submenu
	err := s.write(ctx, func(q storage.Querier) (err error) {
		sub, err = s.repo.CreateSubmenu(ctx, q, menuID, in)
		return err
	})
	if err != nil {
		return storage.Submenu{}, err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:   cache.OpCreate,
		Node: cache.NodeRef{Kind: cache.KindSubmenu, ID: sub.ID, MenuID: menuID},
	})
	return sub, nil
}

// UpdateSubmenu applies patch to a submenu of menuID
func (s *Service) UpdateSubmenu(ctx context.Context, menuID, id string, patch storage.MenuPatch) (storage.Submenu, error) {
	if err := checkIDs(menuArg(&menuID), submenuArg(&id)); err != nil {
		return storage.Submenu{}, err
	}

	var sub storage.Submenu
	err := s.write(ctx, func(q storage.Querier) error {
		var (
			found bool
			err   error
		)
		sub, found, err = s.repo.UpdateSubmenu(ctx, q, menuID, id, patch)
		if err == nil && !found {
			err = errors.NotFoundError("submenu")
		}
		return err
	})
	if err != nil {
		return storage.Submenu{}, err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:   cache.OpUpdate,
		Node: cache.NodeRef{Kind: cache.KindSubmenu, ID: id, MenuID: menuID},
	})
	return sub, nil
}

// DeleteSubmenu removes a submenu of menuID together with its dishes
func (s *Service) DeleteSubmenu(ctx context.Context, menuID, id string) error {
	if err := checkIDs(menuArg(&menuID), submenuArg(&id)); err != nil {
		return err
	}

	var desc storage.Descendants
	err := s.write(ctx, func(q storage.Querier) error {
		var (
			found bool
			err   error
		)
		desc, found, err = s.repo.DeleteSubmenu(ctx, q, menuID, id)
		if err == nil && !found {
			err = errors.NotFoundError("submenu")
		}
		return err
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:          cache.OpDelete,
		Node:        cache.NodeRef{Kind: cache.KindSubmenu, ID: id, MenuID: menuID},
		Descendants: descendantRefs(menuID, desc),
	})
	return nil
}
