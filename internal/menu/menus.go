package menu

import (
	"context"

	"menu-service/internal/cache"
	"menu-service/internal/common/errors"
	"menu-service/internal/storage"
)

// ListMenus returns every menu
func (s *Service) ListMenus(ctx context.Context) ([]storage.Menu, error) {
	return cache.ReadListThrough(ctx, s.cache, cache.KindMenu, cache.RootParent,
		func(ctx context.Context) (menus []storage.Menu, err error) {
			err = s.read(ctx, func(q storage.Querier) error {
				menus, err = s.repo.ListMenus(ctx, q)
				return err
			})
			return menus, err
		})
}

// GetMenu returns one menu with its submenu and dish counts
func (s *Service) GetMenu(ctx context.Context, id string) (storage.Menu, error) {
	if err := checkIDs(menuArg(&id)); err != nil {
		return storage.Menu{}, err
	}

	menu, found, err := cache.ReadThrough(ctx, s.cache, cache.KindMenu, id,
		func(ctx context.Context) (m storage.Menu, found bool, err error) {
			err = s.read(ctx, func(q storage.Querier) error {
				m, found, err = s.repo.GetMenu(ctx, q, id)
				return err
			})
			return m, found, err
		})
	if err != nil {
		return storage.Menu{}, err
	}
	if !found {
		return storage.Menu{}, errors.NotFoundError("menu")
	}
	return menu, nil
}

// CreateMenu stores a new menu
func (s *Service) CreateMenu(ctx context.Context, in storage.MenuInput) (storage.Menu, error) {
	var menu storage.Menu
	err := s.write(ctx, func(q storage.Querier) (err error) {
		menu, err = s.repo.CreateMenu(ctx, q, in)
		return err
	})
	if err != nil {
		return storage.Menu{}, err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:   cache.OpCreate,
		Node: cache.NodeRef{Kind: cache.KindMenu, ID: menu.ID},
	})
	return menu, nil
}

// UpdateMenu applies patch to a menu
func (s *Service) UpdateMenu(ctx context.Context, id string, patch storage.MenuPatch) (storage.Menu, error) {
	if err := checkIDs(menuArg(&id)); err != nil {
		return storage.Menu{}, err
	}

	var menu storage.Menu
	err := s.write(ctx, func(q storage.Querier) error {
		var (
			found bool
			err   error
		)
		menu, found, err = s.repo.UpdateMenu(ctx, q, id, patch)
		if err == nil && !found {
			err = errors.NotFoundError("menu")
		}
		return err
	})
	if err != nil {
		return storage.Menu{}, err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:   cache.OpUpdate,
		Node: cache.NodeRef{Kind: cache.KindMenu, ID: id},
	})
	return menu, nil
}

// DeleteMenu removes a menu together with its submenus and dishes
func (s *Service) DeleteMenu(ctx context.Context, id string) error {
	if err := checkIDs(menuArg(&id)); err != nil {
		return err
	}

	var desc storage.Descendants
	err := s.write(ctx, func(q storage.Querier) error {
		var (
			found bool
			err   error
		)
		desc, found, err = s.repo.DeleteMenu(ctx, q, id)
		if err == nil && !found {
			err = errors.NotFoundError("menu")
		}
		return err
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cache.Mutation{
		Op:          cache.OpDelete,
		Node:        cache.NodeRef{Kind: cache.KindMenu, ID: id},
		Descendants: descendantRefs(id, desc),
	})
	return nil
}

func descendantRefs(menuID string, desc storage.Descendants) []cache.NodeRef {
	refs := make([]cache.NodeRef, 0, len(desc.SubmenuIDs)+len(desc.Dishes))
	for _, id := range desc.SubmenuIDs {
		refs = append(refs, cache.NodeRef{Kind: cache.KindSubmenu, ID: id, MenuID: menuID})
	}
	for _, d := range desc.Dishes {
		refs = append(refs, cache.NodeRef{Kind: cache.KindDish, ID: d.ID, MenuID: menuID, SubmenuID: d.SubmenuID})
	}
	return refs
}
