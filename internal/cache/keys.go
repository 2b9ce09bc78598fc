package cache

import (
	"sort"

	"menu-service/internal/common/errors"
)

// Kind names a level of the menu hierarchy
type Kind string

const (
	KindMenu    Kind = "menu"
	KindSubmenu Kind = "submenu"
	KindDish    Kind = "dish"
)

// RootParent is the parent id used for the top-level menu list
const RootParent = "all"

// EntityKey returns the key of a single record
func EntityKey(kind Kind, id string) string {
	return "entity:" + string(kind) + ":" + id
}

// ListKey returns the key of the list of kind under parentID
func ListKey(kind Kind, parentID string) string {
	return "list:" + string(kind) + ":" + parentID
}

// MenuListKey returns the key of the root menu list
func MenuListKey() string {
	return ListKey(KindMenu, RootParent)
}

// Op is the kind of write that happened
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// NodeRef identifies a node together with its ancestors. MenuID is required
// for submenus and dishes, SubmenuID for dishes.
type NodeRef struct {
	Kind      Kind
	ID        string
	MenuID    string
	SubmenuID string
}

// Mutation describes a committed write. Descendants lists the nodes removed
// by a cascading delete and is ignored for other operations.
type Mutation struct {
	Op          Op
	Node        NodeRef
	Descendants []NodeRef
}

// Scope returns every cache key that may hold data changed by m, deduplicated
// and sorted. It is a pure function of m.
func Scope(m Mutation) ([]string, error) {
	switch m.Op {
	case OpCreate, OpUpdate, OpDelete:
	default:
		return nil, errors.ValidationError("unknown mutation op").WithContext("op", m.Op)
	}
	if err := m.Node.validate(); err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	add := func(keys ...string) {
		for _, k := range keys {
			set[k] = struct{}{}
		}
	}

	n := m.Node
	switch n.Kind {
	case KindDish:
		add(EntityKey(KindDish, n.ID), ListKey(KindDish, n.SubmenuID))
		add(ancestorsOfSubmenu(n.MenuID, n.SubmenuID)...)
	case KindSubmenu:
		add(ancestorsOfSubmenu(n.MenuID, n.ID)...)
		if m.Op == OpDelete {
			add(ListKey(KindDish, n.ID))
		}
	case KindMenu:
		add(EntityKey(KindMenu, n.ID), MenuListKey(), ListKey(KindSubmenu, n.ID))
	}

	if m.Op == OpDelete {
		for _, d := range m.Descendants {
			switch d.Kind {
			case KindSubmenu:
				if d.ID == "" {
					return nil, errors.ValidationError("descendant submenu id is required")
				}
				add(EntityKey(KindSubmenu, d.ID), ListKey(KindDish, d.ID))
			case KindDish:
				if d.ID == "" || d.SubmenuID == "" {
					return nil, errors.ValidationError("descendant dish needs id and submenu id")
				}
				add(EntityKey(KindDish, d.ID), ListKey(KindDish, d.SubmenuID))
			default:
				return nil, errors.ValidationError("invalid descendant kind").WithContext("kind", d.Kind)
			}
		}
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// ancestorsOfSubmenu covers the submenu's own entry, its sibling list and
// the menu level above it, all of which embed counts.
func ancestorsOfSubmenu(menuID, submenuID string) []string {
	return []string{
		EntityKey(KindSubmenu, submenuID),
		ListKey(KindSubmenu, menuID),
		EntityKey(KindMenu, menuID),
		MenuListKey(),
	}
}

func (n NodeRef) validate() error {
	if n.ID == "" {
		return errors.ValidationError("mutation node id is required")
	}
	switch n.Kind {
	case KindMenu:
	case KindSubmenu:
		if n.MenuID == "" {
			return errors.ValidationError("submenu mutation needs its menu id")
		}
	case KindDish:
		if n.MenuID == "" || n.SubmenuID == "" {
			return errors.ValidationError("dish mutation needs its menu and submenu ids")
		}
	default:
		return errors.ValidationError("invalid mutation kind").WithContext("kind", n.Kind)
	}
	return nil
}
