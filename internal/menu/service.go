// Package menu serves the Menu -> Submenu -> Dish hierarchy. Reads go through
// the cache coordinator; writes commit in their own session and then
// invalidate the affected cache keys.
package menu

import (
	"context"

	"github.com/google/uuid"

	"menu-service/internal/cache"
	"menu-service/internal/common/errors"
	"menu-service/internal/common/logging"
	"menu-service/internal/storage"
)

// Service implements the menu CRUD operations
type Service struct {
	db     *storage.DB
	repo   *storage.Repository
	cache  *cache.Coordinator
	logger logging.Logger
}

// NewService creates a menu service. logger may be nil.
func NewService(db *storage.DB, coordinator *cache.Coordinator, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Component("menu")
	}
	return &Service{
		db:     db,
		repo:   storage.NewRepository(db),
		cache:  coordinator,
		logger: logger,
	}
}

// read runs fn in a session that is always rolled back
func (s *Service) read(ctx context.Context, fn func(q storage.Querier) error) error {
	return storage.WithSession(ctx, s.db, func(sess *storage.Session) error {
		return fn(sess)
	})
}

// write runs fn in a session and commits it when fn succeeds
func (s *Service) write(ctx context.Context, fn func(q storage.Querier) error) error {
	return storage.WithSession(ctx, s.db, func(sess *storage.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		return sess.Commit()
	})
}

// invalidate runs after a successful commit. A failure cannot undo the write,
// so it is logged and the stale entries expire with the TTL.
func (s *Service) invalidate(ctx context.Context, m cache.Mutation) {
	if err := s.cache.Invalidate(ctx, m); err != nil {
		s.logger.WithContext(ctx).Error("Committed write left stale cache entries", err,
			logging.String("kind", string(m.Node.Kind)),
			logging.String("id", m.Node.ID),
			logging.Duration("ttl", s.cache.TTL()),
		)
	}
}

// checkIDs rejects path ids that cannot name a row; they are reported as
// missing resources of the matching kind. Accepted ids are rewritten in place
// to the canonical lowercase hyphenated form, so keys, queries and parent
// checks all see one spelling per row.
func checkIDs(ids ...idArg) error {
	for _, id := range ids {
		parsed, err := uuid.Parse(*id.value)
		if err != nil {
			return errors.NotFoundError(id.kind)
		}
		*id.value = parsed.String()
	}
	return nil
}

type idArg struct {
	kind  string
	value *string
}

func menuArg(v *string) idArg    { return idArg{kind: "menu", value: v} }
func submenuArg(v *string) idArg { return idArg{kind: "submenu", value: v} }
func dishArg(v *string) idArg    { return idArg{kind: "dish", value: v} }
