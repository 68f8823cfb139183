// Package store is the local persistent cache of remote objects, captured
// images and user metadata.
//
// Every mutation runs in its own transaction (dbx.WithTx) against a database
// limited to one open connection, which makes the handle the single writer.
// Failures are reported according to the configured Policy.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/client/repositories/images"
	"github.com/dmitrijs2005/bookexpert/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bookexpert/internal/client/repositories/objects"
	"github.com/dmitrijs2005/bookexpert/internal/dbx"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

// ErrPersistence wraps every storage failure surfaced under PolicySurface.
var ErrPersistence = errors.New("persistence failure")

// Store implements the local cache on top of the SQLite repositories.
type Store struct {
	db     *sql.DB
	policy Policy
	log    logging.Logger
	now    func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

func WithPolicy(p Policy) Option { return func(s *Store) { s.policy = p } }

func WithLogger(l logging.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock replaces time.Now for CreatedAt/UpdatedAt stamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// New returns a Store over an already migrated database.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		policy: PolicySwallow,
		log:    logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// fail applies the policy to err. Under PolicySwallow it logs and returns nil.
func (s *Store) fail(ctx context.Context, op string, err error) error {
	if s.policy == PolicySurface {
		return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
	}
	s.log.Error(ctx, "persistence failure swallowed", "op", op, "error", err)
	return nil
}

func (s *Store) tx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// UpsertObject inserts obj or overwrites its name and data when they changed.
// It reports whether anything was written.
func (s *Store) UpsertObject(ctx context.Context, obj models.RemoteObject) (bool, error) {
	var changed bool
	err := s.tx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		changed, err = objects.NewSQLiteRepository(tx).Upsert(ctx, obj, s.now())
		return err
	})
	if err != nil {
		return false, s.fail(ctx, "upsert object", err)
	}
	return changed, nil
}

// Objects returns all cached objects, newest first.
func (s *Store) Objects(ctx context.Context) ([]models.CachedObject, error) {
	list, err := objects.NewSQLiteRepository(s.db).GetAll(ctx)
	if err != nil {
		return []models.CachedObject{}, s.fail(ctx, "list objects", err)
	}
	return list, nil
}

// ObjectByID returns the cached object or nil when absent.
func (s *Store) ObjectByID(ctx context.Context, id string) (*models.CachedObject, error) {
	obj, err := objects.NewSQLiteRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get object", err)
	}
	return obj, nil
}

// DeleteObject removes the cached object. Deleting a missing id is a no-op.
func (s *Store) DeleteObject(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.tx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deleted, err = objects.NewSQLiteRepository(tx).DeleteByID(ctx, id)
		return err
	})
	if err != nil {
		return false, s.fail(ctx, "delete object", err)
	}
	return deleted, nil
}

// PruneObjects removes every cached object whose id is not in keep.
func (s *Store) PruneObjects(ctx context.Context, keep map[string]struct{}) (int, error) {
	var removed int
	err := s.tx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		removed, err = objects.NewSQLiteRepository(tx).Prune(ctx, keep)
		return err
	})
	if err != nil {
		return 0, s.fail(ctx, "prune objects", err)
	}
	return removed, nil
}

// SaveImage persists img. A zero CreatedAt is stamped with the store clock.
func (s *Store) SaveImage(ctx context.Context, img *models.SavedImage) error {
	if img.CreatedAt.IsZero() {
		img.CreatedAt = s.now()
	}
	err := s.tx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return images.NewSQLiteRepository(tx).Insert(ctx, img)
	})
	if err != nil {
		return s.fail(ctx, "save image", err)
	}
	return nil
}

// Images returns all saved images, newest first.
func (s *Store) Images(ctx context.Context) ([]models.SavedImage, error) {
	list, err := images.NewSQLiteRepository(s.db).GetAll(ctx)
	if err != nil {
		return []models.SavedImage{}, s.fail(ctx, "list images", err)
	}
	return list, nil
}

// DeleteImage removes the image with the given id.
func (s *Store) DeleteImage(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.tx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deleted, err = images.NewSQLiteRepository(tx).DeleteByID(ctx, id)
		return err
	})
	if err != nil {
		return false, s.fail(ctx, "delete image", err)
	}
	return deleted, nil
}

// Metadata returns the value for key, or nil when it was never written.
func (s *Store) Metadata(ctx context.Context, key string) ([]byte, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, key)
	if err != nil {
		return nil, s.fail(ctx, "get metadata", err)
	}
	return v, nil
}

// SetMetadata writes all pairs in one statement.
func (s *Store) SetMetadata(ctx context.Context, values map[string][]byte) error {
	err := s.tx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Put(ctx, values)
	})
	if err != nil {
		return s.fail(ctx, "set metadata", err)
	}
	return nil
}

// DeleteMetadata removes the given keys.
func (s *Store) DeleteMetadata(ctx context.Context, keys ...string) error {
	err := s.tx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := metadata.NewSQLiteRepository(tx).Delete(ctx, keys...)
		if err == nil {
			s.log.Debug(ctx, "metadata deleted", "requested", len(keys), "deleted", n)
		}
		return err
	})
	if err != nil {
		return s.fail(ctx, "delete metadata", err)
	}
	return nil
}
