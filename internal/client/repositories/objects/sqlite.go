package objects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert relies on the conflict clause's WHERE so that an identical payload
// touches nothing and reports zero affected rows.
func (r *SQLiteRepository) Upsert(ctx context.Context, obj models.RemoteObject, now time.Time) (bool, error) {
	data, err := models.EncodeData(obj.Data)
	if err != nil {
		return false, fmt.Errorf("failed to encode object data: %w", err)
	}

	query := `INSERT INTO objects (id, name, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, NULL)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				data = excluded.data,
				updated_at = excluded.created_at
			WHERE objects.name <> excluded.name OR objects.data <> excluded.data
	`
	n, err := dbx.Exec(ctx, r.db, query, obj.ID, obj.Name, string(data), now.UTC().UnixNano())
	if err != nil {
		return false, fmt.Errorf("failed to upsert object: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanObject(s scanner) (*models.CachedObject, error) {
	var (
		item      models.CachedObject
		data      string
		createdAt int64
		updatedAt sql.NullInt64
	)
	if err := s.Scan(&item.ID, &item.Name, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	decoded, err := models.DecodeData([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode data of object %s: %w", item.ID, err)
	}
	item.Data = decoded
	item.CreatedAt = time.Unix(0, createdAt).UTC()
	if updatedAt.Valid {
		t := time.Unix(0, updatedAt.Int64).UTC()
		item.UpdatedAt = &t
	}
	return &item, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.CachedObject, error) {
	query := `SELECT id, name, data, created_at, updated_at FROM objects
			ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select objects: %w", err)
	}
	defer rows.Close()

	result := []models.CachedObject{}
	for rows.Next() {
		item, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.CachedObject, error) {
	query := `SELECT id, name, data, created_at, updated_at FROM objects WHERE id = ?`
	item, err := scanObject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", id, err)
	}
	return item, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	n, err := dbx.Exec(ctx, r.db, `DELETE FROM objects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete object: %w", err)
	}
	return n > 0, nil
}

// Prune deletes every object whose id is not in keep and returns how many
// were removed.
func (r *SQLiteRepository) Prune(ctx context.Context, keep map[string]struct{}) (int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM objects`)
	if err != nil {
		return 0, fmt.Errorf("failed to select object ids: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	removed := 0
	for _, id := range stale {
		ok, err := r.DeleteByID(ctx, id)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}
