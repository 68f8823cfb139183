package objects

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE objects (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  data TEXT NOT NULL DEFAULT '{}',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NULL
);
`)
	require.NoError(t, err)

	return db
}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestUpsert_InsertSetsCreatedAtOnly(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	changed, err := r.Upsert(ctx, models.RemoteObject{ID: "1", Name: "Book", Data: map[string]any{"price": 10}}, t0)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Book", got.Name)
	assert.Equal(t, float64(10), got.Data["price"])
	assert.True(t, got.CreatedAt.Equal(t0))
	assert.Nil(t, got.UpdatedAt)
}

func TestUpsert_SameContentIsNoop(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	obj := models.RemoteObject{ID: "1", Name: "Book", Data: map[string]any{"price": 10, "a": "b"}}
	_, err := r.Upsert(ctx, obj, t0)
	require.NoError(t, err)

	// float64 from the wire must match int built in code
	again := models.RemoteObject{ID: "1", Name: "Book", Data: map[string]any{"a": "b", "price": float64(10)}}
	changed, err := r.Upsert(ctx, again, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, got.UpdatedAt)
}

func TestUpsert_ChangedContentSetsUpdatedAt(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Upsert(ctx, models.RemoteObject{ID: "1", Name: "Book"}, t0)
	require.NoError(t, err)

	later := t0.Add(time.Minute)
	changed, err := r.Upsert(ctx, models.RemoteObject{ID: "1", Name: "Novel"}, later)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Novel", got.Name)
	assert.True(t, got.CreatedAt.Equal(t0), "created_at is never rewritten")
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(later))
	assert.NotNil(t, got.Data)
}

func TestGetAll_OrderedNewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, _ = r.Upsert(ctx, models.RemoteObject{ID: "a", Name: "A"}, t0)
	_, _ = r.Upsert(ctx, models.RemoteObject{ID: "b", Name: "B"}, t0.Add(time.Second))
	_, _ = r.Upsert(ctx, models.RemoteObject{ID: "c", Name: "C"}, t0.Add(time.Second))

	list, err := r.GetAll(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}

func TestGetAll_EmptyIsNonNil(t *testing.T) {
	db := setupDB(t)
	list, err := NewSQLiteRepository(db).GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetByID_Missing(t *testing.T) {
	db := setupDB(t)
	got, err := NewSQLiteRepository(db).GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, _ = r.Upsert(ctx, models.RemoteObject{ID: "1", Name: "A"}, t0)
	_, _ = r.Upsert(ctx, models.RemoteObject{ID: "2", Name: "B"}, t0)

	ok, err := r.DeleteByID(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.DeleteByID(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)
}

func TestPrune_RemovesAbsentIDs(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		_, err := r.Upsert(ctx, models.RemoteObject{ID: id, Name: id}, t0)
		require.NoError(t, err)
	}

	removed, err := r.Prune(ctx, map[string]struct{}{"2": {}})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)
}

func TestGetAll_CorruptDataIsError(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO objects (id, name, data, created_at) VALUES ('x', 'X', 'not json', 1)`)
	require.NoError(t, err)

	_, err = NewSQLiteRepository(db).GetAll(context.Background())
	assert.Error(t, err)
}

func TestErrorsWrapped_ClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Upsert(ctx, models.RemoteObject{ID: "1", Name: "A"}, t0)
	assert.ErrorContains(t, err, "failed to upsert object")

	_, err = r.GetAll(ctx)
	assert.ErrorContains(t, err, "failed to select objects")

	_, err = r.GetByID(ctx, "1")
	assert.ErrorContains(t, err, "failed to get object 1")

	_, err = r.DeleteByID(ctx, "1")
	assert.ErrorContains(t, err, "failed to delete object")
}
