package images

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/google/go-cmp/cmp"
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
CREATE TABLE images (
  id TEXT PRIMARY KEY,
  image_data BLOB NOT NULL,
  checksum TEXT NOT NULL,
  width INTEGER NOT NULL,
  height INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func sample(id string, at time.Time) *models.SavedImage {
	return &models.SavedImage{
		ID:        id,
		Data:      []byte{0xFF, 0xD8, 0xFF, byte(len(id))},
		Checksum:  "sum-" + id,
		Width:     1024,
		Height:    512,
		CreatedAt: at,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	want := sample("img-1", at)
	require.NoError(t, r.Insert(ctx, want))

	got, err := r.GetByID(ctx, "img-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(*want, *got); diff != "" {
		t.Fatalf("image mismatch (-want +got):\n%s", diff)
	}
}

func TestInsert_DuplicateIDFails(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, sample("x", time.Now())))
	err := r.Insert(ctx, sample("x", time.Now()))
	assert.ErrorContains(t, err, "failed to insert image")
}

func TestGetAll_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, sample("old", base)))
	require.NoError(t, r.Insert(ctx, sample("new", base.Add(time.Hour))))
	require.NoError(t, r.Insert(ctx, sample("mid", base.Add(time.Minute))))

	list, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestDeleteByID_OnlyTarget(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// identical bytes, different ids
	a := sample("a", time.Now())
	b := sample("b", time.Now())
	b.Data = a.Data
	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.Insert(ctx, b))

	ok, err := r.DeleteByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	ok, err = r.DeleteByID(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetByID_Missing(t *testing.T) {
	got, err := NewSQLiteRepository(setupDB(t)).GetByID(context.Background(), "none")
	require.NoError(t, err)
	assert.Nil(t, got)
}
