package services

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/client"
	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/client/store"
	"github.com/dmitrijs2005/bookexpert/internal/devserver"
	"github.com/stretchr/testify/require"
)

type notice struct {
	kind models.DeletedKind
	name string
}

type captureNotifier struct {
	mu  sync.Mutex
	got []notice
}

func (c *captureNotifier) Notify(_ context.Context, kind models.DeletedKind, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, notice{kind, name})
}

func (c *captureNotifier) all() []notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notice(nil), c.got...)
}

type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	clock := &tickClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	s := store.New(db, append([]store.Option{store.WithClock(clock.Now)}, opts...)...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestEndpoint(t *testing.T, opts ...devserver.Option) *client.HTTPClient {
	t.Helper()
	srv := httptest.NewServer(devserver.NewRouter(opts...))
	t.Cleanup(srv.Close)
	return client.NewHTTPClient(srv.URL + "/objects")
}
