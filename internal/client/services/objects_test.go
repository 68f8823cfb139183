package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/client"
	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/client/store"
	"github.com/dmitrijs2005/bookexpert/internal/devserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectClient records calls and returns presets.
type fakeObjectClient struct {
	client.ObjectClient

	listResult []models.RemoteObject
	listErr    error
	createRes  *models.RemoteObject
	deleteErr  error
	calls      atomic.Int32
}

func (f *fakeObjectClient) List(context.Context) ([]models.RemoteObject, error) {
	f.calls.Add(1)
	return f.listResult, f.listErr
}

func (f *fakeObjectClient) Create(_ context.Context, name string, data map[string]any) (*models.RemoteObject, error) {
	f.calls.Add(1)
	if f.createRes != nil {
		return f.createRes, nil
	}
	return &models.RemoteObject{ID: "new", Name: name, Data: data}, nil
}

func (f *fakeObjectClient) Delete(context.Context, string) error {
	f.calls.Add(1)
	return f.deleteErr
}

func TestCreateThenRefresh_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewObjectSyncService(newTestEndpoint(t), newTestStore(t), &captureNotifier{})

	created, err := svc.CreateItem(ctx, "Book", map[string]any{"price": 10})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	require.NoError(t, svc.Refresh(ctx))

	items := svc.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "Book", items[0].Name)
	assert.Equal(t, float64(10), items[0].Data["price"])
}

func TestRefresh_ListScenario(t *testing.T) {
	ctx := context.Background()
	c := &fakeObjectClient{listResult: []models.RemoteObject{{ID: "1", Name: "Book", Data: map[string]any{"price": 10}}}}
	st := newTestStore(t)
	svc := NewObjectSyncService(c, st, &captureNotifier{})

	require.NoError(t, svc.Refresh(ctx))

	state := svc.State()
	assert.False(t, state.IsLoading)
	assert.NoError(t, state.Err)
	require.Len(t, state.Items, 1)
	item := state.Items[0]
	assert.Equal(t, "1", item.ID)
	assert.Equal(t, "Book", item.Name)
	assert.Equal(t, map[string]any{"price": float64(10)}, item.Data)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Nil(t, item.UpdatedAt)
}

func TestLoad_ReadsCacheWithoutRemote(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	_, err := st.UpsertObject(ctx, models.RemoteObject{ID: "7", Name: "Cached", Data: map[string]any{"k": "v"}})
	require.NoError(t, err)

	c := &fakeObjectClient{}
	svc := NewObjectSyncService(c, st, &captureNotifier{})
	require.NoError(t, svc.Load(ctx))

	assert.Zero(t, c.calls.Load())
	require.Len(t, svc.State().Items, 1)
	assert.Equal(t, "Cached", svc.State().Items[0].Name)
}

func TestRefresh_Idempotent(t *testing.T) {
	ctx := context.Background()
	c := &fakeObjectClient{listResult: []models.RemoteObject{
		{ID: "1", Name: "Book", Data: map[string]any{"price": 10}},
		{ID: "2", Name: "Pen", Data: map[string]any{}},
	}}
	svc := NewObjectSyncService(c, newTestStore(t), &captureNotifier{})

	require.NoError(t, svc.Refresh(ctx))
	first := svc.State().Items
	require.NoError(t, svc.Refresh(ctx))
	second := svc.State().Items

	assert.Equal(t, first, second)
	for _, item := range second {
		assert.Nil(t, item.UpdatedAt, item.ID)
	}
}

func TestRefresh_SkipsItemsWithoutIDOrName(t *testing.T) {
	c := &fakeObjectClient{listResult: []models.RemoteObject{
		{ID: "", Name: "orphan"},
		{ID: "2", Name: ""},
		{ID: "3", Name: "ok"},
	}}
	svc := NewObjectSyncService(c, newTestStore(t), &captureNotifier{})

	require.NoError(t, svc.Refresh(context.Background()))
	items := svc.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ID)
}

func TestRefresh_AdditiveKeepsAndReconcilePrunes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	_, err := st.UpsertObject(ctx, models.RemoteObject{ID: "gone", Name: "Old"})
	require.NoError(t, err)

	c := &fakeObjectClient{listResult: []models.RemoteObject{{ID: "1", Name: "Book"}}}

	additive := NewObjectSyncService(c, st, &captureNotifier{})
	require.NoError(t, additive.Refresh(ctx))
	assert.Len(t, additive.State().Items, 2)

	reconcile := NewObjectSyncService(c, st, &captureNotifier{}, WithRefreshPolicy(RefreshReconcile))
	require.NoError(t, reconcile.Refresh(ctx))
	items := reconcile.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestRefresh_RemoteFailurePublishesLocalAndError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	_, err := st.UpsertObject(ctx, models.RemoteObject{ID: "1", Name: "Cached"})
	require.NoError(t, err)

	c := &fakeObjectClient{listErr: client.ErrUnauthorized}
	svc := NewObjectSyncService(c, st, &captureNotifier{})

	err = svc.Refresh(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	state := svc.State()
	assert.ErrorIs(t, state.Err, client.ErrUnauthorized)
	assert.False(t, state.IsLoading)
	require.Len(t, state.Items, 1, "local records stay visible")

	svc.ClearError()
	assert.NoError(t, svc.State().Err)
}

func TestCreateItem_ValidationBeforeRemote(t *testing.T) {
	c := &fakeObjectClient{}
	svc := NewObjectSyncService(c, newTestStore(t), &captureNotifier{})
	ctx := context.Background()

	tests := []struct {
		name string
		in   string
		data map[string]any
		want error
	}{
		{"blank name", "   ", map[string]any{"a": 1}, ErrEmptyName},
		{"empty data", "Book", map[string]any{}, ErrEmptyData},
		{"nil data", "Book", nil, ErrEmptyData},
		{"too long", strings.Repeat("ü", MaxNameLength+1), map[string]any{"a": 1}, ErrNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tt.in, tt.data)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := svc.UpdateItem(ctx, "", "Book", map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrEmptyID)

	assert.Zero(t, c.calls.Load(), "no remote call on invalid input")
	assert.Empty(t, svc.State().Items)
}

func TestCreateItem_NameAtLimitAccepted(t *testing.T) {
	svc := NewObjectSyncService(&fakeObjectClient{}, newTestStore(t), &captureNotifier{})
	_, err := svc.CreateItem(context.Background(), strings.Repeat("ü", MaxNameLength), map[string]any{"a": 1})
	assert.NoError(t, err)
}

func TestCreateItem_FallsBackToInputWhenResponseOmitsFields(t *testing.T) {
	c := &fakeObjectClient{createRes: &models.RemoteObject{ID: "x"}}
	svc := NewObjectSyncService(c, newTestStore(t), &captureNotifier{})

	obj, err := svc.CreateItem(context.Background(), " Book ", map[string]any{"price": 10})
	require.NoError(t, err)
	assert.Equal(t, "Book", obj.Name)
	assert.Equal(t, 10, obj.Data["price"])

	items := svc.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, "Book", items[0].Name)
}

func TestCreateItem_ResponseWithoutIDIsDecodingError(t *testing.T) {
	c := &fakeObjectClient{createRes: &models.RemoteObject{Name: "x"}}
	svc := NewObjectSyncService(c, newTestStore(t), &captureNotifier{})

	_, err := svc.CreateItem(context.Background(), "Book", map[string]any{"a": 1})
	assert.ErrorIs(t, err, client.ErrDecoding)
	assert.Empty(t, svc.State().Items)
}

func TestUpdateItem_UpsertsChange(t *testing.T) {
	ctx := context.Background()
	svc := NewObjectSyncService(newTestEndpoint(t), newTestStore(t), &captureNotifier{})

	created, err := svc.CreateItem(ctx, "Book", map[string]any{"price": 10})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, created.ID, "Book", map[string]any{"price": 12})
	require.NoError(t, err)

	items := svc.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, float64(12), items[0].Data["price"])
	assert.NotNil(t, items[0].UpdatedAt)
}

func TestUpdateItem_RemoteMissingLeavesCache(t *testing.T) {
	svc := NewObjectSyncService(newTestEndpoint(t), newTestStore(t), &captureNotifier{})
	_, err := svc.UpdateItem(context.Background(), "ghost", "Book", map[string]any{"a": 1})
	code, ok := client.IsServerError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, code)
	assert.Empty(t, svc.State().Items)
}

func TestRemoveItem_RemovesExactlyOneAndNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	n := &captureNotifier{}
	svc := NewObjectSyncService(newTestEndpoint(t), newTestStore(t), n)

	a, err := svc.CreateItem(ctx, "Book", map[string]any{"price": 10})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, "Pen", map[string]any{"color": "blue"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, a.ID))

	items := svc.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, "Pen", items[0].Name)
	assert.Equal(t, []notice{{models.KindObject, "Book"}}, n.all())
}

func TestRemoveItem_RemoteFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	_, err := st.UpsertObject(ctx, models.RemoteObject{ID: "1", Name: "Book"})
	require.NoError(t, err)

	n := &captureNotifier{}
	svc := NewObjectSyncService(&fakeObjectClient{deleteErr: &client.ServerError{StatusCode: 500}}, st, n)

	err = svc.RemoveItem(ctx, "1")
	var se *client.ServerError
	require.True(t, errors.As(err, &se))

	obj, err := st.ObjectByID(ctx, "1")
	require.NoError(t, err)
	assert.NotNil(t, obj)
	assert.Empty(t, n.all())
}

func TestRemoveItem_UnknownLocalUsesFallbackName(t *testing.T) {
	n := &captureNotifier{}
	svc := NewObjectSyncService(&fakeObjectClient{}, newTestStore(t), n)
	require.NoError(t, svc.RemoveItem(context.Background(), "remote-only"))
	assert.Equal(t, []notice{{models.KindObject, "Item"}}, n.all())
}

func TestFilteredItems_CaseInsensitive(t *testing.T) {
	c := &fakeObjectClient{listResult: []models.RemoteObject{
		{ID: "1", Name: "Apple iPhone"},
		{ID: "2", Name: "Google Pixel"},
		{ID: "3", Name: "iPad"},
	}}
	svc := NewObjectSyncService(c, newTestStore(t), &captureNotifier{})
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Len(t, svc.FilteredItems(), 3)

	svc.SetSearchText("IP")
	names := []string{}
	for _, it := range svc.FilteredItems() {
		names = append(names, it.Name)
	}
	assert.ElementsMatch(t, []string{"Apple iPhone", "iPad"}, names)
	assert.Equal(t, "IP", svc.State().SearchText)
}

func TestPersistenceSurface_RefreshReportsError(t *testing.T) {
	st := newTestStore(t, store.WithPolicy(store.PolicySurface))
	require.NoError(t, st.Close())

	svc := NewObjectSyncService(&fakeObjectClient{}, st, &captureNotifier{})
	err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, store.ErrPersistence)
}

func TestPersistenceSwallow_RefreshSucceedsWithEmptyView(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Close())

	c := &fakeObjectClient{listResult: []models.RemoteObject{{ID: "1", Name: "Book"}}}
	svc := NewObjectSyncService(c, st, &captureNotifier{})
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Empty(t, svc.State().Items)
}

func TestAutoRefresh_RunsUntilCancelled(t *testing.T) {
	c := &fakeObjectClient{listResult: []models.RemoteObject{{ID: "1", Name: "Book"}}}
	svc := NewObjectSyncService(c, newTestStore(t), &captureNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	var observed atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- svc.AutoRefresh(ctx, 10*time.Millisecond, func(ObjectState) {
			if observed.Add(1) >= 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("auto refresh did not stop")
	}
	assert.GreaterOrEqual(t, observed.Load(), int32(3))
	assert.GreaterOrEqual(t, c.calls.Load(), int32(3))
}

func TestAutoRefresh_RejectsZeroInterval(t *testing.T) {
	svc := NewObjectSyncService(&fakeObjectClient{}, newTestStore(t), &captureNotifier{})
	assert.Error(t, svc.AutoRefresh(context.Background(), 0, nil))
}

func TestParseRefreshPolicy(t *testing.T) {
	p, err := ParseRefreshPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RefreshAdditive, p)
	p, err = ParseRefreshPolicy("reconcile")
	require.NoError(t, err)
	assert.Equal(t, RefreshReconcile, p)
	_, err = ParseRefreshPolicy("mirror")
	assert.Error(t, err)
}

func TestRefresh_AgainstDevServerSeed(t *testing.T) {
	endpoint := newTestEndpoint(t, devserver.WithSeed(map[string]devserver.Seed{
		"1": {Name: "Book", Data: map[string]any{"price": 10}},
	}))
	svc := NewObjectSyncService(endpoint, newTestStore(t), &captureNotifier{})
	require.NoError(t, svc.Refresh(context.Background()))
	require.Len(t, svc.State().Items, 1)
	assert.Equal(t, "Book", svc.State().Items[0].Name)
}
