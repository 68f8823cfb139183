package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/client"
	"github.com/dmitrijs2005/bookexpert/internal/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	buf := &bytes.Buffer{}
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	}
	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := doJSON(t, NewRouter(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCRUD(t *testing.T) {
	h := NewRouter()

	rr := doJSON(t, h, http.MethodPost, "/objects", map[string]any{"name": "Book", "data": map[string]any{"price": 10}}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created object
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rr = doJSON(t, h, http.MethodGet, "/objects", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []object
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Book", list[0].Name)

	rr = doJSON(t, h, http.MethodPut, "/objects/"+created.ID, map[string]any{"name": "Novel", "data": map[string]any{}}, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/objects/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got object
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Novel", got.Name)
	assert.NotNil(t, got.UpdatedAt)

	rr = doJSON(t, h, http.MethodDelete, "/objects/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodDelete, "/objects/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreate_BadBodies(t *testing.T) {
	h := NewRouter()

	rr := doJSON(t, h, http.MethodPost, "/objects", map[string]any{"data": map[string]any{"a": 1}}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/objects", bytes.NewBufferString("{oops"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := bytes.Repeat([]byte("a"), defaultMaxRequestBytes+10)
	rr = doJSON(t, h, http.MethodPost, "/objects", map[string]any{"name": "x", "data": map[string]any{"blob": string(big)}}, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestUpdate_Missing(t *testing.T) {
	rr := doJSON(t, NewRouter(), http.MethodPut, "/objects/nope", map[string]any{"name": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAuthSecret(t *testing.T) {
	h := NewRouter(WithAuthSecret("s3cret"))

	rr := doJSON(t, h, http.MethodGet, "/objects", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/objects", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	tok, err := jwtx.Generate(jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}, []byte("s3cret"), time.Hour)
	require.NoError(t, err)
	rr = doJSON(t, h, http.MethodGet, "/objects", nil, map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSeed_ListedInOrder(t *testing.T) {
	h := NewRouter(WithSeed(map[string]Seed{"1": {Name: "Book", Data: map[string]any{"price": 10}}}))
	rr := doJSON(t, h, http.MethodGet, "/objects", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":"1","name":"Book","data":{"price":10},"createdAt":`+createdAtOf(t, rr.Body.Bytes())+`}]`, rr.Body.String())
}

func createdAtOf(t *testing.T, body []byte) string {
	t.Helper()
	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	require.NotEmpty(t, raw)
	return string(raw[0]["createdAt"])
}

func TestHTTPClientAgainstRouter(t *testing.T) {
	srv := httptest.NewServer(NewRouter())
	defer srv.Close()

	c := client.NewHTTPClient(srv.URL + "/objects")
	ctx := context.Background()

	created, err := c.Create(ctx, "Pen", map[string]any{"color": "blue"})
	require.NoError(t, err)

	updated, err := c.Update(ctx, created.ID, "Pen", map[string]any{"color": "red"})
	require.NoError(t, err)
	assert.Equal(t, "red", updated.Data["color"])

	items, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, c.Delete(ctx, created.ID))
	err = c.Delete(ctx, created.ID)
	code, ok := client.IsServerError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, code)
}
