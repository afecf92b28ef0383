package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/api/router"
	"blog-api/dto"
	"blog-api/models"
	"blog-api/repositories"
	"blog-api/services"
)

// memStore is an in-memory services.BlogStore.
type memStore struct {
	mu    sync.Mutex
	blogs map[primitive.ObjectID]models.Blog
	order []primitive.ObjectID
	err   error
}

func newMemStore() *memStore {
	return &memStore{blogs: map[primitive.ObjectID]models.Blog{}}
}

func (m *memStore) Create(_ context.Context, b *models.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	b.ID = primitive.NewObjectID()
	m.blogs[b.ID] = *b
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memStore) List(context.Context) ([]models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Blog{}
	for _, id := range m.order {
		if b, ok := m.blogs[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) get(id string) (primitive.ObjectID, models.Blog, error) {
	if m.err != nil {
		return primitive.NilObjectID, models.Blog{}, m.err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.Blog{}, repositories.ErrInvalidID
	}
	b, ok := m.blogs[oid]
	if !ok {
		return primitive.NilObjectID, models.Blog{}, repositories.ErrNotFound
	}
	return oid, b, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, b, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (m *memStore) UpdateByID(_ context.Context, id string, patch models.BlogPatch, updatedAt time.Time) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, b, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Body != nil {
		b.Body = *patch.Body
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	b.UpdatedAt = updatedAt
	m.blogs[oid] = b
	return &b, nil
}

func (m *memStore) DeleteByID(_ context.Context, id string) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, b, err := m.get(id)
	if err != nil {
		return nil, err
	}
	delete(m.blogs, oid)
	return &b, nil
}

func newEngine(store *memStore, ping func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}
	return router.New(router.Deps{
		Blogs: services.NewBlogService(store),
		Ping:  ping,
	})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBlog(t *testing.T, rec *httptest.ResponseRecorder) dto.BlogDTO {
	t.Helper()
	var b dto.BlogDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestBlogLifecycleScenario(t *testing.T) {
	r := newEngine(newMemStore(), nil)

	rec := do(t, r, http.MethodPost, "/blogs", `{"title":"Hello","body":"World","author":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	created := decodeBlog(t, rec)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	rec = do(t, r, http.MethodGet, "/blogs/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBlog(t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "World", got.Body)
	assert.Equal(t, "Alice", got.Author)

	rec = do(t, r, http.MethodDelete, "/blogs/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeBlog(t, rec).ID)

	rec = do(t, r, http.MethodGet, "/blogs/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog not found", decodeError(t, rec))
}

func TestCreateMissingFields(t *testing.T) {
	bodies := []string{
		`{"body":"World","author":"Alice"}`,
		`{"title":"Hello","author":"Alice"}`,
		`{"title":"Hello","body":"World"}`,
		`{"title":"","body":"World","author":"Alice"}`,
		`{}`,
		"",
	}
	for _, body := range bodies {
		store := newMemStore()
		r := newEngine(store, nil)

		rec := do(t, r, http.MethodPost, "/blogs", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Title, body, and author are required", decodeError(t, rec))
		assert.Empty(t, store.blogs)
	}
}

func TestCreateMalformedJSON(t *testing.T) {
	r := newEngine(newMemStore(), nil)

	rec := do(t, r, http.MethodPost, "/blogs", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, rec))
}

func TestCreateInvalidCreatedAt(t *testing.T) {
	store := newMemStore()
	r := newEngine(store, nil)

	rec := do(t, r, http.MethodPost, "/blogs", `{"title":"t","body":"b","author":"a","createdAt":"yesterday"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, rec))
	assert.Empty(t, store.blogs)
}

func TestCreateIgnoresClientID(t *testing.T) {
	r := newEngine(newMemStore(), nil)
	clientID := primitive.NewObjectID().Hex()

	rec := do(t, r, http.MethodPost, "/blogs", `{"id":"`+clientID+`","title":"t","body":"b","author":"a"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, clientID, decodeBlog(t, rec).ID)
}

func TestCreateKeepsSuppliedCreatedAt(t *testing.T) {
	r := newEngine(newMemStore(), nil)

	rec := do(t, r, http.MethodPost, "/blogs", `{"title":"t","body":"b","author":"a","createdAt":"2020-01-02T03:04:05Z"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeBlog(t, rec).CreatedAt.Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestListBlogs(t *testing.T) {
	r := newEngine(newMemStore(), nil)

	rec := do(t, r, http.MethodGet, "/blogs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, title := range []string{"one", "two"} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/blogs", `{"title":"`+title+`","body":"b","author":"a"}`).Code)
	}

	rec = do(t, r, http.MethodGet, "/blogs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []dto.BlogDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Title)
	assert.Equal(t, "two", items[1].Title)
}

func TestUpdatePartial(t *testing.T) {
	r := newEngine(newMemStore(), nil)
	created := decodeBlog(t, do(t, r, http.MethodPost, "/blogs", `{"title":"Hello","body":"World","author":"Alice"}`))

	rec := do(t, r, http.MethodPut, "/blogs/"+created.ID, `{"title":"X"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "X", decodeBlog(t, rec).Title)

	got := decodeBlog(t, do(t, r, http.MethodGet, "/blogs/"+created.ID, ""))
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, "World", got.Body)
	assert.Equal(t, "Alice", got.Author)
}

func TestUpdateAllowsEmptyStrings(t *testing.T) {
	r := newEngine(newMemStore(), nil)
	created := decodeBlog(t, do(t, r, http.MethodPost, "/blogs", `{"title":"Hello","body":"World","author":"Alice"}`))

	rec := do(t, r, http.MethodPut, "/blogs/"+created.ID, `{"author":""}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decodeBlog(t, rec).Author)
}

func TestUpdateNotFound(t *testing.T) {
	r := newEngine(newMemStore(), nil)

	rec := do(t, r, http.MethodPut, "/blogs/"+primitive.NewObjectID().Hex(), `{"title":"X"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog not found", decodeError(t, rec))
}

func TestUpdateMalformedJSON(t *testing.T) {
	r := newEngine(newMemStore(), nil)
	created := decodeBlog(t, do(t, r, http.MethodPost, "/blogs", `{"title":"Hello","body":"World","author":"Alice"}`))

	rec := do(t, r, http.MethodPut, "/blogs/"+created.ID, `[1,2]`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteNotFound(t *testing.T) {
	r := newEngine(newMemStore(), nil)

	rec := do(t, r, http.MethodDelete, "/blogs/"+primitive.NewObjectID().Hex(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedIDIsServerError(t *testing.T) {
	r := newEngine(newMemStore(), nil)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := do(t, r, method, "/blogs/not-an-id", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, method)
		assert.Equal(t, "Internal Server Error", decodeError(t, rec))
	}
}

func TestStoreFailureDoesNotLeakDetails(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("server selection timeout: mongo-secret-host:27017")
	r := newEngine(store, nil)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/blogs", `{"title":"t","body":"b","author":"a"}`},
		{http.MethodGet, "/blogs", ""},
		{http.MethodGet, "/blogs/" + primitive.NewObjectID().Hex(), ""},
		{http.MethodPut, "/blogs/" + primitive.NewObjectID().Hex(), `{"title":"X"}`},
		{http.MethodDelete, "/blogs/" + primitive.NewObjectID().Hex(), ""},
	}
	for _, tc := range cases {
		rec := do(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tc.method+" "+tc.path)
		assert.Equal(t, "Internal Server Error", decodeError(t, rec))
		assert.NotContains(t, rec.Body.String(), "mongo-secret-host")
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newEngine(newMemStore(), nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	down := func(context.Context) error { return errors.New("no reachable servers") }
	rec = do(t, newEngine(newMemStore(), down), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","mongo":"down"}`, rec.Body.String())
}

func TestResponsesCarryRequestID(t *testing.T) {
	rec := do(t, newEngine(newMemStore(), nil), http.MethodGet, "/blogs", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
