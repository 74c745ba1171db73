package task_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-services/api/internal/auth"
	identityapp "github.com/sngm3741/survey-services/api/internal/identity/application"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
	taskhttp "github.com/sngm3741/survey-services/api/internal/interfaces/http/task"
	taskapp "github.com/sngm3741/survey-services/api/internal/task/application"
	"github.com/sngm3741/survey-services/api/internal/task/domain"
	"github.com/sngm3741/survey-services/api/internal/testinfra/memstore"
)

type fixture struct {
	router http.Handler
	tokens *auth.TokenService
	store  *memstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("task-test-secret"), time.Hour)
	require.NoError(t, err)

	store := memstore.New()
	r := chi.NewRouter()
	taskhttp.NewHandler(taskhttp.Config{
		Logger: zerolog.Nop(),
		Tasks:  taskapp.NewTaskService(store.Tasks, store.Activities),
		Guard:  guard.New(tokens, identityapp.NewUserService(store.Users), zerolog.Nop()),
	}).Register(r)
	return &fixture{router: r, tokens: tokens, store: store}
}

func (f *fixture) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if email != "" {
		token, err := f.tokens.Issue(map[string]any{"email": email})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateAndGetTask(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/tasks", "", map[string]string{"title": "write docs"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/tasks", "a@x.com", map[string]string{"title": "write docs", "priority": "high"})
	require.Equal(t, http.StatusOK, rec.Code)
	id, _ := decodeObject(t, rec)["insertedId"].(string)
	require.NotEmpty(t, id)

	rec = f.do(t, http.MethodGet, "/tasks/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeObject(t, rec)
	assert.Equal(t, "write docs", got["title"])
	assert.Equal(t, "to-do", got["status"])
	assert.Equal(t, "a@x.com", got["userEmail"])

	rec = f.do(t, http.MethodGet, "/tasks/nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/tasks/65f000000000000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/tasks", "a@x.com", map[string]string{"priority": "low"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTasksFiltersNewestFirst(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store.Tasks.Seed(
		domain.Task{Title: "old", Status: "to-do", UserEmail: "a@x.com", Timestamp: base},
		domain.Task{Title: "new", Status: "to-do", UserEmail: "a@x.com", Timestamp: base.Add(time.Hour)},
		domain.Task{Title: "done", Status: "done", UserEmail: "a@x.com", Timestamp: base.Add(2 * time.Hour)},
		domain.Task{Title: "theirs", Status: "to-do", UserEmail: "b@x.com", Timestamp: base},
	)

	rec := f.do(t, http.MethodGet, "/tasks?email=a@x.com&status=to-do", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeList(t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0]["title"])
	assert.Equal(t, "old", items[1]["title"])

	rec = f.do(t, http.MethodGet, "/tasks", "", nil)
	assert.Len(t, decodeList(t, rec), 4)
}

func TestUpdateTaskOwnership(t *testing.T) {
	f := newFixture(t)
	id := f.store.Tasks.Seed(domain.Task{Title: "mine", Status: "to-do", UserEmail: "a@x.com"})[0]

	rec := f.do(t, http.MethodPut, "/tasks/"+id, "b@x.com", map[string]string{"status": "done"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPut, "/tasks/"+id, "a@x.com", map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeObject(t, rec)
	assert.EqualValues(t, 1, got["matchedCount"])
	assert.EqualValues(t, 1, got["modifiedCount"])

	fresh := "65f0cccccccccccccccccccc"
	rec = f.do(t, http.MethodPut, "/tasks/"+fresh, "b@x.com", map[string]string{"title": "upserted"})
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeObject(t, rec)
	assert.EqualValues(t, 1, got["upsertedCount"])
	assert.Equal(t, fresh, got["upsertedId"])

	rec = f.do(t, http.MethodGet, "/tasks/"+fresh, "", nil)
	got = decodeObject(t, rec)
	assert.Equal(t, "b@x.com", got["userEmail"])
	assert.Equal(t, "to-do", got["status"])
}

func TestDeleteTaskIsIdempotent(t *testing.T) {
	f := newFixture(t)
	id := f.store.Tasks.Seed(domain.Task{Title: "mine", UserEmail: "a@x.com"})[0]

	rec := f.do(t, http.MethodDelete, "/tasks/"+id, "b@x.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/tasks/"+id, "a@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/tasks/"+id, "a@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, rec.Body.String())
}

func TestActivitiesAreScopedToTask(t *testing.T) {
	f := newFixture(t)
	ids := f.store.Tasks.Seed(domain.Task{Title: "one"}, domain.Task{Title: "two"})

	rec := f.do(t, http.MethodPost, "/tasks/"+ids[0]+"/activities", "", map[string]string{"name": "started"})
	require.Equal(t, http.StatusOK, rec.Code)
	activityID, _ := decodeObject(t, rec)["insertedId"].(string)
	require.NotEmpty(t, activityID)

	rec = f.do(t, http.MethodPost, "/tasks/"+ids[1]+"/activities", "", map[string]string{"name": "other"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/tasks/"+ids[0]+"/activities", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/tasks/"+ids[0]+"/activities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeList(t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "started", items[0]["name"])
	assert.Equal(t, ids[0], items[0]["task_id"])

	rec = f.do(t, http.MethodPut, "/tasks/activities/"+activityID, "", map[string]string{"name": "in progress"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeObject(t, rec)["modifiedCount"])

	rec = f.do(t, http.MethodDelete, "/tasks/activities/"+activityID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/tasks/activities/"+activityID, "", nil)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/tasks/"+ids[0]+"/activities", "", nil)
	assert.Equal(t, "[]\n", rec.Body.String())
}
