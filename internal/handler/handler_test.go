package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-console/internal/coordinator"
	"user-console/internal/model"
	"user-console/internal/store"
	"user-console/pkg/client"
)

// fakeUsersAPI is a minimal stand-in for the remote users service.
type fakeUsersAPI struct {
	users  map[int]map[string]any
	nextID int
}

func newFakeUsersAPI(users ...map[string]any) *fakeUsersAPI {
	api := &fakeUsersAPI{users: map[int]map[string]any{}, nextID: 100}
	for _, u := range users {
		api.users[int(u["id"].(float64))] = u
	}
	return api
}

func (a *fakeUsersAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users":
			list := make([]map[string]any, 0, len(a.users))
			for _, u := range a.users {
				list = append(list, u)
			}
			json.NewEncoder(w).Encode(list)
		case r.Method == http.MethodPost && r.URL.Path == "/users":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			body["id"] = float64(a.nextID)
			a.users[a.nextID] = body
			a.nextID++
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(body)
		default:
			var id int
			fmt.Sscanf(r.URL.Path, "/users/%d", &id)
			u, ok := a.users[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{})
				return
			}
			switch r.Method {
			case http.MethodGet:
				json.NewEncoder(w).Encode(u)
			case http.MethodPut:
				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)
				body["id"] = float64(id)
				a.users[id] = body
				json.NewEncoder(w).Encode(body)
			case http.MethodDelete:
				delete(a.users, id)
				json.NewEncoder(w).Encode(map[string]any{})
			}
		}
	}
}

type fixture struct {
	handler *Handler
	coord   *coordinator.Coordinator
	store   *store.Store
	echo    *echo.Echo
}

func newFixture(t *testing.T, api *fakeUsersAPI) *fixture {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	log := zap.NewNop()
	s := store.New(log)
	users := client.NewUsersClient(srv.URL, 2*time.Second)
	coord := coordinator.New(s, users, &coordinator.LogNotifier{Log: log}, log)
	require.NoError(t, coord.Load(context.Background()))

	return &fixture{
		handler: New(coord, users),
		coord:   coord,
		store:   s,
		echo:    echo.New(),
	}
}

func (f *fixture) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return f.echo.NewContext(req, rec), rec
}

func seedUser(id int, name string) map[string]any {
	return map[string]any{
		"id":       float64(id),
		"name":     name,
		"username": "USER-" + strings.ToLower(strings.ReplaceAll(name, " ", "")),
		"email":    "seed@example.com",
		"phone":    "1234567890",
		"address":  map[string]any{"street": "Main", "city": "Springfield"},
		"company":  map[string]any{"name": "Acme Corp"},
	}
}

func TestGetView(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI(seedUser(1, "Leanne Graham")))

	c, rec := f.request(http.MethodGet, "/view", "")
	require.NoError(t, f.handler.GetView(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var v coordinator.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, coordinator.ModalNone, v.Modal)
	require.Len(t, v.Records, 1)
	assert.Equal(t, "Leanne Graham", v.Records[0].Name)
	assert.Equal(t, "Main", v.Records[0].Street, "nested address flattened")
}

func TestAddFlow(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI())

	c, _ := f.request(http.MethodPost, "/view/add", "")
	require.NoError(t, f.handler.OpenAdd(c))

	draft := `{"name":"Alice Smith","email":"alice@example.com","phone":"1234567890","street":"Main","city":"Springfield"}`
	c, rec := f.request(http.MethodPost, "/view/add/submit", draft)
	require.NoError(t, f.handler.SubmitAdd(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var v coordinator.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, coordinator.ModalNone, v.Modal)
	require.Len(t, v.Records, 1)
	assert.Equal(t, 100, v.Records[0].ID, "remote-assigned id")
	assert.Equal(t, "USER-alicesmith", v.Records[0].Username)
}

func TestAddFlow_ValidationErrors(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI())

	c, _ := f.request(http.MethodPost, "/view/add", "")
	require.NoError(t, f.handler.OpenAdd(c))

	c, rec := f.request(http.MethodPost, "/view/add/submit", `{"name":"Al"}`)
	require.NoError(t, f.handler.SubmitAdd(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var v coordinator.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, coordinator.ModalAdd, v.Modal)
	assert.Contains(t, v.FieldErrors, "name")
	assert.Empty(t, v.Records)
	assert.Zero(t, f.store.Len())
}

func TestSubmitWithoutModalConflicts(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI())

	c, rec := f.request(http.MethodPost, "/view/delete/confirm", "")
	require.NoError(t, f.handler.ConfirmDelete(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteFlow(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI(seedUser(5, "Chelsey Dietrich")))

	c, _ := f.request(http.MethodPost, "/view/delete/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, f.handler.OpenDelete(c))

	c, rec := f.request(http.MethodPost, "/view/delete/confirm", "")
	require.NoError(t, f.handler.ConfirmDelete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, ok := f.store.Get(5)
	assert.False(t, ok)
}

func TestEditFlow(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI(seedUser(4, "Patricia Lebsack")))

	c, rec := f.request(http.MethodPost, "/view/edit/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, f.handler.OpenEdit(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var v coordinator.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.NotNil(t, v.Draft)
	assert.Equal(t, "Patricia Lebsack", v.Draft.Name)

	draft := `{"name":"Patricia Smith","email":"patricia@example.com","phone":"1234567890","street":"Hoeger Mall","city":"South Elvis"}`
	c, rec = f.request(http.MethodPost, "/view/edit/submit", draft)
	require.NoError(t, f.handler.SubmitEdit(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	got, ok := f.store.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Patricia Smith", got.Name)
	assert.Equal(t, "USER-patriciasmith", got.Username)
}

func TestSearchEndpoint(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI(seedUser(1, "Alice Smith"), seedUser(2, "Bob Jones")))

	c, rec := f.request(http.MethodPut, "/view/search", `{"term":"bob"}`)
	require.NoError(t, f.handler.Search(c))

	var v coordinator.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Len(t, v.Records, 1)
	assert.Equal(t, "Bob Jones", v.Records[0].Name)
}

func TestUserDetails(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI(seedUser(3, "Clementine Bauch")))

	c, rec := f.request(http.MethodGet, "/details/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, f.handler.UserDetails(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var u model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "Clementine Bauch", u.Name)
	assert.Equal(t, "Springfield", u.City)
	assert.Equal(t, "Acme Corp", u.CompanyName)
}

func TestUserDetails_NotFound(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI())

	c, rec := f.request(http.MethodGet, "/details/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, f.handler.UserDetails(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserDetails_BadID(t *testing.T) {
	f := newFixture(t, newFakeUsersAPI())

	c, rec := f.request(http.MethodGet, "/details/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, f.handler.UserDetails(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
