package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fieldwork.com/console/core"
	"fieldwork.com/console/security"
	"fieldwork.com/console/session"
	"fieldwork.com/console/utils"
	"fieldwork.com/console/web/common"
	"fieldwork.com/console/web/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("console-test-secret-console-test"))

type backend struct {
	mu    sync.Mutex
	calls map[string]int
	token string
}

func (b *backend) hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func newBackend(t *testing.T) (*httptest.Server, *backend) {
	t.Helper()
	token, err := security.CreateIdentityToken(security.Identity{UserID: 1, Email: "admin@example.com"}, testSecret, time.Hour)
	require.NoError(t, err)
	b := &backend{calls: map[string]int{}, token: token}

	today := time.Now().In(utils.KigaliTZ).Format(utils.DateLayout)
	routes := map[string]func(w http.ResponseWriter, r *http.Request){
		"POST /api/auth/login/": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "secret1" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"non_field_errors":["Invalid credentials"]}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"` + token + `","user":{"id":1,"name":"Admin","email":"admin@example.com","role":"admin","permissions":["view_user","view_assignment"]}}`))
		},
		"POST /api/auth/logout/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"GET /api/users/": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1,"name":"Eve","role":"admin"},{"id":2,"name":"Steven","role":"manager"},{"id":3,"name":"Adam","role":"manager"}]`))
		},
		"POST /api/users/add/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":4,"name":"New"}`))
		},
		"GET /api/assignments/": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1,"name":"North","created_date":"2024-05-01"},{"id":2,"name":"South","created_date":"2024-05-02"}]`))
		},
		"DELETE /api/assignments/1/delete/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"DELETE /api/assignments/2/delete/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Assignment has attendance records"}`))
		},
		"GET /api/attendance/": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"id":1,"employee":{"id":7,"tag_id":"T7","name":"Alice"},"department_name":"Harvest","date":"` + today + `","attended":true,"day_salary":"5000.00"},
				{"id":2,"employee":{"id":9,"tag_id":"T9","name":"Bob"},"department_name":"Weeding","date":"` + today + `","attended":false,"day_salary":"4000.00"}
			]`))
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls[key]++
		b.mu.Unlock()
		handler, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not found."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, b
}

type harness struct {
	router  *gin.Engine
	manager *session.Manager
	cookie  *http.Cookie
	backend *backend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, b := newBackend(t)

	manager := session.NewManager(session.NewMemoryStore())
	base := &common.Handler{
		APIBaseURL: srv.URL + "/api",
		HTTPClient: srv.Client(),
		Sessions:   manager,
		Screens:    core.NewScreenRegistry(),
		Location:   utils.KigaliTZ,
		Now:        time.Now,
	}
	return &harness{router: NewRouter(gin.New(), base, nil), manager: manager, backend: b}
}

func (h *harness) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie && c.Value != "" {
			h.cookie = c
		}
	}
	return w
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	w := h.do(t, http.MethodPost, "/login", `{"email":"admin@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGuardWithoutToken(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/console/users", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login?error=unauthorized", decode(t, w)["redirect"])

	req := httptest.NewRequest(http.MethodGet, "/console/users", nil)
	browser := httptest.NewRecorder()
	h.router.ServeHTTP(browser, req)
	assert.Equal(t, http.StatusFound, browser.Code)
	assert.Equal(t, "/login?error=unauthorized", browser.Header().Get("Location"))
	assert.Zero(t, h.backend.hits("GET /api/users/"))
}

func TestGuardExpiredTokenClearsSession(t *testing.T) {
	h := newHarness(t)
	expired, err := security.CreateIdentityToken(security.Identity{UserID: 1}, testSecret, -time.Minute)
	require.NoError(t, err)

	s := h.manager.New()
	s.SetToken(expired)
	s.SetUser(&session.Profile{ID: 1, Name: "Admin"})
	require.NoError(t, h.manager.Save(context.Background(), s))
	h.cookie = &http.Cookie{Name: middlewares.SessionCookie, Value: s.ID()}

	var reasons []string
	h.manager.OnInvalidate(func(e session.Invalidation) { reasons = append(reasons, e.Reason) })

	w := h.do(t, http.MethodGet, "/console/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login?error=session_expired", decode(t, w)["redirect"])
	assert.Equal(t, []string{security.ReasonSessionExpired}, reasons)

	stored, err := h.manager.Load(context.Background(), s.ID())
	require.NoError(t, err)
	assert.Empty(t, stored.Token())
	assert.Nil(t, stored.User())
}

func TestGuardGarbageToken(t *testing.T) {
	h := newHarness(t)
	s := h.manager.New()
	s.SetToken("not-a-jwt")
	s.SetUser(&session.Profile{ID: 1, Name: "Admin"})
	require.NoError(t, h.manager.Save(context.Background(), s))
	h.cookie = &http.Cookie{Name: middlewares.SessionCookie, Value: s.ID()}

	w := h.do(t, http.MethodGet, "/console/users", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login?error=invalid_token", decode(t, w)["redirect"])
	assert.Zero(t, h.backend.hits("GET /api/users/"))

	stored, err := h.manager.Load(context.Background(), s.ID())
	require.NoError(t, err)
	assert.Empty(t, stored.Token())
	assert.Nil(t, stored.User())
}

func TestLoginIssuesFreshSession(t *testing.T) {
	h := newHarness(t)
	planted := h.manager.New()
	require.NoError(t, h.manager.Save(context.Background(), planted))
	h.cookie = &http.Cookie{Name: middlewares.SessionCookie, Value: planted.ID()}

	h.login(t)
	require.NotEqual(t, planted.ID(), h.cookie.Value)

	_, err := h.manager.Load(context.Background(), planted.ID())
	assert.ErrorIs(t, err, session.ErrNotFound)

	fresh, err := h.manager.Load(context.Background(), h.cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, h.backend.token, fresh.Token())

	w := h.do(t, http.MethodGet, "/console/menu", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestProfileShowsTokenExpiry(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(t, http.MethodGet, "/console/profile", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "Admin", data["user"].(map[string]any)["name"])

	expires, err := time.Parse(time.RFC3339, data["expires_at"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodPost, "/login", `{"email":"admin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["message"])
}

func TestUserListSearch(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(t, http.MethodGet, "/console/users?search=EVE", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Len(t, body["data"], 2)
	assert.EqualValues(t, 2, body["pagination"].(map[string]any)["total"])

	w = h.do(t, http.MethodGet, "/console/users?search=&filter[role]=manager", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)
	assert.Equal(t, 1, h.backend.hits("GET /api/users/"))
}

func TestCreateUserPasswordMismatchSkipsBackend(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(t, http.MethodPost, "/console/users", `{"name":"New","email":"new@example.com","phone_number":"0788123456","role":"admin","password":"secret1","confirmPassword":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match", decode(t, w)["message"])
	assert.Zero(t, h.backend.hits("POST /api/users/add/"))

	w = h.do(t, http.MethodPost, "/console/users", `{"name":"New","email":"new@example.com","phone_number":"0788123456","role":"admin","password":"secret1","confirmPassword":"secret1"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, h.backend.hits("POST /api/users/add/"))
}

func TestAssignmentDelete(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(t, http.MethodGet, "/console/assignments", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["data"], 2)

	w = h.do(t, http.MethodDelete, "/console/assignments/2", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, h.backend.hits("DELETE /api/assignments/2/delete/"))

	w = h.do(t, http.MethodDelete, "/console/assignments/2?confirm=true", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Assignment has attendance records", decode(t, w)["message"])

	w = h.do(t, http.MethodGet, "/console/assignments", "")
	assert.Len(t, decode(t, w)["data"], 2)

	w = h.do(t, http.MethodDelete, "/console/assignments/1?confirm=true", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(t, http.MethodGet, "/console/assignments", "")
	assert.Len(t, decode(t, w)["data"], 1)
	assert.Equal(t, 1, h.backend.hits("GET /api/assignments/"))
}

func TestDailyAttendance(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(t, http.MethodGet, "/console/attendance/daily", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	grid := decode(t, w)["data"].(map[string]any)
	assert.Len(t, grid["dates"], 5)

	rows := grid["rows"].([]any)
	require.Len(t, rows, 2)
	alice := rows[0].(map[string]any)
	assert.Equal(t, "Alice", alice["employee_name"])
	assert.EqualValues(t, 5000, alice["total_day_salary"])
	assert.Equal(t, "Present", alice["cells"].([]any)[2].(map[string]any)["status"])
	assert.Equal(t, "Future", alice["cells"].([]any)[4].(map[string]any)["status"])

	w = h.do(t, http.MethodGet, "/console/attendance/daily?filter[department]=weeding", "")
	rows = decode(t, w)["data"].(map[string]any)["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob", rows[0].(map[string]any)["employee_name"])
}

func TestAttendanceExport(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(t, http.MethodGet, "/console/attendance/weekly/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance-weekly-")
	assert.NotEmpty(t, w.Body.Bytes())

	w = h.do(t, http.MethodGet, "/console/attendance/weekly/export?upload=true", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMenuAndLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(t, http.MethodGet, "/console/menu", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["data"].(map[string]any)["items"].([]any)
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.(map[string]any)["label"].(string))
	}
	assert.Equal(t, []string{"Dashboard", "Users", "Assignments", "Profile"}, labels)

	cookie := h.cookie
	w = h.do(t, http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, h.backend.hits("POST /api/auth/logout/"))

	h.cookie = cookie
	w = h.do(t, http.MethodGet, "/console/menu", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
