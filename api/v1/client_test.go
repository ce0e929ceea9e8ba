package v1

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mutableToken struct{ value string }

func (m *mutableToken) Token() string { return m.value }

type recorded struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

func newTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	calls := &[]recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*calls = append(*calls, recorded{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: string(body)})
		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not found."}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func writeJSON(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestTransportAttachesTokenOnEveryCall(t *testing.T) {
	srv, calls := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"GET /users/": writeJSON(`[]`),
	})
	token := &mutableToken{value: "abc"}
	client := NewClient(srv.URL, token, nil)

	_, err := client.Users.List(context.Background())
	require.NoError(t, err)

	token.value = ""
	_, err = client.Users.List(context.Background())
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, "Token abc", (*calls)[0].Auth)
	assert.Equal(t, "", (*calls)[1].Auth)
}

func TestResourceConventions(t *testing.T) {
	srv, calls := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"GET /users/":            writeJSON(`[{"id":1,"name":"Eve Adams","email":"eve@example.com","role":"admin"}]`),
		"GET /users/1/":          writeJSON(`{"id":1,"name":"Eve Adams"}`),
		"POST /users/add/":       writeJSON(`{"id":2,"name":"Bob"}`),
		"PATCH /users/2/update/": writeJSON(`{"id":2,"name":"Bobby"}`),
		"DELETE /users/2/delete/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})
	client := NewClient(srv.URL, StaticToken("t"), nil)
	ctx := context.Background()

	users, err := client.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Eve Adams", users[0].Name)

	user, err := client.Users.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	created, err := client.Users.Create(ctx, UserInput{Name: "Bob", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)

	updated, err := client.Users.Update(ctx, 2, UserInput{Name: "Bobby"})
	require.NoError(t, err)
	assert.Equal(t, "Bobby", updated.Name)

	require.NoError(t, client.Users.Delete(ctx, 2))

	var createBody map[string]any
	require.NoError(t, json.Unmarshal([]byte((*calls)[2].Body), &createBody))
	assert.Equal(t, "secret1", createBody["password"])

	var updateBody map[string]any
	require.NoError(t, json.Unmarshal([]byte((*calls)[3].Body), &updateBody))
	_, hasPassword := updateBody["password"]
	assert.False(t, hasPassword)
}

func TestKeyedEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"GET /employees/3/": writeJSON(`{"employee":{"id":3,"name":"Eve","tag_id":"T-03","rssb_number":"R1"}}`),
		"GET /employees/4/": writeJSON(`{"id":4,"name":"Flat"}`),
		"GET /fields/9/":    writeJSON(`{"field":null}`),
	})
	client := NewClient(srv.URL, StaticToken("t"), nil)
	ctx := context.Background()

	emp, err := client.Employees.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "T-03", emp.TagID)
	assert.Equal(t, "R1", emp.RSSBNumber)

	_, err = client.Employees.Get(ctx, 4)
	assert.ErrorIs(t, err, ErrUnexpectedShape)

	_, err = client.Fields.Get(ctx, 9)
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestListRejectsObjectBody(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"GET /departments/": writeJSON(`{"results":[]}`),
	})
	client := NewClient(srv.URL, StaticToken("t"), nil)

	_, err := client.Departments.List(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestAPIErrorMessage(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"POST /users/add/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"phone_number":["Enter a valid phone number."],"email":["user with this email already exists."]}`))
		},
	})
	client := NewClient(srv.URL, StaticToken("t"), nil)

	_, err := client.Users.Create(context.Background(), UserInput{Name: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "user with this email already exists., Enter a valid phone number.", apiErr.Message())
	assert.Equal(t, apiErr.Message(), ErrorMessage(err))
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestAPIErrorMessageFallbacks(t *testing.T) {
	assert.Equal(t, "Invalid token.", (&APIError{StatusCode: 401, Body: []byte(`{"detail":"Invalid token."}`)}).Message())
	assert.Equal(t, "Not Found", (&APIError{StatusCode: 404, Body: []byte(`<html>nope</html>`)}).Message())
	assert.Equal(t, "boom", (&APIError{StatusCode: 500, Body: []byte(`boom`)}).Message())
	assert.Equal(t, "a, 3", (&APIError{StatusCode: 400, Body: []byte(`{"x":{"y":"a","z":3}}`)}).Message())
}

func TestLogin(t *testing.T) {
	srv, calls := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"POST /auth/login/": writeJSON(`{"token":"tok","user":{"id":1,"name":"Admin","permissions":["view_user"]}}`),
	})
	client := NewClient(srv.URL, nil, nil)

	res, err := client.Auth.Login(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, []string{"view_user"}, res.User.Permissions)
	assert.Equal(t, "", (*calls)[0].Auth)
}

func TestTransportErrorIsWrapped(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", StaticToken("t"), nil)
	_, err := client.Fields.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Network error, please try again", ErrorMessage(err))
}
