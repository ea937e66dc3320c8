package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicates(t *testing.T) {
	ts := newTestServer(t)
	ts.register("alice", "alice@example.com", "password")

	w := ts.do(http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodPost, "/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register("alice", "alice@example.com", "password")

	token := ts.login("alice@example.com", "password")
	require.NotEmpty(t, token)

	w := ts.do(http.MethodPost, "/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginDoesNotLeakPasswordHash(t *testing.T) {
	ts := newTestServer(t)
	ts.register("alice", "alice@example.com", "password")

	w := ts.do(http.MethodPost, "/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"password"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/friends", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup("alice")

	w := ts.do(http.MethodPost, "/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
