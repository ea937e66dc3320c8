package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/api"
	"github.com/staynear-app/server/internal/config"
	"github.com/staynear-app/server/internal/models"
	"github.com/staynear-app/server/internal/repositories"
)

const testSecret = "test-secret"

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	avatars, err := repositories.NewAvatarStore(config.R2Config{}, t.TempDir())
	require.NoError(t, err)

	handler := api.SetupRouter(api.RouterConfig{
		DB:        db,
		Avatars:   avatars,
		JWTSecret: testSecret,
		Cors:      config.CorsConfig(),
	})

	return &testServer{t: t, db: db, handler: handler}
}

// do performs a JSON request against the full router, optionally
// authenticated with a bearer token.
func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) register(username, email, password string) {
	ts.t.Helper()
	w := ts.do(http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(ts.t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())
}

func (ts *testServer) login(email, password string) string {
	ts.t.Helper()
	w := ts.do(http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(ts.t, http.StatusOK, w.Code, "login %s: %s", email, w.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(ts.t, resp.Token)
	return resp.Token
}

func (ts *testServer) userByName(username string) models.User {
	ts.t.Helper()
	var user models.User
	require.NoError(ts.t, ts.db.Where("username = ?", username).First(&user).Error)
	return user
}

// signup registers and logs in a user, returning the row and a valid token.
func (ts *testServer) signup(username string) (models.User, string) {
	ts.t.Helper()
	email := username + "@example.com"
	ts.register(username, email, "password")
	token := ts.login(email, "password")
	return ts.userByName(username), token
}

func decodeList[T any](t *testing.T, w *httptest.ResponseRecorder) []T {
	t.Helper()
	var list []T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}
