package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MiguelProz/kairos/internal/app"
	"github.com/MiguelProz/kairos/internal/config"
	"github.com/MiguelProz/kairos/internal/db"
	"github.com/MiguelProz/kairos/internal/model"
	"github.com/MiguelProz/kairos/internal/repository"
	"github.com/MiguelProz/kairos/internal/routes"
	"github.com/MiguelProz/kairos/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AppName:            "Kairos",
		AppEnv:             "test",
		AppURL:             "http://localhost:4000",
		JWTSecret:          "test-secret",
		JWTExpiry:          time.Hour,
		CORSAllowedOrigins: "*",
	}

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	emailService := service.NewEmailService("", "noreply@example.com", cfg.AppURL, cfg.AppName, true)

	a := &app.App{
		Cfg:          cfg,
		DB:           database,
		AuthService:  service.NewAuthService(userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry),
		UserService:  service.NewUserService(userRepository),
		EmailService: emailService,
		GoalService:  service.NewGoalService(goalRepository),
	}

	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)

	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func registerAndLogin(t *testing.T, srv *httptest.Server, email, nickname string) string {
	t.Helper()

	resp := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "pw12345",
		"name":     "Test User",
		"nickname": nickname,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "pw12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)

	return body.Token
}

func TestAPI_GoalLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "pw12345",
		"name":     "Alice",
		"nickname": "alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered map[string]string
	decodeBody(t, resp, &registered)
	require.Equal(t, "user created", registered["message"])

	resp = doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "pw12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)

	resp = doRequest(t, srv, http.MethodPost, "/api/goals", login.Token, map[string]any{
		"title":    "Run 5k",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var goal model.Goal
	decodeBody(t, resp, &goal)
	require.Equal(t, "Run 5k", goal.Title)
	require.Equal(t, model.GoalStatusPending, goal.Status)
	require.Equal(t, model.GoalPriorityHigh, goal.Priority)
	require.Equal(t, 0, goal.Progress)

	goalPath := "/api/goals/" + goal.ID

	resp = doRequest(t, srv, http.MethodPut, goalPath, login.Token, map[string]any{
		"progress": 60,
		"status":   "in_progress",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, goalPath, login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &goal)
	require.Equal(t, 60, goal.Progress)
	require.Equal(t, model.GoalStatusInProgress, goal.Status)

	resp = doRequest(t, srv, http.MethodGet, "/api/goals?status=in_progress&priority=high", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var goals []model.Goal
	decodeBody(t, resp, &goals)
	require.Len(t, goals, 1)

	resp = doRequest(t, srv, http.MethodDelete, goalPath, login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted map[string]bool
	decodeBody(t, resp, &deleted)
	require.True(t, deleted["ok"])

	resp = doRequest(t, srv, http.MethodGet, goalPath, login.Token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodDelete, goalPath, login.Token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/goals", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/goals", "not.a.token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_UnknownFieldRejected(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "frank@example.com", "frank")

	resp := doRequest(t, srv, http.MethodPost, "/api/goals", token, map[string]any{
		"title": "Goal",
		"bogus": 1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// id and user are known fields, but the values are discarded
	resp = doRequest(t, srv, http.MethodPost, "/api/goals", token, map[string]any{
		"title": "Goal",
		"id":    "client-chosen",
		"user":  "someone-else",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var goal model.Goal
	decodeBody(t, resp, &goal)
	require.NotEqual(t, "client-chosen", goal.ID)
	require.NotEqual(t, "someone-else", goal.UserID)
}

func TestAPI_LoginMissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "someone@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_MalformedGoalID(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "grace@example.com", "grace")

	resp := doRequest(t, srv, http.MethodGet, "/api/goals/not-a-uuid", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodDelete, "/api/goals/not-a-uuid", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DuplicateRegistration(t *testing.T) {
	srv := newTestServer(t)

	payload := map[string]string{
		"email":    "heidi@example.com",
		"password": "pw12345",
		"name":     "Heidi",
		"nickname": "heidi",
	}

	resp := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_OwnershipOpaque(t *testing.T) {
	srv := newTestServer(t)
	aliceToken := registerAndLogin(t, srv, "ivy@example.com", "ivy")
	malloryToken := registerAndLogin(t, srv, "mallory@example.com", "mallory")

	resp := doRequest(t, srv, http.MethodPost, "/api/goals", aliceToken, map[string]any{
		"title": "Secret goal",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var goal model.Goal
	decodeBody(t, resp, &goal)

	// Another user sees 404, not 403
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp = doRequest(t, srv, method, "/api/goals/"+goal.ID, malloryToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, fmt.Sprintf("method %s", method))
	}

	resp = doRequest(t, srv, http.MethodPut, "/api/goals/"+goal.ID, malloryToken, map[string]any{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/goals/"+goal.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_Account(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "judy@example.com", "judy")

	resp := doRequest(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me model.User
	decodeBody(t, resp, &me)
	require.Equal(t, "judy@example.com", me.Email)

	resp = doRequest(t, srv, http.MethodPut, "/api/auth/me", token, map[string]any{
		"name": "Judy Renamed",
		"bio":  "hello",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &me)
	require.Equal(t, "Judy Renamed", me.Name)
	require.Equal(t, "hello", me.Bio)

	// Empty patch is rejected
	resp = doRequest(t, srv, http.MethodPut, "/api/auth/me", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Password change requires the current password
	resp = doRequest(t, srv, http.MethodPut, "/api/auth/me", token, map[string]any{
		"newPassword": "pw67890",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodPut, "/api/auth/me", token, map[string]any{
		"currentPassword": "pw12345",
		"newPassword":     "pw67890",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "judy@example.com",
		"password": "pw67890",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_AvatarUploadsDisabled(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "kate@example.com", "kate")

	resp := doRequest(t, srv, http.MethodPost, "/api/auth/me/avatar", token, nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
