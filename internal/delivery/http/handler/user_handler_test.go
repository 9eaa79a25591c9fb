package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/config"
	"taskboard/internal/delivery/http/handler"
	domainUser "taskboard/internal/domain/user"
	"taskboard/internal/infrastructure/database/postgres"
	"taskboard/internal/mail"
	"taskboard/internal/middleware"
	"taskboard/internal/testutil"
	"taskboard/internal/usecase/board"
	"taskboard/internal/usecase/user"
	"taskboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dropMailer struct{}

func (dropMailer) Send(*mail.Message) error { return nil }

// newTestRouter wires the handlers against a fresh database the way the real
// router does, minus rate limiting.
func newTestRouter(t *testing.T) (*gin.Engine, *postgres.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.Frontend.URL = "http://localhost:5173"

	userRepo := postgres.NewUserRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	userService := user.NewService(userRepo, taskRepo, dropMailer{}, cfg)
	boardService := board.NewService(taskRepo)

	userHandler := handler.NewUserHandler(userService)
	boardHandler := handler.NewBoardHandler(boardService)

	router := gin.New()
	root := router.Group("")
	userHandler.RegisterRoutes(root)

	protected := root.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	userHandler.RegisterProtectedRoutes(protected)
	boardHandler.RegisterProtectedRoutes(protected)

	admin := protected.Group("")
	admin.Use(middleware.AdminOnly())
	userHandler.RegisterAdminRoutes(admin)

	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) *utils.TokenPair {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/users/account", "", gin.H{
		"username": "tester",
		"email":    email,
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/users/session", "", gin.H{
		"email":    email,
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data utils.TokenPair `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return &resp.Data
}

func TestUserHandler_RegisterAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/users/account", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	t.Run("duplicate email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/users/account", "", gin.H{
			"username": "alice again",
			"email":    "alice@example.com",
			"password": "password",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email already in use")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/users/session", "", gin.H{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users/account", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_ProfileFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router, "alice@example.com")

	t.Run("requires a token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/users/me/info", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	rec := doJSON(t, router, http.MethodGet, "/users/me/info", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
	assert.Contains(t, rec.Body.String(), `"tasks"`)

	t.Run("update profile", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/users/me/info", pair.AccessToken, gin.H{
			"username": "alice updated",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice updated")
	})
}

func TestUserHandler_SessionLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router, "alice@example.com")

	rec := doJSON(t, router, http.MethodPost, "/users/session/refresh", pair.AccessToken, gin.H{
		"currentRefreshToken": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed struct {
		Data utils.TokenPair `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEqual(t, pair.RefreshToken, refreshed.Data.RefreshToken)

	t.Run("replaying the old refresh token fails", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/users/session/refresh", pair.AccessToken, gin.H{
			"currentRefreshToken": pair.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please log in.")
	})

	t.Run("logout clears the session", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/users/session", pair.AccessToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/users/session/refresh", pair.AccessToken, gin.H{
			"currentRefreshToken": refreshed.Data.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandler_AdminRoutes(t *testing.T) {
	router, db := newTestRouter(t)
	pair := registerAndLogin(t, router, "alice@example.com")

	t.Run("regular user is forbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/users", pair.AccessToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin can list users", func(t *testing.T) {
		admin, password := testutil.NewUserBuilder().
			WithEmail("admin@example.com").
			WithRole(domainUser.RoleAdmin).
			Build(t, db)

		rec := doJSON(t, router, http.MethodPost, "/users/session", "", gin.H{
			"email":    admin.Email,
			"password": password,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data utils.TokenPair `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		rec = doJSON(t, router, http.MethodGet, "/users", resp.Data.AccessToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice@example.com")
	})
}

func TestBoardHandler_Reconcile(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router, "alice@example.com")

	rec := doJSON(t, router, http.MethodPut, "/users/me/tasks", pair.AccessToken, gin.H{
		"tasks": gin.H{
			"todo":  []gin.H{{"title": "first"}, {"title": "second"}},
			"doing": []gin.H{{"title": "third"}},
			"done":  []gin.H{},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Todo  []struct{ ID, Title string } `json:"todo"`
			Doing []struct{ ID, Title string } `json:"doing"`
			Done  []struct{ ID, Title string } `json:"done"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Todo, 2)
	assert.Equal(t, "first", resp.Data.Todo[0].Title)
	require.Len(t, resp.Data.Doing, 1)
	assert.Empty(t, resp.Data.Done)

	t.Run("update a single task", func(t *testing.T) {
		taskID := resp.Data.Doing[0].ID
		rec := doJSON(t, router, http.MethodPut, "/users/me/tasks/"+taskID, pair.AccessToken, gin.H{
			"title":  "third renamed",
			"column": "done",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "third renamed")
		assert.Contains(t, rec.Body.String(), `"movedAt"`)
	})

	t.Run("unknown task id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/users/me/tasks/b2dbdb30-0000-0000-0000-000000000000", pair.AccessToken, gin.H{
			"title": "nope",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task not found")
	})

	t.Run("invalid task id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/users/me/tasks/not-a-uuid", pair.AccessToken, gin.H{
			"title": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
