package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/auth"
	"github.com/glory-summit/summit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() {
		sqlDB.Close()
	})
}

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())
	setupTestDB(t)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	return recorder
}

func TestAuthMiddlewareTouchesPresence(t *testing.T) {
	r := setupAuthRouter(t)

	user := models.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Name, user.Role)
	require.NoError(t, err)

	resp := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var refreshed models.User
	require.NoError(t, db.DB.First(&refreshed, user.ID).Error)
	assert.True(t, refreshed.Online)
	require.NotNil(t, refreshed.LastSeenAt)
}

func TestAuthMiddlewareRejectsDeletedAccount(t *testing.T) {
	r := setupAuthRouter(t)

	user := models.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Name, user.Role)
	require.NoError(t, err)

	require.NoError(t, db.DB.Delete(&user).Error)

	resp := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthMiddlewareRejectsMalformedHeaders(t *testing.T) {
	r := setupAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer not-a-token").Code)
}

func TestTouchPresenceReportsStoreErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	setupTestDB(t)

	user := models.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, db.DB.Create(&user).Error)

	exists, err := touchPresence(user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = touchPresence(99999)
	require.NoError(t, err)
	assert.False(t, exists)

	// A broken store surfaces as an error instead of a silent skip.
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = touchPresence(user.ID)
	assert.Error(t, err)
}
