package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/auth"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/router"
	"github.com/glory-summit/summit/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

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

	return router.NewRouter()
}

func createUserWithToken(t *testing.T, name, email string) (models.User, string) {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "irrelevant"}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Name, user.Role)
	require.NoError(t, err)

	return user, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	return recorder
}

func TestGroupChatFlow(t *testing.T) {
	r := setupTestServer(t)

	_, adminToken := createUserWithToken(t, "Ana", "ana@glorysummit.com")
	_, bobToken := createUserWithToken(t, "Bob", "bob@example.com")
	_, carolToken := createUserWithToken(t, "Carol", "carol@example.com")

	// Ana posts.
	resp := doJSON(t, r, http.MethodPost, "/api/group-chat/messages", adminToken,
		gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created services.MessageSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "hello", created.Content)
	assert.Equal(t, "Ana", created.Sender.Name)

	// Bob reacts.
	resp = doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/messages/%d/reactions", created.ID), bobToken,
		gin.H{"emoji": "👍"})
	require.Equal(t, http.StatusOK, resp.Code)

	// Bob sees his own reaction flagged.
	resp = doJSON(t, r, http.MethodGet, "/api/group-chat/messages", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var asBob []services.MessageSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &asBob))
	require.Len(t, asBob, 1)
	require.Len(t, asBob[0].Reactions, 1)
	assert.Equal(t, "👍", asBob[0].Reactions[0].Emoji)
	assert.Equal(t, 1, asBob[0].Reactions[0].Count)
	assert.True(t, asBob[0].Reactions[0].ViewerHasReacted)

	// Carol does not.
	resp = doJSON(t, r, http.MethodGet, "/api/group-chat/messages", carolToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var asCarol []services.MessageSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &asCarol))
	require.Len(t, asCarol, 1)
	require.Len(t, asCarol[0].Reactions, 1)
	assert.False(t, asCarol[0].Reactions[0].ViewerHasReacted)

	// Only admins may delete.
	resp = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/group-chat/messages/%d", created.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/group-chat/messages/%d", created.ID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	// Delete is idempotent.
	resp = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/group-chat/messages/%d", created.ID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = doJSON(t, r, http.MethodGet, "/api/group-chat/messages", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var afterDelete []services.MessageSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &afterDelete))
	assert.Empty(t, afterDelete)
}

func TestCreateGroupMessageValidation(t *testing.T) {
	r := setupTestServer(t)
	_, token := createUserWithToken(t, "Bob", "bob@example.com")

	resp := doJSON(t, r, http.MethodPost, "/api/group-chat/messages", token,
		gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, r, http.MethodPost, "/api/group-chat/messages", token,
		gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReactionEmojiAllowList(t *testing.T) {
	r := setupTestServer(t)
	_, token := createUserWithToken(t, "Bob", "bob@example.com")

	resp := doJSON(t, r, http.MethodPost, "/api/group-chat/messages", token,
		gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created services.MessageSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/messages/%d/reactions", created.ID), token,
		gin.H{"emoji": "<script>"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Reacting to a missing message is 404.
	resp = doJSON(t, r, http.MethodPost, "/api/messages/99999/reactions", token,
		gin.H{"emoji": "👍"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Removing an absent reaction succeeds.
	resp = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/messages/%d/reactions", created.ID), token,
		gin.H{"emoji": "👍"})
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestGroupChatRequiresAuth(t *testing.T) {
	r := setupTestServer(t)

	resp := doJSON(t, r, http.MethodGet, "/api/group-chat/messages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, r, http.MethodPost, "/api/group-chat/messages", "",
		gin.H{"content": "hello"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
