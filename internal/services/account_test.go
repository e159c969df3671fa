package services

import (
	"errors"
	"testing"

	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeleteAccountRemovesReactions(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "Alice", "alice@example.com")
	bob := createUser(t, "Bob", "bob@example.com")

	message, err := PostGroupMessage(alice.ID, "hello")
	require.NoError(t, err)
	require.NoError(t, AddReaction(message.ID, bob.ID, "👍"))

	require.NoError(t, DeleteAccount(bob.ID))

	// Bob's reaction disappears from Alice's message.
	messages, err := ListGroupMessages(alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Empty(t, messages[0].Reactions)

	err = db.DB.First(&models.User{}, bob.ID).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteAccountRemovesMessagesAndDependents(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "Alice", "alice@example.com")
	bob := createUser(t, "Bob", "bob@example.com")

	message, err := PostGroupMessage(alice.ID, "hello")
	require.NoError(t, err)
	require.NoError(t, AddReaction(message.ID, bob.ID, "👍"))

	connection := models.Connection{RequesterID: alice.ID, AddresseeID: bob.ID, Status: models.ConnectionPending}
	require.NoError(t, db.DB.Create(&connection).Error)

	question := models.Question{UserID: alice.ID, PanelName: "Future of Sports", Text: "What changed?"}
	require.NoError(t, db.DB.Create(&question).Error)

	require.NoError(t, DeleteAccount(alice.ID))

	// Alice's message goes, and with it Bob's reaction on it.
	messages, err := ListGroupMessages(bob.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.EqualValues(t, 0, countReactions(t, message.ID))

	var connectionCount int64
	db.DB.Model(&models.Connection{}).Where("requester_id = ? OR addressee_id = ?", alice.ID, alice.ID).Count(&connectionCount)
	assert.EqualValues(t, 0, connectionCount)

	var questionCount int64
	db.DB.Model(&models.Question{}).Where("user_id = ?", alice.ID).Count(&questionCount)
	assert.EqualValues(t, 0, questionCount)
}

func TestDeleteAccountMissingUser(t *testing.T) {
	setupTestDB(t)

	assert.NoError(t, DeleteAccount(424242))
}
