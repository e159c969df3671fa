package services

import (
	"strings"
	"testing"

	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/types"
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

func createUser(t *testing.T, name, email string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "irrelevant"}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func countReactions(t *testing.T, messageID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Reaction{}).Where("message_id = ?", messageID).Count(&count).Error)

	return count
}

func TestPostGroupMessage(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")

	message, err := PostGroupMessage(sender.ID, "hello everyone")
	require.NoError(t, err)
	assert.Equal(t, sender.ID, message.Sender.ID)
	assert.Equal(t, "hello everyone", message.Content)

	var stored models.Message
	require.NoError(t, db.DB.First(&stored, message.ID).Error)
	assert.Equal(t, types.GroupConversationID, stored.ConversationID)
	assert.Equal(t, sender.ID, stored.SenderID)
}

func TestPostGroupMessageValidation(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")

	_, err := PostGroupMessage(sender.ID, "")
	assert.ErrorAs(t, err, &ValidationError{})

	_, err = PostGroupMessage(sender.ID, "   ")
	assert.ErrorAs(t, err, &ValidationError{})

	oversized := make([]byte, types.MaxMessageLength+1)
	for i := range oversized {
		oversized[i] = 'a'
	}
	_, err = PostGroupMessage(sender.ID, string(oversized))
	assert.ErrorAs(t, err, &ValidationError{})

	// Sender must reference an existing user.
	_, err = PostGroupMessage(9999, "hello")
	assert.ErrorAs(t, err, &ValidationError{})
}

func TestPostGroupMessageLengthCountsCharacters(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")

	// 700 emoji are well under the character limit even though they
	// exceed it in bytes.
	emojiHeavy := strings.Repeat("🎉", 700)
	require.Greater(t, len(emojiHeavy), types.MaxMessageLength)

	message, err := PostGroupMessage(sender.ID, emojiHeavy)
	require.NoError(t, err)
	assert.Equal(t, emojiHeavy, message.Content)

	_, err = PostGroupMessage(sender.ID, strings.Repeat("🎉", types.MaxMessageLength+1))
	assert.ErrorAs(t, err, &ValidationError{})
}

func TestListGroupMessagesOrdering(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")

	for _, content := range []string{"first", "second", "third"} {
		_, err := PostGroupMessage(sender.ID, content)
		require.NoError(t, err)
	}

	messages, err := ListGroupMessages(sender.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)

	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt),
			"messages must be non-decreasing by creation time")
	}

	// A limit keeps the most recent messages, still in ascending order.
	limited, err := ListGroupMessages(sender.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "second", limited[0].Content)
	assert.Equal(t, "third", limited[1].Content)
}

func TestListGroupMessagesEmpty(t *testing.T) {
	setupTestDB(t)
	viewer := createUser(t, "Alice", "alice@example.com")

	messages, err := ListGroupMessages(viewer.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAddReactionIdempotent(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")
	reactor := createUser(t, "Bob", "bob@example.com")

	message, err := PostGroupMessage(sender.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, AddReaction(message.ID, reactor.ID, "👍"))
	require.NoError(t, AddReaction(message.ID, reactor.ID, "👍"))

	assert.EqualValues(t, 1, countReactions(t, message.ID))
}

func TestRemoveReactionIdempotent(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")
	reactor := createUser(t, "Bob", "bob@example.com")

	message, err := PostGroupMessage(sender.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, AddReaction(message.ID, reactor.ID, "👍"))
	require.NoError(t, RemoveReaction(message.ID, reactor.ID, "👍"))
	require.NoError(t, RemoveReaction(message.ID, reactor.ID, "👍"))

	assert.EqualValues(t, 0, countReactions(t, message.ID))
}

func TestAddRemoveAddYieldsOneRow(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")
	reactor := createUser(t, "Bob", "bob@example.com")

	message, err := PostGroupMessage(sender.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, AddReaction(message.ID, reactor.ID, "🎉"))
	require.NoError(t, RemoveReaction(message.ID, reactor.ID, "🎉"))
	require.NoError(t, AddReaction(message.ID, reactor.ID, "🎉"))

	assert.EqualValues(t, 1, countReactions(t, message.ID))
}

func TestAddReactionValidation(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")

	message, err := PostGroupMessage(sender.ID, "hello")
	require.NoError(t, err)

	err = AddReaction(message.ID, sender.ID, "not-an-emoji")
	assert.ErrorAs(t, err, &ValidationError{})

	err = AddReaction(9999, sender.ID, "👍")
	assert.ErrorAs(t, err, &NotFoundError{})

	err = AddReaction(message.ID, 9999, "👍")
	assert.ErrorAs(t, err, &ValidationError{})
}

func TestReactionSummaryPerViewer(t *testing.T) {
	setupTestDB(t)

	// Alice is on the reserved team domain, so she is promoted to
	// glory_team on creation.
	alice := createUser(t, "Alice", "alice@glorysummit.com")
	bob := createUser(t, "Bob", "bob@example.com")
	carol := createUser(t, "Carol", "carol@example.com")

	require.Equal(t, models.RoleGloryTeam, alice.Role)

	message, err := PostGroupMessage(alice.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, AddReaction(message.ID, bob.ID, "👍"))

	asBob, err := ListGroupMessages(bob.ID, 0)
	require.NoError(t, err)
	require.Len(t, asBob, 1)
	require.Len(t, asBob[0].Reactions, 1)
	assert.Equal(t, "👍", asBob[0].Reactions[0].Emoji)
	assert.Equal(t, 1, asBob[0].Reactions[0].Count)
	assert.Equal(t, []string{"Bob"}, asBob[0].Reactions[0].Users)
	assert.True(t, asBob[0].Reactions[0].ViewerHasReacted)

	asCarol, err := ListGroupMessages(carol.ID, 0)
	require.NoError(t, err)
	require.Len(t, asCarol, 1)
	require.Len(t, asCarol[0].Reactions, 1)
	assert.False(t, asCarol[0].Reactions[0].ViewerHasReacted)
}

func TestDeleteGroupMessageAuthorization(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "Ana", "ana@glorysummit.com")
	attendee := createUser(t, "Bob", "bob@example.com")

	message, err := PostGroupMessage(attendee.ID, "hello")
	require.NoError(t, err)

	err = DeleteGroupMessage(message.ID, attendee.ID)
	assert.ErrorAs(t, err, &AuthorizationError{})

	require.NoError(t, DeleteGroupMessage(message.ID, admin.ID))

	messages, err := ListGroupMessages(admin.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeleteGroupMessageIdempotent(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "Ana", "ana@glorysummit.com")

	// Deleting a message that never existed is a successful no-op.
	require.NoError(t, DeleteGroupMessage(12345, admin.ID))

	message, err := PostGroupMessage(admin.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, DeleteGroupMessage(message.ID, admin.ID))
	require.NoError(t, DeleteGroupMessage(message.ID, admin.ID))
}

func TestDeleteGroupMessageRemovesReactions(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "Ana", "ana@glorysummit.com")
	reactor := createUser(t, "Bob", "bob@example.com")

	message, err := PostGroupMessage(admin.ID, "hello")
	require.NoError(t, err)
	require.NoError(t, AddReaction(message.ID, reactor.ID, "🔥"))

	require.NoError(t, DeleteGroupMessage(message.ID, admin.ID))

	assert.EqualValues(t, 0, countReactions(t, message.ID))
}

func TestDeleteGroupMessageLeavesOtherConversationsAlone(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "Ana", "ana@glorysummit.com")
	bob := createUser(t, "Bob", "bob@example.com")

	direct := models.Conversation{Name: "Ana & Bob", Kind: "direct"}
	require.NoError(t, db.DB.Create(&direct).Error)

	directMessage := models.Message{
		ConversationID: direct.ID,
		SenderID:       bob.ID,
		Content:        "see you at the keynote",
	}
	require.NoError(t, db.DB.Create(&directMessage).Error)
	require.NoError(t, db.DB.Create(&models.Reaction{
		MessageID: directMessage.ID,
		UserID:    admin.ID,
		Emoji:     "👍",
	}).Error)

	// Group-chat deletion of that id is a no-op; the direct message and
	// its reactions survive.
	require.NoError(t, DeleteGroupMessage(directMessage.ID, admin.ID))

	var survivor models.Message
	require.NoError(t, db.DB.First(&survivor, directMessage.ID).Error)
	assert.EqualValues(t, 1, countReactions(t, directMessage.ID))
}

func TestReactionSummaryByMessage(t *testing.T) {
	setupTestDB(t)
	sender := createUser(t, "Alice", "alice@example.com")
	bob := createUser(t, "Bob", "bob@example.com")
	carol := createUser(t, "Carol", "carol@example.com")

	message, err := PostGroupMessage(sender.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, AddReaction(message.ID, bob.ID, "👍"))
	require.NoError(t, AddReaction(message.ID, carol.ID, "👍"))
	require.NoError(t, AddReaction(message.ID, carol.ID, "❤️"))

	summary, err := ReactionSummary(message.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	assert.Equal(t, "👍", summary[0].Emoji)
	assert.Equal(t, 2, summary[0].Count)
	assert.ElementsMatch(t, []string{"Bob", "Carol"}, summary[0].Users)
	assert.True(t, summary[0].ViewerHasReacted)

	assert.Equal(t, "❤️", summary[1].Emoji)
	assert.Equal(t, 1, summary[1].Count)
	assert.False(t, summary[1].ViewerHasReacted)

	_, err = ReactionSummary(9999, bob.ID)
	assert.ErrorAs(t, err, &NotFoundError{})
}
