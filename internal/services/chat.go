package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

type MessageSummary struct {
	ID        uint               `json:"id"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	Sender    types.UserResponse `json:"sender"`
	Reactions []ReactionGroup    `json:"reactions"`
}

// ReactionGroup is one emoji's slice of a message's reaction overlay. The
// viewer flag is computed per request, never stored.
type ReactionGroup struct {
	Emoji            string   `json:"emoji"`
	Count            int      `json:"count"`
	Users            []string `json:"users"`
	ViewerHasReacted bool     `json:"viewer_has_reacted"`
}

// ListGroupMessages returns up to limit most recent group-chat messages in
// chronological order, annotated with sender identity and the reaction
// summary as seen by viewerID. An empty chat yields an empty slice.
func ListGroupMessages(viewerID uint, limit int) ([]MessageSummary, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	var messages []models.Message

	err := db.DB.
		Preload("Sender").
		Preload("Reactions").
		Preload("Reactions.User").
		Where("conversation_id = ?", types.GroupConversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error

	if err != nil {
		return nil, err
	}

	// Storage returns newest first; display order is oldest first.
	summaries := make([]MessageSummary, 0, len(messages))

	for i := len(messages) - 1; i >= 0; i-- {
		summaries = append(summaries, buildMessageSummary(messages[i], viewerID))
	}

	return summaries, nil
}

// PostGroupMessage validates and appends a message to the reserved group
// conversation.
func PostGroupMessage(senderID uint, content string) (*MessageSummary, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, ValidationError{Reason: "message content is required"}
	}

	// Length is bounded in characters, not bytes: emoji-heavy messages
	// count the same as ASCII ones.
	if utf8.RuneCountInString(content) > types.MaxMessageLength {
		return nil, ValidationError{Reason: "message content is too long"}
	}

	var sender models.User

	if err := db.DB.First(&sender, senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ValidationError{Reason: "sender does not exist"}
		}
		return nil, err
	}

	message := models.Message{
		ConversationID: types.GroupConversationID,
		SenderID:       sender.ID,
		Content:        content,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		return nil, err
	}

	message.Sender = sender
	summary := buildMessageSummary(message, sender.ID)

	return &summary, nil
}

// DeleteGroupMessage removes a message and its reactions. Only admins
// (moderator or glory_team) may delete; deleting a message that no longer
// exists is a successful no-op.
func DeleteGroupMessage(messageID uint, requesterID uint) error {
	var requester models.User

	if err := db.DB.First(&requester, requesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthorizationError{Reason: "requesting user does not exist"}
		}
		return err
	}

	if !requester.IsAdmin() {
		return AuthorizationError{Reason: "only moderators may delete messages"}
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		// Resolve the id inside the group conversation first so a
		// direct-conversation message with the same id keeps its
		// reactions.
		var message models.Message

		err := tx.Where("conversation_id = ?", types.GroupConversationID).
			First(&message, messageID).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		if err := tx.Where("message_id = ?", message.ID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Message{}, message.ID).Error
	})
}

// AddReaction records the (message, user, emoji) triple. A duplicate add is
// a no-op: the insert carries ON CONFLICT DO NOTHING against the unique
// triple index, so concurrent adds cannot race into duplicate rows.
func AddReaction(messageID uint, userID uint, emoji string) error {
	if !types.AllowedEmojis[emoji] {
		return ValidationError{Reason: "unsupported emoji"}
	}

	var message models.Message

	if err := db.DB.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError{Reason: "message not found"}
		}
		return err
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidationError{Reason: "user does not exist"}
		}
		return err
	}

	reaction := models.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	}

	return db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&reaction).Error
}

// RemoveReaction deletes the triple if present. Removing an absent reaction
// is a successful no-op.
func RemoveReaction(messageID uint, userID uint, emoji string) error {
	if !types.AllowedEmojis[emoji] {
		return ValidationError{Reason: "unsupported emoji"}
	}

	return db.DB.
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&models.Reaction{}).Error
}

// ReactionSummary groups a message's reactions by emoji as seen by viewerID.
func ReactionSummary(messageID uint, viewerID uint) ([]ReactionGroup, error) {
	var message models.Message

	err := db.DB.
		Preload("Reactions").
		Preload("Reactions.User").
		First(&message, messageID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Reason: "message not found"}
		}
		return nil, err
	}

	return groupReactions(message.Reactions, viewerID), nil
}

func buildMessageSummary(message models.Message, viewerID uint) MessageSummary {
	return MessageSummary{
		ID:        message.ID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
		Sender: types.UserResponse{
			ID:        message.Sender.ID,
			Name:      message.Sender.Name,
			Email:     message.Sender.Email,
			Role:      message.Sender.Role,
			Online:    message.Sender.Online,
			AvatarURL: message.Sender.AvatarURL,
			Company:   message.Sender.Company,
			Title:     message.Sender.Title,
		},
		Reactions: groupReactions(message.Reactions, viewerID),
	}
}

func groupReactions(reactions []models.Reaction, viewerID uint) []ReactionGroup {
	groups := make([]ReactionGroup, 0)
	index := make(map[string]int)

	for _, reaction := range reactions {
		i, exists := index[reaction.Emoji]

		if !exists {
			i = len(groups)
			index[reaction.Emoji] = i
			groups = append(groups, ReactionGroup{Emoji: reaction.Emoji})
		}

		groups[i].Count++
		groups[i].Users = append(groups[i].Users, reaction.User.Name)

		if reaction.UserID == viewerID {
			groups[i].ViewerHasReacted = true
		}
	}

	return groups
}
