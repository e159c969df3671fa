package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/internal/metrics"
	"github.com/glory-summit/summit/internal/services"
	"github.com/glory-summit/summit/internal/utils"
)

type CreateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// ListGroupMessages returns the group chat in chronological order, with
// reaction summaries computed for the authenticated viewer. The legacy
// ?userId= parameter is ignored: viewer identity comes from the token.
func ListGroupMessages(ctx *gin.Context) {
	viewerID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit := 0

	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)

		if err != nil || parsed < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}

		limit = parsed
	}

	messages, err := services.ListGroupMessages(viewerID, limit)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// CreateGroupMessage appends a message from the authenticated user. The
// sender id in any request body is untrusted and unused.
func CreateGroupMessage(ctx *gin.Context) {
	senderID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateMessageRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message, err := services.PostGroupMessage(senderID, req.Content)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	metrics.MessagesPosted.Inc()
	BroadcastRefresh()

	ctx.JSON(http.StatusCreated, message)
}

// DeleteGroupMessage is moderator-only and idempotent: deleting a message
// that no longer exists still returns 204.
func DeleteGroupMessage(ctx *gin.Context) {
	requesterID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	messageID, err := utils.GetIDParam(ctx, "message_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.DeleteGroupMessage(messageID, requesterID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	metrics.MessagesDeleted.Inc()
	BroadcastRefresh()

	ctx.Status(http.StatusNoContent)
}

func AddReaction(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	messageID, err := utils.GetIDParam(ctx, "message_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ReactionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := services.AddReaction(messageID, userID, req.Emoji); err != nil {
		respondServiceError(ctx, err)
		return
	}

	metrics.ReactionsAdded.Inc()

	summary, err := services.ReactionSummary(messageID, userID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"reactions": summary})
}

func RemoveReaction(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	messageID, err := utils.GetIDParam(ctx, "message_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ReactionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := services.RemoveReaction(messageID, userID, req.Emoji); err != nil {
		respondServiceError(ctx, err)
		return
	}

	metrics.ReactionsRemoved.Inc()

	ctx.Status(http.StatusNoContent)
}
