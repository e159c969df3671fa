package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordEventRequest struct {
	SessionID  string         `json:"session_id" binding:"required"`
	Name       string         `json:"name" binding:"required"`
	Properties datatypes.JSON `json:"properties"`
}

type EventCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type AnalyticsSummary struct {
	TotalUsers     int64        `json:"total_users"`
	TotalMessages  int64        `json:"total_messages"`
	TotalReactions int64        `json:"total_reactions"`
	ActiveSessions int64        `json:"active_sessions"`
	EventCounts    []EventCount `json:"event_counts"`
}

// StartSession opens an analytics session for the caller and returns its
// server-issued id.
func StartSession(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now(),
	}

	if err := db.DB.Create(&session).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"started_at": session.StartedAt,
	})
}

// EndSession stamps EndedAt once. Ending an already-ended session is
// rejected so the Active -> Ended transition happens exactly once.
func EndSession(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID := ctx.Param("session_id")

	var session models.Session

	if err := db.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	if session.EndedAt != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Session has already ended"})
		return
	}

	now := time.Now()

	if err := db.DB.Model(&session).Update("ended_at", &now).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ended_at": now})
}

// RecordEvent appends an event to one of the caller's open sessions.
func RecordEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req RecordEventRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var session models.Session

	if err := db.DB.Where("id = ? AND user_id = ?", req.SessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	if session.EndedAt != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Session has already ended"})
		return
	}

	event := models.SessionEvent{
		SessionID:  session.ID,
		Name:       req.Name,
		Properties: req.Properties,
	}

	if err := db.DB.Create(&event).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	ctx.Status(http.StatusCreated)
}

// GetAnalyticsSummary aggregates platform totals. Admin-only.
func GetAnalyticsSummary(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !currentUser.IsAdmin() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only moderators may view analytics"})
		return
	}

	var summary AnalyticsSummary

	db.DB.Model(&models.User{}).Count(&summary.TotalUsers)
	db.DB.Model(&models.Message{}).Count(&summary.TotalMessages)
	db.DB.Model(&models.Reaction{}).Count(&summary.TotalReactions)
	db.DB.Model(&models.Session{}).Where("ended_at IS NULL").Count(&summary.ActiveSessions)

	if err := db.DB.Model(&models.SessionEvent{}).
		Select("name, COUNT(*) as count").
		Group("name").
		Order("count DESC").
		Scan(&summary.EventCounts).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate events"})
		return
	}

	ctx.JSON(http.StatusOK, summary)
}
