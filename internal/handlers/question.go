package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/services"
	"github.com/glory-summit/summit/internal/utils"
	"gorm.io/gorm"
)

type CreateQuestionRequest struct {
	PanelName string `json:"panel_name" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

type QuestionResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	PanelName string `json:"panel_name"`
	Text      string `json:"text"`
	Answered  bool   `json:"answered"`
}

// CreateQuestion submits a panel question. Duplicate questions are allowed.
func CreateQuestion(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateQuestionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var author models.User

	if err := db.DB.First(&author, userID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	question := models.Question{
		UserID:    userID,
		PanelName: req.PanelName,
		Text:      req.Text,
	}

	if err := db.DB.Create(&question).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	go func() {
		if err := services.SendQuestionNotification(question, author); err != nil {
			log.Printf("Failed to send question notification: %v", err)
		}
	}()

	ctx.JSON(http.StatusCreated, questionResponse(question, author.Name))
}

// ListQuestions returns questions, optionally filtered by panel and
// answered state.
func ListQuestions(ctx *gin.Context) {
	query := db.DB.Preload("User").Order("created_at ASC")

	if panel := ctx.Query("panel"); panel != "" {
		query = query.Where("panel_name = ?", panel)
	}

	if answered := ctx.Query("answered"); answered != "" {
		query = query.Where("answered = ?", answered == "true")
	}

	var questions []models.Question

	if err := query.Find(&questions).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve questions"})
		return
	}

	responses := make([]QuestionResponse, 0, len(questions))

	for _, question := range questions {
		responses = append(responses, questionResponse(question, question.User.Name))
	}

	ctx.JSON(http.StatusOK, responses)
}

// AnswerQuestion flips the answered flag. Moderator-only.
func AnswerQuestion(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !currentUser.IsAdmin() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only moderators may mark questions answered"})
		return
	}

	questionID, err := utils.GetIDParam(ctx, "question_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var question models.Question

	if err := db.DB.Preload("User").First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve question"})
		}
		return
	}

	if err := db.DB.Model(&question).Update("answered", true).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update question"})
		return
	}

	ctx.JSON(http.StatusOK, questionResponse(question, question.User.Name))
}

func questionResponse(question models.Question, userName string) QuestionResponse {
	return QuestionResponse{
		ID:        question.ID,
		UserID:    question.UserID,
		UserName:  userName,
		PanelName: question.PanelName,
		Text:      question.Text,
		Answered:  question.Answered,
	}
}
