package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/services"
	"github.com/glory-summit/summit/internal/utils"
	"gorm.io/gorm"
)

type CreateSurveyRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	Questions   []SurveyQuestionInput `json:"questions" binding:"required,min=1,dive"`
}

type SurveyQuestionInput struct {
	Prompt string `json:"prompt" binding:"required"`
	Kind   string `json:"kind" binding:"required,oneof=text rating choice"`
}

type UpdateSurveyStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed"`
}

type SubmitResponseRequest struct {
	Answers []services.SurveyAnswerInput `json:"answers" binding:"required,min=1"`
}

type SurveySummary struct {
	ID          uint                    `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Status      string                  `json:"status"`
	Questions   []SurveyQuestionSummary `json:"questions,omitempty"`
}

type SurveyQuestionSummary struct {
	ID       uint   `json:"id"`
	Prompt   string `json:"prompt"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
}

// CreateSurvey creates a draft survey with its questions. Admin-only.
func CreateSurvey(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !currentUser.IsAdmin() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only moderators may create surveys"})
		return
	}

	var req CreateSurveyRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	survey := models.Survey{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.SurveyDraft,
	}

	for i, question := range req.Questions {
		survey.Questions = append(survey.Questions, models.SurveyQuestion{
			Prompt:   question.Prompt,
			Kind:     question.Kind,
			Position: i + 1,
		})
	}

	if err := db.DB.Create(&survey).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create survey"})
		return
	}

	ctx.JSON(http.StatusCreated, surveySummary(survey))
}

// ListSurveys returns surveys; non-admins only see active ones.
func ListSurveys(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Preload("Questions").Order("created_at DESC")

	if !currentUser.IsAdmin() {
		query = query.Where("status = ?", models.SurveyActive)
	} else if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var surveys []models.Survey

	if err := query.Find(&surveys).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve surveys"})
		return
	}

	summaries := make([]SurveySummary, 0, len(surveys))

	for _, survey := range surveys {
		summaries = append(summaries, surveySummary(survey))
	}

	ctx.JSON(http.StatusOK, summaries)
}

func GetSurvey(ctx *gin.Context) {
	surveyID, err := utils.GetIDParam(ctx, "survey_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var survey models.Survey

	if err := db.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&survey, surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve survey"})
		}
		return
	}

	ctx.JSON(http.StatusOK, surveySummary(survey))
}

// UpdateSurveyStatus advances a survey along draft -> active -> completed.
// Admin-only.
func UpdateSurveyStatus(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !currentUser.IsAdmin() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only moderators may update surveys"})
		return
	}

	surveyID, err := utils.GetIDParam(ctx, "survey_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateSurveyStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := services.TransitionSurvey(surveyID, req.Status); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Survey updated successfully"})
}

// SubmitResponse records the caller's answers. One response per user per
// survey; the response is completed on submit.
func SubmitResponse(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	surveyID, err := utils.GetIDParam(ctx, "survey_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req SubmitResponseRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	response, err := services.SubmitSurveyResponse(surveyID, userID, req.Answers)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"response_id":  response.ID,
		"completed":    response.Completed,
		"completed_at": response.CompletedAt,
	})
}

func surveySummary(survey models.Survey) SurveySummary {
	summary := SurveySummary{
		ID:          survey.ID,
		Title:       survey.Title,
		Description: survey.Description,
		Status:      survey.Status,
	}

	for _, question := range survey.Questions {
		summary.Questions = append(summary.Questions, SurveyQuestionSummary{
			ID:       question.ID,
			Prompt:   question.Prompt,
			Kind:     question.Kind,
			Position: question.Position,
		})
	}

	return summary
}
