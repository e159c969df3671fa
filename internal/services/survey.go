package services

import (
	"errors"
	"time"

	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SurveyAnswerInput struct {
	QuestionID uint           `json:"question_id"`
	Value      datatypes.JSON `json:"value"`
}

// Legal survey status transitions: draft -> active -> completed.
var surveyTransitions = map[string]string{
	models.SurveyDraft:  models.SurveyActive,
	models.SurveyActive: models.SurveyCompleted,
}

// TransitionSurvey advances a survey along draft -> active -> completed.
func TransitionSurvey(surveyID uint, status string) error {
	var survey models.Survey

	if err := db.DB.First(&survey, surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError{Reason: "survey not found"}
		}
		return err
	}

	if surveyTransitions[survey.Status] != status {
		return ValidationError{Reason: "invalid survey status transition"}
	}

	return db.DB.Model(&survey).Update("status", status).Error
}

// SubmitSurveyResponse records one user's answers to an active survey. A
// user may respond to a survey at most once; the response is stamped
// completed in the same transaction that stores the answers.
func SubmitSurveyResponse(surveyID uint, userID uint, answers []SurveyAnswerInput) (*models.SurveyResponse, error) {
	var survey models.Survey

	if err := db.DB.Preload("Questions").First(&survey, surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Reason: "survey not found"}
		}
		return nil, err
	}

	if survey.Status != models.SurveyActive {
		return nil, ValidationError{Reason: "survey is not accepting responses"}
	}

	if len(answers) == 0 {
		return nil, ValidationError{Reason: "at least one answer is required"}
	}

	questionIDs := make(map[uint]bool, len(survey.Questions))

	for _, question := range survey.Questions {
		questionIDs[question.ID] = true
	}

	for _, answer := range answers {
		if !questionIDs[answer.QuestionID] {
			return nil, ValidationError{Reason: "answer references a question outside this survey"}
		}
	}

	var existing models.SurveyResponse

	err := db.DB.Where("survey_id = ? AND user_id = ?", surveyID, userID).First(&existing).Error

	if err == nil {
		return nil, ValidationError{Reason: "user has already responded to this survey"}
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()

	response := models.SurveyResponse{
		SurveyID:    surveyID,
		UserID:      userID,
		Completed:   true,
		CompletedAt: &now,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&response).Error; err != nil {
			return err
		}

		for _, answer := range answers {
			row := models.SurveyAnswer{
				ResponseID: response.ID,
				QuestionID: answer.QuestionID,
				Value:      answer.Value,
			}

			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &response, nil
}
