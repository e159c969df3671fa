package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SurveyDraft     = "draft"
	SurveyActive    = "active"
	SurveyCompleted = "completed"
)

type Survey struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:draft"`

	// Relationships
	Questions []SurveyQuestion `gorm:"foreignKey:SurveyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Responses []SurveyResponse `gorm:"foreignKey:SurveyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type SurveyQuestion struct {
	gorm.Model

	SurveyID uint   `gorm:"not null;index"`
	Prompt   string `gorm:"not null"`
	Kind     string `gorm:"not null"` // "text", "rating", "choice"
	Position int    `gorm:"not null"`

	// Relationships
	Survey  Survey         `gorm:"foreignKey:SurveyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Answers []SurveyAnswer `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// SurveyResponse is unique per (survey, user) and transitions to completed
// exactly once, stamping CompletedAt.
type SurveyResponse struct {
	gorm.Model

	SurveyID    uint `gorm:"not null;uniqueIndex:idx_survey_responses_user"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_survey_responses_user"`
	Completed   bool `gorm:"not null;default:false"`
	CompletedAt *time.Time

	// Relationships
	Survey  Survey         `gorm:"foreignKey:SurveyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User           `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Answers []SurveyAnswer `gorm:"foreignKey:ResponseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type SurveyAnswer struct {
	gorm.Model

	ResponseID uint           `gorm:"not null;index"`
	QuestionID uint           `gorm:"not null;index"`
	Value      datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Response SurveyResponse `gorm:"foreignKey:ResponseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Question SurveyQuestion `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
