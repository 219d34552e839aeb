package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnsweredQuestion is one submitted answer row. Single/short/long answers are
// one row per question; a multiple-choice answer fans out to one row per
// selected option (stored in MultipleChoice). Rows are created during
// submission and never updated.
type AnsweredQuestion struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID       uuid.UUID    `gorm:"type:uuid;index;not null;column:survey_id" json:"survey_id"`
	UserID         uuid.UUID    `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	QuestionBankID uuid.UUID    `gorm:"type:uuid;index;not null;column:question_bank_id" json:"question_bank_id"`
	QuestionType   QuestionType `gorm:"not null;column:question_type" json:"question_type"`
	SingleChoice   *int         `gorm:"column:single_choice" json:"single_choice,omitempty"`
	MultipleChoice *int         `gorm:"column:multiple_choice" json:"multiple_choice,omitempty"`
	ShortAnswer    string       `gorm:"column:short_answer" json:"short_answer,omitempty"`
	LongAnswer     string       `gorm:"column:long_answer" json:"long_answer,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AnsweredQuestion) TableName() string { return "answered_question" }
