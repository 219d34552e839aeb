package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionBank is the reusable definition of a question: what is asked, its
// type and its options (JSON array of option labels; choice answers refer to
// options by zero-based index).
type QuestionBank struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"question_bank_id"`
	Title        string         `gorm:"not null;column:title" json:"title"`
	Description  string         `gorm:"column:description" json:"description"`
	QuestionType QuestionType   `gorm:"not null;column:question_type" json:"question_type"`
	Options      datatypes.JSON `gorm:"column:options" json:"options"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuestionBank) TableName() string { return "question_bank" }

// Question joins a QuestionBank to one survey occurrence with a per-survey
// ordinal and required flag. A bank row belongs to at most one survey pairing.
type Question struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"question_id"`
	SurveyID       uuid.UUID `gorm:"type:uuid;index;not null;column:survey_id" json:"survey_id"`
	QuestionBankID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:question_bank_id" json:"question_bank_id"`
	QuestionNo     int       `gorm:"not null;column:question_no" json:"question_no"`
	IsRequired     bool      `gorm:"not null;column:is_required" json:"is_required"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "question" }
