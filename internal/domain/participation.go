package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participation records that a user satisfied a survey's entry requirements,
// one row per certification type used to qualify. The existence of any row
// for (survey, user) means the user has responded (or authored) the survey.
type Participation struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID          uuid.UUID         `gorm:"type:uuid;index:idx_participation_survey_user;not null;column:survey_id" json:"survey_id"`
	UserID            uuid.UUID         `gorm:"type:uuid;index:idx_participation_survey_user;not null;column:user_id" json:"user_id"`
	CertificationType CertificationType `gorm:"not null;column:certification_type" json:"certification_type"`
	ParticipateDate   time.Time         `gorm:"not null;column:participate_date" json:"participate_date"`
}

func (Participation) TableName() string { return "participation" }
