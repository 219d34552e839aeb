package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Survey owns its questions and participations (cascade on delete). The
// required certification set is stored on the row as a JSON array of
// CertificationType values; an empty requirement is persisted as ["NONE"].
// Relationships are resolved through repositories by id, never through
// embedded object references.
type Survey struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"survey_id"`
	AuthorID           uuid.UUID      `gorm:"type:uuid;index;not null;column:author_id" json:"author_id"`
	Title              string         `gorm:"not null;column:title" json:"title"`
	Description        string         `gorm:"column:description" json:"description"`
	StartedDate        time.Time      `gorm:"not null;column:started_date" json:"started_date"`
	EndedDate          time.Time      `gorm:"not null;column:ended_date" json:"ended_date"`
	CertificationTypes datatypes.JSON `gorm:"column:certification_types" json:"certification_types"`

	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Survey) TableName() string { return "survey" }
