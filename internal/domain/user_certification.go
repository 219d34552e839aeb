package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserCertification is a held certification with an expiry. Expired rows are
// purged by the scheduled cleanup job.
type UserCertification struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID         `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	CertificationType CertificationType `gorm:"not null;column:certification_type" json:"certification_type"`
	CertificationDate time.Time         `gorm:"not null;column:certification_date" json:"certification_date"`
	ExpirationDate    time.Time         `gorm:"index;not null;column:expiration_date" json:"expiration_date"`
}

func (UserCertification) TableName() string { return "user_certification" }
