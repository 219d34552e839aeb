package domain

import (
	"time"

	"github.com/google/uuid"
)

// User carries identity only. The current point balance is derived from the
// latest point_history row and is intentionally not stored here.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	PhoneNumber string    `gorm:"column:phone_number" json:"phone_number"`
	Address     string    `gorm:"column:address" json:"address"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
