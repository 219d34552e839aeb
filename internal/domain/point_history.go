package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserInitialPoint is the registration bonus written as a user's first
// ledger entry.
const UserInitialPoint = 50

// PointHistory is one immutable ledger entry. The latest row for a user is the
// authoritative current balance; rows are never updated or deleted.
// The autoincrement ID gives a total append order even when two entries share
// a timestamp.
type PointHistory struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Delta           int       `gorm:"not null;column:delta" json:"delta"`
	Balance         int       `gorm:"not null;column:balance" json:"balance"`
	TransactionDate time.Time `gorm:"index;not null;column:transaction_date" json:"transaction_date"`
}

func (PointHistory) TableName() string { return "point_history" }
