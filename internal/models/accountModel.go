package models

import (
	"time"
)

type Account struct {
	UserID  uint64  `gorm:"primaryKey;autoIncrement:false"`
	Balance float64 `gorm:"type:decimal(20,8);not null;default:0"`

	// Calendar date of the last daily reward claim. Unix epoch means never.
	LastDailyClaim time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// NeverClaimed is the LastDailyClaim sentinel for accounts that have not
// claimed a daily reward yet.
var NeverClaimed = time.Unix(0, 0).UTC()

// AccountBalance is a leaderboard row.
type AccountBalance struct {
	UserID  uint64
	Balance float64
}
