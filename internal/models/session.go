package models

import "time"

// Session stores user login sessions (for logout, invalidation, sweep).
// At most one live session per user: creating a new one replaces the
// old row, and the unique index on ComputingID backstops that rule
// under concurrent logins.
type Session struct {
	Token       string    `gorm:"primaryKey;size:64"` // 32 random bytes, hex
	ComputingID string    `gorm:"uniqueIndex;size:16;not null"`
	IssuedAt    time.Time `gorm:"index;not null"`

	User User `gorm:"foreignKey:ComputingID;references:ComputingID;constraint:OnDelete:CASCADE"`
}
