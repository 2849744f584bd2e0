package models

import "time"

// User represents a person who has logged in at least once via CAS.
// The campus computing ID (e.g. "jdo12") is the primary key; there is
// no local password, authentication is delegated to CAS entirely.
type User struct {
	ComputingID string    `gorm:"primaryKey;size:16"`
	FirstSeenAt time.Time `gorm:"not null"`
	LastSeenAt  time.Time `gorm:"not null"`
	DisplayName string    `gorm:"size:64"`
	ProfileURL  string    `gorm:"size:255"`
}
