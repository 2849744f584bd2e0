package models

import "time"

// OfficerTerm is one assignment of a person to a position for an
// interval. EndDate nil means the term is open-ended (current).
// A person may hold several concurrent terms in different positions.
type OfficerTerm struct {
	ID          uint       `gorm:"primaryKey"`
	ComputingID string     `gorm:"index;size:16;not null"`
	Position    string     `gorm:"index;size:64;not null"`
	StartDate   time.Time  `gorm:"index;not null"`
	EndDate     *time.Time `gorm:"index"`

	// term-specific profile fields, filled in by the officer
	Nickname        string `gorm:"size:64"`
	FavouriteCourse string `gorm:"size:64"`
	Biography       string `gorm:"type:text"`
	PhotoURL        string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:ComputingID;references:ComputingID;constraint:OnDelete:CASCADE"`
}
