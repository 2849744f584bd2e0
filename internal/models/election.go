package models

import "time"

// Election timestamps must satisfy NominationStart <= VotingStart <=
// VotingEnd; the lifecycle phase is always derived from these against
// the current time, never stored.
type Election struct {
	Slug string `gorm:"primaryKey;size:64"` // derived from Name, never changes
	Name string `gorm:"size:128;not null"`
	Type string `gorm:"size:32;not null"` // general / by_election / council_rep

	NominationStart time.Time `gorm:"not null"`
	VotingStart     time.Time `gorm:"not null"`
	VotingEnd       time.Time `gorm:"not null"`

	AvailablePositions []string `gorm:"serializer:json"`
	SurveyLink         string   `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NomineeInfo is a person's candidate profile, shared across elections.
// It must exist before the person can register in any election.
type NomineeInfo struct {
	ComputingID string `gorm:"primaryKey;size:16"`
	FullName    string `gorm:"size:128;not null"`
	Email       string `gorm:"size:128"`
	Discord     string `gorm:"size:64"`

	User User `gorm:"foreignKey:ComputingID;references:ComputingID;constraint:OnDelete:CASCADE"`
}

// Registration is one candidacy: (person, election, position).
// The composite unique index is the real duplicate-registration
// guarantee; the service-level check only exists for error messages.
type Registration struct {
	ID           uint   `gorm:"primaryKey"`
	ComputingID  string `gorm:"uniqueIndex:idx_reg_unique;size:16;not null"`
	ElectionSlug string `gorm:"uniqueIndex:idx_reg_unique;index;size:64;not null"`
	Position     string `gorm:"uniqueIndex:idx_reg_unique;size:64;not null"`
	Speech       string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Both foreign keys live on this table; without the explicit
	// references the ComputingID field name on both sides makes GORM
	// guess a has-one owned by the parent instead.
	Election Election    `gorm:"foreignKey:ElectionSlug;references:Slug;constraint:OnDelete:CASCADE"`
	Nominee  NomineeInfo `gorm:"foreignKey:ComputingID;references:ComputingID;constraint:OnDelete:CASCADE"`
}
