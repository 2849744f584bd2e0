package models

import "time"

// BlogPost is a society news/announcement post.
type BlogPost struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"uniqueIndex;size:64;not null"`
	Title     string `gorm:"size:128;not null"`
	HTML      string `gorm:"type:text"`
	CreatedBy string `gorm:"size:16;not null"` // computing ID of the author
	CreatedAt time.Time
	UpdatedAt time.Time
}
