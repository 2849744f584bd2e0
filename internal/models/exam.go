package models

import "time"

// Exam is one exam-bank entry. The file itself lives on disk under the
// configured exam bank directory; only metadata is stored here.
type Exam struct {
	ID       uint   `gorm:"primaryKey"`
	Course   string `gorm:"index;size:32;not null"` // e.g. CMPT 225
	Year     int    `gorm:"not null"`
	Term     string `gorm:"size:16;not null"` // spring / summer / fall
	Kind     string `gorm:"size:32;not null"` // midterm / final / quiz
	Filename string `gorm:"size:255;not null"`

	UploadedBy string `gorm:"size:16"`
	CreatedAt  time.Time
}
