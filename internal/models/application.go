package models

import "time"

// Status is the lifecycle stage of a patent application.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusFiled     Status = "filed"
	StatusPublished Status = "published"
	StatusGranted   Status = "granted"
)

// ValidStatus reports whether s is one of the four lifecycle stages.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusSubmitted, StatusFiled, StatusPublished, StatusGranted:
		return true
	}
	return false
}

// GuestUserID is the owner sentinel for submissions without a session.
const GuestUserID = "GUEST"

// Application is a single patent submission record.
// ApplicationID is formatted from the auto-increment primary key
// ("UIC-PAT-<n>") inside the insert transaction, so suffixes are unique
// and strictly increasing without a read-then-parse step.
type Application struct {
	ID             uint   `gorm:"primaryKey"`
	ApplicationID  string `gorm:"size:32;uniqueIndex"`
	UserID         string `gorm:"size:64;index;not null"` // owner user_id or GUEST
	Name           string `gorm:"size:128"`
	Email          string `gorm:"size:128"`
	Department     string `gorm:"size:128"`
	Branch         string `gorm:"size:128"`
	ApplicantType  string `gorm:"size:32"`
	Contact        string `gorm:"size:32"`
	PatentTitle    string `gorm:"size:255;not null"`
	PatentType     string `gorm:"size:64;not null"`
	Description    string `gorm:"type:text"`
	Novelty        string `gorm:"type:text"`
	SubmissionDate time.Time
	Status         Status `gorm:"size:16;index;default:submitted"`

	// Stamped when the matching status is reached, otherwise null.
	FiledDate     *time.Time
	PublishedDate *time.Time
	GrantedDate   *time.Time
}
