package models

import "time"

// User represents a registered applicant or staff member.
type User struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           string    `gorm:"size:64;uniqueIndex;not null"` // e.g. UIC-USER-20250115-A1B2C3
	Name             string    `gorm:"size:128;not null"`
	Email            string    `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash     string    `gorm:"size:255;not null"`
	UserType         string    `gorm:"size:32;not null"` // student / faculty / staff
	Department       string    `gorm:"size:128"`
	Branch           string    `gorm:"size:128"`
	Contact          string    `gorm:"size:32"`
	RegistrationDate time.Time
	IsActive         bool `gorm:"default:true"`
}
