package models

// TeamMember is a co-inventor attached to one application.
// Linked by the textual application identifier, not a foreign key.
type TeamMember struct {
	ID               uint   `gorm:"primaryKey"`
	ApplicationID    string `gorm:"size:32;index;not null"`
	MemberName       string `gorm:"size:128"`
	MemberRole       string `gorm:"size:64"`
	MemberDepartment string `gorm:"size:128"`
	MemberEmail      string `gorm:"size:128"`
}
