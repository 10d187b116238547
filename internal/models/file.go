package models

// Upload status values for FileRecord. The local copy is always the
// durable fallback; google_drive means the relay also succeeded.
const (
	FileStatusLocal = "local"
	FileStatusDrive = "google_drive"
)

// FileRecord tracks one uploaded attachment of an application.
type FileRecord struct {
	ID               uint   `gorm:"primaryKey"`
	ApplicationID    string `gorm:"size:32;index;not null"`
	FileName         string `gorm:"size:255"` // stored local filename
	FilePath         string `gorm:"size:512"`
	OriginalFilename string `gorm:"size:255"`
	DriveFileID      string `gorm:"size:128"`
	DriveURL         string `gorm:"size:512"`
	UploadStatus     string `gorm:"size:32;default:local"`
}

// TableName keeps the table name aligned with the rest of the schema.
func (FileRecord) TableName() string { return "files" }
