package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"patent-portal/internal/config"
	"patent-portal/internal/httperr"
	"patent-portal/internal/middleware"
	"patent-portal/internal/models"
	"patent-portal/internal/relay"
	"patent-portal/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ApplicationHandler owns the patent submission endpoint.
type ApplicationHandler struct {
	DB     *gorm.DB
	Upload config.UploadConfig
	Relay  *relay.Client
	Log    *logrus.Logger
}

func NewApplicationHandler(db *gorm.DB, upload config.UploadConfig, rc *relay.Client, log *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{DB: db, Upload: upload, Relay: rc, Log: log}
}

// applicationIDPrefix is the human-readable identifier prefix; the
// numeric suffix comes from the auto-increment primary key.
const applicationIDPrefix = "UIC-PAT"

// memberReq mirrors one element of the optional "members" form field.
type memberReq struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

// savedFile carries a stored attachment through the relay phase.
type savedFile struct {
	record  models.FileRecord
	content []byte
}

// fileInfo is the per-file slice of the submission response.
type fileInfo struct {
	OriginalFilename string `json:"originalFilename"`
	LocalFilename    string `json:"localFilename"`
	UploadStatus     string `json:"uploadStatus"`
	DriveURL         string `json:"driveUrl,omitempty"`
}

// Submit handles POST /submit: validate, resolve identity, insert the
// application with its team members and files in one transaction, then
// attempt the best-effort drive and sheet relays. Relay failures never
// fail the submission; the local rows are authoritative.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	if herr := requireSubmitFields(c); herr != nil {
		util.Error(c, herr.Status(), herr.Message)
		return
	}

	app := h.buildApplication(c)
	members := parseMembers(c.PostForm("members"))

	var uploads []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		uploads = form.File["files"]
	}

	var (
		saved   []*savedFile
		written []string
	)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// the identifier is derived from the auto-increment key, so
		// concurrent submissions cannot collide
		if err := tx.Create(app).Error; err != nil {
			return fmt.Errorf("insert application: %w", err)
		}
		app.ApplicationID = fmt.Sprintf("%s-%d", applicationIDPrefix, app.ID)
		if err := tx.Model(app).Update("application_id", app.ApplicationID).Error; err != nil {
			return fmt.Errorf("assign application id: %w", err)
		}

		for _, m := range members {
			row := models.TeamMember{
				ApplicationID:    app.ApplicationID,
				MemberName:       m.Name,
				MemberRole:       m.Role,
				MemberDepartment: m.Department,
				MemberEmail:      m.Email,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert team member: %w", err)
			}
		}

		for _, fh := range uploads {
			if fh == nil || fh.Filename == "" {
				continue
			}
			if !util.AllowedFile(fh.Filename, h.Upload.AllowedExt) {
				h.Log.WithField("file", fh.Filename).Warn("skipping file with disallowed extension")
				continue
			}
			sf, err := h.storeFile(tx, app.ApplicationID, fh)
			if sf != nil {
				// track the written path so a rollback can reclaim it
				written = append(written, sf.record.FilePath)
			}
			if err != nil {
				return err
			}
			saved = append(saved, sf)
		}
		return nil
	})
	if err != nil {
		// the rows rolled back; remove the now-orphaned local copies
		for _, p := range written {
			if rmErr := os.Remove(p); rmErr != nil {
				h.Log.WithError(rmErr).WithField("path", p).Warn("failed to remove orphaned upload")
			}
		}
		h.Log.WithError(err).Error("submission failed")
		herr := httperr.Internal("Error submitting application: " + err.Error())
		util.Error(c, herr.Status(), herr.Message)
		return
	}

	driveFiles, localFiles := h.relayFiles(c, saved)
	sheetOK := h.relaySheetRow(c, app, members)

	h.Log.WithFields(logrus.Fields{
		"application_id": app.ApplicationID,
		"files":          len(saved),
		"sheet_sync":     sheetOK,
	}).Info("application submitted")

	util.Success(c, util.Response{
		"applicationId":    app.ApplicationID,
		"message":          "Patent application submitted successfully!",
		"googleSheetSync":  sheetOK,
		"filesUploaded":    len(saved),
		"googleDriveFiles": driveFiles,
		"localFiles":       localFiles,
	})
}

func requireSubmitFields(c *gin.Context) *httperr.Error {
	var missing []string
	for _, field := range []string{"patentTitle", "patentType"} {
		if strings.TrimSpace(c.PostForm(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return httperr.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// buildApplication resolves the submitting identity. Logged-in users
// default blank contact fields from their profile; sessionless requests
// get the guest placeholders.
func (h *ApplicationHandler) buildApplication(c *gin.Context) *models.Application {
	form := func(key string) string { return strings.TrimSpace(c.PostForm(key)) }
	pick := func(val, fallback string) string {
		if val != "" {
			return val
		}
		return fallback
	}

	app := &models.Application{
		PatentTitle:    form("patentTitle"),
		PatentType:     form("patentType"),
		Description:    form("description"),
		Novelty:        form("novelty"),
		SubmissionDate: time.Now(),
		Status:         models.StatusSubmitted,
	}

	if user := middleware.CurrentUser(c); user != nil {
		app.UserID = user.UserID
		app.Name = pick(form("name"), user.Name)
		app.Email = pick(form("email"), user.Email)
		app.Department = pick(form("department"), user.Department)
		app.Branch = pick(form("branch"), user.Branch)
		app.ApplicantType = form("applicantType")
		app.Contact = pick(form("contact"), user.Contact)
		return app
	}

	app.UserID = models.GuestUserID
	app.Name = pick(form("name"), "Guest User")
	app.Email = pick(form("email"), "guest@example.com")
	app.Department = pick(form("department"), "Not Specified")
	app.Branch = pick(form("branch"), "Not Specified")
	app.ApplicantType = pick(form("applicantType"), "student")
	app.Contact = pick(form("contact"), "Not Provided")
	return app
}

// parseMembers decodes the optional JSON member list. A malformed
// payload yields zero members rather than a rejection.
func parseMembers(raw string) []memberReq {
	if raw == "" {
		return nil
	}
	var members []memberReq
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		return nil
	}
	return members
}

// storeFile writes the upload under the configured directory as
// <applicationId>_<timestamp>_<sanitizedName> and records it with
// status local. When the row insert fails the savedFile is still
// returned alongside the error so the caller can reclaim the bytes.
func (h *ApplicationHandler) storeFile(tx *gorm.DB, applicationID string, fh *multipart.FileHeader) (*savedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}

	if err := os.MkdirAll(h.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	localName := fmt.Sprintf("%s_%s_%s",
		applicationID,
		time.Now().Format("20060102_150405"),
		util.SanitizeFilename(fh.Filename),
	)
	path := filepath.Join(h.Upload.Dir, localName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("save upload %s: %w", fh.Filename, err)
	}

	record := models.FileRecord{
		ApplicationID:    applicationID,
		FileName:         localName,
		FilePath:         path,
		OriginalFilename: fh.Filename,
		UploadStatus:     models.FileStatusLocal,
	}
	sf := &savedFile{record: record, content: content}
	if err := tx.Create(&sf.record).Error; err != nil {
		return sf, fmt.Errorf("insert file record: %w", err)
	}

	return sf, nil
}

// relayFiles forwards each stored attachment to the document store.
// Success flips the row to google_drive; any failure leaves it local.
func (h *ApplicationHandler) relayFiles(c *gin.Context, saved []*savedFile) (drive, local []fileInfo) {
	drive = []fileInfo{}
	local = []fileInfo{}

	for _, sf := range saved {
		info := fileInfo{
			OriginalFilename: sf.record.OriginalFilename,
			LocalFilename:    sf.record.FileName,
			UploadStatus:     sf.record.UploadStatus,
		}

		df, err := h.Relay.UploadFile(c.Request.Context(), relay.FileUpload{
			ApplicationID:    sf.record.ApplicationID,
			OriginalFilename: sf.record.OriginalFilename,
			Content:          sf.content,
		})
		if err != nil {
			// local copy is the durable fallback
			h.Log.WithError(err).WithField("file", sf.record.OriginalFilename).
				Warn("drive relay failed, keeping local copy")
			local = append(local, info)
			continue
		}

		updates := map[string]interface{}{
			"upload_status": models.FileStatusDrive,
			"drive_file_id": df.FileID,
			"drive_url":     df.URL,
		}
		if err := h.DB.Model(&models.FileRecord{}).
			Where("id = ?", sf.record.ID).
			Updates(updates).Error; err != nil {
			h.Log.WithError(err).Warn("failed to record drive url")
			local = append(local, info)
			continue
		}

		info.UploadStatus = models.FileStatusDrive
		info.DriveURL = df.URL
		drive = append(drive, info)
	}
	return drive, local
}

// relaySheetRow appends the application summary to the spreadsheet
// mirror and reports the outcome as a flag, never as a failure.
func (h *ApplicationHandler) relaySheetRow(c *gin.Context, app *models.Application, members []memberReq) bool {
	row := relay.SheetRow{
		ApplicationID: app.ApplicationID,
		FullName:      app.Name,
		Email:         app.Email,
		Department:    app.Department,
		Branch:        app.Branch,
		ApplicantType: app.ApplicantType,
		ContactNo:     app.Contact,
		PatentTitle:   app.PatentTitle,
		PatentType:    app.PatentType,
	}
	for _, m := range members {
		row.Members = append(row.Members, relay.Member{
			Name:       m.Name,
			Role:       m.Role,
			Department: m.Department,
			Email:      m.Email,
		})
	}

	ok, err := h.Relay.SendSheetRow(c.Request.Context(), row)
	if err != nil {
		h.Log.WithError(err).WithField("application_id", app.ApplicationID).
			Warn("sheet sync failed")
		return false
	}
	return ok
}
