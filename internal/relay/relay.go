// Package relay implements the best-effort webhook mirrors: a
// spreadsheet row append and a document-store file upload, both POSTing
// JSON to externally hosted Apps Script endpoints. Neither target is
// authoritative; every failure is returned to the caller as a value and
// the local database remains the source of truth.
package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"patent-portal/internal/config"

	"github.com/sirupsen/logrus"
)

const (
	defaultSheetTimeout = 10 * time.Second
	defaultDriveTimeout = 30 * time.Second

	// maxTeamMembers is how many member slots the spreadsheet has.
	maxTeamMembers = 5
)

// Member is one team-member entry flattened into the sheet row.
type Member struct {
	Name       string
	Role       string
	Department string
	Email      string
}

// SheetRow is the application summary appended to the spreadsheet.
type SheetRow struct {
	ApplicationID string
	FullName      string
	Email         string
	Department    string
	Branch        string
	ApplicantType string
	ContactNo     string
	PatentTitle   string
	PatentType    string
	Members       []Member
}

// FileUpload is one attachment forwarded to the document store.
type FileUpload struct {
	ApplicationID    string
	OriginalFilename string
	Content          []byte
}

// DriveFile describes a successfully relayed attachment.
type DriveFile struct {
	FileID string
	URL    string
}

// Client POSTs to the configured webhook endpoints. Construct with New;
// the zero value is unusable.
type Client struct {
	cfg    config.RelayConfig
	log    *logrus.Logger
	sheets *http.Client
	drive  *http.Client
}

// New builds a relay client from configuration. httpClient overrides
// the underlying transport for both endpoints when non-nil (tests).
func New(cfg config.RelayConfig, log *logrus.Logger, httpClient *http.Client) *Client {
	c := &Client{cfg: cfg, log: log}

	if httpClient != nil {
		c.sheets = httpClient
		c.drive = httpClient
		return c
	}

	sheetTimeout := defaultSheetTimeout
	if cfg.Sheets.TimeoutSeconds > 0 {
		sheetTimeout = time.Duration(cfg.Sheets.TimeoutSeconds) * time.Second
	}
	driveTimeout := defaultDriveTimeout
	if cfg.Drive.TimeoutSeconds > 0 {
		driveTimeout = time.Duration(cfg.Drive.TimeoutSeconds) * time.Second
	}

	c.sheets = &http.Client{Timeout: sheetTimeout}
	c.drive = &http.Client{Timeout: driveTimeout}
	return c
}

// scriptResponse is the common Apps Script reply shape.
type scriptResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	FileID  string `json:"fileId"`
	FileURL string `json:"fileUrl"`
}

// SendSheetRow appends the application summary to the spreadsheet.
// A disabled sheets endpoint is reported as not-synced, without error.
func (c *Client) SendSheetRow(ctx context.Context, row SheetRow) (bool, error) {
	if !c.cfg.Sheets.Enabled {
		return false, nil
	}
	if c.cfg.Sheets.URL == "" {
		return false, fmt.Errorf("sheets relay URL not configured")
	}

	payload := map[string]string{
		"applicationId": row.ApplicationID,
		"fullName":      row.FullName,
		"email":         row.Email,
		"department":    row.Department,
		"branch":        row.Branch,
		"applicantType": row.ApplicantType,
		"contactNo":     row.ContactNo,
		"patentTitle":   row.PatentTitle,
		"patentType":    row.PatentType,
	}

	// up to five member slots, blanks for the rest so columns line up
	for i := 1; i <= maxTeamMembers; i++ {
		var m Member
		if i <= len(row.Members) {
			m = row.Members[i-1]
		}
		payload[fmt.Sprintf("member%dName", i)] = m.Name
		payload[fmt.Sprintf("member%dRole", i)] = m.Role
		payload[fmt.Sprintf("member%dDepartment", i)] = m.Department
		payload[fmt.Sprintf("member%dEmail", i)] = m.Email
	}

	resp, err := c.post(ctx, c.sheets, c.cfg.Sheets.URL, payload)
	if err != nil {
		return false, err
	}
	if !resp.Success {
		return false, fmt.Errorf("sheet append rejected: %s", resp.Error)
	}

	c.log.WithField("application_id", row.ApplicationID).Info("sheet row appended")
	return true, nil
}

// UploadFile forwards one attachment, base64-encoded, to the document
// store and returns its external identifiers.
func (c *Client) UploadFile(ctx context.Context, up FileUpload) (*DriveFile, error) {
	if !c.cfg.Drive.Enabled {
		return nil, fmt.Errorf("drive relay disabled")
	}
	if c.cfg.Drive.URL == "" {
		return nil, fmt.Errorf("drive relay URL not configured")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(up.OriginalFilename))
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	payload := map[string]string{
		"fileName":      fmt.Sprintf("%s_%s", up.ApplicationID, up.OriginalFilename),
		"fileData":      base64.StdEncoding.EncodeToString(up.Content),
		"mimeType":      mimeType,
		"applicationId": up.ApplicationID,
	}

	resp, err := c.post(ctx, c.drive, c.cfg.Drive.URL, payload)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("drive upload rejected: %s", resp.Error)
	}

	c.log.WithFields(logrus.Fields{
		"application_id": up.ApplicationID,
		"file":           up.OriginalFilename,
		"url":            resp.FileURL,
	}).Info("file relayed to drive")

	return &DriveFile{FileID: resp.FileID, URL: resp.FileURL}, nil
}

func (c *Client) post(ctx context.Context, hc *http.Client, url string, payload any) (*scriptResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var sr scriptResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &sr, nil
}
