package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"patent-portal/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func sheetConfig(url string) config.RelayConfig {
	return config.RelayConfig{Sheets: config.RelayEndpoint{Enabled: true, URL: url}}
}

func driveConfig(url string) config.RelayConfig {
	return config.RelayConfig{Drive: config.RelayEndpoint{Enabled: true, URL: url}}
}

func sampleRow() SheetRow {
	return SheetRow{
		ApplicationID: "UIC-PAT-7",
		FullName:      "Asha Rao",
		Email:         "asha@example.edu",
		Department:    "ECE",
		Branch:        "Embedded Systems",
		ApplicantType: "faculty",
		ContactNo:     "9876543210",
		PatentTitle:   "Adaptive Antenna Array",
		PatentType:    "utility",
		Members: []Member{
			{Name: "Meera", Role: "co-inventor", Department: "ECE", Email: "meera@example.edu"},
		},
	}
}

func TestSendSheetRow_FlattensMembers(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(sheetConfig(srv.URL), quietLogger(), srv.Client())
	ok, err := c.SendSheetRow(context.Background(), sampleRow())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "UIC-PAT-7", got["applicationId"])
	assert.Equal(t, "Meera", got["member1Name"])
	assert.Equal(t, "co-inventor", got["member1Role"])
	// unused member slots are present but blank so columns line up
	assert.Equal(t, "", got["member2Name"])
	assert.Contains(t, got, "member5Email")
}

func TestSendSheetRow_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "quota exceeded"})
	}))
	defer srv.Close()

	c := New(sheetConfig(srv.URL), quietLogger(), srv.Client())
	ok, err := c.SendSheetRow(context.Background(), sampleRow())

	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSendSheetRow_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(sheetConfig(srv.URL), quietLogger(), srv.Client())
	ok, err := c.SendSheetRow(context.Background(), sampleRow())

	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSendSheetRow_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := New(sheetConfig(srv.URL), quietLogger(), srv.Client())
	ok, err := c.SendSheetRow(context.Background(), sampleRow())

	assert.False(t, ok)
	assert.Error(t, err)
}

func TestSendSheetRow_Disabled(t *testing.T) {
	c := New(config.RelayConfig{}, quietLogger(), nil)
	ok, err := c.SendSheetRow(context.Background(), sampleRow())

	require.NoError(t, err)
	assert.False(t, ok, "disabled sync reports not-synced")
}

func TestSendSheetRow_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := srv.Client()
	srv.Close()

	c := New(sheetConfig(srv.URL), quietLogger(), client)
	ok, err := c.SendSheetRow(context.Background(), sampleRow())

	assert.False(t, ok)
	assert.Error(t, err)
}

func TestUploadFile_Success(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"fileId":  "drv-42",
			"fileUrl": "https://drive.example.com/drv-42",
		})
	}))
	defer srv.Close()

	c := New(driveConfig(srv.URL), quietLogger(), srv.Client())
	df, err := c.UploadFile(context.Background(), FileUpload{
		ApplicationID:    "UIC-PAT-7",
		OriginalFilename: "claims.pdf",
		Content:          []byte("%PDF-1.4"),
	})

	require.NoError(t, err)
	assert.Equal(t, "drv-42", df.FileID)
	assert.Equal(t, "https://drive.example.com/drv-42", df.URL)

	assert.Equal(t, "UIC-PAT-7_claims.pdf", got["fileName"])
	assert.Equal(t, "application/pdf", got["mimeType"])
	decoded, err := base64.StdEncoding.DecodeString(got["fileData"])
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(decoded))
}

func TestUploadFile_UnknownExtensionDefaultsToPDF(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(driveConfig(srv.URL), quietLogger(), srv.Client())
	_, err := c.UploadFile(context.Background(), FileUpload{
		ApplicationID:    "UIC-PAT-7",
		OriginalFilename: "mystery.xyz123",
		Content:          []byte("data"),
	})

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got["mimeType"])
}

func TestUploadFile_Disabled(t *testing.T) {
	c := New(config.RelayConfig{}, quietLogger(), nil)
	df, err := c.UploadFile(context.Background(), FileUpload{
		ApplicationID:    "UIC-PAT-7",
		OriginalFilename: "claims.pdf",
	})

	assert.Nil(t, df)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestUploadFile_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(driveConfig(srv.URL), quietLogger(), srv.Client())
	df, err := c.UploadFile(context.Background(), FileUpload{
		ApplicationID:    "UIC-PAT-7",
		OriginalFilename: "claims.pdf",
		Content:          []byte("%PDF-1.4"),
	})

	assert.Nil(t, df)
	assert.Error(t, err)
}
