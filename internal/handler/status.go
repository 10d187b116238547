package handler

import (
	"net/http"
	"time"

	"patent-portal/internal/httperr"
	"patent-portal/internal/models"
	"patent-portal/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StatusHandler serves the aggregate counters and the status-transition
// endpoint.
type StatusHandler struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

func NewStatusHandler(db *gorm.DB, log *logrus.Logger) *StatusHandler {
	return &StatusHandler{DB: db, Log: log}
}

// Stats returns application counts per lifecycle stage. The four
// buckets partition the table, so they sum to the total row count.
func (h *StatusHandler) Stats(c *gin.Context) {
	counts := map[models.Status]int64{}
	for _, s := range []models.Status{
		models.StatusSubmitted,
		models.StatusFiled,
		models.StatusPublished,
		models.StatusGranted,
	} {
		var n int64
		if err := h.DB.Model(&models.Application{}).
			Where("status = ?", s).
			Count(&n).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "Failed to count applications")
			return
		}
		counts[s] = n
	}

	util.Success(c, util.Response{
		"stats": gin.H{
			"submitted": counts[models.StatusSubmitted],
			"filed":     counts[models.StatusFiled],
			"published": counts[models.StatusPublished],
			"granted":   counts[models.StatusGranted],
		},
	})
}

type updateStatusReq struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

// statusDateColumn maps a status to the timestamp column stamped when
// that status is reached. Submitted has no column of its own.
func statusDateColumn(s models.Status) string {
	switch s {
	case models.StatusFiled:
		return "filed_date"
	case models.StatusPublished:
		return "published_date"
	case models.StatusGranted:
		return "granted_date"
	}
	return ""
}

// UpdateStatus moves an application to a new lifecycle stage and stamps
// the matching date column.
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		herr := httperr.Validation("Missing application_id or status")
		util.Error(c, herr.Status(), herr.Message)
		return
	}
	if req.ApplicationID == "" || req.Status == "" {
		herr := httperr.Validation("Missing application_id or status")
		util.Error(c, herr.Status(), herr.Message)
		return
	}
	if !models.ValidStatus(req.Status) {
		herr := httperr.Validation("Invalid status")
		util.Error(c, herr.Status(), herr.Message)
		return
	}

	newStatus := models.Status(req.Status)
	updates := map[string]interface{}{"status": newStatus}
	if col := statusDateColumn(newStatus); col != "" {
		updates[col] = time.Now()
	}

	res := h.DB.Model(&models.Application{}).
		Where("application_id = ?", req.ApplicationID).
		Updates(updates)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "Error updating status: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		herr := httperr.NotFound("Application not found")
		util.Error(c, herr.Status(), herr.Message)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"application_id": req.ApplicationID,
		"status":         newStatus,
	}).Info("status updated")

	util.Success(c, util.Response{
		"message":        "Status updated to " + req.Status,
		"application_id": req.ApplicationID,
		"new_status":     req.Status,
	})
}
