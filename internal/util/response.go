package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response holds the extra payload of a success envelope.
type Response map[string]interface{}

// Success writes the {success: true, ...} envelope with data merged in.
func Success(c *gin.Context, data Response) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error writes the {success: false, message: ...} envelope.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"message": msg,
	})
}

// ErrorWith is Error plus extra fields (e.g. a redirect hint).
func ErrorWith(c *gin.Context, httpStatus int, msg string, extra Response) {
	body := gin.H{"success": false, "message": msg}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(httpStatus, body)
}
