package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
)

// ErrorDetail carries the machine-readable error code.
type ErrorDetail struct {
	Code string `json:"code"`
}

// Envelope mirrors the platform API contract so the browser sees one shape end to end.
type Envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Data       interface{}            `json:"data,omitempty"`
	Error      *ErrorDetail           `json:"error,omitempty"`
	Timestamp  string                 `json:"timestamp"`
	StatusCode int                    `json:"statusCode"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{
		Success:    true,
		Data:       data,
		Timestamp:  now(),
		StatusCode: status,
	}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Message sends a success response carrying only a message.
func Message(c *gin.Context, status int, message string) {
	noStore(c)
	c.JSON(status, Envelope{Success: true, Message: message, Timestamp: now(), StatusCode: status})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	Failure(c, appErr.Status, appErr.Message, appErr.Code, nil)
}

// Failure writes an unsuccessful envelope with an explicit status, message and code.
func Failure(c *gin.Context, status int, message, code string, meta map[string]interface{}) {
	noStore(c)
	envelope := Envelope{
		Success:    false,
		Message:    message,
		Timestamp:  now(),
		StatusCode: status,
		Meta:       meta,
	}
	if code != "" {
		envelope.Error = &ErrorDetail{Code: code}
	}
	c.JSON(status, envelope)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
