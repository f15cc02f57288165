package httpapi

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/apperr"
	"github.com/mobiledorms/mobiledorms-api/internal/validate"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HandlerFunc is a route handler returning a classified error on failure.
type HandlerFunc func(c *gin.Context) error

// Wrap converts a HandlerFunc into a gin handler. Any returned error is
// classified here, at the single pipeline boundary, and never leaks past
// it.
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if errHandle := h(c); errHandle != nil {
			status, message := Classify(errHandle)
			logFailure(c, errHandle)
			Fail(c, status, message)
		}
	}
}

// Classify maps a failure to its HTTP status and caller-visible message.
// First match wins: validation, tagged kinds, persistence sentinels, then
// the catch-all.
func Classify(err error) (int, string) {
	var fieldErrs *validate.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, "Validation error: " + fieldErrs.Error()
	}

	var tagged *apperr.Error
	if errors.As(err, &tagged) {
		switch tagged.Kind {
		case apperr.KindValidation:
			return http.StatusBadRequest, tagged.Message
		case apperr.KindUnauthorized:
			return http.StatusUnauthorized, tagged.Message
		case apperr.KindForbidden:
			return http.StatusForbidden, tagged.Message
		case apperr.KindNotFound:
			return http.StatusNotFound, tagged.Message
		case apperr.KindConflict:
			return http.StatusConflict, tagged.Message
		}
		if tagged.Message != "" {
			return http.StatusInternalServerError, tagged.Message
		}
		return http.StatusInternalServerError, "Internal server error"
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return http.StatusConflict, "Duplicate entry"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "Record not found"
	}

	if message := err.Error(); message != "" {
		return http.StatusInternalServerError, message
	}
	return http.StatusInternalServerError, "Internal server error"
}

// logFailure writes the server-side failure log line. Nothing from it is
// returned to the caller.
func logFailure(c *gin.Context, err error) {
	log.WithFields(log.Fields{
		"error":  err.Error(),
		"stack":  string(debug.Stack()),
		"url":    c.Request.URL.String(),
		"method": c.Request.Method,
	}).Error("api request failed")
}
