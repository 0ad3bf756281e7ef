// Package apperr carries the API's error tiers: validation (400),
// not found (404) and everything else (logged, 500).
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Validation is a user-facing input error.
type Validation struct {
	Message string
}

func (e *Validation) Error() string { return e.Message }

// Invalid builds a Validation error.
func Invalid(format string, args ...interface{}) error {
	return &Validation{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// IsValidation reports whether err is (or wraps) a Validation error.
func IsValidation(err error) bool {
	var v *Validation
	return errors.As(err, &v)
}

// Respond writes err with the status of its tier. Unexpected errors are
// logged and answered with the generic message.
func Respond(c *gin.Context, err error, generic string) {
	var (
		v  *Validation
		nf *NotFoundError
	)
	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusBadRequest, gin.H{"error": v.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Log.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).WithError(err).Error(generic)
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}
