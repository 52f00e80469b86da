package api

import (
	"athleteiq/coaching-api/internal/service"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Success: false, Message: message})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindUnauthenticated, service.KindAccountDeactivated, service.KindInvalidCredentials:
		return http.StatusUnauthorized
	case service.KindForbidden, service.KindForbiddenRole:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithServiceError maps a service failure to its status. Internal causes
// are logged and never echoed.
func abortWithServiceError(c *gin.Context, err error) {
	se := service.AsError(err)
	status := statusFor(se.Kind)
	if status == http.StatusInternalServerError {
		loggerFrom(c).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("message", se.Message),
			zap.Error(se.Err))
	}
	abortWithError(c, status, se.Message)
}

func abortWithBindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
}

// paramObjectID parses a path parameter, aborting with 400 when malformed.
func paramObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseObjectID(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, service.ValidationError("Invalid %s", field)
	}
	return id, nil
}

func parseOptionalObjectID(field, raw string) (*primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseObjectID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. Empty input yields nil.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, service.ValidationError("Invalid %s, expected YYYY-MM-DD or RFC 3339", field)
}

func dateOrZero(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}
