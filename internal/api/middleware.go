package api

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/service"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Constants for context keys
const (
	ContextUserKey      = "user"
	ContextUserIDKey    = "userID"
	ContextUserRoleKey  = "userRole"
	ContextLoggerKey    = "logger"
	ContextRequestIDKey = "requestID"

	RequestIDHeader = "X-Request-ID"
)

// RequestLogger tags each request with an id and logs it once it completes.
// Handlers reach the request-scoped logger through loggerFrom.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Set(ContextLoggerKey, logger.With(zap.String("request_id", requestID)))

		c.Next()

		logger.Info("Request",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", c.Request.Method),
			zap.String("request_id", requestID),
		)
	}
}

// Recovery turns panics into a 500 envelope and logs them.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"))
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	})
}

func loggerFrom(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ContextLoggerKey); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}

// AuthMiddleware resolves the bearer token to an active user.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithServiceError(c, service.ErrUnauthenticated)
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithServiceError(c, service.ErrUnauthenticated)
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserRoleKey, user.Role)
		c.Next()
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if err := service.Authorize(user, allowedRoles...); err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*domain.User, error) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, errors.New("user not found in context")
	}
	user, ok := raw.(*domain.User)
	if !ok {
		return nil, errors.New("invalid user type in context")
	}
	return user, nil
}

// currentUserID returns the caller's id. It aborts with 401 if the auth
// middleware did not run.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	id, ok := raw.(primitive.ObjectID)
	if !exists || !ok {
		abortWithServiceError(c, service.ErrUnauthenticated)
		return primitive.NilObjectID, false
	}
	return id, true
}
