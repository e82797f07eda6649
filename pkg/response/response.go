package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/pkg/apperror"
	"anoa.com/yamdb/pkg/ratelimiter"
	"anoa.com/yamdb/pkg/validator"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key the auth middleware stores the caller under.
const UserKey = "user"

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *entity.User {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil
	}
	user, _ := v.(*entity.User)
	return user
}

// RequireUser is CurrentUser for handlers behind RequireAuth.
func RequireUser(c *gin.Context) (*entity.User, error) {
	user := CurrentUser(c)
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}

// ParseID reads a numeric path parameter. A malformed id names no resource,
// so it is reported as not found.
func ParseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound("%s not found", strings.TrimSuffix(name, "_id"))
	}
	return uint(id), nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	var rle *ratelimiter.RateLimitError
	if errors.As(err, &rle) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rle.RetryAfter.Seconds()))
	}

	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "internal error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		c.AbortWithStatusJSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// BindingError answers a request whose body or query failed to bind.
func BindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
