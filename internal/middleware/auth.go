package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/permission"
	"anoa.com/yamdb/pkg/apperror"
	"anoa.com/yamdb/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserFinder loads the account a bearer token was issued for.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenParser turns a bearer token into a user id.
type TokenParser interface {
	Parse(tokenString string) (uint, error)
}

type AuthMiddleware struct {
	users  UserFinder
	tokens TokenParser
}

func NewAuthMiddleware(users UserFinder, tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{users: users, tokens: tokens}
}

var errInvalidToken = apperror.New(http.StatusUnauthorized, "invalid or expired token", apperror.ErrUnauthorized)

// Authenticate resolves the bearer token, if any, and stores the user in the
// context. Requests without an Authorization header continue anonymously; a
// header that does not carry a valid token is rejected.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ResponseError(c, errInvalidToken)
			return
		}

		userID, err := m.tokens.Parse(parts[1])
		if err != nil {
			response.ResponseError(c, errInvalidToken)
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.ResponseError(c, apperror.New(http.StatusUnauthorized, "user not found", apperror.ErrUnauthorized))
				return
			}
			response.ResponseError(c, err)
			return
		}

		c.Set(response.UserKey, user)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if response.CurrentUser(c) == nil {
			response.ResponseError(c, apperror.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// Authorize applies a method level policy before the handler runs.
func Authorize(policy permission.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy(c.Request.Method, response.CurrentUser(c)); err != nil {
			response.ResponseError(c, err)
			return
		}
		c.Next()
	}
}
