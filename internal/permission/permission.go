// Package permission holds the access policies for the API. Every policy is a
// pure function of the request method, the authenticated user (nil for
// anonymous requests) and, where relevant, the target object.
package permission

import (
	"net/http"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/pkg/apperror"
)

// Policy decides whether method may be performed by user.
type Policy func(method string, user *entity.User) error

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Feedback gates the review and comment collections: reads are open and
// anything else needs an authenticated user.
func Feedback(method string, user *entity.User) error {
	if isSafe(method) || user != nil {
		return nil
	}
	return apperror.ErrUnauthorized
}

// FeedbackObject gates a single review or comment. Writes are allowed to the
// author and to moderators and admins.
func FeedbackObject(method string, user *entity.User, authorID uint) error {
	if isSafe(method) {
		return nil
	}
	if user == nil {
		return apperror.ErrUnauthorized
	}
	if user.IsAdmin() || user.IsModerator() || user.ID == authorID {
		return nil
	}
	return apperror.ErrForbidden
}

// Identity gates user management. A plain user may only PATCH when the
// submitted username is their own; everything else is reserved to admins,
// staff and superusers.
func Identity(method string, user *entity.User, submittedUsername *string) error {
	if user == nil {
		return apperror.ErrUnauthorized
	}
	if method == http.MethodPatch && user.IsPlainUser() {
		if submittedUsername != nil && *submittedUsername == user.Username {
			return nil
		}
		return apperror.ErrForbidden
	}
	if user.IsSuperuser || user.IsAdmin() || user.IsStaff {
		return nil
	}
	return apperror.ErrForbidden
}

// Catalog gates categories, genres and titles: reads are open, writes need an
// admin or superuser.
func Catalog(method string, user *entity.User) error {
	if isSafe(method) {
		return nil
	}
	if user == nil {
		return apperror.ErrUnauthorized
	}
	if user.IsAdmin() || user.IsSuperuser {
		return nil
	}
	return apperror.ErrForbidden
}

// IdentityPolicy adapts Identity for routes that carry no username payload.
func IdentityPolicy(method string, user *entity.User) error {
	return Identity(method, user, nil)
}
