package permission

import (
	"net/http"
	"testing"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func user(id uint, role string) *entity.User {
	return &entity.User{ID: id, Username: "user" + role, Role: role}
}

func strPtr(s string) *string { return &s }

func TestFeedback(t *testing.T) {
	assert.NoError(t, Feedback(http.MethodGet, nil))
	assert.ErrorIs(t, Feedback(http.MethodPost, nil), apperror.ErrUnauthorized)
	assert.NoError(t, Feedback(http.MethodPost, user(1, entity.RoleUser)))
}

func TestFeedbackObject(t *testing.T) {
	const authorID = 7

	tests := []struct {
		name   string
		method string
		user   *entity.User
		want   error
	}{
		{"anonymous read", http.MethodGet, nil, nil},
		{"anonymous patch", http.MethodPatch, nil, apperror.ErrUnauthorized},
		{"author patch", http.MethodPatch, user(authorID, entity.RoleUser), nil},
		{"author delete", http.MethodDelete, user(authorID, entity.RoleUser), nil},
		{"stranger patch", http.MethodPatch, user(8, entity.RoleUser), apperror.ErrForbidden},
		{"moderator delete", http.MethodDelete, user(9, entity.RoleModerator), nil},
		{"admin patch", http.MethodPatch, user(10, entity.RoleAdmin), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FeedbackObject(tt.method, tt.user, authorID)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIdentity(t *testing.T) {
	plain := user(1, entity.RoleUser)
	plain.Username = "jane"
	staff := user(2, entity.RoleUser)
	staff.IsStaff = true
	super := user(3, entity.RoleModerator)
	super.IsSuperuser = true

	tests := []struct {
		name     string
		method   string
		user     *entity.User
		username *string
		want     error
	}{
		{"anonymous get", http.MethodGet, nil, nil, apperror.ErrUnauthorized},
		{"plain user list", http.MethodGet, plain, nil, apperror.ErrForbidden},
		{"plain user patch own name", http.MethodPatch, plain, strPtr("jane"), nil},
		{"plain user patch other name", http.MethodPatch, plain, strPtr("john"), apperror.ErrForbidden},
		{"plain user patch without name", http.MethodPatch, plain, nil, apperror.ErrForbidden},
		{"moderator list", http.MethodGet, user(4, entity.RoleModerator), nil, apperror.ErrForbidden},
		{"admin delete", http.MethodDelete, user(5, entity.RoleAdmin), nil, nil},
		{"staff create", http.MethodPost, staff, nil, nil},
		{"staff with user role patch other name", http.MethodPatch, staff, strPtr("someone"), apperror.ErrForbidden},
		{"staff with user role patch own name", http.MethodPatch, staff, strPtr(staff.Username), nil},
		{"admin patch other name", http.MethodPatch, user(6, entity.RoleAdmin), strPtr("someone"), nil},
		{"superuser get", http.MethodGet, super, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Identity(tt.method, tt.user, tt.username)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCatalog(t *testing.T) {
	super := user(3, entity.RoleUser)
	super.IsSuperuser = true
	staff := user(4, entity.RoleUser)
	staff.IsStaff = true

	assert.NoError(t, Catalog(http.MethodGet, nil))
	assert.ErrorIs(t, Catalog(http.MethodPost, nil), apperror.ErrUnauthorized)
	assert.ErrorIs(t, Catalog(http.MethodPost, user(1, entity.RoleUser)), apperror.ErrForbidden)
	assert.ErrorIs(t, Catalog(http.MethodDelete, user(2, entity.RoleModerator)), apperror.ErrForbidden)
	assert.ErrorIs(t, Catalog(http.MethodPatch, staff), apperror.ErrForbidden)
	assert.NoError(t, Catalog(http.MethodPost, user(5, entity.RoleAdmin)))
	assert.NoError(t, Catalog(http.MethodDelete, super))
}
