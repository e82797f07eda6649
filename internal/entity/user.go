package entity

import (
	"strconv"
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID          uint       `gorm:"primaryKey" json:"-"`
	Username    string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName   string     `gorm:"size:150" json:"first_name"`
	LastName    string     `gorm:"size:150" json:"last_name"`
	Bio         string     `gorm:"type:text" json:"bio"`
	Role        string     `gorm:"size:15;not null;default:user" json:"role"`
	IsStaff     bool       `gorm:"not null;default:false" json:"-"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"-"`
	LastLogin   *time.Time `json:"-"`
	DateJoined  time.Time  `gorm:"autoCreateTime" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// IsPlainUser reports whether the account holds the default, least privileged role.
func (u *User) IsPlainUser() bool {
	return u.Role == RoleUser
}

// ConfirmationState is the account state confirmation codes are bound to.
func (u *User) ConfirmationState() string {
	lastLogin := ""
	if u.LastLogin != nil {
		lastLogin = strconv.FormatInt(u.LastLogin.Unix(), 10)
	}
	return strings.Join([]string{
		strconv.FormatUint(uint64(u.ID), 10),
		u.Username,
		u.Email,
		u.Role,
		strconv.FormatBool(u.IsStaff),
		strconv.FormatBool(u.IsSuperuser),
		lastLogin,
	}, "|")
}
