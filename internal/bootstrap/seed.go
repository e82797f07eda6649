package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"anoa.com/yamdb/internal/entity"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	customValidator "anoa.com/yamdb/pkg/validator"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Genre{},
		&entity.Title{},
		&entity.Review{},
		&entity.Comment{},
	)
}

type superuserInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

// CreateSuperuser adds an admin account with the staff and superuser flags.
// The account has no password; it obtains tokens through the confirmation
// code flow like everyone else.
func CreateSuperuser(ctx context.Context, db *gorm.DB, username, email string) (*entity.User, error) {
	v := validator.New()
	if err := customValidator.Register(v); err != nil {
		return nil, err
	}
	if err := v.Struct(superuserInput{Username: username, Email: email}); err != nil {
		return nil, errors.New(customValidator.FormatValidationError(err))
	}
	if strings.EqualFold(username, "me") {
		return nil, errors.New(`username "me" is reserved`)
	}

	var count int64
	if err := db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("a user with username %q or email %q already exists", username, email)
	}

	user := &entity.User{
		Username:    username,
		Email:       email,
		Role:        entity.RoleAdmin,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "superuser created", "username", username)
	return user, nil
}

// SeedAdminUser makes sure a development database has an admin to sign in
// with.
func SeedAdminUser(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ?", "admin").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		slog.DebugContext(ctx, "admin user already exists, skipping seed")
		return nil
	}

	_, err := CreateSuperuser(ctx, db, "admin", "admin@yamdb.local")
	return err
}
