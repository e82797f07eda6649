package service

import (
	"context"
	"errors"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/user/dto"
	"anoa.com/yamdb/internal/modules/user/repository"
	"anoa.com/yamdb/pkg/apperror"
	commonDto "anoa.com/yamdb/pkg/dto"
	"gorm.io/gorm"
)

type UserService interface {
	GetAllUsers(ctx context.Context, filter dto.UserFilter) (*commonDto.Paginated[dto.UserResponse], error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, username string) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, username string) error
	UpdateMe(ctx context.Context, current *entity.User, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo     repository.UserRepository
	pageSize int
}

func NewUserService(repo repository.UserRepository, pageSize int) UserService {
	return &userService{repo: repo, pageSize: pageSize}
}

func (s *userService) GetAllUsers(ctx context.Context, filter dto.UserFilter) (*commonDto.Paginated[dto.UserResponse], error) {
	offset := filter.Normalize(s.pageSize)

	users, total, err := s.repo.FindAll(ctx, filter.Search, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, dto.ToUserResponse(u))
	}
	return commonDto.NewPaginated(data, filter.Pagination, total), nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := ensureUnique(ctx, s.repo, req.Username, req.Email); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}

	user := &entity.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation("a user with that username or email already exists")
		}
		return nil, err
	}

	res := dto.ToUserResponse(user)
	return &res, nil
}

func (s *userService) GetUser(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	res := dto.ToUserResponse(user)
	return &res, nil
}

func (s *userService) UpdateUser(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, req)
}

func (s *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID)
}

// UpdateMe saves a self-service profile edit. Plain users cannot change their
// own role: a submitted role is dropped and the remaining fields are saved.
func (s *userService) UpdateMe(ctx context.Context, current *entity.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if current.IsPlainUser() {
		req.Role = nil
	}
	return s.apply(ctx, current, req)
}

func (s *userService) apply(ctx context.Context, user *entity.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var newUsername, newEmail string
	if req.Username != nil && *req.Username != user.Username {
		newUsername = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		newEmail = *req.Email
	}
	if err := ensureUnique(ctx, s.repo, newUsername, newEmail); err != nil {
		return nil, err
	}

	if newUsername != "" {
		user.Username = newUsername
	}
	if newEmail != "" {
		user.Email = newEmail
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation("a user with that username or email already exists")
		}
		return nil, err
	}

	res := dto.ToUserResponse(user)
	return &res, nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user %q not found", username)
		}
		return nil, err
	}
	return user, nil
}
