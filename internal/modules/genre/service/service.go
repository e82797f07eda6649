package genre

import (
	"context"
	"errors"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/genre/dto"
	"anoa.com/yamdb/internal/modules/genre/repository"
	"anoa.com/yamdb/pkg/apperror"
	commonDto "anoa.com/yamdb/pkg/dto"
	"gorm.io/gorm"
)

type GenreService interface {
	CreateGenre(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	GetAllGenres(ctx context.Context, filter dto.GenreFilter) (*commonDto.Paginated[dto.GenreResponse], error)
	DeleteGenre(ctx context.Context, slug string) error
}

type genreService struct {
	repo     repository.GenreRepository
	pageSize int
}

func NewGenreService(repo repository.GenreRepository, pageSize int) GenreService {
	return &genreService{repo: repo, pageSize: pageSize}
}

func (s *genreService) CreateGenre(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	if _, err := s.repo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, apperror.Validation("genre with slug %q already exists", req.Slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &entity.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation("genre with slug %q already exists", req.Slug)
		}
		return nil, err
	}

	res := dto.ToGenreResponse(genre)
	return &res, nil
}

func (s *genreService) GetAllGenres(ctx context.Context, filter dto.GenreFilter) (*commonDto.Paginated[dto.GenreResponse], error) {
	offset := filter.Normalize(s.pageSize)

	genres, total, err := s.repo.FindAll(ctx, filter.Search, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.GenreResponse, 0, len(genres))
	for _, cat := range genres {
		data = append(data, dto.ToGenreResponse(cat))
	}
	return commonDto.NewPaginated(data, filter.Pagination, total), nil
}

func (s *genreService) DeleteGenre(ctx context.Context, slug string) error {
	genre, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("genre %q not found", slug)
		}
		return err
	}

	return s.repo.Delete(ctx, genre.ID)
}
