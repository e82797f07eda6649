package category

import (
	"context"
	"errors"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/category/dto"
	"anoa.com/yamdb/internal/modules/category/repository"
	"anoa.com/yamdb/pkg/apperror"
	commonDto "anoa.com/yamdb/pkg/dto"
	"gorm.io/gorm"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, filter dto.CategoryFilter) (*commonDto.Paginated[dto.CategoryResponse], error)
	DeleteCategory(ctx context.Context, slug string) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	pageSize int
}

func NewCategoryService(repo repository.CategoryRepository, pageSize int) CategoryService {
	return &categoryService{repo: repo, pageSize: pageSize}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if _, err := s.repo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, apperror.Validation("category with slug %q already exists", req.Slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &entity.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation("category with slug %q already exists", req.Slug)
		}
		return nil, err
	}

	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter dto.CategoryFilter) (*commonDto.Paginated[dto.CategoryResponse], error) {
	offset := filter.Normalize(s.pageSize)

	categories, total, err := s.repo.FindAll(ctx, filter.Search, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		data = append(data, dto.ToCategoryResponse(cat))
	}
	return commonDto.NewPaginated(data, filter.Pagination, total), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, slug string) error {
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("category %q not found", slug)
		}
		return err
	}

	return s.repo.Delete(ctx, category.ID)
}
