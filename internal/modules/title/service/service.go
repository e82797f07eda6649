package title

import (
	"context"
	"errors"
	"log/slog"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/title/dto"
	"anoa.com/yamdb/internal/modules/title/repository"
	"anoa.com/yamdb/pkg/apperror"
	commonDto "anoa.com/yamdb/pkg/dto"
	"gorm.io/gorm"
)

type TitleService interface {
	GetAllTitles(ctx context.Context, filter dto.TitleFilter) (*commonDto.Paginated[dto.TitleResponse], error)
	GetTitle(ctx context.Context, id uint) (*dto.TitleResponse, error)
	CreateTitle(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	UpdateTitle(ctx context.Context, id uint, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	DeleteTitle(ctx context.Context, id uint) error
	SearchTitles(ctx context.Context, req dto.SearchRequest) (*commonDto.Paginated[dto.TitleResponse], error)
}

type CategoryFinder interface {
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
}

type GenreFinder interface {
	FindBySlugs(ctx context.Context, slugs []string) ([]entity.Genre, error)
}

// SearchIndex mirrors titles into a full-text index.
type SearchIndex interface {
	IndexTitle(ctx context.Context, title *entity.Title) error
	RemoveTitle(ctx context.Context, id uint) error
	SearchTitles(ctx context.Context, query string, offset, limit int) ([]uint, int64, error)
}

type titleService struct {
	repo       repository.TitleRepository
	categories CategoryFinder
	genres     GenreFinder
	index      SearchIndex
	pageSize   int
}

// NewTitleService builds the service. index may be nil, in which case search
// runs against the database.
func NewTitleService(repo repository.TitleRepository, categories CategoryFinder, genres GenreFinder, index SearchIndex, pageSize int) TitleService {
	return &titleService{
		repo:       repo,
		categories: categories,
		genres:     genres,
		index:      index,
		pageSize:   pageSize,
	}
}

func (s *titleService) GetAllTitles(ctx context.Context, filter dto.TitleFilter) (*commonDto.Paginated[dto.TitleResponse], error) {
	offset := filter.Normalize(s.pageSize)

	titles, total, err := s.repo.FindAll(ctx, repository.TitleQuery{
		GenreSlug:    filter.Genre,
		CategorySlug: filter.Category,
		Name:         filter.Name,
		Year:         filter.Year,
	}, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(toResponses(titles), filter.Pagination, total), nil
}

func (s *titleService) GetTitle(ctx context.Context, id uint) (*dto.TitleResponse, error) {
	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	res := dto.ToTitleResponse(title)
	return &res, nil
}

func (s *titleService) CreateTitle(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	title := &entity.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != nil && *req.Category != "" {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.repo.Create(ctx, title); err != nil {
		return nil, err
	}

	return s.reindex(ctx, title.ID)
}

func (s *titleService) UpdateTitle(ctx context.Context, id uint, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
		} else {
			category, err := s.resolveCategory(ctx, *req.Category)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
		}
	}

	var genres []entity.Genre
	if req.Genre != nil {
		if genres, err = s.resolveGenres(ctx, *req.Genre); err != nil {
			return nil, err
		}
		if genres == nil {
			genres = []entity.Genre{}
		}
	}

	if err := s.repo.Update(ctx, title, genres); err != nil {
		return nil, err
	}

	return s.reindex(ctx, title.ID)
}

func (s *titleService) DeleteTitle(ctx context.Context, id uint) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.RemoveTitle(ctx, id); err != nil {
			slog.WarnContext(ctx, "failed to remove title from search index", "title_id", id, "error", err)
		}
	}
	return nil
}

func (s *titleService) SearchTitles(ctx context.Context, req dto.SearchRequest) (*commonDto.Paginated[dto.TitleResponse], error) {
	if s.index == nil {
		return s.GetAllTitles(ctx, dto.TitleFilter{Pagination: req.Pagination, Name: req.Query})
	}

	offset := req.Normalize(s.pageSize)

	ids, total, err := s.index.SearchTitles(ctx, req.Query, offset, req.Limit)
	if err != nil {
		slog.WarnContext(ctx, "search index unavailable, falling back to database", "error", err)
		return s.GetAllTitles(ctx, dto.TitleFilter{Pagination: req.Pagination, Name: req.Query})
	}

	titles, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(toResponses(titles), req.Pagination, total), nil
}

func (s *titleService) find(ctx context.Context, id uint) (*entity.Title, error) {
	title, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("title %d not found", id)
		}
		return nil, err
	}
	return title, nil
}

// reindex reloads the stored title, pushes it to the search index and
// returns its representation.
func (s *titleService) reindex(ctx context.Context, id uint) (*dto.TitleResponse, error) {
	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.index != nil {
		if err := s.index.IndexTitle(ctx, title); err != nil {
			slog.WarnContext(ctx, "failed to index title", "title_id", id, "error", err)
		}
	}

	res := dto.ToTitleResponse(title)
	return &res, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation("category %q does not exist", slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]entity.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		unique = append(unique, slug)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	genres, err := s.genres.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(genres) == len(unique) {
		return genres, nil
	}

	found := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		found[g.Slug] = struct{}{}
	}
	for _, slug := range unique {
		if _, ok := found[slug]; !ok {
			return nil, apperror.Validation("genre %q does not exist", slug)
		}
	}
	return genres, nil
}

func toResponses(titles []*entity.Title) []dto.TitleResponse {
	data := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		data = append(data, dto.ToTitleResponse(t))
	}
	return data
}
