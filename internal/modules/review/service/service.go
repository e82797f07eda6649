package review

import (
	"context"
	"errors"
	"net/http"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/review/dto"
	"anoa.com/yamdb/internal/modules/review/repository"
	"anoa.com/yamdb/internal/permission"
	"anoa.com/yamdb/pkg/apperror"
	commonDto "anoa.com/yamdb/pkg/dto"
	"anoa.com/yamdb/pkg/sanitize"
	"gorm.io/gorm"
)

// ErrAlreadyReviewed is returned for a second review of the same title by
// the same author.
var ErrAlreadyReviewed = apperror.New(http.StatusBadRequest,
	"you have already reviewed this title", apperror.ErrInvalidInput)

type ReviewService interface {
	GetAllReviews(ctx context.Context, titleID uint, filter dto.ReviewFilter) (*commonDto.Paginated[dto.ReviewResponse], error)
	CreateReview(ctx context.Context, titleID uint, author *entity.User, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetReview(ctx context.Context, titleID, reviewID uint) (*dto.ReviewResponse, error)
	UpdateReview(ctx context.Context, titleID, reviewID uint, user *entity.User, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(ctx context.Context, titleID, reviewID uint, user *entity.User) error
}

type reviewService struct {
	repo     repository.ReviewRepository
	pageSize int
}

func NewReviewService(repo repository.ReviewRepository, pageSize int) ReviewService {
	return &reviewService{repo: repo, pageSize: pageSize}
}

func (s *reviewService) GetAllReviews(ctx context.Context, titleID uint, filter dto.ReviewFilter) (*commonDto.Paginated[dto.ReviewResponse], error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	offset := filter.Normalize(s.pageSize)
	reviews, total, err := s.repo.FindAll(ctx, titleID, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		data = append(data, dto.ToReviewResponse(r))
	}
	return commonDto.NewPaginated(data, filter.Pagination, total), nil
}

func (s *reviewService) CreateReview(ctx context.Context, titleID uint, author *entity.User, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	text, err := cleanText(req.Text)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &entity.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Text:     text,
		Score:    req.Score,
	}
	// The unique index decides when two requests race past the check above.
	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	review.Author = *author

	res := dto.ToReviewResponse(review)
	return &res, nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID uint) (*dto.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	res := dto.ToReviewResponse(review)
	return &res, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, titleID, reviewID uint, user *entity.User, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := permission.FeedbackObject(http.MethodPatch, user, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		if review.Text, err = cleanText(*req.Text); err != nil {
			return nil, err
		}
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	res := dto.ToReviewResponse(review)
	return &res, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, titleID, reviewID uint, user *entity.User) error {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := permission.FeedbackObject(http.MethodDelete, user, review.AuthorID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, review.ID)
}

func (s *reviewService) ensureTitle(ctx context.Context, titleID uint) error {
	exists, err := s.repo.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("title %d not found", titleID)
	}
	return nil
}

func (s *reviewService) find(ctx context.Context, titleID, reviewID uint) (*entity.Review, error) {
	review, err := s.repo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review %d not found", reviewID)
		}
		return nil, err
	}
	return review, nil
}

func cleanText(text string) (string, error) {
	text = sanitize.Text(text)
	if text == "" {
		return "", apperror.Validation("text must not be empty")
	}
	return text, nil
}
