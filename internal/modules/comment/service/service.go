package comment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/comment/dto"
	"anoa.com/yamdb/internal/modules/comment/repository"
	"anoa.com/yamdb/internal/permission"
	"anoa.com/yamdb/pkg/apperror"
	commonDto "anoa.com/yamdb/pkg/dto"
	"anoa.com/yamdb/pkg/sanitize"
	"gorm.io/gorm"
)

type CommentService interface {
	GetAllComments(ctx context.Context, titleID, reviewID uint, filter dto.CommentFilter) (*commonDto.Paginated[dto.CommentResponse], error)
	CreateComment(ctx context.Context, titleID, reviewID uint, author *entity.User, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, titleID, reviewID, commentID uint, user *entity.User, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, titleID, reviewID, commentID uint, user *entity.User) error
}

// ReviewFinder resolves a review under its title.
type ReviewFinder interface {
	FindByID(ctx context.Context, titleID, id uint) (*entity.Review, error)
}

type commentService struct {
	repo     repository.CommentRepository
	reviews  ReviewFinder
	pageSize int
	now      func() time.Time
}

func NewCommentService(repo repository.CommentRepository, reviews ReviewFinder, pageSize int) CommentService {
	return &commentService{
		repo:     repo,
		reviews:  reviews,
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (s *commentService) GetAllComments(ctx context.Context, titleID, reviewID uint, filter dto.CommentFilter) (*commonDto.Paginated[dto.CommentResponse], error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	offset := filter.Normalize(s.pageSize)
	comments, total, err := s.repo.FindAll(ctx, reviewID, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		data = append(data, dto.ToCommentResponse(c))
	}
	return commonDto.NewPaginated(data, filter.Pagination, total), nil
}

func (s *commentService) CreateComment(ctx context.Context, titleID, reviewID uint, author *entity.User, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	text := sanitize.Text(req.Text)
	if text == "" {
		return nil, apperror.Validation("text must not be empty")
	}

	now := s.now().UTC()
	comment := &entity.Comment{
		ReviewID: reviewID,
		AuthorID: author.ID,
		Text:     text,
		PubDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author

	res := dto.ToCommentResponse(comment)
	return &res, nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*dto.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	res := dto.ToCommentResponse(comment)
	return &res, nil
}

func (s *commentService) UpdateComment(ctx context.Context, titleID, reviewID, commentID uint, user *entity.User, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := permission.FeedbackObject(http.MethodPatch, user, comment.AuthorID); err != nil {
		return nil, err
	}

	text := sanitize.Text(req.Text)
	if text == "" {
		return nil, apperror.Validation("text must not be empty")
	}
	if err := s.repo.UpdateText(ctx, comment.ID, text); err != nil {
		return nil, err
	}
	comment.Text = text

	res := dto.ToCommentResponse(comment)
	return &res, nil
}

func (s *commentService) DeleteComment(ctx context.Context, titleID, reviewID, commentID uint, user *entity.User) error {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := permission.FeedbackObject(http.MethodDelete, user, comment.AuthorID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, comment.ID)
}

func (s *commentService) ensureReview(ctx context.Context, titleID, reviewID uint) error {
	if _, err := s.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("review %d not found", reviewID)
		}
		return err
	}
	return nil
}

func (s *commentService) find(ctx context.Context, titleID, reviewID, commentID uint) (*entity.Comment, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.repo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("comment %d not found", commentID)
		}
		return nil, err
	}
	return comment, nil
}
