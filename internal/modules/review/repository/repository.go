package repository

import (
	"context"

	"anoa.com/yamdb/internal/entity"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	TitleExists(ctx context.Context, titleID uint) (bool, error)
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, titleID, id uint) (*entity.Review, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID uint) (bool, error)
	FindAll(ctx context.Context, titleID uint, offset, limit int) ([]*entity.Review, int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) TitleExists(ctx context.Context, titleID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Title{}).Where("id = ?", titleID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Omit("Author").Create(review).Error
}

// FindByID only finds the review under the given title.
func (r *reviewRepository) FindByID(ctx context.Context, titleID, id uint) (*entity.Review, error) {
	var review entity.Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("title_id = ? AND id = ?", titleID, id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForAuthor(ctx context.Context, titleID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) FindAll(ctx context.Context, titleID uint, offset, limit int) ([]*entity.Review, int64, error) {
	var reviews []*entity.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Review{}).Where("title_id = ?", titleID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Author").
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).
		Model(&entity.Review{ID: review.ID}).
		Select("text", "score").
		Updates(map[string]any{"text": review.Text, "score": review.Score}).Error
}

// Delete removes the review; its comments go with it.
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Review{}, "id = ?", id).Error
}
