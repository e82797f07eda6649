package repository

import (
	"context"

	"anoa.com/yamdb/internal/entity"
	"gorm.io/gorm"
)

const ratingColumn = "(SELECT AVG(reviews.score) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleQuery narrows a title listing. Zero fields do not filter.
type TitleQuery struct {
	GenreSlug    string
	CategorySlug string
	Name         string
	Year         *int
}

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title) error
	FindByID(ctx context.Context, id uint) (*entity.Title, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Title, error)
	FindAll(ctx context.Context, q TitleQuery, offset, limit int) ([]*entity.Title, int64, error)
	Update(ctx context.Context, title *entity.Title, genres []entity.Genre) error
	Delete(ctx context.Context, id uint) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entity.Title{}).
		Select("titles.*, " + ratingColumn).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name")
		})
}

// Create inserts the title and links its genres without touching the genre
// rows themselves.
func (r *titleRepository) Create(ctx context.Context, title *entity.Title) error {
	return r.db.WithContext(ctx).Omit("Category", "Genres.*").Create(title).Error
}

func (r *titleRepository) FindByID(ctx context.Context, id uint) (*entity.Title, error) {
	var title entity.Title
	if err := r.withDetails(ctx).Where("titles.id = ?", id).First(&title).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

// FindByIDs returns the titles in the order of ids, skipping unknown ones.
func (r *titleRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Title, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var titles []*entity.Title
	if err := r.withDetails(ctx).Where("titles.id IN ?", ids).Find(&titles).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*entity.Title, len(titles))
	for _, t := range titles {
		byID[t.ID] = t
	}
	ordered := make([]*entity.Title, 0, len(titles))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func (r *titleRepository) FindAll(ctx context.Context, q TitleQuery, offset, limit int) ([]*entity.Title, int64, error) {
	var titles []*entity.Title
	var total int64

	if err := applyQuery(r.db.WithContext(ctx).Model(&entity.Title{}), q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyQuery(r.withDetails(ctx), q).
		Order("titles.name").
		Order("titles.id").
		Offset(offset).
		Limit(limit).
		Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func applyQuery(db *gorm.DB, q TitleQuery) *gorm.DB {
	if q.GenreSlug != "" {
		db = db.Where(`EXISTS (
			SELECT 1 FROM title_genres
			JOIN genres ON genres.id = title_genres.genre_id
			WHERE title_genres.title_id = titles.id AND genres.slug = ?)`, q.GenreSlug)
	}
	if q.CategorySlug != "" {
		db = db.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", q.CategorySlug)
	}
	if q.Name != "" {
		db = db.Where("titles.name ILIKE ?", "%"+q.Name+"%")
	}
	if q.Year != nil {
		db = db.Where("titles.year = ?", *q.Year)
	}
	return db
}

// Update writes the scalar columns and, when genres is non-nil, replaces the
// genre links, all in one transaction.
func (r *titleRepository) Update(ctx context.Context, title *entity.Title, genres []entity.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Title{ID: title.ID}).
			Select("name", "year", "description", "category_id").
			Updates(map[string]any{
				"name":        title.Name,
				"year":        title.Year,
				"description": title.Description,
				"category_id": title.CategoryID,
			}).Error
		if err != nil {
			return err
		}

		switch {
		case genres == nil:
			return nil
		case len(genres) == 0:
			return tx.Model(&entity.Title{ID: title.ID}).Association("Genres").Clear()
		default:
			return tx.Model(&entity.Title{ID: title.ID}).
				Omit("Genres.*").
				Association("Genres").
				Replace(genres)
		}
	})
}

// Delete removes the title; reviews and their comments go with it.
func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Title{}, "id = ?", id).Error
	})
}
