package dto

import (
	"anoa.com/yamdb/internal/entity"
	commonDto "anoa.com/yamdb/pkg/dto"
)

// CreateTitleRequest references its category and genres by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=150"`
	Year        int      `json:"year" binding:"required,notfuture"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,slug"`
	Category    *string  `json:"category" binding:"omitempty,slug"`
}

// UpdateTitleRequest is a partial update. An empty category slug detaches
// the title from its category; a present genre list replaces the old one.
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=150"`
	Year        *int      `json:"year" binding:"omitempty,notfuture"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,slug"`
	Category    *string   `json:"category"`
}

type TitleFilter struct {
	commonDto.Pagination
	Genre    string `form:"genre"`
	Category string `form:"category"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

type SearchRequest struct {
	commonDto.Pagination
	Query string `form:"q" binding:"required"`
}

type SlugRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TitleResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Rating      *float64  `json:"rating"`
	Description *string   `json:"description"`
	Genre       []SlugRef `json:"genre"`
	Category    *SlugRef  `json:"category"`
}

func ToTitleResponse(t *entity.Title) TitleResponse {
	res := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]SlugRef, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		res.Genre = append(res.Genre, SlugRef{Name: g.Name, Slug: g.Slug})
	}
	if t.Category != nil {
		res.Category = &SlugRef{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	return res
}
