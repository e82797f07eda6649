package dto

import (
	"anoa.com/yamdb/internal/entity"
	commonDto "anoa.com/yamdb/pkg/dto"
)

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreFilter struct {
	commonDto.Pagination
	Search string `form:"search"`
}

func ToGenreResponse(c *entity.Genre) GenreResponse {
	return GenreResponse{Name: c.Name, Slug: c.Slug}
}
