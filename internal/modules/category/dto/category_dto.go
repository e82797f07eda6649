package dto

import (
	"anoa.com/yamdb/internal/entity"
	commonDto "anoa.com/yamdb/pkg/dto"
)

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryFilter struct {
	commonDto.Pagination
	Search string `form:"search"`
}

func ToCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}
