package handler

import (
	"net/http"

	"anoa.com/yamdb/internal/modules/genre/dto"
	genre "anoa.com/yamdb/internal/modules/genre/service"
	"anoa.com/yamdb/pkg/response"
	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	service genre.GenreService
}

func NewGenreHandler(service genre.GenreService) *GenreHandler {
	return &GenreHandler{service: service}
}

func (h *GenreHandler) CreateGenre(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.CreateGenre(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *GenreHandler) GetAllGenres(c *gin.Context) {
	var filter dto.GenreFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	genres, err := h.service.GetAllGenres(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, genres)
}

func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	if err := h.service.DeleteGenre(c.Request.Context(), c.Param("slug")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
