package handler

import (
	"net/http"

	"anoa.com/yamdb/internal/modules/title/dto"
	title "anoa.com/yamdb/internal/modules/title/service"
	"anoa.com/yamdb/pkg/response"
	"github.com/gin-gonic/gin"
)

// TitleIDParam is the path parameter every title route uses.
const TitleIDParam = "title_id"

type TitleHandler struct {
	service title.TitleService
}

func NewTitleHandler(service title.TitleService) *TitleHandler {
	return &TitleHandler{service: service}
}

func (h *TitleHandler) GetAllTitles(c *gin.Context) {
	var filter dto.TitleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	titles, err := h.service.GetAllTitles(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, titles)
}

func (h *TitleHandler) SearchTitles(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	titles, err := h.service.SearchTitles(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, titles)
}

func (h *TitleHandler) CreateTitle(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.CreateTitle(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *TitleHandler) GetTitle(c *gin.Context) {
	id, err := response.ParseID(c, TitleIDParam)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetTitle(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *TitleHandler) UpdateTitle(c *gin.Context) {
	id, err := response.ParseID(c, TitleIDParam)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.UpdateTitle(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *TitleHandler) DeleteTitle(c *gin.Context) {
	id, err := response.ParseID(c, TitleIDParam)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteTitle(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
