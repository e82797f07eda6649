package handler

import (
	"net/http"

	"anoa.com/yamdb/internal/modules/review/dto"
	review "anoa.com/yamdb/internal/modules/review/service"
	"anoa.com/yamdb/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	TitleIDParam  = "title_id"
	ReviewIDParam = "review_id"
)

type ReviewHandler struct {
	service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) GetAllReviews(c *gin.Context) {
	titleID, err := response.ParseID(c, TitleIDParam)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.ReviewFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	reviews, err := h.service.GetAllReviews(c.Request.Context(), titleID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, err := response.RequireUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	titleID, err := response.ParseID(c, TitleIDParam)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.CreateReview(c.Request.Context(), titleID, user, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	titleID, reviewID, err := pathIDs(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	titleID, reviewID, err := pathIDs(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.UpdateReview(c.Request.Context(), titleID, reviewID, response.CurrentUser(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	titleID, reviewID, err := pathIDs(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), titleID, reviewID, response.CurrentUser(c)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathIDs(c *gin.Context) (uint, uint, error) {
	titleID, err := response.ParseID(c, TitleIDParam)
	if err != nil {
		return 0, 0, err
	}
	reviewID, err := response.ParseID(c, ReviewIDParam)
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}
