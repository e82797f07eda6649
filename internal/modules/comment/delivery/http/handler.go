package handler

import (
	"net/http"

	"anoa.com/yamdb/internal/modules/comment/dto"
	comment "anoa.com/yamdb/internal/modules/comment/service"
	"anoa.com/yamdb/pkg/response"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// parents reads the title and review ids every comment route is nested under.
func parents(c *gin.Context) (uint, uint, error) {
	titleID, err := response.ParseID(c, "title_id")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err := response.ParseID(c, "review_id")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

func (h *CommentHandler) GetAllComments(c *gin.Context) {
	titleID, reviewID, err := parents(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.CommentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	comments, err := h.service.GetAllComments(c.Request.Context(), titleID, reviewID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	user, err := response.RequireUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	titleID, reviewID, err := parents(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.CreateComment(c.Request.Context(), titleID, reviewID, user, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	titleID, reviewID, err := parents(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	commentID, err := response.ParseID(c, "comment_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	titleID, reviewID, err := parents(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	commentID, err := response.ParseID(c, "comment_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.UpdateComment(c.Request.Context(), titleID, reviewID, commentID, response.CurrentUser(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	titleID, reviewID, err := parents(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	commentID, err := response.ParseID(c, "comment_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), titleID, reviewID, commentID, response.CurrentUser(c)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
