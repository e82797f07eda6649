package dto

import (
	"anoa.com/yamdb/internal/entity"
	commonDto "anoa.com/yamdb/pkg/dto"
)

const DateLayout = "2006-01-02"

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentFilter struct {
	commonDto.Pagination
}

type CommentResponse struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	PubDate string `json:"pub_date"`
}

func ToCommentResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.Username,
		PubDate: c.PubDate.Format(DateLayout),
	}
}
