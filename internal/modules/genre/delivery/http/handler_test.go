package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/yamdb/internal/modules/genre/dto"
	"anoa.com/yamdb/pkg/apperror"
	commonDto "anoa.com/yamdb/pkg/dto"
	"anoa.com/yamdb/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockGenreService struct {
	created []dto.CreateGenreRequest
	deleted []string
}

func (m *mockGenreService) CreateGenre(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	m.created = append(m.created, req)
	return &dto.GenreResponse{Name: req.Name, Slug: req.Slug}, nil
}

func (m *mockGenreService) GetAllGenres(ctx context.Context, filter dto.GenreFilter) (*commonDto.Paginated[dto.GenreResponse], error) {
	filter.Normalize(10)
	return commonDto.NewPaginated([]dto.GenreResponse{{Name: "Drama", Slug: "drama"}}, filter.Pagination, 1), nil
}

func (m *mockGenreService) DeleteGenre(ctx context.Context, slug string) error {
	if slug != "drama" {
		return apperror.NotFound("genre %q not found", slug)
	}
	m.deleted = append(m.deleted, slug)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterGin(); err != nil {
		panic(err)
	}
}

func newRouter(svc *mockGenreService) *gin.Engine {
	h := NewGenreHandler(svc)
	r := gin.New()
	r.GET("/genres/", h.GetAllGenres)
	r.POST("/genres/", h.CreateGenre)
	r.DELETE("/genres/:slug/", h.DeleteGenre)
	return r
}

func TestGenreHandlers(t *testing.T) {
	svc := &mockGenreService{}
	r := newRouter(svc)

	t.Run("create", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"name": "Drama", "slug": "drama"})
		req := httptest.NewRequest(http.MethodPost, "/genres/", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"name":"Drama","slug":"drama"}`, w.Body.String())
	})

	t.Run("create with bad slug", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"name": "Drama", "slug": "no spaces"})
		req := httptest.NewRequest(http.MethodPost, "/genres/", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, svc.created, 1)
	})

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/genres/?limit=500", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/genres/?search=fi", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		var page commonDto.Paginated[dto.GenreResponse]
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, "drama", page.Data[0].Slug)
		assert.Equal(t, 1, page.Meta.CurrentPage)
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/genres/drama/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/genres/horror/", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
