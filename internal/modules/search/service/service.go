// Package search mirrors titles into a Meilisearch index.
package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/pkg/sanitize"
	"github.com/meilisearch/meilisearch-go"
)

const titlesIndex = "titles"

type titleDoc struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genres"`
}

type searchHits struct {
	Hits []struct {
		ID uint `json:"id"`
	} `json:"hits"`
	EstimatedTotalHits int64 `json:"estimatedTotalHits"`
}

type TitleIndex struct {
	client meilisearch.ServiceManager
}

func NewTitleIndex(client meilisearch.ServiceManager) *TitleIndex {
	s := &TitleIndex{client: client}
	s.initIndex()
	return s
}

func (s *TitleIndex) initIndex() {
	index := s.client.Index(titlesIndex)

	searchable := []string{"name", "description", "genres", "category"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		slog.Warn("failed to update titles searchable attributes", "error", err)
	}

	filterable := []any{"year", "category", "genres"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		slog.Warn("failed to update titles filterable attributes", "error", err)
	}

	sortable := []string{"name", "year"}
	if _, err := index.UpdateSortableAttributes(&sortable); err != nil {
		slog.Warn("failed to update titles sortable attributes", "error", err)
	}
}

// clean strips markup and folds whitespace so descriptions index as one line
// of plain text.
func clean(content string) string {
	return strings.Join(strings.Fields(sanitize.Text(content)), " ")
}

func (s *TitleIndex) IndexTitle(ctx context.Context, title *entity.Title) error {
	doc := titleDoc{
		ID:     title.ID,
		Name:   clean(title.Name),
		Year:   title.Year,
		Genres: make([]string, 0, len(title.Genres)),
	}
	if title.Description != nil {
		doc.Description = clean(*title.Description)
	}
	if title.Category != nil {
		doc.Category = title.Category.Name
	}
	for _, g := range title.Genres {
		doc.Genres = append(doc.Genres, g.Name)
	}

	primaryKey := "id"
	task, err := s.client.Index(titlesIndex).AddDocuments([]titleDoc{doc}, &primaryKey)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "indexed title", "title_id", title.ID, "task_uid", task.TaskUID)
	return nil
}

func (s *TitleIndex) RemoveTitle(ctx context.Context, id uint) error {
	_, err := s.client.Index(titlesIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

// SearchTitles returns matching title ids in relevance order together with
// Meilisearch's estimate of the total hit count.
func (s *TitleIndex) SearchTitles(ctx context.Context, query string, offset, limit int) ([]uint, int64, error) {
	raw, err := s.client.Index(titlesIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Offset:               int64(offset),
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, 0, err
	}

	var res searchHits
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, res.EstimatedTotalHits, nil
}
