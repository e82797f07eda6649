package title

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"testing"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/title/dto"
	"anoa.com/yamdb/internal/modules/title/repository"
	"anoa.com/yamdb/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =============================================================================
// Mock Implementations
// =============================================================================

var (
	films  = entity.Category{ID: 1, Name: "Films", Slug: "films"}
	books  = entity.Category{ID: 2, Name: "Books", Slug: "books"}
	drama  = entity.Genre{ID: 1, Name: "Drama", Slug: "drama"}
	scifi  = entity.Genre{ID: 2, Name: "Science fiction", Slug: "sci-fi"}
	genres = []entity.Genre{drama, scifi}
)

// fakeTitleRepo keeps titles in memory and derives rating from scores the
// way the database query does.
type fakeTitleRepo struct {
	nextID uint
	titles map[uint]*entity.Title
	scores map[uint][]int
}

func newFakeTitleRepo() *fakeTitleRepo {
	return &fakeTitleRepo{titles: map[uint]*entity.Title{}, scores: map[uint][]int{}}
}

func (r *fakeTitleRepo) load(t *entity.Title) *entity.Title {
	cp := *t
	cp.Category = nil
	if cp.CategoryID != nil {
		for _, c := range []entity.Category{films, books} {
			if c.ID == *cp.CategoryID {
				cp.Category = &c
			}
		}
	}
	cp.Genres = append([]entity.Genre(nil), t.Genres...)
	sort.Slice(cp.Genres, func(i, j int) bool { return cp.Genres[i].Name < cp.Genres[j].Name })
	cp.Rating = nil
	if scores := r.scores[t.ID]; len(scores) > 0 {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		avg := float64(sum) / float64(len(scores))
		cp.Rating = &avg
	}
	return &cp
}

func (r *fakeTitleRepo) Create(ctx context.Context, title *entity.Title) error {
	r.nextID++
	title.ID = r.nextID
	cp := *title
	r.titles[title.ID] = &cp
	return nil
}

func (r *fakeTitleRepo) FindByID(ctx context.Context, id uint) (*entity.Title, error) {
	t, ok := r.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.load(t), nil
}

func (r *fakeTitleRepo) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Title, error) {
	var out []*entity.Title
	for _, id := range ids {
		if t, ok := r.titles[id]; ok {
			out = append(out, r.load(t))
		}
	}
	return out, nil
}

func (r *fakeTitleRepo) FindAll(ctx context.Context, q repository.TitleQuery, offset, limit int) ([]*entity.Title, int64, error) {
	var matched []*entity.Title
	for _, t := range r.titles {
		loaded := r.load(t)
		if q.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q.Name)) {
			continue
		}
		if q.Year != nil && t.Year != *q.Year {
			continue
		}
		if q.CategorySlug != "" && (loaded.Category == nil || loaded.Category.Slug != q.CategorySlug) {
			continue
		}
		if q.GenreSlug != "" && !hasGenre(loaded, q.GenreSlug) {
			continue
		}
		matched = append(matched, loaded)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	return matched[offset:min(offset+limit, len(matched))], total, nil
}

func hasGenre(t *entity.Title, slug string) bool {
	for _, g := range t.Genres {
		if g.Slug == slug {
			return true
		}
	}
	return false
}

func (r *fakeTitleRepo) Update(ctx context.Context, title *entity.Title, genres []entity.Genre) error {
	stored := r.titles[title.ID]
	stored.Name = title.Name
	stored.Year = title.Year
	stored.Description = title.Description
	stored.CategoryID = title.CategoryID
	if genres != nil {
		stored.Genres = genres
	}
	return nil
}

func (r *fakeTitleRepo) Delete(ctx context.Context, id uint) error {
	delete(r.titles, id)
	return nil
}

type fakeCategories struct{}

func (fakeCategories) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	for _, c := range []entity.Category{films, books} {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeGenres struct{}

func (fakeGenres) FindBySlugs(ctx context.Context, slugs []string) ([]entity.Genre, error) {
	var out []entity.Genre
	for _, g := range genres {
		for _, slug := range slugs {
			if g.Slug == slug {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

type mockIndex struct {
	indexed   []uint
	removed   []uint
	indexErr  error
	searchIDs []uint
	searchErr error
}

func (m *mockIndex) IndexTitle(ctx context.Context, title *entity.Title) error {
	m.indexed = append(m.indexed, title.ID)
	return m.indexErr
}

func (m *mockIndex) RemoveTitle(ctx context.Context, id uint) error {
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockIndex) SearchTitles(ctx context.Context, query string, offset, limit int) ([]uint, int64, error) {
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return m.searchIDs, int64(len(m.searchIDs)), nil
}

// =============================================================================
// Test Helpers
// =============================================================================

func strPtr(s string) *string { return &s }

func newService(index SearchIndex) (TitleService, *fakeTitleRepo) {
	repo := newFakeTitleRepo()
	return NewTitleService(repo, fakeCategories{}, fakeGenres{}, index, 10), repo
}

func createDune(t *testing.T, svc TitleService) *dto.TitleResponse {
	t.Helper()
	res, err := svc.CreateTitle(context.Background(), dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Genre:    []string{"sci-fi", "drama", "sci-fi"},
		Category: strPtr("books"),
	})
	require.NoError(t, err)
	return res
}

// =============================================================================
// Tests
// =============================================================================

func TestCreateTitleResolvesSlugs(t *testing.T) {
	svc, _ := newService(nil)

	res := createDune(t, svc)

	assert.Equal(t, "Dune", res.Name)
	assert.Equal(t, 1965, res.Year)
	assert.Nil(t, res.Rating)
	require.NotNil(t, res.Category)
	assert.Equal(t, dto.SlugRef{Name: "Books", Slug: "books"}, *res.Category)
	assert.Equal(t, []dto.SlugRef{{Name: "Drama", Slug: "drama"}, {Name: "Science fiction", Slug: "sci-fi"}}, res.Genre)
}

func TestCreateTitleRejectsUnknownSlugs(t *testing.T) {
	svc, repo := newService(nil)
	ctx := context.Background()

	_, err := svc.CreateTitle(ctx, dto.CreateTitleRequest{Name: "Dune", Year: 1965, Genre: []string{"drama", "western"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), `genre "western" does not exist`)

	_, err = svc.CreateTitle(ctx, dto.CreateTitleRequest{Name: "Dune", Year: 1965, Category: strPtr("music")})
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	assert.Empty(t, repo.titles)
}

func TestRatingIsMeanOfScores(t *testing.T) {
	svc, repo := newService(nil)
	dune := createDune(t, svc)

	repo.scores[dune.ID] = []int{6, 9}

	res, err := svc.GetTitle(context.Background(), dune.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Rating)
	assert.InDelta(t, 7.5, *res.Rating, 1e-9)
}

func TestUpdateTitle(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	dune := createDune(t, svc)

	res, err := svc.UpdateTitle(ctx, dune.ID, dto.UpdateTitleRequest{
		Name:     strPtr("Dune Messiah"),
		Category: strPtr(""),
		Genre:    &[]string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", res.Name)
	assert.Equal(t, 1965, res.Year)
	assert.Nil(t, res.Category)
	assert.Empty(t, res.Genre)

	res, err = svc.UpdateTitle(ctx, dune.ID, dto.UpdateTitleRequest{Category: strPtr("films")})
	require.NoError(t, err)
	assert.Equal(t, "films", res.Category.Slug)

	_, err = svc.UpdateTitle(ctx, 404, dto.UpdateTitleRequest{Name: strPtr("x")})
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestGetAllTitlesFilters(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	createDune(t, svc)
	_, err := svc.CreateTitle(ctx, dto.CreateTitleRequest{Name: "Solaris", Year: 1972, Genre: []string{"drama"}, Category: strPtr("films")})
	require.NoError(t, err)

	year := 1972
	tests := []struct {
		name   string
		filter dto.TitleFilter
		want   []string
	}{
		{"all", dto.TitleFilter{}, []string{"Dune", "Solaris"}},
		{"genre", dto.TitleFilter{Genre: "sci-fi"}, []string{"Dune"}},
		{"category", dto.TitleFilter{Category: "films"}, []string{"Solaris"}},
		{"name", dto.TitleFilter{Name: "SOL"}, []string{"Solaris"}},
		{"year", dto.TitleFilter{Year: &year}, []string{"Solaris"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.GetAllTitles(ctx, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, title := range page.Data {
				names = append(names, title.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestIndexLifecycle(t *testing.T) {
	index := &mockIndex{indexErr: errors.New("meilisearch down")}
	svc, repo := newService(index)
	ctx := context.Background()

	dune := createDune(t, svc)
	assert.Equal(t, []uint{dune.ID}, index.indexed)

	require.NoError(t, svc.DeleteTitle(ctx, dune.ID))
	assert.Equal(t, []uint{dune.ID}, index.removed)
	assert.Empty(t, repo.titles)

	err := svc.DeleteTitle(ctx, dune.ID)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestSearchTitles(t *testing.T) {
	ctx := context.Background()

	t.Run("uses index order", func(t *testing.T) {
		index := &mockIndex{}
		svc, _ := newService(index)
		dune := createDune(t, svc)
		solaris, err := svc.CreateTitle(ctx, dto.CreateTitleRequest{Name: "Solaris", Year: 1972})
		require.NoError(t, err)

		index.searchIDs = []uint{solaris.ID, dune.ID, 99}
		page, err := svc.SearchTitles(ctx, dto.SearchRequest{Query: "space"})
		require.NoError(t, err)
		require.Len(t, page.Data, 2)
		assert.Equal(t, "Solaris", page.Data[0].Name)
		assert.Equal(t, "Dune", page.Data[1].Name)
	})

	t.Run("falls back to database", func(t *testing.T) {
		for _, index := range []SearchIndex{nil, &mockIndex{searchErr: errors.New("timeout")}} {
			svc, _ := newService(index)
			createDune(t, svc)

			page, err := svc.SearchTitles(ctx, dto.SearchRequest{Query: "dun"})
			require.NoError(t, err)
			require.Len(t, page.Data, 1)
			assert.Equal(t, "Dune", page.Data[0].Name)
		}
	})
}
