package dto

// MaxPage bounds the page number so the row offset cannot overflow.
const MaxPage = 100000

type Pagination struct {
	Page  int `form:"page" json:"page" binding:"omitempty,min=1,max=100000"`
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in the defaults and returns the row offset.
func (p *Pagination) Normalize(defaultLimit int) int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	return (p.Page - 1) * p.Limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type Paginated[T any] struct {
	Data []T           `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func NewPaginated[T any](data []T, p Pagination, total int64) *Paginated[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return &Paginated[T]{
		Data: data,
		Meta: PaginationMeta{
			CurrentPage: p.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       p.Limit,
		},
	}
}
