package kernel

// PaginationOptions is a 1-based page request
type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the SQL offset for these options
func (p PaginationOptions) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the page size, falling back to 20
func (p PaginationOptions) Limit() int {
	if p.PageSize < 1 {
		return 20
	}
	return p.PageSize
}

type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginated is one page of items
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"page"`
	Empty bool `json:"empty"`
}

// NewPaginated builds a page from items and the total count
func NewPaginated[T any](items []T, opts PaginationOptions, total int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	size := opts.Limit()
	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}
	number := opts.Page
	if number < 1 {
		number = 1
	}
	return Paginated[T]{
		Items: items,
		Page: Page{
			Number: number,
			Size:   size,
			Total:  total,
			Pages:  pages,
		},
		Empty: len(items) == 0,
	}
}
