package snow

const (
	defaultPageSize = 5
	defaultOffset   = 0
)

// PageSizes are the page sizes offered to the user
var PageSizes = []int{5, 10, 20, 50}

// Page tracks pagination state for a list of records
type Page struct {
	Page       int
	PageSize   int
	TotalCount int
}

// NewPage returns the first page with the given size, or the default size if size <= 0
func NewPage(size int) Page {
	if size <= 0 {
		size = defaultPageSize
	}
	return Page{PageSize: size}
}

// Offset is the index of the first record on the page
func (p Page) Offset() int {
	if p.Page <= 0 || p.PageSize <= 0 {
		return defaultOffset
	}
	return p.Page * p.PageSize
}

// TotalPages is the number of pages needed for TotalCount records; at least 1
func (p Page) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 1
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

func (p Page) HasNext() bool {
	return p.Page+1 < p.TotalPages()
}

func (p Page) HasPrev() bool {
	return p.Page > 0
}

// Next advances one page if there is one
func (p Page) Next() Page {
	if p.HasNext() {
		p.Page++
	}
	return p
}

// Prev goes back one page, stopping at the first
func (p Page) Prev() Page {
	if p.HasPrev() {
		p.Page--
	}
	return p
}

// WithPageSize changes the page size and returns to the first page
func (p Page) WithPageSize(size int) Page {
	if size > 0 {
		p.PageSize = size
	}
	p.Page = 0
	return p
}

// Reset returns to the first page, keeping the size and total
func (p Page) Reset() Page {
	p.Page = 0
	return p
}

// NextPageSize returns the page size following current in PageSizes
func NextPageSize(current int) int {
	for i, s := range PageSizes {
		if s == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}
