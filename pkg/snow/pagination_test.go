package snow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		expected int
	}{
		{name: "first page", page: Page{Page: 0, PageSize: 5}, expected: 0},
		{name: "page 2 of size 5", page: Page{Page: 2, PageSize: 5}, expected: 10},
		{name: "page 3 of size 20", page: Page{Page: 3, PageSize: 20}, expected: 60},
		{name: "negative page clamps to zero", page: Page{Page: -1, PageSize: 5}, expected: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.page.Offset())
		})
	}
}

func TestPageNavigation(t *testing.T) {
	p := Page{PageSize: 5, TotalCount: 12}
	assert.Equal(t, 3, p.TotalPages())
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p = p.Next().Next()
	assert.Equal(t, 2, p.Page)
	assert.False(t, p.HasNext())

	// Next on the last page is a no-op
	assert.Equal(t, 2, p.Next().Page)

	p = p.Prev().Prev().Prev()
	assert.Equal(t, 0, p.Page)
}

func TestPageTotalPagesWithNoRecords(t *testing.T) {
	assert.Equal(t, 1, Page{PageSize: 5}.TotalPages())
	assert.False(t, Page{PageSize: 5}.HasNext())
}

func TestPageWithPageSize(t *testing.T) {
	p := Page{Page: 3, PageSize: 5, TotalCount: 40}

	p = p.WithPageSize(20)
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = p.WithPageSize(0)
	assert.Equal(t, 20, p.PageSize, "non-positive size keeps the old one")
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, 5, NewPage(0).PageSize)
	assert.Equal(t, 10, NewPage(10).PageSize)
}

func TestNextPageSize(t *testing.T) {
	assert.Equal(t, 10, NextPageSize(5))
	assert.Equal(t, 5, NextPageSize(50))
	assert.Equal(t, 5, NextPageSize(7))
}
