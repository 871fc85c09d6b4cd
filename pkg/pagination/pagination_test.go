package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_ClampsValues(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}

func TestNewPagination_ComputesPages(t *testing.T) {
	pg := NewPagination(2, 10, 25)

	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)
}

func TestPaginate_NeverReturnsNilItems(t *testing.T) {
	params := DefaultPagination()
	res := Paginate[int](nil, params, 0)

	assert.NotNil(t, res.Items)
	assert.Equal(t, 0, res.Pagination.TotalPages)
}
