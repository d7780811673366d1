package listing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := generateItems(25)

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantIDs   []string
		wantPage  int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{
			name: "first page", page: 1, pageSize: 12,
			wantIDs:  ids(items[0:12]),
			wantPage: 1, wantPages: 3, wantNext: true, wantPrev: false,
		},
		{
			name: "middle page", page: 2, pageSize: 12,
			wantIDs:  ids(items[12:24]),
			wantPage: 2, wantPages: 3, wantNext: true, wantPrev: true,
		},
		{
			name: "last partial page", page: 3, pageSize: 12,
			wantIDs:  ids(items[24:25]),
			wantPage: 3, wantPages: 3, wantNext: false, wantPrev: true,
		},
		{
			name: "zero clamps to first", page: 0, pageSize: 12,
			wantIDs:  ids(items[0:12]),
			wantPage: 1, wantPages: 3, wantNext: true, wantPrev: false,
		},
		{
			name: "negative clamps to first", page: -7, pageSize: 12,
			wantIDs:  ids(items[0:12]),
			wantPage: 1, wantPages: 3, wantNext: true, wantPrev: false,
		},
		{
			name: "past the end", page: 4, pageSize: 12,
			wantIDs:  []string{},
			wantPage: 4, wantPages: 3, wantNext: false, wantPrev: true,
		},
		{
			name: "exact multiple", page: 5, pageSize: 5,
			wantIDs:  ids(items[20:25]),
			wantPage: 5, wantPages: 5, wantNext: false, wantPrev: true,
		},
		{
			name: "huge page size", page: 1, pageSize: math.MaxInt,
			wantIDs:  ids(items),
			wantPage: 1, wantPages: 1, wantNext: false, wantPrev: false,
		},
		{
			name: "huge page size past the end", page: 2, pageSize: math.MaxInt,
			wantIDs:  []string{},
			wantPage: 2, wantPages: 1, wantNext: false, wantPrev: true,
		},
		{
			name: "huge page number", page: math.MaxInt, pageSize: 12,
			wantIDs:  []string{},
			wantPage: math.MaxInt, wantPages: 3, wantNext: false, wantPrev: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(items, tt.page, tt.pageSize)

			assert.Equal(t, tt.wantIDs, ids(page.Items))
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.pageSize, page.PageSize)
			assert.Equal(t, 25, page.Total)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantNext, page.HasNextPage)
			assert.Equal(t, tt.wantPrev, page.HasPrevPage)
		})
	}
}

func TestPaginate_NonPositivePageSize(t *testing.T) {
	page := Paginate(generateItems(3), 2, 0)

	assert.Equal(t, 1, page.PageSize)
	assert.Equal(t, []string{"item-01"}, ids(page.Items))
	assert.Equal(t, 3, page.TotalPages)
}

func TestPaginate_ItemsDoNotAliasInput(t *testing.T) {
	items := generateItems(5)

	page := Paginate(items, 1, 2)
	page.Items[0].Title = "changed"

	assert.NotEqual(t, "changed", items[0].Title)
}

func TestTotalPages(t *testing.T) {
	for total := 0; total <= 100; total++ {
		for _, size := range []int{1, 6, 9, 12} {
			want := max(1, int(math.Ceil(float64(total)/float64(size))))
			assert.Equal(t, want, TotalPages(total, size), "total=%d size=%d", total, size)
		}
	}
}
