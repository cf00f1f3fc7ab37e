package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	p := Pageable{Page: -3, Size: 0}.Normalize()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, DefaultSize, p.Size)

	p = Pageable{Page: 2, Size: 500}.Normalize()
	assert.Equal(t, MaxSize, p.Size)
	assert.Equal(t, 200, p.Offset())
}

func TestSliceComputesTotals(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page := Slice(items, Of(1, 2))

	assert.Equal(t, []int{3, 4}, page.Content)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.Last())

	beyond := Slice(items, Of(9, 2))
	assert.Empty(t, beyond.Content)
	assert.NotNil(t, beyond.Content)
}

func TestNormalizeCapsPageSoOffsetCannotOverflow(t *testing.T) {
	p := Pageable{Page: 768614336404564651, Size: DefaultSize}.Normalize()

	assert.Equal(t, MaxPage, p.Page)
	assert.Positive(t, p.Offset())

	p = Pageable{Page: math.MaxInt, Size: MaxSize}.Normalize()
	assert.Positive(t, p.Offset())
	assert.Positive(t, p.Offset()+p.Size)
}

func TestSliceHandlesHugePageNumbers(t *testing.T) {
	items := []int{1, 2, 3}

	var page Page[int]
	require.NotPanics(t, func() {
		page = Slice(items, Pageable{Page: 768614336404564651, Size: DefaultSize})
	})

	assert.Empty(t, page.Content)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, MaxPage, page.Number)
}

func TestMapKeepsTotals(t *testing.T) {
	page := NewPage([]int{1, 2}, Of(0, 2), 3)

	mapped := Map(page, func(v int) string { return string(rune('a' + v - 1)) })

	assert.Equal(t, []string{"a", "b"}, mapped.Content)
	assert.Equal(t, 2, mapped.TotalPages)
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("name,DESC", "id", "name")
	require.NoError(t, err)
	assert.Equal(t, Sort{Field: "name", Direction: Desc}, s)
	assert.Equal(t, "name,desc", s.String())

	s, err = ParseSort("price", "price")
	require.NoError(t, err)
	assert.Equal(t, Asc, s.Direction)

	_, err = ParseSort("password", "id", "name")
	assert.Error(t, err)

	_, err = ParseSort("name,sideways", "name")
	assert.Error(t, err)
}
