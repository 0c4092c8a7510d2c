package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size    int
		offset, limit int
	}{
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{0, 0, 0, DefaultPageSize},
		{-2, 5, 0, 5},
		{2, 1000, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.limit, limit, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestMetaAndSlice(t *testing.T) {
	m := Meta(2, 3, 8)
	assert.Equal(t, PageMeta{Page: 2, Size: 3, Total: 8, TotalPages: 3, HasPrev: true, HasNext: true}, m)
	assert.False(t, Meta(3, 3, 8).HasNext)

	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{4, 5}, Slice(items, 3, 3))
	assert.Empty(t, Slice(items, 9, 3))
	assert.Equal(t, []int{1, 2}, Slice(items, -4, 2))
	assert.Equal(t, []int{5}, Slice(items, 4, math.MaxInt))
}

func TestCalculate_HugePageDoesNotOverflow(t *testing.T) {
	offset, limit := Calculate(math.MaxInt, MaxPageSize)
	assert.GreaterOrEqual(t, offset, 0)
	assert.GreaterOrEqual(t, offset+limit, offset)

	m := Meta(math.MaxInt, MaxPageSize, 8)
	assert.False(t, m.HasNext)
	assert.True(t, m.HasPrev)
	assert.Empty(t, Slice([]int{1, 2, 3}, offset, limit))
}
