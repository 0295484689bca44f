package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New(1, 9, 25)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 0, p.Offset)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = New(3, 9, 25)
	assert.Equal(t, 18, p.Offset)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = New(1, 9, 0)
	assert.Equal(t, 0, p.Pages)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"2", 2},
		{"-4", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.in), tt.in)
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 9, ClampLimit(0, 9))
	assert.Equal(t, 20, ClampLimit(20, 9))
	assert.Equal(t, MaxLimit, ClampLimit(1000, 9))
}

func TestSkip(t *testing.T) {
	assert.Equal(t, int64(0), Skip(0, 9))
	assert.Equal(t, int64(18), Skip(3, 9))
}
