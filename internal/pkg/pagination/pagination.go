package pagination

import (
	"math"
	"strconv"
)

// MaxLimit caps the page size a client can ask for
const MaxLimit = 50

// Pagination represents pagination metadata
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
	Offset  int   `json:"-"`
}

// New creates a new pagination instance. Pages is zero when there is nothing to show.
func New(page, limit int, total int64) *Pagination {
	page, limit = normalize(page, limit, limit)

	pages := int(math.Ceil(float64(total) / float64(limit)))

	return &Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
		Offset:  (page - 1) * limit,
	}
}

// ParsePage reads a 1-based page number, treating anything invalid as 1
func ParsePage(s string) int {
	page, _ := strconv.Atoi(s)
	page, _ = normalize(page, 1, 1)
	return page
}

// ClampLimit returns limit bounded by MaxLimit, or defaultLimit when limit is not positive
func ClampLimit(limit, defaultLimit int) int {
	_, limit = normalize(1, limit, defaultLimit)
	return limit
}

// Skip returns the number of documents to skip for page
func Skip(page, limit int) int64 {
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * limit)
}

func normalize(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
