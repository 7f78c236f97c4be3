package utils

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page/limit from the query string. Malformed or
// out-of-range values fall back to defaults; the read path never fails on
// bad pagination input.
func ParsePagination(r *http.Request) Pagination {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}

	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}
