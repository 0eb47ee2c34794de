package utils

import "strconv"

const (
	// DefaultPageSize applies when a caller does not ask for a page size.
	DefaultPageSize = 20
	// MaxPageSize caps the number of ledger rows returned in one page.
	MaxPageSize = 200
)

// PaginationParams is a normalised page request: Page >= 1, 1 <= Limit <= MaxPageSize.
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationMeta describes the page that was returned.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// GetPaginationParams clamps page and limit into range.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return PaginationParams{Page: page, Limit: limit}
}

// ParsePagination reads raw query values. Unparseable values fall back to defaults.
func ParsePagination(rawPage, rawLimit string) PaginationParams {
	page, err := strconv.Atoi(rawPage)
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil {
		limit = DefaultPageSize
	}
	return GetPaginationParams(page, limit)
}

// CalculateOffset returns the SQL offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes this page given the total row count.
func (p PaginationParams) Meta(totalCount int64) PaginationMeta {
	totalPages := 0
	if p.Limit > 0 && totalCount > 0 {
		totalPages = int((totalCount + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PaginationMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
