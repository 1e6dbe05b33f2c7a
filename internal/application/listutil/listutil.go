// Package listutil parses list query strings (?q=&sort=&dir=&page=&per_page=)
// and cuts filtered slices into pages for the JSON list endpoints.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// DefaultPerPage is used when per_page is missing or not one of PerPageOptions.
const DefaultPerPage = 25

// PerPageOptions are the page sizes the front desk offers.
var PerPageOptions = []int{10, 25, 50, 100}

// ListParams is everything a list endpoint reads from its query string.
type ListParams struct {
	Search  string            // free text, matched by the projection
	Filters map[string]string // exact-match filters, recognised keys only
	Sort    string            // "" keeps the collection's natural order
	Desc    bool
	Page    int // 1-indexed
	PerPage int
}

// ParseListParams reads a query string.
// PRE: sortable and filterKeys list what the endpoint understands
// POST: Page >= 1, PerPage is one of PerPageOptions, Sort is "" or in sortable
func ParseListParams(q url.Values, sortable, filterKeys []string) ListParams {
	lp := ListParams{
		Search:  q.Get("q"),
		Filters: make(map[string]string, len(filterKeys)),
		Page:    1,
		PerPage: DefaultPerPage,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		lp.Page = n
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && slices.Contains(PerPageOptions, n) {
		lp.PerPage = n
	}
	if col := q.Get("sort"); slices.Contains(sortable, col) {
		lp.Sort = col
		lp.Desc = q.Get("dir") == "desc"
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			lp.Filters[key] = v
		}
	}
	return lp
}

// PageInfo is the paging block returned next to every list.
type PageInfo struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPageInfo clamps page into [1, TotalPages].
// An empty list still reports one page.
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := max(1, (total+perPage-1)/perPage)
	page = min(max(page, 1), pages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

// Offset is the index of the first row on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate returns the requested page of items and its PageInfo.
// POST: the returned slice is never nil, so it encodes as []
func Paginate[T any](items []T, lp ListParams) ([]T, PageInfo) {
	info := NewPageInfo(lp.Page, lp.PerPage, len(items))
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, info
}
