package listutil

import (
	"net/url"
	"testing"
)

func TestParseListParams_Defaults(t *testing.T) {
	lp := ParseListParams(url.Values{}, []string{"name"}, []string{"status"})
	if lp.Page != 1 || lp.PerPage != DefaultPerPage {
		t.Errorf("page = %d per_page = %d, want 1 and %d", lp.Page, lp.PerPage, DefaultPerPage)
	}
	if lp.Sort != "" || lp.Desc {
		t.Errorf("sort = %q desc = %v, want natural order", lp.Sort, lp.Desc)
	}
	if len(lp.Filters) != 0 {
		t.Errorf("filters = %v, want none", lp.Filters)
	}
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name        string
		query       url.Values
		wantPage    int
		wantPerPage int
		wantSort    string
		wantDesc    bool
	}{
		{"explicit", url.Values{"page": {"3"}, "per_page": {"50"}, "sort": {"name"}, "dir": {"desc"}}, 3, 50, "name", true},
		{"per_page outside options", url.Values{"per_page": {"30"}}, 1, DefaultPerPage, "", false},
		{"negative page", url.Values{"page": {"-2"}}, 1, DefaultPerPage, "", false},
		{"garbage page", url.Values{"page": {"two"}}, 1, DefaultPerPage, "", false},
		{"unknown column", url.Values{"sort": {"password"}, "dir": {"desc"}}, 1, DefaultPerPage, "", false},
		{"ascending by default", url.Values{"sort": {"expiry"}, "dir": {"sideways"}}, 1, DefaultPerPage, "expiry", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lp := ParseListParams(tc.query, []string{"name", "expiry"}, nil)
			if lp.Page != tc.wantPage || lp.PerPage != tc.wantPerPage {
				t.Errorf("page = %d per_page = %d, want %d and %d", lp.Page, lp.PerPage, tc.wantPage, tc.wantPerPage)
			}
			if lp.Sort != tc.wantSort || lp.Desc != tc.wantDesc {
				t.Errorf("sort = %q desc = %v, want %q %v", lp.Sort, lp.Desc, tc.wantSort, tc.wantDesc)
			}
		})
	}
}

func TestParseListParams_KeepsOnlyKnownFilters(t *testing.T) {
	q := url.Values{"q": {"ama"}, "status": {"active"}, "plan": {""}, "role": {"SUPER_ADMIN"}}
	lp := ParseListParams(q, nil, []string{"status", "plan"})
	if lp.Search != "ama" {
		t.Errorf("search = %q", lp.Search)
	}
	if len(lp.Filters) != 1 || lp.Filters["status"] != "active" {
		t.Errorf("filters = %v, want only status=active", lp.Filters)
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		want                 PageInfo
	}{
		{"empty list", 1, 25, 0, PageInfo{Page: 1, PerPage: 25, Total: 0, TotalPages: 1}},
		{"exact fit", 2, 10, 20, PageInfo{Page: 2, PerPage: 10, Total: 20, TotalPages: 2, HasPrev: true}},
		{"middle page", 2, 10, 35, PageInfo{Page: 2, PerPage: 10, Total: 35, TotalPages: 4, HasNext: true, HasPrev: true}},
		{"past the end clamps", 9, 10, 35, PageInfo{Page: 4, PerPage: 10, Total: 35, TotalPages: 4, HasPrev: true}},
		{"zero per page", 1, 0, 3, PageInfo{Page: 1, PerPage: DefaultPerPage, Total: 3, TotalPages: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewPageInfo(tc.page, tc.perPage, tc.total); got != tc.want {
				t.Errorf("NewPageInfo(%d, %d, %d) = %+v, want %+v", tc.page, tc.perPage, tc.total, got, tc.want)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	page, info := Paginate(items, ListParams{Page: 2, PerPage: 2})
	if len(page) != 2 || page[0] != "c" || page[1] != "d" {
		t.Errorf("page 2 = %v, want [c d]", page)
	}
	if info.Offset() != 2 || !info.HasNext {
		t.Errorf("info = %+v", info)
	}

	page, _ = Paginate(items, ListParams{Page: 3, PerPage: 2})
	if len(page) != 1 || page[0] != "e" {
		t.Errorf("last page = %v, want [e]", page)
	}

	page[0] = "changed"
	if items[4] != "e" {
		t.Error("Paginate must not alias the input slice")
	}

	empty, info := Paginate([]string(nil), ListParams{Page: 1, PerPage: 10})
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty page = %#v, want a non-nil empty slice", empty)
	}
	if info.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", info.TotalPages)
	}
}
