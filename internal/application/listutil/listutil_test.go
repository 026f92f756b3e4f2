package listutil

import (
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		wantPage int
		wantPer  int
	}{
		{"defaults", "", 1, DefaultPerPage},
		{"explicit", "page=3&per_page=20", 3, 20},
		{"zero page", "page=0", 1, DefaultPerPage},
		{"negative page", "page=-2", 1, DefaultPerPage},
		{"disallowed per_page", "per_page=33", 1, DefaultPerPage},
		{"non-numeric", "page=abc&per_page=xyz", 1, DefaultPerPage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tc.query)
			got := ParsePageParams(q)
			if got.Page != tc.wantPage || got.PerPage != tc.wantPer {
				t.Errorf("got %+v, want page=%d per_page=%d", got, tc.wantPage, tc.wantPer)
			}
		})
	}
}

func TestParseSortParams(t *testing.T) {
	allowed := []string{"name", "residence"}

	q, _ := url.ParseQuery("sort=name&dir=desc")
	got := ParseSortParams(q, allowed)
	if got.Sort != "name" || got.Dir != "desc" {
		t.Errorf("got %+v", got)
	}

	q, _ = url.ParseQuery("sort=password&dir=sideways")
	got = ParseSortParams(q, allowed)
	if got.Sort != "" {
		t.Errorf("disallowed column should be dropped, got %q", got.Sort)
	}
	if got.Dir != "asc" {
		t.Errorf("invalid dir should default to asc, got %q", got.Dir)
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 20, 45)
	if info.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", info.TotalPages)
	}
	if info.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", info.Offset())
	}

	info = NewPageInfo(9, 20, 45)
	if info.Page != 3 {
		t.Errorf("page should clamp to last, got %d", info.Page)
	}

	info = NewPageInfo(1, 20, 0)
	if info.TotalPages != 1 || info.Page != 1 {
		t.Errorf("empty result should still have one page, got %+v", info)
	}
}
