package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams covers defaults, valid values and fallbacks.
func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name        string
		q           url.Values
		wantPage    int
		wantPerPage int
	}{
		{"defaults", url.Values{}, 1, DefaultPerPage},
		{"valid", url.Values{"page": {"3"}, "per_page": {"25"}}, 3, 25},
		{"per_page not an option", url.Values{"per_page": {"30"}}, 1, DefaultPerPage},
		{"negative page", url.Values{"page": {"-1"}}, 1, DefaultPerPage},
		{"garbage", url.Values{"page": {"x"}, "per_page": {"y"}}, 1, DefaultPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePageParams(tt.q)
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("ParsePageParams = %+v, want page %d per_page %d", p, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

// TestPageParams_Offset verifies the row offset of each page.
func TestPageParams_Offset(t *testing.T) {
	if got := (PageParams{Page: 1, PerPage: 25}).Offset(); got != 0 {
		t.Errorf("page 1 offset = %d, want 0", got)
	}
	if got := (PageParams{Page: 3, PerPage: 25}).Offset(); got != 50 {
		t.Errorf("page 3 offset = %d, want 50", got)
	}
}

// TestNewPageInfo verifies total pages and HasNext.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name      string
		p         PageParams
		total     int
		wantPages int
		wantNext  bool
	}{
		{"empty", PageParams{Page: 1, PerPage: 10}, 0, 1, false},
		{"exact fit", PageParams{Page: 1, PerPage: 10}, 20, 2, true},
		{"remainder", PageParams{Page: 3, PerPage: 10}, 21, 3, false},
		{"past the end", PageParams{Page: 9, PerPage: 10}, 21, 3, false},
		{"zero per page", PageParams{Page: 1}, 120, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.p, tt.total)
			if info.TotalPages != tt.wantPages || info.HasNext() != tt.wantNext || info.Total != tt.total {
				t.Errorf("NewPageInfo = %+v (next %v), want %d pages, next %v", info, info.HasNext(), tt.wantPages, tt.wantNext)
			}
		})
	}
	if info := NewPageInfo(PageParams{Page: 9, PerPage: 10}, 21); info.Page != 9 {
		t.Errorf("page past the end = %d, want 9", info.Page)
	}
}
