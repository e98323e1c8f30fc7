package pagination

import (
	"math"
	"net/http/httptest"
	"testing"
)

// TestParseParams tests query parsing, defaults and clamping
func TestParseParams(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		expectedPage   int
		expectedLimit  int
		expectedSearch string
	}{
		{"defaults", "", 1, 20, ""},
		{"explicit values", "?page=3&limit=5", 3, 5, ""},
		{"limit clamped", "?limit=1000", 1, MaxLimit, ""},
		{"invalid values ignored", "?page=-2&limit=abc", 1, 20, ""},
		{"search trimmed", "?search=%20MOM-0001%20", 1, 20, "MOM-0001"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := ParseParams(httptest.NewRequest("GET", "/x"+tc.query, nil))
			if p.Page != tc.expectedPage {
				t.Errorf("Expected page %d, got %d", tc.expectedPage, p.Page)
			}
			if p.Limit != tc.expectedLimit {
				t.Errorf("Expected limit %d, got %d", tc.expectedLimit, p.Limit)
			}
			if p.Search != tc.expectedSearch {
				t.Errorf("Expected search %q, got %q", tc.expectedSearch, p.Search)
			}
		})
	}
}

// TestParseParamsWithLimit tests a custom default page size
func TestParseParamsWithLimit(t *testing.T) {
	p := ParseParamsWithLimit(httptest.NewRequest("GET", "/provider/appointments?page=2", nil), 10)
	if p.Limit != 10 || p.Page != 2 {
		t.Errorf("Expected page 2 limit 10, got page %d limit %d", p.Page, p.Limit)
	}
}

// TestCalculateMeta tests page count arithmetic
func TestCalculateMeta(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	meta := p.CalculateMeta(25)

	if meta.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrevious {
		t.Errorf("Expected HasNext and HasPrevious, got %+v", meta)
	}
	if p.CalculateOffset() != 10 {
		t.Errorf("Expected offset 10, got %d", p.CalculateOffset())
	}

	empty := (&Params{Page: 1, Limit: 10}).CalculateMeta(0)
	if empty.TotalPages != 1 || empty.HasNext {
		t.Errorf("Expected a single empty page, got %+v", empty)
	}
}

// TestSlice tests in-memory paging
func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	page, meta := Slice(items, Params{Page: 2, Limit: 10})
	if len(page) != 2 || page[0] != 11 {
		t.Errorf("Expected [11 12], got %v", page)
	}
	if meta.TotalRecords != 12 || meta.TotalPages != 2 {
		t.Errorf("Unexpected meta: %+v", meta)
	}

	beyond, _ := Slice(items, Params{Page: 5, Limit: 10})
	if len(beyond) != 0 {
		t.Errorf("Expected empty page, got %v", beyond)
	}
}

// TestHugePage tests that page numbers near the int range never yield a negative offset
func TestHugePage(t *testing.T) {
	req := httptest.NewRequest("GET", "/provider/appointments?page=9223372036854775807&limit=10", nil)
	p := ParseParamsWithLimit(req, 10)

	if p.Page != MaxPage(10) {
		t.Errorf("Expected page clamped to %d, got %d", MaxPage(10), p.Page)
	}
	if offset := p.CalculateOffset(); offset < 0 {
		t.Fatalf("Expected non-negative offset, got %d", offset)
	}

	page, meta := Slice([]int{1, 2, 3}, p)
	if len(page) != 0 {
		t.Errorf("Expected empty page, got %v", page)
	}
	if meta.HasNext || meta.TotalRecords != 3 {
		t.Errorf("Unexpected meta: %+v", meta)
	}

	direct, _ := Slice([]int{1, 2, 3}, Params{Page: math.MaxInt, Limit: MaxLimit})
	if len(direct) != 0 {
		t.Errorf("Expected empty page for unvalidated params, got %v", direct)
	}
}
