package pagination

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params are the page, limit and search query parameters of a list endpoint.
type Params struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search,omitempty"`
}

// Meta is returned next to every paged list.
type Meta struct {
	CurrentPage  int  `json:"current_page"`
	PerPage      int  `json:"per_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

func ParseParams(r *http.Request) Params {
	return ParseParamsWithLimit(r, DefaultLimit)
}

// ParseParamsWithLimit reads ?page, ?limit and ?search. Malformed or
// non-positive numbers fall back to the defaults.
func ParseParamsWithLimit(r *http.Request, defaultLimit int) Params {
	q := r.URL.Query()
	p := Params{
		Page:   positiveInt(q.Get("page"), DefaultPage),
		Limit:  positiveInt(q.Get("limit"), defaultLimit),
		Search: strings.TrimSpace(q.Get("search")),
	}
	p.Validate()
	return p
}

func positiveInt(raw string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
		return v
	}
	return fallback
}

// Validate clamps Limit to 1..MaxLimit and Page to 1..MaxPage(Limit).
func (p *Params) Validate() {
	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if last := MaxPage(p.Limit); p.Page > last {
		p.Page = last
	}
}

// MaxPage is the last page number whose offset still fits in an int32.
// Larger page numbers are far past any result and read as an empty page.
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return math.MaxInt32/limit + 1
}

func (p *Params) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}

// CalculateMeta reports at least one page, even for an empty result.
func (p *Params) CalculateMeta(totalRecords int) Meta {
	pages := 1
	if totalRecords > 0 {
		pages = (totalRecords + p.Limit - 1) / p.Limit
	}
	return Meta{
		CurrentPage:  p.Page,
		PerPage:      p.Limit,
		TotalPages:   pages,
		TotalRecords: totalRecords,
		HasNext:      p.Page < pages,
		HasPrevious:  p.Page > 1,
	}
}

// Slice pages an in-memory list, for feeds that are merged after querying.
func Slice[T any](items []T, p Params) ([]T, Meta) {
	p.Validate()
	meta := p.CalculateMeta(len(items))
	start := p.CalculateOffset()
	if start < 0 || start >= len(items) {
		return []T{}, meta
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
