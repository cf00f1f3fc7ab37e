// Package pagination models page requests and page results shared by repositories.
package pagination

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultSize = 12
	MaxSize     = 100
	// MaxPage keeps (Page+1)*Size within int for every accepted size.
	MaxPage = math.MaxInt/MaxSize - 1
)

// Direction orders a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort names a field and direction.
type Sort struct {
	Field     string
	Direction Direction
}

// String renders the sort as "field,direction".
func (s Sort) String() string {
	if s.Field == "" {
		return ""
	}
	return fmt.Sprintf("%s,%s", s.Field, s.Direction)
}

// Pageable is a request for one page of results.
type Pageable struct {
	Page int
	Size int
	Sort Sort
}

// Of builds a normalized page request.
func Of(page, size int) Pageable {
	return Pageable{Page: page, Size: size}.Normalize()
}

// Normalize clamps page and size into valid ranges.
func (p Pageable) Normalize() Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	if p.Sort.Field != "" && p.Sort.Direction != Desc {
		p.Sort.Direction = Asc
	}
	return p
}

// Offset is the number of rows preceding the page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// SortBy returns a copy sorted by the given field and direction.
func (p Pageable) SortBy(field string, dir Direction) Pageable {
	p.Sort = Sort{Field: field, Direction: dir}
	return p.Normalize()
}

// ParseSort reads "field" or "field,asc|desc". Only allowed fields are accepted.
func ParseSort(raw string, allowed ...string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Sort{}, nil
	}
	parts := strings.Split(raw, ",")
	field := strings.TrimSpace(parts[0])
	dir := Asc
	if len(parts) > 1 {
		switch Direction(strings.ToLower(strings.TrimSpace(parts[1]))) {
		case Asc:
		case Desc:
			dir = Desc
		default:
			return Sort{}, fmt.Errorf("invalid sort direction %q", parts[1])
		}
	}
	for _, candidate := range allowed {
		if candidate == field {
			return Sort{Field: field, Direction: dir}, nil
		}
	}
	return Sort{}, fmt.Errorf("cannot sort by %q", field)
}

// Page is one page of results plus totals.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a page for the request and the total element count.
func NewPage[T any](content []T, req Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// Map converts the content of a page while keeping its totals.
func Map[T, R any](page Page[T], fn func(T) R) Page[R] {
	out := make([]R, 0, len(page.Content))
	for _, item := range page.Content {
		out = append(out, fn(item))
	}
	return Page[R]{
		Content:       out,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

// Slice pages an in-memory result set.
func Slice[T any](all []T, req Pageable) Page[T] {
	req = req.Normalize()
	total := len(all)
	start := min(max(req.Offset(), 0), total)
	end := start + req.Size
	if end > total {
		end = total
	}
	return NewPage(append([]T(nil), all[start:end]...), req, int64(total))
}

// Last reports whether the page is the final one.
func (p Page[T]) Last() bool {
	return p.Number+1 >= p.TotalPages
}
