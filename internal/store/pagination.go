package store

import (
	"strconv"

	"gorm.io/gorm"
)

const (
	PostsPerPage    = 10
	CommentsPerPage = 5
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int64
	PerPage  int
}

func (p *Page[T]) HasPrevious() bool   { return p.Number > 1 }
func (p *Page[T]) HasNext() bool       { return p.Number < p.NumPages }
func (p *Page[T]) HasOtherPages() bool { return p.HasPrevious() || p.HasNext() }
func (p *Page[T]) PreviousNumber() int { return p.Number - 1 }
func (p *Page[T]) NextNumber() int     { return p.Number + 1 }

// PageRange lists every page number, for rendering the pager.
func (p *Page[T]) PageRange() []int {
	r := make([]int, p.NumPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}

// NumPagesFor is the number of pages count rows fill; an empty set still has one page.
func NumPagesFor(count int64, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// ResolvePage turns the raw ?page= value into a valid page number. A missing or
// non-numeric value yields the first page; anything out of range yields the last.
func ResolvePage(raw string, count int64, perPage int) int {
	numPages := NumPagesFor(count, perPage)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

// paginate counts base, then loads the requested page through find. base must
// not carry an ORDER BY (postgres rejects it in COUNT queries); find adds ordering
// and preloads.
func paginate[T any](base *gorm.DB, perPage int, raw string, find func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	base = base.Session(&gorm.Session{})

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, wrap(err, "count page rows")
	}

	number := ResolvePage(raw, count, perPage)
	page := &Page[T]{
		Items:    []T{},
		Number:   number,
		NumPages: NumPagesFor(count, perPage),
		Count:    count,
		PerPage:  perPage,
	}
	if count == 0 {
		return page, nil
	}

	q := base
	if find != nil {
		q = find(q)
	}
	if err := q.Limit(perPage).Offset((number - 1) * perPage).Find(&page.Items).Error; err != nil {
		return nil, wrap(err, "load page rows")
	}
	return page, nil
}
