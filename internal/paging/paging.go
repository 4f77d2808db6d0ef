// Package paging provides page requests, sorted page results and the gorm
// scope that applies them to a query.
//
// # Usage
//
//	req := paging.NewRequest(0, 20, paging.Order{Field: "title"})
//	query, err := req.Apply(db, columns, defaultSort)
//	page := paging.New(rows, req, total)
package paging

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// ErrInvalidSort is returned when a sort field is not in the column whitelist.
var ErrInvalidSort = errors.New("invalid sort")

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is one sort key. Field is the public (JSON) field name.
type Order struct {
	Field     string
	Direction Direction
}

// ParseOrder parses "field" or "field,asc|desc".
func ParseOrder(s string) (Order, error) {
	parts := strings.Split(s, ",")
	field := strings.TrimSpace(parts[0])
	if field == "" || len(parts) > 2 {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}

	order := Order{Field: field, Direction: Asc}
	if len(parts) == 2 {
		switch Direction(strings.ToLower(strings.TrimSpace(parts[1]))) {
		case Asc:
		case Desc:
			order.Direction = Desc
		default:
			return Order{}, fmt.Errorf("%w: unknown direction in %q", ErrInvalidSort, s)
		}
	}
	return order, nil
}

// Request asks for one page. Page is zero-based.
type Request struct {
	Page int
	Size int
	Sort []Order
}

// NewRequest normalises page and size: negative pages become 0, sizes
// outside 1..MaxSize become DefaultSize or MaxSize.
func NewRequest(page, size int, sort ...Order) Request {
	if page < 0 {
		page = 0
	}
	switch {
	case size <= 0:
		size = DefaultSize
	case size > MaxSize:
		size = MaxSize
	}
	return Request{Page: page, Size: size, Sort: sort}
}

func (r Request) Offset() int {
	return r.Page * r.Size
}

// Apply adds ORDER BY, LIMIT and OFFSET to db. columns maps public field
// names to SQL columns; fallback is used when the request carries no sort.
func (r Request) Apply(db *gorm.DB, columns map[string]string, fallback ...Order) (*gorm.DB, error) {
	orders := r.Sort
	if len(orders) == 0 {
		orders = fallback
	}

	for _, o := range orders {
		column, ok := columns[o.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidSort, o.Field)
		}
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: column, Raw: strings.Contains(column, ".")},
			Desc:   o.Direction == Desc,
		})
	}

	size := r.Size
	if size <= 0 {
		size = DefaultSize
	}
	return db.Limit(size).Offset(r.Offset()), nil
}

// Page is one slice of a sorted result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Page+1 < p.TotalPages
}

// Map converts the content of a page, keeping its metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}
	return Page[U]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
