package services

import (
	"errors"
	"math"
	"strconv"
)

var ErrInvalidPageAction = errors.New("invalid page action")

const (
	PageActionNext = "next"
	PageActionPrev = "prev"
)

// Page is the envelope returned by every paginated listing.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

func NewPage[T any](data []T, total int, page int, pageSize int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}

// Skip is the number of rows before the requested page.
func Skip(page int, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

func TotalPages(total int, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// NextPage resolves a pagination control. "next" and "prev" move relative to
// current (prev never goes below 1). A numeric action is returned as is, with
// no clamping against the page count. Stepping saturates at the int range
// instead of wrapping.
func NextPage(current int, action string) (int, error) {
	switch action {
	case PageActionNext:
		if current == math.MaxInt {
			return current, nil
		}
		return current + 1, nil
	case PageActionPrev:
		if current <= 1 {
			return 1, nil
		}
		return current - 1, nil
	}
	page, err := strconv.Atoi(action)
	if err != nil {
		return 0, ErrInvalidPageAction
	}
	return page, nil
}

// HasNextPage reports whether a page after page exists.
func (p Page[T]) HasNextPage() bool {
	return p.Page < p.TotalPages
}

func (p Page[T]) HasPrevPage() bool {
	return p.Page > 1
}
