// Package paginate orders and windows fully materialized result sets.
package paginate

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder accepts asc or desc; empty means desc.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "", Desc:
		return Desc, nil
	case Asc:
		return Asc, nil
	}
	return "", ccerrors.InvalidInput("order", s, "must be asc or desc")
}

// Meta describes the window a Page holds.
type Meta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// Page is one window of a sorted result set.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// Normalize validates limit and offset. A zero limit becomes def.
func Normalize(limit, offset, def int) (int, int, error) {
	if def <= 0 || def > MaxLimit {
		def = DefaultLimit
	}
	switch {
	case limit == 0:
		limit = def
	case limit < 0:
		return 0, 0, ccerrors.InvalidInput("limit", limit, "must be positive")
	case limit > MaxLimit:
		return 0, 0, ccerrors.InvalidInput("limit", limit, "must be at most 100")
	}
	if offset < 0 {
		return 0, 0, ccerrors.InvalidInput("offset", offset, "must not be negative")
	}
	return limit, offset, nil
}

// Window selects items[offset:offset+limit]. items must already be sorted.
func Window[T any](items []T, limit, offset int) Page[T] {
	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)
	data := make([]T, end-start)
	copy(data, items[start:end])
	return Page[T]{
		Data: data,
		Meta: Meta{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
		},
	}
}

// SortBy sorts items in place by key, computing each key once. Equal keys
// fall back to id ascending so repeated queries page identically.
func SortBy[T any, K cmp.Ordered](items []T, order Order, key func(T) K, id func(T) string) {
	type keyed struct {
		key  K
		id   string
		item T
	}
	ks := make([]keyed, len(items))
	for i, item := range items {
		ks[i] = keyed{key: key(item), id: id(item), item: item}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		c := cmp.Compare(a.key, b.key)
		if order == Desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.id, b.id)
		}
		return c
	})
	for i := range ks {
		items[i] = ks[i].item
	}
}

// TimeKey turns an optional time into a sort key. Absent times sort before
// every real time, so they land last in descending order.
func TimeKey(t *time.Time) int64 {
	if t == nil {
		return math.MinInt64
	}
	return t.UnixNano()
}

// All walks a paged listing from offset 0 and concatenates every page.
func All[T any](page func(offset int) (Page[T], error)) ([]T, error) {
	var items []T
	for offset := 0; ; {
		p, err := page(offset)
		if err != nil {
			return nil, err
		}
		items = append(items, p.Data...)
		if !p.Meta.HasMore || len(p.Data) == 0 {
			return items, nil
		}
		offset += len(p.Data)
	}
}
