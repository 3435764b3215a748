package model

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// Pagination is a validated page request.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads raw query values. Missing, malformed or non-positive
// values fall back to the defaults. Page is capped at MaxPage and limit at
// MaxLimit, so the row offset always fits an int.
func ParsePagination(page, limit string) Pagination {
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}
	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		p.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(limit); err == nil && n >= 1 {
		p.Limit = min(n, MaxLimit)
	}
	return p
}

// OrderFilter narrows order listings. Empty fields are not applied.
type OrderFilter struct {
	UserID string
	Status OrderStatus
	Offset int
	Limit  int
}

// OrderPage is one page of a listing together with paging totals.
type OrderPage struct {
	Orders      []Order
	Total       int64
	TotalPages  int64
	CurrentPage int
}

// StatusStat aggregates orders sharing a status.
type StatusStat struct {
	Status      OrderStatus
	Count       int64
	TotalAmount float64
}

// OrderStats summarises every stored order.
type OrderStats struct {
	TotalOrders  int64
	TotalRevenue float64
	ByStatus     []StatusStat
}
