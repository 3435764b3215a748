package dto

import "net/http"

// OrderResponse wraps a single order.
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Order   Order  `json:"order"`
}

// OrderListResponse wraps one page of orders.
type OrderListResponse struct {
	Success     bool    `json:"success"`
	Orders      []Order `json:"orders"`
	TotalPages  int64   `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	Total       int64   `json:"total"`
}

// StatsResponse wraps aggregate statistics.
type StatsResponse struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

// ErrorResponse is the failure envelope shared by handlers, recovery and
// the not found route.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Result is what a handler produces; the router renders it as JSON.
type Result struct {
	Status int
	Body   any
}

// OK builds a success result.
func OK(status int, body any) Result {
	return Result{Status: status, Body: body}
}

// Fail builds a failure result with the standard error envelope.
func Fail(status int, message string) Result {
	return Result{Status: status, Body: ErrorResponse{Message: message}}
}

// Internal reports an unexpected error with its raw text as the message.
func Internal(err error) Result {
	return Fail(http.StatusInternalServerError, err.Error())
}
