package dto

import (
	"fmt"

	"github.com/iho/creditledger/internal/domain"
)

// AccountResponse represents a credit account in API responses.
type AccountResponse struct {
	AccountID string `json:"account_id"`
	Owner     string `json:"owner"`
}

// PageResponse wraps one page of a projection. NextStartAfter is the cursor of
// the next page, empty on the last one.
type PageResponse[T any] struct {
	Items          []T    `json:"items"`
	NextStartAfter string `json:"next_start_after,omitempty"`
}

// NewPage builds a page response. A full page yields the cursor of its last item.
func NewPage[T any](items []T, limit int, key func(T) string) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	page := PageResponse[T]{Items: items}
	if limit > 0 && len(items) == limit {
		page.NextStartAfter = key(items[len(items)-1])
	}
	return page
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Class   string `json:"class,omitempty"`
}

// ErrorFromDomain renders err with its registered code and class.
func ErrorFromDomain(err error) ErrorResponse {
	class := domain.ClassOf(err)
	resp := ErrorResponse{Error: "internal", Message: err.Error(), Class: string(class)}
	if code := domain.CodeOf(err); code != 0 {
		resp.Error = fmt.Sprintf("%s:%d", domain.Codespace, code)
	}
	return resp
}
