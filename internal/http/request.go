package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const (
	maxBodyBytes = 1 << 20 // 1 MiB

	defaultListLimit = 50
	maxListLimit     = 500
)

// decodeJSON reads a size-capped JSON body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

// pagination pulls offset/limit from the query string, clamping to sane values.
func pagination(r *http.Request) (offset, limit int) {
	limit = defaultListLimit

	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxListLimit)
		}
	}
	return offset, limit
}

// ListResponse is the common list envelope: the page plus the unpaginated total.
type ListResponse[T any] struct {
	TotalCount int `json:"total_count"`
	Items      []T `json:"items"`
}

func newListResponse[T any](total int, items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{TotalCount: total, Items: items}
}
