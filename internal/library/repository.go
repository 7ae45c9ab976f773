// Package library hosts the user's declared device library: a SQLite-backed
// repository plus CRUD routes. The decision engines read devices through the
// repository and never write.
package library

import "errors"

// ListOptions controls pagination and sorting for list queries.
type ListOptions struct {
	Limit     int    // Max results per page (default 50, max 500).
	Offset    int    // Number of results to skip.
	SortBy    string // Column name (validated against an allow-list).
	SortOrder string // "asc" or "desc" (default "asc").
}

// ListResult wraps a paginated result set with a total count.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Sentinel errors returned by the repository.
var ErrNotFound = errors.New("not found")

// normalizeListOptions applies defaults and caps to list options.
func normalizeListOptions(opts ListOptions) ListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Limit > 500 {
		opts.Limit = 500
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.SortOrder != "desc" {
		opts.SortOrder = "asc"
	}
	return opts
}
