package util

import "strconv"

const (
	DefaultPageSize  = 10
	DefaultListLimit = 50
	MaxLimit         = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and a page size into an offset and limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxLimit {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// SkipLimit parses skip/limit query values. A missing or out of range
// limit falls back to def.
func SkipLimit(skipStr, limitStr string, def int) (skip, limit int) {
	skip = ParseIntDefault(skipStr, 0)
	if skip < 0 {
		skip = 0
	}
	limit = ParseIntDefault(limitStr, def)
	if limit <= 0 || limit > MaxLimit {
		limit = def
	}
	return skip, limit
}
