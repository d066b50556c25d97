package utils

import (
	"strconv"
	"strings"
)

// ParsePage returns a 1-based page number, falling back to def.
func ParsePage(q string, def int) int {
	if q == "" {
		return def
	}
	n, err := strconv.Atoi(q)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// ParsePageSize caps the page size at max to keep list queries bounded.
func ParsePageSize(q string, def, max int) int {
	if q == "" {
		return def
	}
	n, err := strconv.Atoi(q)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// SafeSort returns the requested sort column only when whitelisted.
func SafeSort(requested, fallback string, whitelist map[string]bool) string {
	col := strings.ToLower(strings.TrimSpace(requested))
	if whitelist[col] {
		return col
	}
	return fallback
}

// SortDirection normalizes the sort direction, defaulting to DESC.
func SortDirection(raw string) string {
	if strings.ToUpper(strings.TrimSpace(raw)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}
