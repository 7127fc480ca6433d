// Package filter derives the searched, category filtered and paginated view
// of an asset collection. Nothing here mutates the collection.
package filter

import (
	"strings"

	"asset-inventory/internal/models"
)

// PageSize is the number of assets per list page
const PageSize = 6

// Match reports whether asset passes both the search term and the category.
// The term matches case-insensitively against name or serial number; an empty
// term matches everything. An empty category means no category selection.
func Match(asset models.Asset, term string, category models.Category) bool {
	if category != "" && asset.Category != category {
		return false
	}
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(asset.Name), term) ||
		strings.Contains(strings.ToLower(asset.SerialNo), term)
}

// Apply returns the assets that Match, in collection order
func Apply(assets []models.Asset, term string, category models.Category) []models.Asset {
	out := make([]models.Asset, 0, len(assets))
	for _, a := range assets {
		if Match(a, term, category) {
			out = append(out, a)
		}
	}
	return out
}

// Paginate returns the 1-based page of items. Page 0, negative pages and
// pages past the end yield an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// TotalPages is ceil(count / size), never negative
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
