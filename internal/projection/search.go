package projection

import (
	"strings"

	"hondaapi/internal/model"
)

// Filter keeps the entities with at least one search field containing query,
// ignoring case. An empty query returns items unchanged. Order is preserved.
func Filter[T model.Entity](items []T, query string) []T {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range it.SearchFields() {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
