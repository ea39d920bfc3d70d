package search

import (
	"strings"

	"zerosugar/explorer/internal/domain"
)

// Query is the state of the search box after an input change.
type Query struct {
	Raw        string
	Normalized string
}

func NewQuery(raw string) Query {
	return Query{
		Raw:        raw,
		Normalized: Normalize(raw),
	}
}

// HasText drives the "has-text" style of the search box. It looks at the
// trimmed input, not the normalized one, so punctuation alone still counts.
func (q Query) HasText() bool {
	return strings.TrimSpace(q.Raw) != ""
}

// Filter keeps the products whose normalized name contains the normalized
// query, in their original order. An empty normalized query returns the
// input slice unchanged.
func Filter(raw string, products []domain.Product) []domain.Product {
	return NewQuery(raw).Apply(products)
}

func (q Query) Apply(products []domain.Product) []domain.Product {
	if q.Normalized == "" {
		return products
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(Normalize(p.Name), q.Normalized) {
			matched = append(matched, p)
		}
	}
	return matched
}
