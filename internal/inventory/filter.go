package inventory

import (
	"strings"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"
)

// FilterAll is the sentinel filter value that matches every card.
const FilterAll = "All"

// FilterSlabs matches any card whose meta mentions a grading company.
const FilterSlabs = "Slabs"

var slabGraders = []string{"psa", "bgs", "cgc"}

// Visible produces the filtered view of the collection. It is a pure
// function of its inputs and preserves the order of cards. Predicates
// apply in order: section, then search query, then the active filter.
func Visible(cards []models.Card, section, filter, query string) []models.Card {
	query = strings.ToLower(strings.TrimSpace(query))

	out := []models.Card{}
	for _, c := range cards {
		if c.Section != section {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		if !matchesFilter(c, filter) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// matchesQuery reports whether the name or any meta entry contains the
// lowercased query.
func matchesQuery(c models.Card, query string) bool {
	if strings.Contains(strings.ToLower(c.Name), query) {
		return true
	}
	for _, m := range c.Meta {
		if strings.Contains(strings.ToLower(m), query) {
			return true
		}
	}
	return false
}

func matchesFilter(c models.Card, filter string) bool {
	if filter == "" || filter == FilterAll {
		return true
	}

	if filter == FilterSlabs {
		for _, m := range c.Meta {
			lower := strings.ToLower(m)
			for _, g := range slabGraders {
				if strings.Contains(lower, g) {
					return true
				}
			}
		}
		return false
	}

	needle := strings.ToLower(filter)
	for _, m := range c.Meta {
		if strings.Contains(strings.ToLower(m), needle) {
			return true
		}
	}
	return false
}
