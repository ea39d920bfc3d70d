package nav

import (
	"fmt"
	"net/url"

	"zerosugar/explorer/internal/domain"
)

// Section is a top-level navigation item.
type Section string

const (
	SectionProducts  Section = "products"
	SectionCategory  Section = "category"
	SectionSweetener Section = "sweetener"
)

func (s Section) Href() string {
	switch s {
	case SectionCategory:
		return "/category"
	case SectionSweetener:
		return "/sweetener"
	default:
		return "/"
	}
}

// Entry is one submenu item.
type Entry struct {
	Label string
	Href  string
}

// Menu is everything the global navigation bar needs to render.
type Menu struct {
	Active     Section
	Categories []Entry
	Sweeteners []Entry
}

func (m Menu) IsActive(s Section) bool {
	return m.Active == s
}

// Build assembles the navigation for a page.
func Build(active Section, order []string, categories []domain.Category, sweeteners []string) Menu {
	return Menu{
		Active:     active,
		Categories: CategoryEntries(order, categories),
		Sweeteners: SweetenerEntries(sweeteners),
	}
}

// CategoryEntries follows the display order, not the fetched order, and
// skips names the fetched categories do not contain.
func CategoryEntries(order []string, categories []domain.Category) []Entry {
	byName := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		if _, seen := byName[c.Name]; !seen {
			byName[c.Name] = c
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, name := range order {
		c, ok := byName[name]
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Label: name,
			Href:  CategoryHref(c.ID),
		})
	}
	return entries
}

// SweetenerEntries keeps the caller's order.
func SweetenerEntries(names []string) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{
			Label: name,
			Href:  SweetenerHref(name),
		})
	}
	return entries
}

func CategoryHref(id int) string {
	return fmt.Sprintf("/category?category_id=%d", id)
}

func SweetenerHref(name string) string {
	return "/sweetener?name=" + url.QueryEscape(name)
}

func DetailHref(id int) string {
	return fmt.Sprintf("/detail?id=%d", id)
}
