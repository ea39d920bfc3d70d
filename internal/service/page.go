package service

import (
	"strconv"
	"strings"

	"zerosugar/explorer/internal/config"
	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/nav"
	"zerosugar/explorer/internal/search"
)

// Page owns the catalog snapshot of one page load. Handlers read from it
// instead of any shared state.
type Page struct {
	Products   []domain.Product
	Categories []domain.Category
	Sweeteners []domain.Sweetener
	catalog    config.CatalogConfig
}

// NewPage builds a page from an already fetched snapshot.
func NewPage(products []domain.Product, categories []domain.Category, sweeteners []domain.Sweetener, catalog config.CatalogConfig) *Page {
	return &Page{
		Products:   products,
		Categories: categories,
		Sweeteners: sweeteners,
		catalog:    catalog,
	}
}

func (p *Page) Nav(active nav.Section) nav.Menu {
	return nav.Build(active, p.catalog.CategoryOrder, p.Categories, p.catalog.Sweeteners)
}

type SearchResult struct {
	Query    search.Query
	Products []domain.Product
}

// Search filters the snapshot by the raw search box text.
func (p *Page) Search(raw string) SearchResult {
	q := search.NewQuery(raw)
	return SearchResult{
		Query:    q,
		Products: q.Apply(p.Products),
	}
}

type CategoryResult struct {
	// Category is nil when the id is unknown; the page then asks the user to
	// pick one from the menu.
	Category *domain.Category
	Products []domain.Product
}

// Category resolves the category_id query parameter. An empty parameter
// falls back to the first fetched category.
func (p *Page) Category(idParam string) CategoryResult {
	idParam = strings.TrimSpace(idParam)
	if idParam == "" && len(p.Categories) > 0 {
		idParam = strconv.Itoa(p.Categories[0].ID)
	}

	id, err := strconv.Atoi(idParam)
	if err != nil {
		return CategoryResult{}
	}

	c, ok := domain.FindCategory(p.Categories, id)
	if !ok {
		return CategoryResult{}
	}

	products := make([]domain.Product, 0)
	for _, product := range p.Products {
		if product.CategoryID == id {
			products = append(products, product)
		}
	}

	return CategoryResult{
		Category: &c,
		Products: products,
	}
}

type SweetenerResult struct {
	Name        string
	Description string
	Products    []domain.Product
}

// Sweetener resolves the name query parameter, defaulting to the configured
// sweetener.
func (p *Page) Sweetener(name string) SweetenerResult {
	if name == "" {
		name = p.catalog.DefaultSweetener
	}
	if name == "" {
		name = domain.DefaultSweetener.String()
	}

	products := make([]domain.Product, 0)
	for _, product := range p.Products {
		if product.HasSweetener(name) {
			products = append(products, product)
		}
	}

	return SweetenerResult{
		Name:        name,
		Description: domain.SweetenerName(name).Description(),
		Products:    products,
	}
}

// Product looks a product up by id in the snapshot.
func (p *Page) Product(id int) (domain.Product, bool) {
	for _, product := range p.Products {
		if product.ID == id {
			return product, true
		}
	}
	return domain.Product{}, false
}

func (d *DetailPage) Nav() nav.Menu {
	return nav.Build(nav.SectionProducts, d.catalog.CategoryOrder, d.Categories, d.catalog.Sweeteners)
}

// FilterOptions narrows the product list. Empty fields do not filter.
type FilterOptions struct {
	Query      string
	CategoryID string
	Sweetener  string
}

// Filter applies the search text, then the category, then the sweetener. A
// category id that is not a number matches nothing.
func (p *Page) Filter(opts FilterOptions) []domain.Product {
	products := p.Search(opts.Query).Products

	if raw := strings.TrimSpace(opts.CategoryID); raw != "" {
		id, err := strconv.Atoi(raw)
		filtered := make([]domain.Product, 0, len(products))
		if err == nil {
			for _, product := range products {
				if product.CategoryID == id {
					filtered = append(filtered, product)
				}
			}
		}
		products = filtered
	}

	if name := strings.TrimSpace(opts.Sweetener); name != "" {
		filtered := make([]domain.Product, 0, len(products))
		for _, product := range products {
			if product.HasSweetener(name) {
				filtered = append(filtered, product)
			}
		}
		products = filtered
	}

	return products
}
