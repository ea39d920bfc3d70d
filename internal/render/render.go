package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/nav"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// PlaceholderImage is used for products without an image.
const PlaceholderImage = "/assets/no-image.svg"

var pageNames = []string{"products", "category", "sweetener", "detail", "predict", "error"}

// Assets returns the static files served under /assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

type Renderer struct {
	base      *template.Template
	pages     map[string]*template.Template
	imageBase string
}

// New parses the page templates. imageBase prefixes relative image paths
// returned by the API.
func New(imageBase string) (*Renderer, error) {
	base, err := template.New("base").ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{
		base:      base,
		pages:     pages,
		imageBase: strings.TrimRight(imageBase, "/"),
	}, nil
}

// ImageURL resolves an API image path. Absolute URLs pass through, relative
// ones get the image base, and a missing one becomes the placeholder.
func (r *Renderer) ImageURL(u *string) string {
	if u == nil || strings.TrimSpace(*u) == "" {
		return PlaceholderImage
	}
	if strings.HasPrefix(*u, "http://") || strings.HasPrefix(*u, "https://") {
		return *u
	}
	if strings.HasPrefix(*u, "/") {
		return r.imageBase + *u
	}
	return r.imageBase + "/" + *u
}

type Tag struct {
	Name  string
	Class string
}

func Tags(names []string) []Tag {
	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, Tag{
			Name:  name,
			Class: domain.SweetenerName(name).TagClass(),
		})
	}
	return tags
}

type Card struct {
	ID       int
	Name     string
	ImageURL string
	Tags     []Tag
	Href     string
}

// Cards builds one card per product. onClick returns where activating the
// card leads; nil leaves the cards inert.
func (r *Renderer) Cards(products []domain.Product, onClick func(domain.Product) string) []Card {
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		card := Card{
			ID:       p.ID,
			Name:     p.Name,
			ImageURL: r.ImageURL(p.ImageURL),
			Tags:     Tags(p.Sweeteners),
		}
		if onClick != nil {
			card.Href = onClick(p)
		}
		cards = append(cards, card)
	}
	return cards
}

// OpenDetail is the card action used by every product grid.
func OpenDetail(p domain.Product) string {
	return nav.DetailHref(p.ID)
}

// Grid builds a product grid that links every card to its detail page.
func (r *Renderer) Grid(products []domain.Product) GridView {
	return GridView{
		Cards:     r.Cards(products, OpenDetail),
		ShowEmpty: len(products) == 0,
	}
}

func (r *Renderer) Products(w io.Writer, v ProductsView) error {
	return r.execute(w, "products", v)
}

func (r *Renderer) Category(w io.Writer, v CategoryView) error {
	return r.execute(w, "category", v)
}

func (r *Renderer) Sweetener(w io.Writer, v SweetenerView) error {
	return r.execute(w, "sweetener", v)
}

func (r *Renderer) Detail(w io.Writer, v DetailView) error {
	return r.execute(w, "detail", v)
}

func (r *Renderer) Predict(w io.Writer, v PredictView) error {
	return r.execute(w, "predict", v)
}

func (r *Renderer) Error(w io.Writer, v ErrorView) error {
	return r.execute(w, "error", v)
}

// GridFragment renders only the product grid; the search box swaps it in on
// every input change.
func (r *Renderer) GridFragment(w io.Writer, v GridView) error {
	return r.base.ExecuteTemplate(w, "grid", v)
}

func (r *Renderer) execute(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s page: %w", page, err)
	}
	return nil
}
