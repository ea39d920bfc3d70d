package render

import (
	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/nav"
	"zerosugar/explorer/internal/upload"
)

type Layout struct {
	Title string
	Nav   nav.Menu
}

type GridView struct {
	Cards     []Card
	ShowEmpty bool
}

type UploadView struct {
	PageID         string
	Open           bool
	Alert          string
	Categories     []domain.Category
	Selected       int
	ButtonDisabled bool
	ButtonLabel    string
}

// ProductsView is the products page. PageID names the catalog snapshot the
// page was rendered from; live search and the upload form send it back.
type ProductsView struct {
	Layout
	PageID  string
	Query   string
	HasText bool
	Grid    GridView
	Upload  UploadView
}

type CategoryView struct {
	Layout
	Heading     string
	Description string
	Grid        GridView
}

type SweetenerView struct {
	Layout
	Name        string
	Description string
	Grid        GridView
}

type DetailView struct {
	Layout
	Found     bool
	Name      string
	ImageURL  string
	Tags      []Tag
	Nutrition []domain.NutritionRow
}

type PredictCard struct {
	upload.ResultCard
	Image string
}

type PredictView struct {
	Layout
	Results []PredictCard
}

type ErrorView struct {
	Layout
	Message string
}

// PredictCards resolves the candidate images for the results view.
func (r *Renderer) PredictCards(cards []upload.ResultCard) []PredictCard {
	out := make([]PredictCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, PredictCard{
			ResultCard: c,
			Image:      r.ImageURL(c.ImageURL),
		})
	}
	return out
}
