package upload

import (
	"sort"

	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/nav"
)

const (
	KnownHint   = "클릭하면 상세 정보를 확인할 수 있습니다."
	UnknownHint = "DB에 등록되지 않은 제품일 수 있습니다."
)

// ResultCard is one ranked candidate in the results view.
type ResultCard struct {
	Rank     int
	Name     string
	Top      bool
	Href     string // empty when the candidate is not a catalog product
	Hint     string
	ImageURL *string
}

func (c ResultCard) Clickable() bool {
	return c.Href != ""
}

// ProductLookup finds a catalog product by id.
type ProductLookup func(id int) (domain.Product, bool)

// Rank orders the candidates by the server rank and resolves catalog links.
func Rank(results []domain.Prediction, lookup ProductLookup) []ResultCard {
	ordered := make([]domain.Prediction, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rank < ordered[j].Rank
	})

	cards := make([]ResultCard, 0, len(ordered))
	for _, r := range ordered {
		card := ResultCard{
			Rank: r.Rank,
			Name: r.Name,
			Top:  r.Rank == 1,
			Hint: UnknownHint,
		}

		if r.Known() {
			card.Href = nav.DetailHref(*r.ProductID)
			card.Hint = KnownHint
			if lookup != nil {
				if p, ok := lookup(*r.ProductID); ok {
					card.ImageURL = p.ImageURL
				}
			}
		}

		cards = append(cards, card)
	}
	return cards
}
