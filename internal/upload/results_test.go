package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerosugar/explorer/internal/domain"
)

func TestRankKnownAndUnknownCandidates(t *testing.T) {
	img := "/static/7.jpg"
	lookup := func(id int) (domain.Product, bool) {
		if id == 7 {
			return domain.Product{ID: 7, Name: "A", ImageURL: &img}, true
		}
		return domain.Product{}, false
	}

	cards := Rank([]domain.Prediction{
		{Rank: 2, Name: "B", ProductID: nil},
		{Rank: 1, Name: "A", ProductID: intPtr(7)},
	}, lookup)

	require.Len(t, cards, 2)

	assert.Equal(t, 1, cards[0].Rank)
	assert.True(t, cards[0].Top)
	assert.True(t, cards[0].Clickable())
	assert.Equal(t, "/detail?id=7", cards[0].Href)
	assert.Equal(t, KnownHint, cards[0].Hint)
	require.NotNil(t, cards[0].ImageURL)
	assert.Equal(t, img, *cards[0].ImageURL)

	assert.Equal(t, 2, cards[1].Rank)
	assert.False(t, cards[1].Top)
	assert.False(t, cards[1].Clickable())
	assert.Equal(t, UnknownHint, cards[1].Hint)
	assert.Nil(t, cards[1].ImageURL)
}

func TestRankKnownIDMissingFromSnapshot(t *testing.T) {
	cards := Rank([]domain.Prediction{{Rank: 1, Name: "C", ProductID: intPtr(99)}}, nil)

	require.Len(t, cards, 1)
	assert.True(t, cards[0].Clickable())
	assert.Nil(t, cards[0].ImageURL)
}
