package entities

import (
	"math/rand"
	"testing"

	"github.com/fadedpez/sentenza/internal/types"
	"github.com/stretchr/testify/suite"
)

type ShoeTestSuite struct {
	suite.Suite
}

func TestShoeSuite(t *testing.T) {
	suite.Run(t, new(ShoeTestSuite))
}

func (s *ShoeTestSuite) newTestShoe(deckCount int) *Shoe {
	shoe, err := NewShoe(deckCount, rand.New(rand.NewSource(1)))
	s.Require().NoError(err)
	return shoe
}

func (s *ShoeTestSuite) TestNewShoeDeckCountBounds() {
	testCases := []struct {
		name      string
		deckCount int
		wantErr   bool
	}{
		{name: "below minimum", deckCount: 3, wantErr: true},
		{name: "minimum", deckCount: 4, wantErr: false},
		{name: "standard", deckCount: 6, wantErr: false},
		{name: "maximum", deckCount: 8, wantErr: false},
		{name: "above maximum", deckCount: 9, wantErr: true},
		{name: "zero", deckCount: 0, wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			shoe, err := NewShoe(tc.deckCount, rand.New(rand.NewSource(1)))
			if tc.wantErr {
				s.Error(err)
				s.True(types.IsGameError(err, types.ErrInvalidConfiguration), "should report INVALID_CONFIGURATION")
				s.Nil(shoe)
			} else {
				s.NoError(err)
				s.Equal(tc.deckCount*DeckSize, shoe.Remaining())
				s.Equal(tc.deckCount, shoe.DeckCount())
			}
		})
	}
}

func (s *ShoeTestSuite) TestDrawConsumesCards() {
	shoe := s.newTestShoe(4)
	before := shoe.Remaining()

	// Dealing two cards each to four participants consumes exactly eight cards
	for i := 0; i < 8; i++ {
		shoe.Draw()
	}

	s.Equal(before-8, shoe.Remaining())
}

func (s *ShoeTestSuite) TestDrawRefillsWhenExhausted() {
	shoe := s.newTestShoe(4)
	total := 4 * DeckSize

	// Drain the shoe completely
	for i := 0; i < total; i++ {
		shoe.Draw()
	}
	s.Equal(0, shoe.Remaining())

	// The next draw must succeed from a freshly refilled shoe
	card := shoe.Draw()
	s.Contains(Suits, card.Suit)
	s.Equal(total-1, shoe.Remaining(), "refill should restore deckCount full decks before drawing")
}

func (s *ShoeTestSuite) TestRefillYieldsFreshDecks() {
	shoe := s.newTestShoe(4)

	// Count rank occurrences across a full pass; each rank appears 4 per deck
	counts := make(map[Rank]int)
	for i := 0; i < 4*DeckSize; i++ {
		counts[shoe.Draw().Rank]++
	}
	for _, rank := range Ranks {
		s.Equal(16, counts[rank], "rank %s should appear four times per deck", rank)
	}

	// After exhaustion the refilled shoe holds the same full set again
	counts = make(map[Rank]int)
	for i := 0; i < 4*DeckSize; i++ {
		counts[shoe.Draw().Rank]++
	}
	for _, rank := range Ranks {
		s.Equal(16, counts[rank], "refill must not remember previously drawn cards")
	}
}

func (s *ShoeTestSuite) TestShuffleIsDeterministicWithSeededSource() {
	shoeA, err := NewShoe(6, rand.New(rand.NewSource(42)))
	s.Require().NoError(err)
	shoeB, err := NewShoe(6, rand.New(rand.NewSource(42)))
	s.Require().NoError(err)

	for i := 0; i < 20; i++ {
		s.Equal(shoeA.Draw(), shoeB.Draw(), "same seed should produce the same order")
	}
}
