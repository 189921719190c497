package entities

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fadedpez/sentenza/internal/types"
)

// Bounds on the number of standard decks a shoe may hold
const (
	MinDecks = 4
	MaxDecks = 8
)

// DeckSize is the number of cards in one standard deck
const DeckSize = 52

// Shoe is a shuffled, replenishing supply of cards drawn from several
// standard 52-card decks. When the shoe runs out it refills itself with
// fresh decks and reshuffles, so Draw never fails. The random source is
// injectable so shuffles can be reproduced under test.
type Shoe struct {
	cards     []Card
	deckCount int
	rng       *rand.Rand
}

// NewShoe creates a shoe holding deckCount standard decks, shuffled.
// deckCount must be between MinDecks and MaxDecks.
func NewShoe(deckCount int, rng *rand.Rand) (*Shoe, error) {
	if deckCount < MinDecks || deckCount > MaxDecks {
		return nil, types.NewGameError(types.ErrInvalidConfiguration,
			fmt.Sprintf("deck count must be between %d and %d, got %d", MinDecks, MaxDecks, deckCount))
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Shoe{
		deckCount: deckCount,
		rng:       rng,
	}
	s.refill()
	s.Shuffle()
	return s, nil
}

// refill replaces the shoe contents with deckCount fresh decks
func (s *Shoe) refill() {
	s.cards = make([]Card, 0, s.deckCount*DeckSize)
	for i := 0; i < s.deckCount; i++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

// Shuffle randomly permutes the cards currently in the shoe
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Draw removes and returns the front card. An empty shoe refills itself
// with fresh decks and reshuffles first, so a card is always returned.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.refill()
		s.Shuffle()
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DeckCount returns the number of decks the shoe was built from
func (s *Shoe) DeckCount() int {
	return s.deckCount
}
