package blackjack

import "github.com/fadedpez/sentenza/pkg/entities"

// Dealer stands at 17; the AI policy hits to the same threshold
const DealerStandScore = 17

// Hand is an ordered sequence of cards belonging to one participant.
// The score is always derived from the current cards, never cached.
type Hand struct {
	cards []entities.Card
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card entities.Card) {
	h.cards = append(h.cards, card)
}

// Clear removes all cards from the hand
func (h *Hand) Clear() {
	h.cards = h.cards[:0]
}

// Cards returns a copy of the cards in the hand
func (h *Hand) Cards() []entities.Card {
	out := make([]entities.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

// IsEmpty reports whether the hand holds no cards
func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// Score computes the hand's score
func (h *Hand) Score() Score {
	return ScoreCards(h.cards)
}

// IsBlackjack reports whether the hand is a natural: exactly two cards,
// one ace and one ten-value card. A third card can never produce one.
func (h *Hand) IsBlackjack() bool {
	if len(h.cards) != 2 {
		return false
	}
	return (h.cards[0].IsAce() && h.cards[1].Rank.IsTenValue()) ||
		(h.cards[1].IsAce() && h.cards[0].Rank.IsTenValue())
}

// Score holds the one or two valid totals of a hand. Hard counts every
// ace as 1. Soft upgrades a single ace to 11 and is only set when that
// does not bust; upgrading a second ace would always bust, so one soft
// total is enough.
type Score struct {
	Hard int
	Soft int // 0 when the hand has no valid soft total
}

// ScoreCards computes the score of an arbitrary card sequence
func ScoreCards(cards []entities.Card) Score {
	sum := 0
	aces := 0
	for _, card := range cards {
		sum += card.Rank.PointValue()
		if card.IsAce() {
			aces++
		}
	}

	score := Score{Hard: sum}
	if aces > 0 && sum+10 <= 21 {
		score.Soft = sum + 10
	}
	return score
}

// Values returns the valid totals, lowest first: one value when there is
// no usable soft total, two when there is (the second exactly 10 higher)
func (s Score) Values() []int {
	if s.Soft == 0 {
		return []int{s.Hard}
	}
	return []int{s.Hard, s.Soft}
}

// HasSoft reports whether the hand has a usable soft total
func (s Score) HasSoft() bool {
	return s.Soft != 0
}

// Best returns the effective score used for comparison: the soft total
// when usable, otherwise the hard total
func (s Score) Best() int {
	if s.Soft != 0 {
		return s.Soft
	}
	return s.Hard
}

// IsBust reports whether the hand is bust (even the hard total exceeds 21)
func (s Score) IsBust() bool {
	return s.Hard > 21
}
