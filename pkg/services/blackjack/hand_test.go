package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fadedpez/sentenza/pkg/entities"
)

func cards(ranks ...entities.Rank) []entities.Card {
	out := make([]entities.Card, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, entities.NewCard(entities.Spades, r))
	}
	return out
}

func handOf(ranks ...entities.Rank) *Hand {
	h := &Hand{}
	for _, c := range cards(ranks...) {
		h.AddCard(c)
	}
	return h
}

func TestScoreCards(t *testing.T) {
	testCases := []struct {
		name     string
		ranks    []entities.Rank
		hard     int
		soft     int
		best     int
		bust     bool
	}{
		{"empty hand", nil, 0, 0, 0, false},
		{"no aces", []entities.Rank{entities.Ten, entities.Seven}, 17, 0, 17, false},
		{"single ace upgrades", []entities.Rank{entities.Ace, entities.Six}, 7, 17, 17, false},
		{"ace and ten is 21", []entities.Rank{entities.Ace, entities.King}, 11, 21, 21, false},
		{"two aces upgrade once", []entities.Rank{entities.Ace, entities.Ace}, 2, 12, 12, false},
		{"ace upgrade would bust", []entities.Rank{entities.Ace, entities.Seven, entities.Five}, 13, 0, 13, false},
		{"hard twenty one", []entities.Rank{entities.Seven, entities.Seven, entities.Seven}, 21, 0, 21, false},
		{"bust", []entities.Rank{entities.King, entities.Queen, entities.Two}, 22, 0, 22, true},
		{"ace saves a big hand", []entities.Rank{entities.Ace, entities.Five, entities.Five}, 11, 21, 21, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			score := ScoreCards(cards(tc.ranks...))
			assert.Equal(t, tc.hard, score.Hard)
			assert.Equal(t, tc.soft, score.Soft)
			assert.Equal(t, tc.best, score.Best())
			assert.Equal(t, tc.bust, score.IsBust())
		})
	}
}

func TestScoreValues(t *testing.T) {
	hard := ScoreCards(cards(entities.Ten, entities.Five))
	assert.Equal(t, []int{15}, hard.Values())
	assert.False(t, hard.HasSoft())

	soft := ScoreCards(cards(entities.Ace, entities.Five))
	assert.Equal(t, []int{6, 16}, soft.Values())
	assert.True(t, soft.HasSoft())
}

func TestHandIsBlackjack(t *testing.T) {
	testCases := []struct {
		name      string
		ranks     []entities.Rank
		blackjack bool
	}{
		{"ace then king", []entities.Rank{entities.Ace, entities.King}, true},
		{"ten then ace", []entities.Rank{entities.Ten, entities.Ace}, true},
		{"jack and queen is twenty", []entities.Rank{entities.Jack, entities.Queen}, false},
		{"two aces", []entities.Rank{entities.Ace, entities.Ace}, false},
		{"twenty one in three cards", []entities.Rank{entities.Ace, entities.Five, entities.Five}, false},
		{"single card", []entities.Rank{entities.Ace}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.blackjack, handOf(tc.ranks...).IsBlackjack())
		})
	}
}

func TestHandMutation(t *testing.T) {
	h := &Hand{}
	assert.True(t, h.IsEmpty())

	h.AddCard(entities.NewCard(entities.Hearts, entities.Nine))
	h.AddCard(entities.NewCard(entities.Clubs, entities.Two))
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 11, h.Score().Hard)

	// Cards returns a copy; mutating it must not touch the hand
	copied := h.Cards()
	copied[0] = entities.NewCard(entities.Spades, entities.King)
	assert.Equal(t, entities.Nine, h.Cards()[0].Rank)

	h.Clear()
	assert.True(t, h.IsEmpty())
	assert.Equal(t, 0, h.Score().Hard)
}
