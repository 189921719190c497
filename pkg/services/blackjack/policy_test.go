package blackjack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/sentenza/pkg/entities"
)

func testShoe(t *testing.T) *entities.Shoe {
	t.Helper()
	shoe, err := entities.NewShoe(entities.MinDecks, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	return shoe
}

func TestPlayAITurnStandsOnNatural(t *testing.T) {
	ai := NewAIPlayer("AI1", 100)
	require.NoError(t, ai.Bankroll().PlaceBet(10))
	ai.Hand().AddCard(entities.NewCard(entities.Spades, entities.Ace))
	ai.Hand().AddCard(entities.NewCard(entities.Hearts, entities.King))

	PlayAITurn(ai, testShoe(t))

	assert.Equal(t, 2, ai.Hand().Len())
	assert.Equal(t, int64(10), ai.Bankroll().Bet())
}

func TestPlayAITurnDoublesOnTenAndEleven(t *testing.T) {
	for _, ranks := range [][]entities.Rank{
		{entities.Six, entities.Five}, // hard 11
		{entities.Six, entities.Four}, // hard 10
	} {
		ai := NewAIPlayer("AI1", 100)
		require.NoError(t, ai.Bankroll().PlaceBet(10))
		for _, c := range cards(ranks...) {
			ai.Hand().AddCard(c)
		}

		PlayAITurn(ai, testShoe(t))

		assert.Equal(t, 3, ai.Hand().Len(), "double down draws exactly one card")
		assert.Equal(t, int64(20), ai.Bankroll().Bet())
		assert.Equal(t, int64(70), ai.Bankroll().Chips())
	}
}

func TestPlayAITurnSkipsDoubleWithoutFunds(t *testing.T) {
	ai := NewAIPlayer("AI1", 10)
	require.NoError(t, ai.Bankroll().PlaceBet(8))
	ai.Hand().AddCard(entities.NewCard(entities.Spades, entities.Six))
	ai.Hand().AddCard(entities.NewCard(entities.Hearts, entities.Five))

	PlayAITurn(ai, testShoe(t))

	assert.Equal(t, int64(8), ai.Bankroll().Bet(), "cannot match the bet, so no double")
	assert.GreaterOrEqual(t, ai.Hand().Score().Hard, DealerStandScore)
}

func TestPlayAITurnHitsBelowSeventeen(t *testing.T) {
	ai := NewAIPlayer("AI1", 100)
	require.NoError(t, ai.Bankroll().PlaceBet(10))
	ai.Hand().AddCard(entities.NewCard(entities.Spades, entities.Two))
	ai.Hand().AddCard(entities.NewCard(entities.Hearts, entities.Three))

	PlayAITurn(ai, testShoe(t))

	assert.GreaterOrEqual(t, ai.Hand().Score().Hard, DealerStandScore)
	assert.Greater(t, ai.Hand().Len(), 2)
	assert.Equal(t, int64(10), ai.Bankroll().Bet())
}

func TestPlayAITurnStandsOnSeventeen(t *testing.T) {
	ai := NewAIPlayer("AI1", 100)
	require.NoError(t, ai.Bankroll().PlaceBet(10))
	ai.Hand().AddCard(entities.NewCard(entities.Spades, entities.King))
	ai.Hand().AddCard(entities.NewCard(entities.Hearts, entities.Seven))

	PlayAITurn(ai, testShoe(t))

	assert.Equal(t, 2, ai.Hand().Len())
}
