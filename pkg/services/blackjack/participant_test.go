package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/sentenza/internal/types"
	"github.com/fadedpez/sentenza/pkg/entities"
)

func TestBankrollPlaceBet(t *testing.T) {
	b := NewBankroll(100)

	require.NoError(t, b.PlaceBet(30))
	assert.Equal(t, int64(70), b.Chips())
	assert.Equal(t, int64(30), b.Bet())

	// A second bet stacks on the first (double down)
	require.NoError(t, b.PlaceBet(30))
	assert.Equal(t, int64(40), b.Chips())
	assert.Equal(t, int64(60), b.Bet())

	err := b.PlaceBet(41)
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrInsufficientFunds))
	assert.Equal(t, int64(40), b.Chips(), "failed bet must not move chips")
	assert.Equal(t, int64(60), b.Bet())
}

func TestBankrollInsurance(t *testing.T) {
	b := NewBankroll(100)
	require.NoError(t, b.PlaceBet(40))
	require.NoError(t, b.PlaceInsurance(20))
	assert.Equal(t, int64(40), b.Chips())
	assert.Equal(t, int64(20), b.InsuranceBet())

	err := b.PlaceInsurance(1000)
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrInsufficientFunds))

	b.Win(b.InsuranceBet() * 2)
	b.ResetInsurance()
	assert.Equal(t, int64(80), b.Chips())
	assert.Equal(t, int64(0), b.InsuranceBet())

	b.ResetBet()
	assert.Equal(t, int64(0), b.Bet())
	assert.Equal(t, int64(80), b.Chips(), "resetting a bet does not refund it")
}

func TestStatsLevelUp(t *testing.T) {
	s := NewStats()
	assert.Equal(t, 1, s.Level)

	s.RecordWin()
	s.RecordWin()
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 2, s.WinStreak())

	s.RecordWin()
	assert.Equal(t, 2, s.Level, "third consecutive win levels up")
	assert.Equal(t, 0, s.WinStreak(), "streak resets on level up")

	s.RecordWin()
	s.RecordWin()
	s.RecordLoss()
	assert.Equal(t, 0, s.WinStreak(), "loss resets the streak")
	assert.Equal(t, 2, s.Level)

	// Ties leave the streak alone
	s.RecordWin()
	s.RecordTie()
	assert.Equal(t, 1, s.WinStreak())

	assert.Equal(t, 6, s.GamesWon)
	assert.Equal(t, 1, s.GamesLost)
	assert.Equal(t, 1, s.GamesTied)
}

func TestDealerUpCard(t *testing.T) {
	d := NewDealer()
	_, ok := d.UpCard()
	assert.False(t, ok)

	d.Hand().AddCard(entities.NewCard(entities.Hearts, entities.Ace))
	d.Hand().AddCard(entities.NewCard(entities.Clubs, entities.Nine))

	up, ok := d.UpCard()
	require.True(t, ok)
	assert.Equal(t, entities.Ace, up.Rank, "the up card is the first dealt card")

	d.ClearHand()
	assert.True(t, d.Hand().IsEmpty())
}

func TestPlayerCanSplit(t *testing.T) {
	testCases := []struct {
		name     string
		ranks    []entities.Rank
		chips    int64
		bet      int64
		expected bool
	}{
		{"equal ranks with funds", []entities.Rank{entities.Eight, entities.Eight}, 100, 50, true},
		{"equal ranks without funds", []entities.Rank{entities.Eight, entities.Eight}, 40, 50, false},
		{"different ranks", []entities.Rank{entities.Eight, entities.Nine}, 100, 50, false},
		{"ten and king have equal value but not rank", []entities.Rank{entities.Ten, entities.King}, 100, 50, false},
		{"three cards", []entities.Rank{entities.Eight, entities.Eight, entities.Eight}, 100, 50, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer(tc.chips)
			for _, c := range cards(tc.ranks...) {
				p.Hand().AddCard(c)
			}
			assert.Equal(t, tc.expected, p.CanSplit(tc.bet))
		})
	}
}

func TestPlayerClearHands(t *testing.T) {
	p := NewPlayer(100)
	p.Hand().AddCard(entities.NewCard(entities.Hearts, entities.Two))
	p.SplitHand().AddCard(entities.NewCard(entities.Hearts, entities.Three))

	p.ClearHands()
	assert.True(t, p.Hand().IsEmpty())
	assert.True(t, p.SplitHand().IsEmpty())
}
