package blackjack

import (
	"fmt"

	"github.com/fadedpez/sentenza/internal/types"
	"github.com/fadedpez/sentenza/pkg/entities"
)

// Number of wins in a row needed to advance a level
const winsToLevelUp = 3

// Bankroll tracks a betting participant's chips and open bets. Every
// debit checks funds first; a failed debit leaves the bankroll unchanged.
type Bankroll struct {
	chips        int64
	bet          int64
	insuranceBet int64
}

// NewBankroll creates a bankroll with the given starting chips
func NewBankroll(chips int64) Bankroll {
	return Bankroll{chips: chips}
}

// Chips returns the current chip balance
func (b *Bankroll) Chips() int64 { return b.chips }

// Bet returns the current open bet
func (b *Bankroll) Bet() int64 { return b.bet }

// InsuranceBet returns the current open insurance bet
func (b *Bankroll) InsuranceBet() int64 { return b.insuranceBet }

// PlaceBet debits chips and credits the open bet. Fails with
// INSUFFICIENT_FUNDS when the amount exceeds the balance.
func (b *Bankroll) PlaceBet(amount int64) error {
	if amount > b.chips {
		return types.NewGameError(types.ErrInsufficientFunds,
			fmt.Sprintf("bet of %d exceeds %d chips", amount, b.chips))
	}
	b.chips -= amount
	b.bet += amount
	return nil
}

// PlaceInsurance debits chips and credits the insurance bet
func (b *Bankroll) PlaceInsurance(amount int64) error {
	if amount > b.chips {
		return types.NewGameError(types.ErrInsufficientFunds,
			fmt.Sprintf("insurance of %d exceeds %d chips", amount, b.chips))
	}
	b.chips -= amount
	b.insuranceBet += amount
	return nil
}

// Win credits chips after a payout
func (b *Bankroll) Win(amount int64) {
	b.chips += amount
}

// ResetBet clears the open bet without returning it
func (b *Bankroll) ResetBet() {
	b.bet = 0
}

// ResetInsurance clears the open insurance bet without returning it
func (b *Bankroll) ResetInsurance() {
	b.insuranceBet = 0
}

// Stats holds the human player's persistent round counters. Three wins
// in a row advance the level; any loss resets the streak.
type Stats struct {
	GamesPlayed int
	GamesWon    int
	GamesLost   int
	GamesTied   int
	Level       int
	winStreak   int
}

// NewStats creates level-1 statistics
func NewStats() Stats {
	return Stats{Level: 1}
}

// RecordRound counts one settled round
func (s *Stats) RecordRound() {
	s.GamesPlayed++
}

// RecordWin counts a win and advances the level every third consecutive win
func (s *Stats) RecordWin() {
	s.GamesWon++
	s.winStreak++
	if s.winStreak >= winsToLevelUp {
		s.Level++
		s.winStreak = 0
	}
}

// RecordLoss counts a loss and resets the win streak
func (s *Stats) RecordLoss() {
	s.GamesLost++
	s.winStreak = 0
}

// RecordTie counts a push
func (s *Stats) RecordTie() {
	s.GamesTied++
}

// WinStreak returns the wins counted since the last loss or level-up
func (s *Stats) WinStreak() int {
	return s.winStreak
}

// Dealer holds cards only; the dealer never bets, splits, or insures
type Dealer struct {
	hand Hand
}

// NewDealer creates a dealer with an empty hand
func NewDealer() *Dealer {
	return &Dealer{}
}

// Hand returns the dealer's hand
func (d *Dealer) Hand() *Hand { return &d.hand }

// UpCard returns the dealer's first dealt (face-up) card
func (d *Dealer) UpCard() (entities.Card, bool) {
	if d.hand.Len() == 0 {
		return entities.Card{}, false
	}
	return d.hand.cards[0], true
}

// ClearHand empties the dealer's hand
func (d *Dealer) ClearHand() {
	d.hand.Clear()
}

// Player is the human player: a main hand, a split hand, a bankroll,
// and persistent statistics
type Player struct {
	hand      Hand
	splitHand Hand
	bankroll  Bankroll
	stats     Stats
}

// NewPlayer creates a player with the given starting chips
func NewPlayer(chips int64) *Player {
	return &Player{
		bankroll: NewBankroll(chips),
		stats:    NewStats(),
	}
}

// Hand returns the player's main hand
func (p *Player) Hand() *Hand { return &p.hand }

// SplitHand returns the player's split hand
func (p *Player) SplitHand() *Hand { return &p.splitHand }

// Bankroll returns the player's bankroll
func (p *Player) Bankroll() *Bankroll { return &p.bankroll }

// Stats returns the player's persistent statistics
func (p *Player) Stats() *Stats { return &p.stats }

// ClearHands empties both hands
func (p *Player) ClearHands() {
	p.hand.Clear()
	p.splitHand.Clear()
}

// CanSplit reports whether the main hand may be split: exactly two cards
// of equal rank, and enough chips to match the current bet
func (p *Player) CanSplit(bet int64) bool {
	if p.hand.Len() != 2 {
		return false
	}
	if p.hand.cards[0].Rank != p.hand.cards[1].Rank {
		return false
	}
	return p.bankroll.chips >= bet
}

// AIPlayer is a computer-controlled opponent: a nickname for display,
// a hand, and a bankroll. AI players keep no persistent statistics.
type AIPlayer struct {
	nickname string
	hand     Hand
	bankroll Bankroll
}

// NewAIPlayer creates an AI player with a nickname and starting chips
func NewAIPlayer(nickname string, chips int64) *AIPlayer {
	return &AIPlayer{
		nickname: nickname,
		bankroll: NewBankroll(chips),
	}
}

// Nickname returns the AI player's display name
func (a *AIPlayer) Nickname() string { return a.nickname }

// Hand returns the AI player's hand
func (a *AIPlayer) Hand() *Hand { return &a.hand }

// Bankroll returns the AI player's bankroll
func (a *AIPlayer) Bankroll() *Bankroll { return &a.bankroll }

// ClearHand empties the AI player's hand
func (a *AIPlayer) ClearHand() {
	a.hand.Clear()
}
