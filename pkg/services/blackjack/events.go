package blackjack

import "github.com/fadedpez/sentenza/pkg/entities"

// EventType identifies a state-change notification
type EventType string

const (
	EventCardsDealt          EventType = "CARDS_DEALT"
	EventChipsChanged        EventType = "CHIPS_CHANGED"
	EventAiTurnsCompleted    EventType = "AI_TURNS_COMPLETED"
	EventDealerTurnCompleted EventType = "DEALER_TURN_COMPLETED"
)

// Event is a state-change notification published to the presentation
// layer. Each variant carries value snapshots, so subscribers can render
// without calling back into the game mid-notification.
type Event interface {
	Type() EventType
}

// CardsDealt is published after the initial deal and after a split
// changes the table layout
type CardsDealt struct {
	Player    PlayerState
	Dealer    DealerState
	AIPlayers []AIState
}

// Type returns the event type
func (CardsDealt) Type() EventType { return EventCardsDealt }

// ChipsChanged is published whenever chip balances or open bets move
type ChipsChanged struct {
	Player    PlayerState
	AIPlayers []AIState
}

// Type returns the event type
func (ChipsChanged) Type() EventType { return EventChipsChanged }

// AiTurnsCompleted is published after every AI player has acted
type AiTurnsCompleted struct {
	AIPlayers []AIState
}

// Type returns the event type
func (AiTurnsCompleted) Type() EventType { return EventAiTurnsCompleted }

// DealerTurnCompleted is published after the dealer finishes drawing
type DealerTurnCompleted struct {
	Dealer DealerState
}

// Type returns the event type
func (DealerTurnCompleted) Type() EventType { return EventDealerTurnCompleted }

// HandState is a value snapshot of one hand
type HandState struct {
	Cards     []entities.Card
	Values    []int
	Best      int
	Busted    bool
	Blackjack bool
}

// PlayerState is a value snapshot of the human player
type PlayerState struct {
	Hand         HandState
	SplitHand    HandState
	HasSplit     bool
	Chips        int64
	Bet          int64
	SplitBet     int64
	InsuranceBet int64
	Stats        Stats
}

// DealerState is a value snapshot of the dealer
type DealerState struct {
	Hand HandState
}

// AIState is a value snapshot of one AI player
type AIState struct {
	Nickname     string
	Hand         HandState
	Chips        int64
	Bet          int64
	InsuranceBet int64
}

func snapshotHand(h *Hand) HandState {
	score := h.Score()
	return HandState{
		Cards:     h.Cards(),
		Values:    score.Values(),
		Best:      score.Best(),
		Busted:    score.IsBust(),
		Blackjack: h.IsBlackjack(),
	}
}
