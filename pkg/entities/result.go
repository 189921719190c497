package entities

import "time"

// Outcome represents how a single hand resolved against the dealer
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomePush      Outcome = "PUSH"
	OutcomeBlackjack Outcome = "BLACKJACK"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome represents a win
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// Hand labels inside a round record
const (
	HandLabelMain  = "main"
	HandLabelSplit = "split"
)

// HandRecord is the archived record of one settled hand
type HandRecord struct {
	ID           string  `json:"id"`
	Participant  string  `json:"participant"`
	HandLabel    string  `json:"hand_label"`
	Cards        []string `json:"cards"`
	Score        int     `json:"score"`
	Busted       bool    `json:"busted"`
	Blackjack    bool    `json:"blackjack"`
	DoubledDown  bool    `json:"doubled_down"`
	Bet          int64   `json:"bet"`
	Payout       int64   `json:"payout"`
	InsuranceBet int64   `json:"insurance_bet,omitempty"`
	Outcome      Outcome `json:"outcome"`
}

// RoundResult is the archived record of one completed round
type RoundResult struct {
	ID              string        `json:"id"`
	CompletedAt     time.Time     `json:"completed_at"`
	DealerCards     []string      `json:"dealer_cards"`
	DealerScore     int           `json:"dealer_score"`
	DealerBlackjack bool          `json:"dealer_blackjack"`
	DealerBusted    bool          `json:"dealer_busted"`
	Hands           []*HandRecord `json:"hands"`
}

// PlayerStatistics represents aggregated statistics for one participant
// across archived rounds
type PlayerStatistics struct {
	Participant   string
	HandsPlayed   int
	Wins          int
	Losses        int
	Pushes        int
	Blackjacks    int
	Busts         int
	TotalBet      int64
	TotalWinnings int64
	LastUpdated   time.Time
}

// NetProfit calculates the participant's net profit
func (s *PlayerStatistics) NetProfit() int64 {
	return s.TotalWinnings - s.TotalBet
}

// WinRate calculates the participant's win rate as a percentage
func (s *PlayerStatistics) WinRate() float64 {
	if s.HandsPlayed == 0 {
		return 0.0
	}
	return float64(s.Wins) / float64(s.HandsPlayed) * 100.0
}
