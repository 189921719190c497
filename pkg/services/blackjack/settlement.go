package blackjack

import "github.com/fadedpez/sentenza/pkg/entities"

// ResolveHand determines the outcome of one hand against the dealer.
// Bust always loses. A natural beats anything but another natural, which
// is a push. Otherwise effective scores are compared, with a dealer bust
// counting as a win.
func ResolveHand(score Score, blackjack bool, dealerScore Score, dealerBlackjack bool) entities.Outcome {
	if score.IsBust() {
		return entities.OutcomeLose
	}

	if blackjack {
		if dealerBlackjack {
			return entities.OutcomePush
		}
		return entities.OutcomeBlackjack
	}

	if dealerScore.IsBust() || score.Best() > dealerScore.Best() {
		return entities.OutcomeWin
	}
	if score.Best() == dealerScore.Best() {
		return entities.OutcomePush
	}
	return entities.OutcomeLose
}

// Payout returns the chips returned to the bettor for an outcome. A win
// pays back twice the stake, a push returns the stake, a loss pays
// nothing. Naturals pay at the ordinary win rate, not 3:2.
func Payout(outcome entities.Outcome, bet int64) int64 {
	switch outcome {
	case entities.OutcomeWin, entities.OutcomeBlackjack:
		return bet * 2
	case entities.OutcomePush:
		return bet
	default:
		return 0
	}
}
