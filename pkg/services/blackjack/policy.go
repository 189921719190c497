package blackjack

import "github.com/fadedpez/sentenza/pkg/entities"

// PlayAITurn runs the fixed heuristic for one AI player's turn:
//
//  1. stand on a natural
//  2. double down on a hard 10 or 11 when the bet can be matched
//  3. otherwise hit below 17, then stand
//
// The only nondeterminism is whether the double can be afforded.
func PlayAITurn(ai *AIPlayer, shoe *entities.Shoe) {
	if ai.Hand().IsBlackjack() {
		return
	}

	hard := ai.Hand().Score().Hard
	bank := ai.Bankroll()
	if (hard == 10 || hard == 11) && bank.Chips() >= bank.Bet() {
		// Matching the bet cannot fail after the funds check
		_ = bank.PlaceBet(bank.Bet())
		ai.Hand().AddCard(shoe.Draw())
		return
	}

	for ai.Hand().Score().Hard < DealerStandScore {
		ai.Hand().AddCard(shoe.Draw())
	}
}
