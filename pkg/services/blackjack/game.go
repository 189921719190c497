package blackjack

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/fadedpez/sentenza/internal/logging"
	"github.com/fadedpez/sentenza/internal/types"
	"github.com/fadedpez/sentenza/pkg/entities"
	"github.com/fadedpez/sentenza/pkg/repositories/round"
)

// State identifies the current phase of a round
type State string

const (
	StateAwaitingBet State = "AWAITING_BET"
	StateDealing     State = "DEALING"
	StateInsurance   State = "INSURANCE"
	StatePlayerTurn  State = "PLAYER_TURN"
	StateAiTurns     State = "AI_TURNS"
	StateDealerTurn  State = "DEALER_TURN"
	StateSettlement  State = "SETTLEMENT"
	StateGameOver    State = "GAME_OVER"
)

// HandTarget selects which of the player's hands an action applies to
type HandTarget string

const (
	HandMain  HandTarget = "main"
	HandSplit HandTarget = "split"
)

// ParticipantPlayer is the archive identifier for the human player
const ParticipantPlayer = "player"

// MaxAIPlayers caps how many AI opponents share the table
const MaxAIPlayers = 3

// Config carries everything needed to start a game
type Config struct {
	DeckCount     int
	AIPlayerCount int
	StartingChips int64
	Rand          *rand.Rand       // nil means time-seeded
	Repo          round.Repository // nil disables archiving
	Logger        *logging.Logger  // nil means the default logger
}

// HandResult describes one settled hand in a round summary
type HandResult struct {
	Participant string
	Label       string
	Outcome     entities.Outcome
	Bet         int64
	Payout      int64
	Message     string
}

// RoundSummary is what Settle hands back to the caller
type RoundSummary struct {
	Result *entities.RoundResult
	Hands  []HandResult
}

// Game orchestrates one table: the human player, the dealer, up to three
// AI opponents, and the shared shoe. All methods mutate the game only on
// success; an illegal call reports IllegalAction and leaves every
// participant untouched. Game is not safe for concurrent use.
type Game struct {
	id    string
	state State

	shoe      *entities.Shoe
	player    *Player
	dealer    *Dealer
	aiPlayers []*AIPlayer

	betAmount  int64 // the bet placed this round, before doubles
	mainBet    int64
	splitBet   int64
	activeHand HandTarget
	split      bool

	mainDoubled bool
	mainSettled bool // the main hand resolved at deal time (natural)
	mainOutcome entities.Outcome
	mainPayout  int64

	// insurance stakes taken this round, kept for the archive after the
	// bets themselves resolve
	playerInsurance int64
	aiInsurance     map[string]int64

	rng    *rand.Rand
	repo   round.Repository
	logger *logging.Logger
	subs   []func(Event)

	startingChips int64
	aiCount       int
}

// New creates a game from the given configuration
func New(cfg Config) (*Game, error) {
	if cfg.StartingChips <= 0 {
		return nil, types.NewGameError(types.ErrInvalidConfiguration,
			fmt.Sprintf("starting chips must be positive, got %d", cfg.StartingChips))
	}

	shoe, err := entities.NewShoe(cfg.DeckCount, cfg.Rand)
	if err != nil {
		return nil, err
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default
	}

	aiCount := cfg.AIPlayerCount
	if aiCount < 0 {
		aiCount = 0
	}
	if aiCount > MaxAIPlayers {
		aiCount = MaxAIPlayers
	}

	g := &Game{
		id:            uuid.New().String(),
		state:         StateAwaitingBet,
		shoe:          shoe,
		player:        NewPlayer(cfg.StartingChips),
		dealer:        NewDealer(),
		rng:           rng,
		repo:          cfg.Repo,
		logger:        logger,
		startingChips: cfg.StartingChips,
		aiCount:       aiCount,
	}
	g.aiPlayers = newAIPlayers(aiCount, cfg.StartingChips)

	logger.Info("game %s started: %d decks, %d AI players, %d chips",
		g.id, cfg.DeckCount, aiCount, cfg.StartingChips)
	return g, nil
}

func newAIPlayers(count int, chips int64) []*AIPlayer {
	players := make([]*AIPlayer, 0, count)
	for i := 1; i <= count; i++ {
		players = append(players, NewAIPlayer(fmt.Sprintf("AI%d", i), chips))
	}
	return players
}

// ID returns the game's unique identifier
func (g *Game) ID() string { return g.id }

// State returns the current round phase
func (g *Game) State() State { return g.state }

// InsuranceOffered reports whether the round is waiting on an insurance
// decision
func (g *Game) InsuranceOffered() bool { return g.state == StateInsurance }

// Subscribe registers a callback for state-change events. Events are
// delivered synchronously, in registration order.
func (g *Game) Subscribe(fn func(Event)) {
	g.subs = append(g.subs, fn)
}

func (g *Game) publish(e Event) {
	for _, fn := range g.subs {
		fn(e)
	}
}

func (g *Game) illegal(op string) error {
	return types.NewGameError(types.ErrIllegalAction,
		fmt.Sprintf("%s is not allowed in state %s", op, g.state))
}

// PlaceBet places the player's bet for the round. Each AI player then
// bets a random amount between 1 and half its stack; an AI that cannot
// cover its bet sits the round out.
func (g *Game) PlaceBet(amount int64) error {
	if g.state != StateAwaitingBet {
		return g.illegal("placing a bet")
	}
	if amount <= 0 {
		return types.NewGameError(types.ErrIllegalAction,
			fmt.Sprintf("bet must be positive, got %d", amount))
	}

	if err := g.player.Bankroll().PlaceBet(amount); err != nil {
		return err
	}
	g.betAmount = amount
	g.mainBet = amount
	g.splitBet = 0

	for _, ai := range g.aiPlayers {
		hi := ai.Bankroll().Chips() / 2
		if hi < 1 {
			hi = 1
		}
		bet := 1 + g.rng.Int63n(hi)
		if err := ai.Bankroll().PlaceBet(bet); err != nil {
			g.logger.Debug("%s sits out: %v", ai.Nickname(), err)
		}
	}

	g.state = StateDealing
	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
	return nil
}

// Deal deals two cards to the player, the dealer, and each betting AI
// player, in that order. A player natural settles the main hand on the
// spot. A dealer ace opens the insurance phase.
func (g *Game) Deal() error {
	if g.state != StateDealing {
		return g.illegal("dealing")
	}

	g.player.ClearHands()
	g.dealer.ClearHand()
	for _, ai := range g.aiPlayers {
		ai.ClearHand()
	}
	g.activeHand = HandMain
	g.split = false
	g.mainDoubled = false
	g.mainSettled = false
	g.playerInsurance = 0
	g.aiInsurance = nil

	for i := 0; i < 2; i++ {
		g.player.Hand().AddCard(g.shoe.Draw())
	}
	for i := 0; i < 2; i++ {
		g.dealer.Hand().AddCard(g.shoe.Draw())
	}
	for _, ai := range g.aiPlayers {
		if ai.Bankroll().Bet() == 0 {
			continue
		}
		for i := 0; i < 2; i++ {
			ai.Hand().AddCard(g.shoe.Draw())
		}
	}

	g.publish(CardsDealt{
		Player:    g.PlayerState(),
		Dealer:    g.DealerState(),
		AIPlayers: g.AIStates(),
	})

	if g.player.Hand().IsBlackjack() {
		g.settleNatural()
	}

	upCard, _ := g.dealer.UpCard()
	if upCard.IsAce() {
		g.state = StateInsurance
		return nil
	}

	g.advancePastPlayerTurn()
	return nil
}

// settleNatural resolves a player natural immediately against the
// dealer's dealt hand. The main-hand turn is skipped afterwards.
func (g *Game) settleNatural() {
	outcome := ResolveHand(g.player.Hand().Score(), true,
		g.dealer.Hand().Score(), g.dealer.Hand().IsBlackjack())
	payout := Payout(outcome, g.mainBet)

	g.player.Bankroll().Win(payout)
	g.player.Bankroll().ResetBet()
	stats := g.player.Stats()
	stats.RecordRound()
	if outcome == entities.OutcomePush {
		stats.RecordTie()
	} else {
		stats.RecordWin()
	}

	g.mainSettled = true
	g.mainOutcome = outcome
	g.mainPayout = payout
	g.logger.Info("player natural settles %s for %d", outcome, payout)
	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
}

// advancePastPlayerTurn picks the state after the deal or the insurance
// phase: the player's turn, or straight to the AI turns when the main
// hand already settled.
func (g *Game) advancePastPlayerTurn() {
	if g.mainSettled {
		g.state = StateAiTurns
		return
	}
	g.state = StatePlayerTurn
}

// PlaceInsurance buys insurance for half the player's bet, then
// resolves the insurance phase for the whole table
func (g *Game) PlaceInsurance() error {
	if g.state != StateInsurance {
		return g.illegal("placing insurance")
	}
	if err := g.player.Bankroll().PlaceInsurance(g.betAmount / 2); err != nil {
		return err
	}
	g.resolveInsurance()
	return nil
}

// DeclineInsurance refuses insurance and resolves the insurance phase
// for the whole table
func (g *Game) DeclineInsurance() error {
	if g.state != StateInsurance {
		return g.illegal("declining insurance")
	}
	g.resolveInsurance()
	return nil
}

// resolveInsurance lets each betting AI take insurance with probability
// one in three, then checks the dealer's hole card. A dealer natural
// pays every insurance bet double and ends the round on the spot with
// all main bets forfeited.
func (g *Game) resolveInsurance() {
	for _, ai := range g.aiPlayers {
		bank := ai.Bankroll()
		if bank.Bet() == 0 || g.rng.Intn(3) != 0 {
			continue
		}
		if err := bank.PlaceInsurance(bank.Bet() / 2); err != nil {
			g.logger.Debug("%s cannot insure: %v", ai.Nickname(), err)
		}
	}

	g.playerInsurance = g.player.Bankroll().InsuranceBet()
	for _, ai := range g.aiPlayers {
		if stake := ai.Bankroll().InsuranceBet(); stake > 0 {
			if g.aiInsurance == nil {
				g.aiInsurance = make(map[string]int64)
			}
			g.aiInsurance[ai.Nickname()] = stake
		}
	}

	// Insurance bets are on the table; let subscribers see them before
	// they resolve
	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})

	if !g.dealer.Hand().IsBlackjack() {
		g.player.Bankroll().ResetInsurance()
		for _, ai := range g.aiPlayers {
			ai.Bankroll().ResetInsurance()
		}
		g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
		g.advancePastPlayerTurn()
		return
	}

	g.logger.Info("dealer natural, round over")
	g.payInsurance(g.player.Bankroll())
	for _, ai := range g.aiPlayers {
		g.payInsurance(ai.Bankroll())
	}

	g.player.Bankroll().ResetBet()
	g.mainBet = 0
	g.betAmount = 0
	for _, ai := range g.aiPlayers {
		ai.Bankroll().ResetBet()
	}

	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
	g.publish(DealerTurnCompleted{Dealer: g.DealerState()})
	g.endRound()
}

func (g *Game) payInsurance(b *Bankroll) {
	if b.InsuranceBet() > 0 {
		b.Win(b.InsuranceBet() * 2)
	}
	b.ResetInsurance()
}

// Hit draws one card into the chosen hand. Going bust ends that hand's
// turn automatically.
func (g *Game) Hit(target HandTarget) error {
	if g.state != StatePlayerTurn {
		return g.illegal("hitting")
	}
	if target != g.activeHand {
		return types.NewGameError(types.ErrIllegalAction,
			fmt.Sprintf("the %s hand is not in play", target))
	}

	hand := g.player.Hand()
	if target == HandSplit {
		hand = g.player.SplitHand()
	}
	hand.AddCard(g.shoe.Draw())

	if hand.Score().IsBust() {
		g.logger.Debug("player %s hand busts at %d", target, hand.Score().Hard)
		g.advanceHand()
	}
	return nil
}

// Stand ends the active hand's turn
func (g *Game) Stand() error {
	if g.state != StatePlayerTurn {
		return g.illegal("standing")
	}
	g.advanceHand()
	return nil
}

func (g *Game) advanceHand() {
	if g.activeHand == HandMain && g.split {
		g.activeHand = HandSplit
		return
	}
	g.state = StateAiTurns
}

// DoubleDown doubles the bet on an untouched two-card main hand, draws
// exactly one card, and ends the hand's turn. Not offered after a split.
func (g *Game) DoubleDown() error {
	if g.state != StatePlayerTurn {
		return g.illegal("doubling down")
	}
	if g.split {
		return types.NewGameError(types.ErrIllegalAction,
			"cannot double down after splitting")
	}
	if g.player.Hand().Len() != 2 {
		return types.NewGameError(types.ErrIllegalAction,
			"can only double down as the first action on a two-card hand")
	}
	if err := g.player.Bankroll().PlaceBet(g.betAmount); err != nil {
		return err
	}

	g.mainBet += g.betAmount
	g.mainDoubled = true
	g.player.Hand().AddCard(g.shoe.Draw())
	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
	g.advanceHand()
	return nil
}

// Split moves the second of two equal-rank cards into a new hand, deals
// one card to each, and stakes a matching bet on the new hand. The main
// hand plays to completion before the split hand activates.
func (g *Game) Split() error {
	if g.state != StatePlayerTurn {
		return g.illegal("splitting")
	}
	if g.split {
		return types.NewGameError(types.ErrIllegalAction, "hand is already split")
	}
	hand := g.player.Hand()
	if hand.Len() != 2 || hand.cards[0].Rank != hand.cards[1].Rank {
		return types.NewGameError(types.ErrIllegalAction,
			"can only split a two-card hand of equal ranks")
	}
	if err := g.player.Bankroll().PlaceBet(g.betAmount); err != nil {
		return err
	}

	second := hand.cards[1]
	hand.cards = hand.cards[:1]
	g.player.SplitHand().AddCard(second)

	hand.AddCard(g.shoe.Draw())
	g.player.SplitHand().AddCard(g.shoe.Draw())

	g.split = true
	g.splitBet = g.betAmount
	g.activeHand = HandMain

	g.publish(CardsDealt{
		Player:    g.PlayerState(),
		Dealer:    g.DealerState(),
		AIPlayers: g.AIStates(),
	})
	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
	return nil
}

// RunAITurns plays every betting AI player's turn in table order
func (g *Game) RunAITurns() error {
	if g.state != StateAiTurns {
		return g.illegal("running AI turns")
	}

	for _, ai := range g.aiPlayers {
		if ai.Bankroll().Bet() == 0 {
			continue
		}
		PlayAITurn(ai, g.shoe)
	}

	g.state = StateDealerTurn
	g.publish(AiTurnsCompleted{AIPlayers: g.AIStates()})
	return nil
}

// RunDealerTurn draws dealer cards while the hard score is below 17
func (g *Game) RunDealerTurn() error {
	if g.state != StateDealerTurn {
		return g.illegal("running the dealer turn")
	}

	for g.dealer.Hand().Score().Hard < DealerStandScore {
		g.dealer.Hand().AddCard(g.shoe.Draw())
	}

	g.state = StateSettlement
	g.publish(DealerTurnCompleted{Dealer: g.DealerState()})
	return nil
}

// Settle resolves every hand against the dealer, pays out, updates the
// player's statistics, and archives the round. The game then waits for
// the next bet, or ends when the player is out of chips.
func (g *Game) Settle(ctx context.Context) (*RoundSummary, error) {
	if g.state != StateSettlement {
		return nil, g.illegal("settling")
	}

	dealerScore := g.dealer.Hand().Score()
	dealerBJ := g.dealer.Hand().IsBlackjack()

	summary := &RoundSummary{
		Result: &entities.RoundResult{
			ID:              uuid.New().String(),
			CompletedAt:     time.Now().UTC(),
			DealerCards:     cardStrings(g.dealer.Hand().Cards()),
			DealerScore:     dealerScore.Best(),
			DealerBlackjack: dealerBJ,
			DealerBusted:    dealerScore.IsBust(),
		},
	}

	stats := g.player.Stats()
	if g.mainSettled {
		g.appendHandResult(summary, ParticipantPlayer, entities.HandLabelMain,
			g.player.Hand(), g.mainBet, g.mainOutcome, g.mainPayout)
	} else {
		stats.RecordRound()

		mainOutcome := ResolveHand(g.player.Hand().Score(), g.player.Hand().IsBlackjack(),
			dealerScore, dealerBJ)
		mainPayout := Payout(mainOutcome, g.mainBet)
		g.player.Bankroll().Win(mainPayout)
		g.recordOutcome(stats, mainOutcome)
		g.appendHandResult(summary, ParticipantPlayer, entities.HandLabelMain,
			g.player.Hand(), g.mainBet, mainOutcome, mainPayout)

		if g.split {
			splitOutcome := ResolveHand(g.player.SplitHand().Score(), g.player.SplitHand().IsBlackjack(),
				dealerScore, dealerBJ)
			splitPayout := Payout(splitOutcome, g.splitBet)
			g.player.Bankroll().Win(splitPayout)
			g.recordOutcome(stats, splitOutcome)
			g.appendHandResult(summary, ParticipantPlayer, entities.HandLabelSplit,
				g.player.SplitHand(), g.splitBet, splitOutcome, splitPayout)
		}
	}

	for _, ai := range g.aiPlayers {
		bank := ai.Bankroll()
		if bank.Bet() == 0 {
			continue
		}
		outcome := ResolveHand(ai.Hand().Score(), ai.Hand().IsBlackjack(),
			dealerScore, dealerBJ)
		payout := Payout(outcome, bank.Bet())
		g.appendHandResult(summary, ai.Nickname(), entities.HandLabelMain,
			ai.Hand(), bank.Bet(), outcome, payout)
		bank.Win(payout)
		bank.ResetBet()
	}

	g.player.Bankroll().ResetBet()
	g.mainBet = 0
	g.splitBet = 0
	g.betAmount = 0

	if g.repo != nil {
		if err := g.repo.SaveResult(ctx, summary.Result); err != nil {
			g.logger.LogError(types.WrapError(types.ErrStorageError,
				"failed to archive round result", err))
		}
	}

	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
	g.endRound()
	return summary, nil
}

func (g *Game) recordOutcome(stats *Stats, outcome entities.Outcome) {
	switch {
	case outcome.IsWin():
		stats.RecordWin()
	case outcome == entities.OutcomePush:
		stats.RecordTie()
	default:
		stats.RecordLoss()
	}
}

func (g *Game) appendHandResult(summary *RoundSummary, participant, label string,
	hand *Hand, bet int64, outcome entities.Outcome, payout int64) {
	score := hand.Score()
	doubled := participant == ParticipantPlayer && label == entities.HandLabelMain && g.mainDoubled

	// Insurance rides on the main hand only
	var insurance int64
	if label == entities.HandLabelMain {
		if participant == ParticipantPlayer {
			insurance = g.playerInsurance
		} else {
			insurance = g.aiInsurance[participant]
		}
	}

	summary.Result.Hands = append(summary.Result.Hands, &entities.HandRecord{
		ID:           uuid.New().String(),
		Participant:  participant,
		HandLabel:    label,
		Cards:        cardStrings(hand.Cards()),
		Score:        score.Best(),
		Busted:       score.IsBust(),
		Blackjack:    hand.IsBlackjack(),
		DoubledDown:  doubled,
		Bet:          bet,
		Payout:       payout,
		InsuranceBet: insurance,
		Outcome:      outcome,
	})
	summary.Hands = append(summary.Hands, HandResult{
		Participant: participant,
		Label:       label,
		Outcome:     outcome,
		Bet:         bet,
		Payout:      payout,
		Message:     resultMessage(participant, label, outcome, bet, payout),
	})
}

// endRound returns the table to betting, or ends the game when the
// player has no chips left
func (g *Game) endRound() {
	if g.player.Bankroll().Chips() == 0 {
		g.logger.Info("player is out of chips, game over")
		g.state = StateGameOver
		return
	}
	g.state = StateAwaitingBet
}

// Restart resets the player's chips and statistics and replaces the AI
// players with fresh ones. The shoe keeps its current cards.
func (g *Game) Restart() {
	g.player = NewPlayer(g.startingChips)
	g.dealer.ClearHand()
	g.aiPlayers = newAIPlayers(g.aiCount, g.startingChips)
	g.betAmount = 0
	g.mainBet = 0
	g.splitBet = 0
	g.split = false
	g.mainDoubled = false
	g.mainSettled = false
	g.playerInsurance = 0
	g.aiInsurance = nil
	g.activeHand = HandMain
	g.state = StateAwaitingBet
	g.logger.Info("game %s restarted", g.id)
	g.publish(ChipsChanged{Player: g.PlayerState(), AIPlayers: g.AIStates()})
}

// PlayerState returns a value snapshot of the human player
func (g *Game) PlayerState() PlayerState {
	return PlayerState{
		Hand:         snapshotHand(g.player.Hand()),
		SplitHand:    snapshotHand(g.player.SplitHand()),
		HasSplit:     g.split,
		Chips:        g.player.Bankroll().Chips(),
		Bet:          g.mainBet,
		SplitBet:     g.splitBet,
		InsuranceBet: g.player.Bankroll().InsuranceBet(),
		Stats:        *g.player.Stats(),
	}
}

// DealerState returns a value snapshot of the dealer
func (g *Game) DealerState() DealerState {
	return DealerState{Hand: snapshotHand(g.dealer.Hand())}
}

// AIStates returns value snapshots of the AI players in table order
func (g *Game) AIStates() []AIState {
	states := make([]AIState, 0, len(g.aiPlayers))
	for _, ai := range g.aiPlayers {
		states = append(states, AIState{
			Nickname:     ai.Nickname(),
			Hand:         snapshotHand(ai.Hand()),
			Chips:        ai.Bankroll().Chips(),
			Bet:          ai.Bankroll().Bet(),
			InsuranceBet: ai.Bankroll().InsuranceBet(),
		})
	}
	return states
}

func cardStrings(cards []entities.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

func resultMessage(participant, label string, outcome entities.Outcome, bet, payout int64) string {
	name := participant
	if participant == ParticipantPlayer && label == entities.HandLabelSplit {
		name = "player (split hand)"
	}
	switch outcome {
	case entities.OutcomeBlackjack:
		return fmt.Sprintf("%s has blackjack and wins %d chips", name, payout)
	case entities.OutcomeWin:
		return fmt.Sprintf("%s wins %d chips", name, payout)
	case entities.OutcomePush:
		return fmt.Sprintf("%s pushes, %d chips returned", name, payout)
	default:
		return fmt.Sprintf("%s loses %d chips", name, bet)
	}
}
