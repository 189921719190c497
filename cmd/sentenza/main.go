package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fadedpez/sentenza/internal/config"
	"github.com/fadedpez/sentenza/internal/logging"
	"github.com/fadedpez/sentenza/pkg/entities"
	"github.com/fadedpez/sentenza/pkg/repositories/round"
	"github.com/fadedpez/sentenza/pkg/scheduler"
	"github.com/fadedpez/sentenza/pkg/services/blackjack"
	"github.com/fadedpez/sentenza/pkg/services/statistics"
)

// archiveRetention is how long settled rounds stay in the archive
const archiveRetention = 90 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	repo := buildRepository(cfg, logger)
	defer repo.Close()

	game, err := blackjack.New(blackjack.Config{
		DeckCount:     cfg.DeckCount,
		AIPlayerCount: cfg.AIPlayerCount,
		StartingChips: cfg.StartingChips,
		Repo:          repo,
		Logger:        logger,
	})
	if err != nil {
		logger.LogError(err)
		os.Exit(1)
	}
	game.Subscribe(renderEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(logger)
	sched.AddTask("prune-archive", 24*time.Hour, func(ctx context.Context) error {
		removed, err := repo.PruneResults(ctx, time.Now().Add(-archiveRetention))
		if err != nil {
			return err
		}
		if removed > 0 {
			logger.Info("pruned %d archived rounds", removed)
		}
		return nil
	})
	sched.Start(ctx)
	defer sched.Stop()

	stats := statistics.NewService(repo)
	runTable(ctx, game, stats, repo)
}

// buildRepository picks the archive backend from the configuration,
// falling back to memory when a backend cannot be reached
func buildRepository(cfg *config.Config, logger *logging.Logger) round.Repository {
	switch cfg.StorageType {
	case config.StorageSQLite:
		repo, err := round.NewSQLiteRepository(cfg.DatabasePath())
		if err != nil {
			logger.Warn("sqlite unavailable (%v), falling back to memory", err)
			return round.NewMemoryRepository()
		}
		logger.Info("archiving rounds to %s", cfg.DatabasePath())
		return repo

	case config.StorageElasticsearch:
		var base round.Repository
		base, err := round.NewSQLiteRepository(cfg.DatabasePath())
		if err != nil {
			logger.Warn("sqlite unavailable (%v), using memory as the base store", err)
			base = round.NewMemoryRepository()
		}
		esCfg := round.DefaultElasticsearchConfig()
		esCfg.URL = cfg.ElasticsearchURL
		repo, err := round.NewElasticsearchRepository(base, esCfg, logger)
		if err != nil {
			logger.Warn("elasticsearch unavailable (%v), continuing without indexing", err)
			return base
		}
		logger.Info("indexing rounds into %s", cfg.ElasticsearchURL)
		return repo

	default:
		logger.Info("using in-memory archive, rounds are lost on exit")
		return round.NewMemoryRepository()
	}
}

func runTable(ctx context.Context, game *blackjack.Game, stats *statistics.Service, repo round.Repository) {
	fmt.Println("sentenza blackjack. Commands: bet <n>, hit [split], stand, double, split,")
	fmt.Println("insure, decline, stats, top, history, restart, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] > ", strings.ToLower(string(game.State())))
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "bet":
			if len(fields) != 2 {
				fmt.Println("usage: bet <amount>")
				continue
			}
			var amount int64
			amount, err = strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Println("usage: bet <amount>")
				continue
			}
			if err = game.PlaceBet(amount); err == nil {
				err = game.Deal()
			}
		case "hit":
			target := blackjack.HandMain
			if len(fields) > 1 && fields[1] == "split" {
				target = blackjack.HandSplit
			}
			err = game.Hit(target)
		case "stand":
			err = game.Stand()
		case "double":
			err = game.DoubleDown()
		case "split":
			err = game.Split()
		case "insure":
			err = game.PlaceInsurance()
		case "decline":
			err = game.DeclineInsurance()
		case "stats":
			printStats(ctx, stats, blackjack.ParticipantPlayer)
			continue
		case "top":
			printLeaderboard(ctx, stats)
			continue
		case "history":
			printHistory(ctx, repo, stats, blackjack.ParticipantPlayer)
			continue
		case "restart":
			game.Restart()
			continue
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
			continue
		}

		if err != nil {
			fmt.Printf("cannot do that: %v\n", err)
			continue
		}
		finishRound(ctx, game)

		if game.State() == blackjack.StateGameOver {
			fmt.Println("out of chips. Type restart to play again.")
		}
	}
}

// finishRound runs the automatic phases once the player is done acting
func finishRound(ctx context.Context, game *blackjack.Game) {
	if game.State() == blackjack.StateAiTurns {
		if err := game.RunAITurns(); err != nil {
			return
		}
	}
	if game.State() == blackjack.StateDealerTurn {
		if err := game.RunDealerTurn(); err != nil {
			return
		}
	}
	if game.State() != blackjack.StateSettlement {
		return
	}

	summary, err := game.Settle(ctx)
	if err != nil {
		fmt.Printf("settlement failed: %v\n", err)
		return
	}
	for _, hand := range summary.Hands {
		fmt.Println(hand.Message)
	}
}

func renderEvent(e blackjack.Event) {
	switch ev := e.(type) {
	case blackjack.CardsDealt:
		printHand("dealer", ev.Dealer.Hand)
		printHand("player", ev.Player.Hand)
		if ev.Player.HasSplit {
			printHand("player (split)", ev.Player.SplitHand)
		}
		for _, ai := range ev.AIPlayers {
			printHand(ai.Nickname, ai.Hand)
		}
	case blackjack.AiTurnsCompleted:
		for _, ai := range ev.AIPlayers {
			printHand(ai.Nickname, ai.Hand)
		}
	case blackjack.DealerTurnCompleted:
		printHand("dealer", ev.Dealer.Hand)
	case blackjack.ChipsChanged:
		fmt.Printf("  chips: player %d", ev.Player.Chips)
		for _, ai := range ev.AIPlayers {
			fmt.Printf(", %s %d", ai.Nickname, ai.Chips)
		}
		fmt.Println()
	}
}

func printHand(name string, hand blackjack.HandState) {
	if len(hand.Cards) == 0 {
		return
	}
	cards := make([]string, 0, len(hand.Cards))
	for _, c := range hand.Cards {
		cards = append(cards, c.String())
	}
	note := ""
	if hand.Blackjack {
		note = " blackjack!"
	} else if hand.Busted {
		note = " bust"
	}
	fmt.Printf("  %s: %s (%d)%s\n", name, strings.Join(cards, ", "), hand.Best, note)
}

func printStats(ctx context.Context, stats *statistics.Service, participant string) {
	s, err := stats.GetParticipantStatistics(ctx, participant)
	if err != nil {
		fmt.Printf("stats unavailable: %v\n", err)
		return
	}
	fmt.Printf("hands %d, wins %d, losses %d, pushes %d, blackjacks %d, net %+d\n",
		s.HandsPlayed, s.Wins, s.Losses, s.Pushes, s.Blackjacks, s.NetProfit())
}

// printHistory lists the player's recent rounds. An Elasticsearch
// archive answers from its index; anything else reads the source of
// truth through the statistics service.
func printHistory(ctx context.Context, repo round.Repository, stats *statistics.Service, participant string) {
	const historyLimit = 10

	var rounds []*entities.RoundResult
	var err error
	if es, ok := repo.(*round.ElasticsearchRepository); ok {
		rounds, err = es.SearchByParticipant(ctx, participant, historyLimit)
	} else {
		rounds, err = stats.GetRecentRounds(ctx, participant, historyLimit)
	}
	if err != nil {
		fmt.Printf("history unavailable: %v\n", err)
		return
	}
	if len(rounds) == 0 {
		fmt.Println("no settled rounds yet")
		return
	}

	for _, r := range rounds {
		fmt.Printf("%s dealer %d", r.CompletedAt.Local().Format("Jan 2 15:04"), r.DealerScore)
		for _, hand := range r.Hands {
			if hand.Participant != participant {
				continue
			}
			fmt.Printf(" | %s %s %d for %+d", hand.HandLabel, hand.Outcome, hand.Bet, hand.Payout-hand.Bet)
		}
		fmt.Println()
	}
}

func printLeaderboard(ctx context.Context, stats *statistics.Service) {
	board, err := stats.GetLeaderboard(ctx)
	if err != nil {
		fmt.Printf("leaderboard unavailable: %v\n", err)
		return
	}
	if len(board.Participants) == 0 {
		fmt.Println("no settled rounds yet")
		return
	}
	for _, p := range board.Participants {
		fmt.Printf("%2d. %-10s net %+d (%d hands, %.0f%% wins)\n",
			p.Rank, p.Participant, p.NetProfit(), p.HandsPlayed, p.WinRate())
	}
}
