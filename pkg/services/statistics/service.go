package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/fadedpez/sentenza/pkg/entities"
	"github.com/fadedpez/sentenza/pkg/repositories/round"
)

// Service provides methods for retrieving and processing participant
// statistics over the round archive
type Service struct {
	repository round.Repository
}

// NewService creates a new statistics service
func NewService(repository round.Repository) *Service {
	return &Service{
		repository: repository,
	}
}

// ParticipantRank represents a participant's statistics with ranking
// information
type ParticipantRank struct {
	*entities.PlayerStatistics
	Rank        int     `json:"rank"`
	ProfitRate  float64 `json:"profit_rate"`
	IsTopWinner bool    `json:"is_top_winner"`
}

// Leaderboard is a ranked table of every participant in the archive
type Leaderboard struct {
	Participants []*ParticipantRank `json:"participants"`
	LastUpdated  time.Time          `json:"last_updated"`
}

// GetLeaderboard ranks every archived participant by net profit.
// Participants without a settled hand are left out.
func (s *Service) GetLeaderboard(ctx context.Context) (*Leaderboard, error) {
	participants, err := s.repository.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}

	ranks := make([]*ParticipantRank, 0, len(participants))
	for _, participant := range participants {
		stats, err := s.repository.GetStatistics(ctx, participant)
		if err != nil {
			return nil, err
		}
		if stats.HandsPlayed == 0 {
			continue
		}

		var profitRate float64
		if stats.TotalBet > 0 {
			profitRate = float64(stats.TotalWinnings) / float64(stats.TotalBet)
		}
		ranks = append(ranks, &ParticipantRank{
			PlayerStatistics: stats,
			ProfitRate:       profitRate,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].NetProfit() > ranks[j].NetProfit()
	})

	board := &Leaderboard{Participants: ranks}
	for i, rank := range ranks {
		rank.Rank = i + 1
		if rank.LastUpdated.After(board.LastUpdated) {
			board.LastUpdated = rank.LastUpdated
		}
	}
	if len(ranks) > 0 {
		ranks[0].IsTopWinner = true
	}
	return board, nil
}

// GetParticipantStatistics retrieves one participant's aggregated
// statistics
func (s *Service) GetParticipantStatistics(ctx context.Context, participant string) (*entities.PlayerStatistics, error) {
	return s.repository.GetStatistics(ctx, participant)
}

// GetRecentRounds retrieves a participant's most recent archived rounds
func (s *Service) GetRecentRounds(ctx context.Context, participant string, limit int) ([]*entities.RoundResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repository.GetResults(ctx, participant, limit)
}
