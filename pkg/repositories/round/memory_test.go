package round

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/sentenza/pkg/entities"
)

func roundFor(id, participant string, completedAt time.Time, outcome entities.Outcome, bet, payout int64) *entities.RoundResult {
	return &entities.RoundResult{
		ID:          id,
		CompletedAt: completedAt,
		DealerCards: []string{"K of HEARTS", "7 of CLUBS"},
		DealerScore: 17,
		Hands: []*entities.HandRecord{
			{
				ID:          id + "-hand",
				Participant: participant,
				HandLabel:   entities.HandLabelMain,
				Cards:       []string{"10 of SPADES", "9 of HEARTS"},
				Score:       19,
				Bet:         bet,
				Payout:      payout,
				Outcome:     outcome,
			},
		},
	}
}

func TestMemoryRepositoryResults(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveResult(ctx, roundFor("r1", "player", base, entities.OutcomeWin, 10, 20)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("r2", "player", base.Add(time.Hour), entities.OutcomeLose, 10, 0)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("r3", "AI1", base.Add(2*time.Hour), entities.OutcomePush, 5, 5)))

	results, err := repo.GetResults(ctx, "player", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "r2", results[0].ID, "newest first")
	assert.Equal(t, "r1", results[1].ID)

	limited, err := repo.GetResults(ctx, "player", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "r2", limited[0].ID)

	none, err := repo.GetResults(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryRepositoryStatistics(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveResult(ctx, roundFor("r1", "player", base, entities.OutcomeWin, 10, 20)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("r2", "player", base.Add(time.Hour), entities.OutcomeLose, 10, 0)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("r3", "player", base.Add(2*time.Hour), entities.OutcomePush, 10, 10)))

	blackjack := roundFor("r4", "player", base.Add(3*time.Hour), entities.OutcomeBlackjack, 10, 20)
	blackjack.Hands[0].Blackjack = true
	require.NoError(t, repo.SaveResult(ctx, blackjack))

	stats, err := repo.GetStatistics(ctx, "player")
	require.NoError(t, err)
	assert.Equal(t, "player", stats.Participant)
	assert.Equal(t, 4, stats.HandsPlayed)
	assert.Equal(t, 2, stats.Wins, "a blackjack counts as a win")
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Pushes)
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, int64(40), stats.TotalBet)
	assert.Equal(t, int64(50), stats.TotalWinnings)
	assert.Equal(t, int64(10), stats.NetProfit())
	assert.Equal(t, 50.0, stats.WinRate())
	assert.Equal(t, base.Add(3*time.Hour), stats.LastUpdated)

	empty, err := repo.GetStatistics(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.HandsPlayed)
	assert.Equal(t, 0.0, empty.WinRate())
}

func TestMemoryRepositoryListParticipants(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.SaveResult(ctx, roundFor("r1", "player", base, entities.OutcomeWin, 10, 20)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("r2", "AI2", base, entities.OutcomeLose, 5, 0)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("r3", "AI1", base, entities.OutcomeLose, 5, 0)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("r4", "player", base, entities.OutcomeLose, 10, 0)))

	participants, err := repo.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AI1", "AI2", "player"}, participants)
}

func TestMemoryRepositoryPrune(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveResult(ctx, roundFor("old1", "player", base, entities.OutcomeWin, 10, 20)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("old2", "player", base.Add(time.Hour), entities.OutcomeLose, 10, 0)))
	require.NoError(t, repo.SaveResult(ctx, roundFor("new1", "player", base.Add(48*time.Hour), entities.OutcomeWin, 10, 20)))

	removed, err := repo.PruneResults(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	results, err := repo.GetResults(ctx, "player", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new1", results[0].ID)

	removed, err = repo.PruneResults(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
