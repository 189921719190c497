package round

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/sentenza/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage. It is
// the default backend; nothing survives a restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	results []*entities.RoundResult
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveResult archives a completed round
func (r *MemoryRepository) SaveResult(ctx context.Context, result *entities.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, result)
	return nil
}

// GetResults retrieves a participant's archived rounds, newest first
func (r *MemoryRepository) GetResults(ctx context.Context, participant string, limit int) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*entities.RoundResult, 0)
	for _, result := range r.results {
		for _, hand := range result.Hands {
			if hand.Participant == participant {
				matched = append(matched, result)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CompletedAt.After(matched[j].CompletedAt)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// GetStatistics aggregates a participant's statistics across all
// archived rounds
func (r *MemoryRepository) GetStatistics(ctx context.Context, participant string) (*entities.PlayerStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &entities.PlayerStatistics{Participant: participant}
	for _, result := range r.results {
		for _, hand := range result.Hands {
			if hand.Participant != participant {
				continue
			}
			accumulate(stats, result, hand)
		}
	}
	return stats, nil
}

// accumulate folds one hand record into the running statistics
func accumulate(stats *entities.PlayerStatistics, result *entities.RoundResult, hand *entities.HandRecord) {
	stats.HandsPlayed++
	stats.TotalBet += hand.Bet
	stats.TotalWinnings += hand.Payout

	switch hand.Outcome {
	case entities.OutcomeWin, entities.OutcomeBlackjack:
		stats.Wins++
	case entities.OutcomeLose:
		stats.Losses++
	case entities.OutcomePush:
		stats.Pushes++
	}
	if hand.Blackjack {
		stats.Blackjacks++
	}
	if hand.Busted {
		stats.Busts++
	}
	if result.CompletedAt.After(stats.LastUpdated) {
		stats.LastUpdated = result.CompletedAt
	}
}

// ListParticipants returns every participant with at least one archived
// hand
func (r *MemoryRepository) ListParticipants(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	participants := make([]string, 0)
	for _, result := range r.results {
		for _, hand := range result.Hands {
			if _, ok := seen[hand.Participant]; ok {
				continue
			}
			seen[hand.Participant] = struct{}{}
			participants = append(participants, hand.Participant)
		}
	}
	sort.Strings(participants)
	return participants, nil
}

// PruneResults removes rounds completed before the cutoff
func (r *MemoryRepository) PruneResults(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.results[:0]
	removed := 0
	for _, result := range r.results {
		if result.CompletedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, result)
	}
	r.results = kept
	return removed, nil
}

// Close is a no-op for the in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
