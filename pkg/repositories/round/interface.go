package round

import (
	"context"
	"time"

	"github.com/fadedpez/sentenza/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_round

// Repository defines storage operations for archived round results
type Repository interface {
	// SaveResult archives a completed round
	SaveResult(ctx context.Context, result *entities.RoundResult) error

	// GetResults returns a participant's archived rounds, newest first,
	// up to limit (0 means no limit)
	GetResults(ctx context.Context, participant string, limit int) ([]*entities.RoundResult, error)

	// GetStatistics aggregates a participant's statistics across all
	// archived rounds
	GetStatistics(ctx context.Context, participant string) (*entities.PlayerStatistics, error)

	// ListParticipants returns every participant with at least one
	// archived hand
	ListParticipants(ctx context.Context) ([]string, error)

	// PruneResults removes rounds completed before the cutoff and
	// returns how many were removed
	PruneResults(ctx context.Context, cutoff time.Time) (int, error)

	// Close closes any resources used by the repository
	Close() error
}
