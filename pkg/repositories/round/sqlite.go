package round

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/sentenza/pkg/entities"
)

// SQLite table schemas
const (
	createRoundResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS round_results (
		id TEXT PRIMARY KEY,
		completed_at TIMESTAMP NOT NULL,
		dealer_cards TEXT NOT NULL,  -- JSON array of card strings
		dealer_score INTEGER NOT NULL,
		dealer_blackjack BOOLEAN NOT NULL,
		dealer_busted BOOLEAN NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_round_results_completed ON round_results(completed_at)`

	createHandRecordsTableSQL = `
	CREATE TABLE IF NOT EXISTS hand_records (
		id TEXT PRIMARY KEY,
		round_result_id TEXT NOT NULL,
		participant TEXT NOT NULL,
		hand_label TEXT NOT NULL,
		cards TEXT NOT NULL,  -- JSON array of card strings
		score INTEGER NOT NULL,
		busted BOOLEAN NOT NULL,
		blackjack BOOLEAN NOT NULL,
		doubled_down BOOLEAN NOT NULL,
		bet INTEGER NOT NULL,
		payout INTEGER NOT NULL,
		insurance_bet INTEGER,
		outcome TEXT NOT NULL,
		FOREIGN KEY (round_result_id) REFERENCES round_results(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_hand_records_participant ON hand_records(participant);
	CREATE INDEX IF NOT EXISTS idx_hand_records_round ON hand_records(round_result_id)`
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository at the given path,
// creating the directory and schema as needed
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, schema := range []string{createRoundResultsTableSQL, createHandRecordsTableSQL} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveResult archives a completed round and its hand records in one
// transaction
func (r *SQLiteRepository) SaveResult(ctx context.Context, result *entities.RoundResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dealerCards, err := json.Marshal(result.DealerCards)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO round_results (
			id, completed_at, dealer_cards, dealer_score, dealer_blackjack, dealer_busted
		) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		result.ID, result.CompletedAt, dealerCards,
		result.DealerScore, result.DealerBlackjack, result.DealerBusted)
	if err != nil {
		return err
	}

	for _, hand := range result.Hands {
		cards, err := json.Marshal(hand.Cards)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO hand_records (
				id, round_result_id, participant, hand_label, cards, score,
				busted, blackjack, doubled_down, bet, payout, insurance_bet, outcome
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err = tx.ExecContext(ctx, query,
			hand.ID, result.ID, hand.Participant, hand.HandLabel, cards, hand.Score,
			hand.Busted, hand.Blackjack, hand.DoubledDown,
			hand.Bet, hand.Payout, hand.InsuranceBet, string(hand.Outcome))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetResults retrieves a participant's archived rounds, newest first
func (r *SQLiteRepository) GetResults(ctx context.Context, participant string, limit int) ([]*entities.RoundResult, error) {
	query := `
		SELECT DISTINCT rr.id, rr.completed_at, rr.dealer_cards, rr.dealer_score,
			   rr.dealer_blackjack, rr.dealer_busted
		FROM round_results rr
		JOIN hand_records hr ON rr.id = hr.round_result_id
		WHERE hr.participant = ?
		ORDER BY rr.completed_at DESC`
	args := []interface{}{participant}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*entities.RoundResult, 0)
	for rows.Next() {
		var (
			result      entities.RoundResult
			dealerCards []byte
		)
		err := rows.Scan(&result.ID, &result.CompletedAt, &dealerCards,
			&result.DealerScore, &result.DealerBlackjack, &result.DealerBusted)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dealerCards, &result.DealerCards); err != nil {
			return nil, err
		}

		hands, err := r.getHands(ctx, result.ID)
		if err != nil {
			return nil, err
		}
		result.Hands = hands
		results = append(results, &result)
	}
	return results, rows.Err()
}

func (r *SQLiteRepository) getHands(ctx context.Context, roundID string) ([]*entities.HandRecord, error) {
	query := `
		SELECT id, participant, hand_label, cards, score, busted, blackjack,
			   doubled_down, bet, payout, insurance_bet, outcome
		FROM hand_records
		WHERE round_result_id = ?`

	rows, err := r.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hands := make([]*entities.HandRecord, 0)
	for rows.Next() {
		var (
			hand         entities.HandRecord
			cards        []byte
			insuranceBet sql.NullInt64
			outcome      string
		)
		err := rows.Scan(&hand.ID, &hand.Participant, &hand.HandLabel, &cards,
			&hand.Score, &hand.Busted, &hand.Blackjack, &hand.DoubledDown,
			&hand.Bet, &hand.Payout, &insuranceBet, &outcome)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(cards, &hand.Cards); err != nil {
			return nil, err
		}
		hand.InsuranceBet = insuranceBet.Int64
		hand.Outcome = entities.Outcome(outcome)
		hands = append(hands, &hand)
	}
	return hands, rows.Err()
}

// GetStatistics aggregates a participant's statistics with a single
// query over the hand records
func (r *SQLiteRepository) GetStatistics(ctx context.Context, participant string) (*entities.PlayerStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN hr.outcome IN ('WIN', 'BLACKJACK') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN hr.outcome = 'LOSE' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN hr.outcome = 'PUSH' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN hr.blackjack THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN hr.busted THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(hr.bet), 0),
			COALESCE(SUM(hr.payout), 0),
			MAX(rr.completed_at)
		FROM hand_records hr
		JOIN round_results rr ON rr.id = hr.round_result_id
		WHERE hr.participant = ?`

	stats := &entities.PlayerStatistics{Participant: participant}
	var lastUpdated sql.NullTime
	err := r.db.QueryRowContext(ctx, query, participant).Scan(
		&stats.HandsPlayed, &stats.Wins, &stats.Losses, &stats.Pushes,
		&stats.Blackjacks, &stats.Busts, &stats.TotalBet, &stats.TotalWinnings,
		&lastUpdated)
	if err != nil {
		return nil, err
	}
	if lastUpdated.Valid {
		stats.LastUpdated = lastUpdated.Time
	}
	return stats, nil
}

// ListParticipants returns every participant with at least one archived
// hand
func (r *SQLiteRepository) ListParticipants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT participant FROM hand_records ORDER BY participant`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// PruneResults removes rounds completed before the cutoff. Hand records
// cascade with their round.
func (r *SQLiteRepository) PruneResults(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// CASCADE needs foreign keys on; delete hands explicitly instead
	_, err = tx.ExecContext(ctx, `
		DELETE FROM hand_records
		WHERE round_result_id IN (SELECT id FROM round_results WHERE completed_at < ?)`,
		cutoff)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM round_results WHERE completed_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(removed), nil
}

// Close closes the underlying database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
