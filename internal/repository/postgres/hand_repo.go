package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelis/millebot/internal/model"
)

// HandRepo handles per-hand result database operations.
type HandRepo struct {
	db *sql.DB
}

// NewHandRepo creates a HandRepo.
func NewHandRepo(db *sql.DB) *HandRepo {
	return &HandRepo{db: db}
}

// SaveHand inserts one scored hand, filling in its generated ID and timestamp.
func (r *HandRepo) SaveHand(ctx context.Context, hand *model.Hand) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO hands (match_id, number, completed_by, turns_elapsed, deck_exhausted, scores)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		hand.MatchID, hand.Number, hand.CompletedBy, hand.TurnsElapsed, hand.DeckExhausted, hand.Scores,
	).Scan(&hand.ID, &hand.CreatedAt)
	if err != nil {
		return fmt.Errorf("save hand: %w", err)
	}
	return nil
}

// ListByMatch returns all hands of a match in play order.
func (r *HandRepo) ListByMatch(ctx context.Context, matchID string) ([]model.Hand, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, match_id, number, completed_by, turns_elapsed, deck_exhausted, scores, created_at
		 FROM hands WHERE match_id = $1 ORDER BY number`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list hands: %w", err)
	}
	defer rows.Close()

	var hands []model.Hand
	for rows.Next() {
		var h model.Hand
		if err := rows.Scan(&h.ID, &h.MatchID, &h.Number, &h.CompletedBy, &h.TurnsElapsed, &h.DeckExhausted, &h.Scores, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hand: %w", err)
		}
		hands = append(hands, h)
	}
	return hands, rows.Err()
}
