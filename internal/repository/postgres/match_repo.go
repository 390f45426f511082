package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelis/millebot/internal/model"
)

// MatchRepo handles match and match_player database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Create inserts a new match and its seats.
func (r *MatchRepo) Create(ctx context.Context, name string, pointsToWin int, seed int64, players []model.MatchPlayer) (*model.Match, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create match: %w", err)
	}
	defer tx.Rollback()

	var m model.Match
	err = tx.QueryRowContext(ctx,
		`INSERT INTO matches (name, status, points_to_win, seed)
		 VALUES ($1, 'running', $2, $3)
		 RETURNING id, name, status, points_to_win, seed, created_at`,
		name, pointsToWin, seed,
	).Scan(&m.ID, &m.Name, &m.Status, &m.PointsToWin, &m.Seed, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	m.WinnerTeam = -1

	for _, p := range players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, seat, team, strategy) VALUES ($1, $2, $3, $4)`,
			m.ID, p.Seat, p.Team, p.Strategy,
		); err != nil {
			return nil, fmt.Errorf("create match player %d: %w", p.Seat, err)
		}
		p.MatchID = m.ID
		m.Players = append(m.Players, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create match: %w", err)
	}
	return &m, nil
}

// FindByID returns a match by ID with its seats.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	var winnerTeam sql.NullInt64
	var winnerStrategy sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, status, winner_team, winner_strategy, points_to_win, seed, created_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Status, &winnerTeam, &winnerStrategy, &m.PointsToWin, &m.Seed, &m.CreatedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m.WinnerTeam = matchWinner(winnerTeam)
	m.WinnerStrategy = winnerStrategy.String

	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, seat, team, strategy FROM match_players WHERE match_id = $1 ORDER BY seat`, id)
	if err != nil {
		return nil, fmt.Errorf("list match players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.MatchPlayer
		if err := rows.Scan(&p.MatchID, &p.Seat, &p.Team, &p.Strategy); err != nil {
			return nil, fmt.Errorf("scan match player: %w", err)
		}
		m.Players = append(m.Players, p)
	}
	return &m, rows.Err()
}

// ListRecent returns the most recently created matches.
func (r *MatchRepo) ListRecent(ctx context.Context, limit int) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, status, winner_team, winner_strategy, points_to_win, seed, created_at, finished_at
		 FROM matches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var winnerTeam sql.NullInt64
		var winnerStrategy sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Status, &winnerTeam, &winnerStrategy, &m.PointsToWin, &m.Seed, &m.CreatedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.WinnerTeam = matchWinner(winnerTeam)
		m.WinnerStrategy = winnerStrategy.String
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// matchWinner maps an unfinished match's NULL winner to -1.
func matchWinner(v sql.NullInt64) int {
	if !v.Valid {
		return -1
	}
	return int(v.Int64)
}

// SetFinished marks a match finished with its winner.
func (r *MatchRepo) SetFinished(ctx context.Context, id string, winnerTeam int, winnerStrategy string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = 'finished', winner_team = $2, winner_strategy = $3, finished_at = now()
		 WHERE id = $1`, id, winnerTeam, winnerStrategy)
	if err != nil {
		return fmt.Errorf("set match finished: %w", err)
	}
	return nil
}
