package model

import (
	"encoding/json"
	"time"
)

// Match represents one bot-vs-bot Mille Bornes match.
type Match struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Status         string        `json:"status"` // running, finished
	WinnerTeam     int           `json:"winner_team"`
	WinnerStrategy string        `json:"winner_strategy,omitempty"`
	PointsToWin    int           `json:"points_to_win"`
	Seed           int64         `json:"seed"`
	CreatedAt      time.Time     `json:"created_at"`
	FinishedAt     *time.Time    `json:"finished_at,omitempty"`
	Players        []MatchPlayer `json:"players,omitempty"`
}

// MatchPlayer records which strategy sat where.
type MatchPlayer struct {
	MatchID  string `json:"match_id"`
	Seat     int    `json:"seat"`
	Team     int    `json:"team"`
	Strategy string `json:"strategy"`
}

// Hand represents one scored hand within a match.
type Hand struct {
	ID            string          `json:"id"`
	MatchID       string          `json:"match_id"`
	Number        int             `json:"number"`
	CompletedBy   int             `json:"completed_by"` // team number, -1 if the hand ran out
	TurnsElapsed  int             `json:"turns_elapsed"`
	DeckExhausted bool            `json:"deck_exhausted"`
	Scores        json.RawMessage `json:"scores"`
	CreatedAt     time.Time       `json:"created_at"`
}
