package repository

import (
	"context"
	"encoding/json"

	"github.com/avelis/millebot/internal/model"
)

// MatchRepository defines match data operations.
type MatchRepository interface {
	Create(ctx context.Context, name string, pointsToWin int, seed int64, players []model.MatchPlayer) (*model.Match, error)
	FindByID(ctx context.Context, id string) (*model.Match, error)
	ListRecent(ctx context.Context, limit int) ([]model.Match, error)
	SetFinished(ctx context.Context, id string, winnerTeam int, winnerStrategy string) error
}

// HandRepository defines per-hand result operations.
type HandRepository interface {
	SaveHand(ctx context.Context, hand *model.Hand) error
	ListByMatch(ctx context.Context, matchID string) ([]model.Hand, error)
}

// Leaderboard defines live strategy-standings operations (Redis).
type Leaderboard interface {
	RecordResult(ctx context.Context, strategy string, won bool) error
	TopStrategies(ctx context.Context, limit int) ([]StrategyStanding, error)
	PushRecentResult(ctx context.Context, result json.RawMessage) error
	RecentResults(ctx context.Context, limit int) ([]json.RawMessage, error)
	SetLiveState(ctx context.Context, matchID string, state json.RawMessage) error
	GetLiveState(ctx context.Context, matchID string) (json.RawMessage, error)
}

// StrategyStanding is one leaderboard row.
type StrategyStanding struct {
	Strategy string
	Wins     int64
	Games    int64
}
